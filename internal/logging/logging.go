// Package logging builds the prefixed charmbracelet loggers used across the engine.
// Loggers are created per component ("sprite", "resource") from shared options,
// so Configure must run before the application context is constructed.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu     sync.RWMutex
	output io.Writer = os.Stderr
	level            = log.InfoLevel
	stamps           = true
)

// Configure sets the writer and level used by loggers created afterwards.
// An empty levelName keeps the current level.
func Configure(w io.Writer, levelName string) error {
	mu.Lock()
	defer mu.Unlock()

	if w != nil {
		output = w
	}
	if levelName != "" {
		lvl, err := log.ParseLevel(levelName)
		if err != nil {
			return err
		}
		level = lvl
	}
	return nil
}

// SetTimestamps toggles timestamps on loggers created afterwards.
func SetTimestamps(on bool) {
	mu.Lock()
	stamps = on
	mu.Unlock()
}

// New returns a logger tagged with the component prefix.
func New(prefix string) *log.Logger {
	mu.RLock()
	defer mu.RUnlock()

	return log.NewWithOptions(output, log.Options{
		ReportTimestamp: stamps,
		Prefix:          prefix,
		Level:           level,
	})
}

// Nop returns a logger that discards everything. Used by tests and by
// components constructed without a logger.
func Nop() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
