// Package debug implements the engine's debug trap.
//
// A trap marks a programming error (wrong property type, AddRef on an unbound
// handle, refcount underflow). Shipping builds log and continue; builds with
// the zdebug tag, or processes that call Enable, panic so the defect surfaces
// during development.
package debug

import (
	"fmt"
	"sync/atomic"
)

var enabled atomic.Bool

func init() {
	enabled.Store(defaultEnabled)
}

// TrapError is the panic value raised by Trap.
type TrapError struct {
	Msg string
}

func (e TrapError) Error() string {
	return "debug trap: " + e.Msg
}

// Enabled reports whether traps panic.
func Enabled() bool {
	return enabled.Load()
}

// Enable switches traps on or off and returns a func restoring the previous state.
func Enable(on bool) (restore func()) {
	prev := enabled.Swap(on)
	return func() { enabled.Store(prev) }
}

// Trap panics with a TrapError when traps are enabled.
// The caller is expected to have logged the failure already.
func Trap(format string, args ...any) {
	if !enabled.Load() {
		return
	}
	panic(TrapError{Msg: fmt.Sprintf(format, args...)})
}
