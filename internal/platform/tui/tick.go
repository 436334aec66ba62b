// Package tui provides the Bubble Tea inspector for a running engine.
// It lists the managers of an app.App, the entries of the selected manager
// and their property values, and can step the scene live.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to advance the live scene by one frame.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends one tick after a frame.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
