// Package tui hosts runs in a terminal with Bubble Tea: the run screen,
// the history table, and the SSH server that serves both.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to advance the run by one simulation step.
type TickMsg time.Time

// tickCmd returns a command that sends a TickMsg after tickMs milliseconds.
func tickCmd(tickMs int64) tea.Cmd {
	return tea.Tick(time.Duration(tickMs)*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
