package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/mergerun-td/internal/core"
)

// KeyMap defines the run-screen key bindings.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Select    key.Binding
	Cancel    key.Binding
	Slot1     key.Binding
	Slot2     key.Binding
	Slot3     key.Binding
	Reroll    key.Binding
	Sell      key.Binding
	Retry     key.Binding
	NextStage key.Binding
	Pause     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Slot1, k.Reroll, k.Sell, k.Pause, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Select, k.Cancel, k.Sell},
		{k.Slot1, k.Slot2, k.Slot3, k.Reroll},
		{k.Retry, k.NextStage, k.Pause, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default run-screen bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w", "k"),
			key.WithHelp("↑/w", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s", "j"),
			key.WithHelp("↓/s", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("→/d", "right"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "pick/merge"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "drop selection"),
		),
		Slot1: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1-3", "buy/upgrade"),
		),
		Slot2: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "slot 2"),
		),
		Slot3: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "slot 3"),
		),
		Reroll: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reroll"),
		),
		Sell: key.NewBinding(
			key.WithKeys("x", "backspace"),
			key.WithHelp("x", "sell"),
		),
		Retry: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "retry stage"),
		),
		NextStage: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next stage"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Action translates a key message to a run-screen action.
func (k KeyMap) Action(msg tea.KeyMsg) core.Action {
	bindings := []struct {
		b key.Binding
		a core.Action
	}{
		{k.Quit, core.ActionQuit},
		{k.Up, core.ActionCursorUp},
		{k.Down, core.ActionCursorDown},
		{k.Left, core.ActionCursorLeft},
		{k.Right, core.ActionCursorRight},
		{k.Select, core.ActionSelect},
		{k.Cancel, core.ActionCancel},
		{k.Slot1, core.ActionSlot1},
		{k.Slot2, core.ActionSlot2},
		{k.Slot3, core.ActionSlot3},
		{k.Reroll, core.ActionReroll},
		{k.Sell, core.ActionSell},
		{k.Retry, core.ActionRetry},
		{k.NextStage, core.ActionNextStage},
		{k.Pause, core.ActionPause},
		{k.Help, core.ActionHelp},
	}
	for _, kb := range bindings {
		if key.Matches(msg, kb.b) {
			return kb.a
		}
	}
	return core.ActionNone
}
