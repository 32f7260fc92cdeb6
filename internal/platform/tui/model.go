package tui

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mergerun-td/internal/core"
	"github.com/vovakirdan/mergerun-td/internal/engine"
	"github.com/vovakirdan/mergerun-td/internal/session"
	"github.com/vovakirdan/mergerun-td/internal/storage"
)

// Model is the Bubble Tea model for the run screen.
// It ticks the session only while the run is active (not paused, not ended).
type Model struct {
	sess     *session.Session
	store    *storage.Store
	config   core.RuntimeConfig
	logger   *log.Logger
	keys     KeyMap
	help     help.Model
	input    core.InputFrame
	grid     core.Grid
	cursor   int
	selected int // board cell picked up for a merge, -1 if none
	message  string
	paused   bool
	ticking  bool // a TickMsg is in flight
	quitting bool
	width    int
	height   int
}

// NewModel creates a run screen for a new run on e.
// Finished runs are saved to store when it is not nil.
func NewModel(e *engine.Engine, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) Model {
	cfg = cfg.Normalize()
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := Model{
		store:    store,
		config:   cfg,
		logger:   logger,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		input:    core.NewInputFrame(),
		selected: -1,
		ticking:  true,
		width:    cfg.ScreenW,
		height:   cfg.ScreenH,
	}
	m.help.Width = cfg.ScreenW

	player := cfg.Player
	m.sess = session.New(e, session.Options{
		Stage:  cfg.Stage,
		Seed:   m.nextSeed(),
		TickMs: cfg.TickMs,
		Logger: logger,
		OnEnd: func(r session.Result) {
			recordRun(store, logger, player, r, resultName(r.End))
		},
	})

	st := m.sess.State()
	m.grid = core.Grid{Rows: st.Board.Rows, Cols: st.Board.Cols, CellW: cellW, CellH: cellH}
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickMs)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		a := m.keys.Action(msg)
		if a == core.ActionNone {
			return m, nil
		}
		m.input.Set(a)
		cmd := m.flushInput()
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleTick advances the run by one step, or lets the loop lapse when
// the run is not active.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if !m.active() {
		m.ticking = false
		return m, nil
	}

	res := m.sess.Step()
	for _, ev := range res.Events {
		if ev.Kind == engine.EventUpgradeApplied && ev.Auto {
			m.message = "Auto picked: " + ev.Upgrade
		}
	}
	m.validateSelection(res.State)

	if res.State.Ended() {
		m.ticking = false
		return m, nil
	}
	return m, tickCmd(m.config.TickMs)
}

// flushInput applies the pending actions in arrival order.
func (m *Model) flushInput() tea.Cmd {
	var cmds []tea.Cmd
	for _, a := range m.input.Actions() {
		if cmd := m.handleAction(a); cmd != nil {
			cmds = append(cmds, cmd)
		}
		if m.quitting {
			break
		}
	}
	m.input.Clear()
	return tea.Batch(cmds...)
}

func (m *Model) handleAction(a core.Action) tea.Cmd {
	st := m.sess.State()

	switch a {
	case core.ActionQuit:
		m.abandon(st)
		m.quitting = true
		return tea.Quit

	case core.ActionCursorUp:
		m.cursor = m.grid.Move(m.cursor, -1, 0)
	case core.ActionCursorDown:
		m.cursor = m.grid.Move(m.cursor, 1, 0)
	case core.ActionCursorLeft:
		m.cursor = m.grid.Move(m.cursor, 0, -1)
	case core.ActionCursorRight:
		m.cursor = m.grid.Move(m.cursor, 0, 1)

	case core.ActionSelect:
		m.selectCell(st)
	case core.ActionCancel:
		m.selected = -1

	case core.ActionSlot1, core.ActionSlot2, core.ActionSlot3:
		if st.Offer != nil {
			m.apply(engine.SelectUpgrade{Option: a.Slot()})
		} else {
			m.apply(engine.BuyFromShop{Slot: a.Slot()})
		}

	case core.ActionReroll:
		m.apply(engine.RerollShop{})

	case core.ActionSell:
		cell := m.cursor
		if m.selected >= 0 {
			cell = m.selected
		}
		if m.apply(engine.SellAt{Cell: cell}) {
			m.selected = -1
		}

	case core.ActionRetry:
		m.abandon(st)
		m.sess.Restart(m.nextSeed())
		m.resetView()
		return m.resume()

	case core.ActionNextStage:
		if !st.Ended() {
			m.message = "Finish the stage first"
			return nil
		}
		m.sess.NextStage(m.nextSeed())
		m.resetView()
		return m.resume()

	case core.ActionPause:
		if st.Ended() {
			return nil
		}
		m.paused = !m.paused
		return m.resume()

	case core.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

// selectCell picks up the unit under the cursor, or merges the picked
// unit onto it.
func (m *Model) selectCell(st engine.RunState) {
	switch {
	case m.selected < 0:
		if st.Board.At(m.cursor) != nil {
			m.selected = m.cursor
		}
	case m.selected == m.cursor:
		m.selected = -1
	default:
		if m.apply(engine.Merge{From: m.selected, To: m.cursor}) {
			m.selected = -1
		}
	}
}

// apply sends an intent to the session and records a failure reason.
func (m *Model) apply(in engine.Intent) bool {
	if err := m.sess.Apply(in); err != nil {
		var f *engine.Failure
		if errors.As(err, &f) {
			m.message = f.Reason
		} else {
			m.message = err.Error()
		}
		return false
	}
	m.message = ""
	m.validateSelection(m.sess.State())
	return true
}

func (m *Model) validateSelection(st engine.RunState) {
	if m.selected >= 0 && st.Board.At(m.selected) == nil {
		m.selected = -1
	}
}

// resume restarts the tick loop if the run is active and no tick is pending.
func (m *Model) resume() tea.Cmd {
	if !m.active() || m.ticking {
		return nil
	}
	m.ticking = true
	return tickCmd(m.config.TickMs)
}

func (m *Model) resetView() {
	m.cursor = 0
	m.selected = -1
	m.paused = false
	m.message = ""
}

// abandon records a run that is left before it ended.
func (m *Model) abandon(st engine.RunState) {
	if st.Ended() || st.TimeMs == 0 {
		return
	}
	recordRun(m.store, m.logger, m.config.Player, m.sess.Result(), storage.ResultAbandoned)
}

func (m Model) active() bool {
	return !m.paused && !m.quitting && !m.sess.State().Ended()
}

func (m Model) nextSeed() int64 {
	if m.config.Seed != 0 {
		return m.config.Seed
	}
	return time.Now().UnixNano()
}

// State returns the current run state.
func (m Model) State() engine.RunState {
	return m.sess.State()
}

// Cursor returns the board cell under the cursor.
func (m Model) Cursor() int {
	return m.cursor
}

// Selected returns the picked-up board cell, or -1.
func (m Model) Selected() int {
	return m.selected
}

// Message returns the last failure or notice shown to the player.
func (m Model) Message() string {
	return m.message
}

// Paused reports whether the run is paused.
func (m Model) Paused() bool {
	return m.paused
}

// View renders the run screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.render()
}

// Run starts the run screen in the current terminal.
func Run(e *engine.Engine, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	p := tea.NewProgram(
		NewModel(e, store, cfg, logger),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

func resultName(end engine.RunEnd) string {
	switch end {
	case engine.RunVictory:
		return storage.ResultVictory
	case engine.RunDefeat:
		return storage.ResultDefeat
	default:
		return storage.ResultAbandoned
	}
}

// recordRun saves a run result. Storage failures are logged, never fatal.
func recordRun(store *storage.Store, logger *log.Logger, player string, r session.Result, result string) {
	if store == nil {
		return
	}
	_, err := store.SaveRun(storage.RunRecord{
		Player:       player,
		Pilot:        r.Pilot,
		Stage:        r.Stage,
		Seed:         r.Seed,
		Result:       result,
		WavesCleared: r.WavesCleared,
		BaseHP:       r.BaseHP,
		Coins:        r.Coins,
		TimeMs:       r.TimeMs,
		Snapshot:     fmt.Sprintf("%016x", r.Snapshot),
	})
	if err != nil {
		logger.Warn("could not save run", "error", err)
	}
}
