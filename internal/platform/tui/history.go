package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mergerun-td/internal/storage"
)

// Max runs loaded into the history table.
const maxHistoryRows = 100

// HistoryView selects which runs the history screen lists.
type HistoryView int

const (
	HistoryRecent HistoryView = iota // newest runs across all stages
	HistoryBest                      // best runs of one stage
)

// HistoryKeyMap defines the key bindings for the history screen.
type HistoryKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	PrevStage  key.Binding
	NextStage  key.Binding
	ToggleView key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.ToggleView, k.PrevStage, k.NextStage, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.ToggleView, k.PrevStage, k.NextStage},
		{k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		PrevStage: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev stage"),
		),
		NextStage: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next stage"),
		),
		ToggleView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "recent/best"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for the run history screen.
type HistoryModel struct {
	store    *storage.Store
	stages   int // number of stages to cycle through
	stage    int
	view     HistoryView
	runs     []storage.RunRecord
	err      error
	table    table.Model
	help     help.Model
	keys     HistoryKeyMap
	width    int
	height   int
	quitting bool
}

// NewHistoryModel creates a history screen over store.
func NewHistoryModel(store *storage.Store, stages, width, height int) HistoryModel {
	h := help.New()
	h.Width = width

	m := HistoryModel{
		store:  store,
		stages: max(stages, 1),
		keys:   DefaultHistoryKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Stage", Width: 6},
		{Title: "Result", Width: 10},
		{Title: "Waves", Width: 6},
		{Title: "HP", Width: 5},
		{Title: "Time", Width: 7},
		{Title: "Player", Width: 12},
		{Title: "Date", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load fetches the runs for the current view.
func (m *HistoryModel) load() {
	m.runs, m.err = nil, nil
	if m.store != nil {
		switch m.view {
		case HistoryBest:
			m.runs, m.err = m.store.BestRuns(m.stage, maxHistoryRows)
		default:
			m.runs, m.err = m.store.RecentRuns(maxHistoryRows)
		}
	}

	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		player := r.Player
		if r.Pilot != "" {
			player = "pilot:" + r.Pilot
		}
		rows[i] = table.Row{
			strconv.Itoa(i + 1),
			strconv.Itoa(r.Stage + 1),
			r.Result,
			strconv.Itoa(r.WavesCleared),
			strconv.Itoa(r.BaseHP),
			formatClock(r.TimeMs),
			player,
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.ToggleView):
			if m.view == HistoryRecent {
				m.view = HistoryBest
			} else {
				m.view = HistoryRecent
			}
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.NextStage):
			m.stage = (m.stage + 1) % m.stages
			if m.view == HistoryBest {
				m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevStage):
			m.stage = (m.stage - 1 + m.stages) % m.stages
			if m.view == HistoryBest {
				m.load()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.createTable()
		m.load()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	title := "RECENT RUNS"
	if m.view == HistoryBest {
		title = fmt.Sprintf("BEST RUNS - STAGE %d", m.stage+1)
	}

	var body string
	switch {
	case m.err != nil:
		body = messageStyle.Render("Could not load runs: " + m.err.Error())
	case len(m.runs) == 0:
		body = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4).
			Render("No runs recorded yet.\nFinish a run to see it here!")
	default:
		body = m.table.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.MarginBottom(1).Render(title),
		panelStyle.Render(body),
		dimStyle.Render(m.help.View(m.keys)),
	)
}

// CurrentView returns the listed view.
func (m HistoryModel) CurrentView() HistoryView {
	return m.view
}

// Stage returns the 0-based stage shown in the best-runs view.
func (m HistoryModel) Stage() int {
	return m.stage
}

// Rows returns the runs currently listed.
func (m HistoryModel) Rows() []storage.RunRecord {
	return m.runs
}

// RunHistory runs the history screen until the user quits.
func RunHistory(store *storage.Store, stages, width, height int) error {
	p := tea.NewProgram(
		NewHistoryModel(store, stages, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
