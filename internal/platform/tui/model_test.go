package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/mergerun-td/internal/config"
	"github.com/vovakirdan/mergerun-td/internal/core"
	"github.com/vovakirdan/mergerun-td/internal/engine"
	"github.com/vovakirdan/mergerun-td/internal/storage"
)

func newTestModel(t *testing.T, store *storage.Store) Model {
	t.Helper()
	e := engine.New(config.DefaultTables())
	cfg := core.RuntimeConfig{Seed: 7, Player: "tester"}
	return NewModel(e, store, cfg, nil)
}

// stock starts the first wave and spends its free reroll to fill the shop.
func stock(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = update(t, m, TickMsg{})
	m, _ = update(t, m, runes("r"))
	for i, slot := range m.State().Shop.Slots {
		if slot.Empty() {
			t.Fatalf("shop slot %d still empty after reroll, message %q", i, m.Message())
		}
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, expected Model", next)
	}
	return mm, cmd
}

func TestKeyMapActions(t *testing.T) {
	keys := DefaultKeyMap()

	tests := []struct {
		msg  tea.KeyMsg
		want core.Action
	}{
		{runes("1"), core.ActionSlot1},
		{runes("3"), core.ActionSlot3},
		{runes("r"), core.ActionReroll},
		{runes("R"), core.ActionRetry},
		{runes("x"), core.ActionSell},
		{runes("n"), core.ActionNextStage},
		{runes("z"), core.ActionNone},
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionCursorUp},
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionCursorLeft},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionSelect},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionCancel},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
	}
	for _, tt := range tests {
		if got := keys.Action(tt.msg); got != tt.want {
			t.Errorf("Action(%q) = %v, expected %v", tt.msg.String(), got, tt.want)
		}
	}
}

func TestModelCursorWraps(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.Cursor() != 3 {
		t.Fatalf("cursor = %d, expected 3", m.Cursor())
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.Cursor() != 15 {
		t.Fatalf("cursor = %d, expected 15", m.Cursor())
	}
}

func TestModelBuyThenSellSelected(t *testing.T) {
	m := stock(t, newTestModel(t, nil))
	coins := m.State().Coins

	m, _ = update(t, m, runes("1"))
	st := m.State()
	if st.Board.At(0) == nil {
		t.Fatalf("buy should place a unit in cell 0, message %q", m.Message())
	}
	if st.Coins != coins-3 {
		t.Errorf("coins = %d, expected %d", st.Coins, coins-3)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected() != 0 {
		t.Fatalf("selected = %d, expected 0", m.Selected())
	}

	// Sell acts on the selection, not the cursor.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = update(t, m, runes("x"))
	if m.Selected() != -1 {
		t.Errorf("selection should clear after sell, got %d", m.Selected())
	}
	if m.State().Board.At(0) != nil {
		t.Error("cell 0 should be empty after sell")
	}
	if got := m.State().Coins; got != coins-3+1 {
		t.Errorf("coins = %d, expected %d", got, coins-2)
	}
}

func TestModelMergeAttempt(t *testing.T) {
	m := stock(t, newTestModel(t, nil))

	m, _ = update(t, m, runes("1"))
	m, _ = update(t, m, runes("2"))
	st := m.State()
	if st.Board.At(0) == nil || st.Board.At(1) == nil {
		t.Fatalf("expected two units, message %q", m.Message())
	}
	sameRole := st.Board.At(0).Role == st.Board.At(1).Role

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	st = m.State()
	if sameRole {
		if m.Selected() != -1 || st.Board.At(0) != nil || st.Board.At(1).Level != 2 {
			t.Errorf("merge failed: selected %d, message %q", m.Selected(), m.Message())
		}
		return
	}
	if m.Selected() != 0 || m.Message() != engine.ReasonRoleMismatch {
		t.Errorf("expected role mismatch with selection kept, got selected %d, message %q", m.Selected(), m.Message())
	}
}

func TestModelShowsFailureReason(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = update(t, m, runes("x"))
	if m.Message() != engine.ReasonCellEmpty {
		t.Errorf("message = %q, expected %q", m.Message(), engine.ReasonCellEmpty)
	}
}

func TestModelTicksOnlyWhileActive(t *testing.T) {
	m := newTestModel(t, nil)

	m, cmd := update(t, m, TickMsg{})
	if cmd == nil {
		t.Fatal("active run should schedule the next tick")
	}
	if m.State().TimeMs != 100 {
		t.Fatalf("TimeMs = %d, expected 100", m.State().TimeMs)
	}

	m, _ = update(t, m, runes("p"))
	if !m.Paused() {
		t.Fatal("p should pause")
	}
	m, cmd = update(t, m, TickMsg{})
	if cmd != nil {
		t.Error("paused run should stop ticking")
	}
	if m.State().TimeMs != 100 {
		t.Errorf("paused tick advanced time to %d", m.State().TimeMs)
	}

	m, cmd = update(t, m, runes("p"))
	if m.Paused() || cmd == nil {
		t.Error("unpausing should restart the tick loop")
	}
}

func TestModelNextStageNeedsEndedRun(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = update(t, m, runes("n"))
	if m.Message() != "Finish the stage first" {
		t.Errorf("message = %q", m.Message())
	}
	if m.State().StageIndex != 0 {
		t.Errorf("stage = %d, expected 0", m.State().StageIndex)
	}
}

func TestModelRetryRestartsRun(t *testing.T) {
	m := stock(t, newTestModel(t, nil))
	m, _ = update(t, m, runes("1"))
	if m.State().Board.Occupied() != 1 {
		t.Fatalf("buy failed: %q", m.Message())
	}

	m, _ = update(t, m, runes("R"))
	st := m.State()
	if st.TimeMs != 0 || st.Board.Occupied() != 0 {
		t.Errorf("retry should start a fresh run, got time %d, units %d", st.TimeMs, st.Board.Occupied())
	}
	if m.Cursor() != 0 || m.Selected() != -1 {
		t.Error("retry should reset the cursor and selection")
	}
}

func TestModelQuitRecordsAbandonedRun(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	m := newTestModel(t, store)
	m, _ = update(t, m, TickMsg{})
	m, cmd := update(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if m.View() != "" {
		t.Error("View should be empty after quit")
	}

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Result != storage.ResultAbandoned || runs[0].Player != "tester" || runs[0].Seed != 7 {
		t.Errorf("unexpected record %+v", runs[0])
	}
}

func TestModelViewShowsRun(t *testing.T) {
	m := newTestModel(t, nil)
	view := m.View()

	for _, want := range []string{"Stage 1", "Shop", "Reroll"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q", want)
		}
	}
}
