package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "runs.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestSaveRunRequiresResult(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.SaveRun(RunRecord{Stage: 0}); err == nil {
		t.Error("expected error for run without result")
	}
}

func TestSaveAndRecentRuns(t *testing.T) {
	store := openTestStore(t)

	for i, res := range []string{ResultDefeat, ResultVictory, ResultAbandoned} {
		_, err := store.SaveRun(RunRecord{
			Player:       "ann",
			Stage:        i,
			Seed:         int64(100 + i),
			Result:       res,
			WavesCleared: i + 1,
			Snapshot:     "00000000000000ff",
		})
		if err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	runs, err := store.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	// Newest first.
	if runs[0].Result != ResultAbandoned || runs[0].Seed != 102 {
		t.Errorf("unexpected newest run: %+v", runs[0])
	}
	if runs[0].Snapshot != "00000000000000ff" || runs[0].Player != "ann" {
		t.Errorf("fields not round-tripped: %+v", runs[0])
	}
	if runs[0].CreatedAt.IsZero() {
		t.Error("created_at should be set")
	}
}

func TestBestRunsOrdering(t *testing.T) {
	store := openTestStore(t)

	records := []RunRecord{
		{Stage: 0, Result: ResultDefeat, WavesCleared: 4, BaseHP: 0, TimeMs: 50_000},
		{Stage: 0, Result: ResultVictory, WavesCleared: 5, BaseHP: 20, TimeMs: 90_000},
		{Stage: 0, Result: ResultVictory, WavesCleared: 5, BaseHP: 20, TimeMs: 80_000},
		{Stage: 0, Result: ResultVictory, WavesCleared: 5, BaseHP: 55, TimeMs: 99_000},
		{Stage: 1, Result: ResultVictory, WavesCleared: 5, BaseHP: 70, TimeMs: 10_000},
	}
	for _, r := range records {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	best, err := store.BestRuns(0, 10)
	if err != nil {
		t.Fatalf("BestRuns() failed: %v", err)
	}
	if len(best) != 4 {
		t.Fatalf("expected 4 stage-0 runs, got %d", len(best))
	}
	if best[0].BaseHP != 55 {
		t.Errorf("expected highest hp victory first, got %+v", best[0])
	}
	if best[1].TimeMs != 80_000 || best[2].TimeMs != 90_000 {
		t.Errorf("ties should prefer faster runs: %d, %d", best[1].TimeMs, best[2].TimeMs)
	}
	if best[3].Result != ResultDefeat {
		t.Errorf("defeat should rank last, got %s", best[3].Result)
	}
}

func TestStageStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(RunRecord{Stage: 2, Result: ResultVictory, WavesCleared: 5, TimeMs: 1000})
	store.SaveRun(RunRecord{Stage: 2, Result: ResultDefeat, WavesCleared: 3, TimeMs: 3000})
	store.SaveRun(RunRecord{Stage: 4, Result: ResultAbandoned, WavesCleared: 1, TimeMs: 500})

	stats, err := store.StageStats()
	if err != nil {
		t.Fatalf("StageStats() failed: %v", err)
	}
	st, ok := stats[2]
	if !ok {
		t.Fatal("missing stats for stage 2")
	}
	if st.Runs != 2 || st.Victories != 1 || st.Defeats != 1 || st.BestWaves != 5 {
		t.Errorf("unexpected stats: %+v", st)
	}
	if st.AvgTimeMs != 2000 {
		t.Errorf("expected avg time 2000, got %v", st.AvgTimeMs)
	}
	if stats[4].Victories != 0 || stats[4].Runs != 1 {
		t.Errorf("unexpected stage 4 stats: %+v", stats[4])
	}
}

func TestClearRuns(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(RunRecord{Stage: 0, Result: ResultVictory})
	store.SaveRun(RunRecord{Stage: 1, Result: ResultVictory})

	if err := store.ClearRuns(0); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}
	if runs, _ := store.BestRuns(0, 10); len(runs) != 0 {
		t.Errorf("expected stage 0 cleared, got %d runs", len(runs))
	}
	if runs, _ := store.BestRuns(1, 10); len(runs) != 1 {
		t.Error("stage 1 should not be affected")
	}
}

func TestPlayerRuns(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(RunRecord{Player: "ann", Result: ResultVictory})
	store.SaveRun(RunRecord{Player: "bob", Result: ResultDefeat})
	store.SaveRun(RunRecord{Player: "ann", Result: ResultDefeat})

	runs, err := store.PlayerRuns("ann", 10)
	if err != nil {
		t.Fatalf("PlayerRuns() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs for ann, got %d", len(runs))
	}
}
