package replay

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/mergerun-td/internal/config"
	"github.com/vovakirdan/mergerun-td/internal/engine"
	"github.com/vovakirdan/mergerun-td/internal/pilots"
	"github.com/vovakirdan/mergerun-td/internal/session"
)

func quietEngine() *engine.Engine {
	tables := config.DefaultTables()
	for i := range tables.Stages {
		tables.Stages[i].Waves = make([]engine.WaveDef, len(tables.Stages[i].Waves))
	}
	return engine.New(tables)
}

func TestParseScript(t *testing.T) {
	doc := `
seed: 11
stage: 2
tick_ms: 50
steps:
  - {at_ms: 900, intent: merge, from: 0, to: 1}
  - {at_ms: 100, intent: buy, slot: 2}
  - {at_ms: 100, intent: reroll}
`
	s, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if s.Seed != 11 || s.Stage != 2 || s.TickMs != 50 {
		t.Errorf("unexpected header: %+v", s)
	}
	// Steps are ordered by time, keeping file order for ties.
	want := []string{IntentBuy, IntentReroll, IntentMerge}
	for i, w := range want {
		if s.Steps[i].Intent != w {
			t.Errorf("step %d: got %s, want %s", i, s.Steps[i].Intent, w)
		}
	}
	in, err := s.Steps[2].ToIntent()
	if err != nil {
		t.Fatal(err)
	}
	if m, ok := in.(engine.Merge); !ok || m.From != 0 || m.To != 1 {
		t.Errorf("expected Merge{0,1}, got %#v", in)
	}
}

func TestParseRejectsBadSteps(t *testing.T) {
	docs := []string{
		"steps: [{at_ms: 0, intent: teleport}]",
		"steps: [{at_ms: 0, intent: buy}]",
		"steps: [{at_ms: 0, intent: merge, from: 1}]",
		"steps: [{at_ms: -5, intent: reroll}]",
	}
	for _, doc := range docs {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("expected error for %q", doc)
		}
	}
}

func TestPlayQuietScript(t *testing.T) {
	waves := 5
	s := Script{Seed: 7, Expect: &Expect{End: "victory", Waves: &waves}}
	res, err := Play(quietEngine(), s)
	if err != nil {
		t.Fatalf("Play() failed: %v", err)
	}
	if err := Verify(s, res); err != nil {
		t.Error(err)
	}
	if res.Ticks == 0 || res.State.Phase != engine.PhaseEnded {
		t.Errorf("ticks=%d phase=%s", res.Ticks, res.State.Phase)
	}
}

func TestPlayRecordsFailures(t *testing.T) {
	cell := 0
	s := Script{
		Seed:  1,
		MaxMs: 1000,
		Steps: []Step{{AtMs: 0, Intent: IntentSell, Cell: &cell}},
	}
	res, err := Play(engine.New(config.DefaultTables()), s)
	if err != nil {
		t.Fatalf("Play() failed: %v", err)
	}
	if len(res.Failures) != 1 || res.Failures[0].Reason != engine.ReasonCellEmpty {
		t.Fatalf("expected one cell-empty failure, got %+v", res.Failures)
	}
	if res.Applied != 0 || res.Skipped != 0 {
		t.Errorf("applied=%d skipped=%d", res.Applied, res.Skipped)
	}
}

func TestPlaySkipsStepsAfterEnd(t *testing.T) {
	slot := 0
	s := Script{Seed: 7, Steps: []Step{{AtMs: 10_000_000, Intent: IntentBuy, Slot: &slot}}}
	res, err := Play(quietEngine(), s)
	if err != nil {
		t.Fatal(err)
	}
	if res.Skipped != 1 {
		t.Errorf("expected 1 skipped step, got %d", res.Skipped)
	}
}

func TestRecordedPilotReplaysIdentically(t *testing.T) {
	e := engine.New(config.DefaultTables())
	const maxMs = 5 * 60 * 1000

	rec := NewRecorder(pilots.Greedy{})
	sess := session.New(e, session.Options{Seed: 99, Pilot: rec})
	live := sess.FastForward(maxMs)

	script := rec.Script(99, 0, sess.TickMs(), maxMs)
	if len(script.Steps) == 0 {
		t.Fatal("recorder captured no steps")
	}

	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := Save(path, script); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	res, err := Play(e, loaded)
	if err != nil {
		t.Fatalf("Play() failed: %v", err)
	}
	if res.Snapshot != live.Snapshot {
		t.Errorf("replay hash %016x differs from live run %016x", res.Snapshot, live.Snapshot)
	}
}

func TestVerifyReportsMismatch(t *testing.T) {
	s := Script{Seed: 7, Expect: &Expect{End: "defeat", Snapshot: "deadbeefdeadbeef"}}
	res, err := Play(quietEngine(), s)
	if err != nil {
		t.Fatal(err)
	}
	err = Verify(s, res)
	if !errors.Is(err, ErrExpectation) {
		t.Fatalf("expected ErrExpectation, got %v", err)
	}
	if !strings.Contains(err.Error(), "end victory") {
		t.Errorf("error should name the actual end: %v", err)
	}
}
