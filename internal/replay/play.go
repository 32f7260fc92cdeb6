package replay

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/mergerun-td/internal/engine"
	"github.com/vovakirdan/mergerun-td/internal/registry"
)

// StepFailure records a step the engine rejected.
type StepFailure struct {
	Index  int // 0-based position in Script.Steps
	AtMs   int64
	Intent string
	Reason string
}

// Result is the outcome of playing a script.
type Result struct {
	State    engine.RunState
	Snapshot uint64
	Applied  int
	Failures []StepFailure
	Skipped  int // steps never reached before the run ended
	Ticks    int
}

// SnapshotHex formats the snapshot the way scripts store it.
func (r Result) SnapshotHex() string {
	return fmt.Sprintf("%016x", r.Snapshot)
}

// ErrExpectation is returned by Verify when a result differs from the
// script's expectations.
var ErrExpectation = errors.New("replay: expectation not met")

// Play runs the script to completion (or max_ms) and reports the outcome.
// Steps due at or before the current run time are applied before each tick.
func Play(e *engine.Engine, s Script) (Result, error) {
	intents := make([]engine.Intent, len(s.Steps))
	for i, st := range s.Steps {
		in, err := st.ToIntent()
		if err != nil {
			return Result{}, fmt.Errorf("replay: step %d: %w", i+1, err)
		}
		intents[i] = in
	}

	tickMs := s.TickMs
	if tickMs <= 0 {
		tickMs = 100
	}
	maxMs := s.MaxMs
	if maxMs <= 0 {
		maxMs = DefaultMaxMs
	}

	var res Result
	state := e.NewRun(s.Stage, s.Seed)
	next := 0
	for !state.Ended() && state.TimeMs < maxMs {
		for next < len(s.Steps) && s.Steps[next].AtMs <= state.TimeMs {
			applied, err := e.Apply(state, intents[next])
			if err != nil {
				var f *engine.Failure
				reason := err.Error()
				if errors.As(err, &f) {
					reason = f.Reason
				}
				res.Failures = append(res.Failures, StepFailure{
					Index:  next,
					AtMs:   s.Steps[next].AtMs,
					Intent: s.Steps[next].Intent,
					Reason: reason,
				})
			} else {
				state = applied
				res.Applied++
			}
			next++
		}
		state = e.Tick(state, tickMs).State
		res.Ticks++
	}

	res.Skipped = len(s.Steps) - next
	res.State = state
	res.Snapshot = engine.Snapshot(state)
	return res, nil
}

// Verify compares a result with the script's expectations, if any.
func Verify(s Script, r Result) error {
	if s.Expect == nil {
		return nil
	}
	var problems []string
	if s.Expect.End != "" && s.Expect.End != r.State.End.String() {
		problems = append(problems, fmt.Sprintf("end %s, want %s", r.State.End, s.Expect.End))
	}
	if s.Expect.Waves != nil && *s.Expect.Waves != r.State.WaveIndex {
		problems = append(problems, fmt.Sprintf("waves %d, want %d", r.State.WaveIndex, *s.Expect.Waves))
	}
	if s.Expect.Snapshot != "" && !strings.EqualFold(s.Expect.Snapshot, r.SnapshotHex()) {
		problems = append(problems, fmt.Sprintf("snapshot %s, want %s", r.SnapshotHex(), s.Expect.Snapshot))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrExpectation, strings.Join(problems, "; "))
	}
	return nil
}

// Recorder wraps a pilot and records every intent it issues as a step.
type Recorder struct {
	registry.Pilot
	steps []Step
}

// NewRecorder starts recording decisions made by p.
func NewRecorder(p registry.Pilot) *Recorder {
	return &Recorder{Pilot: p}
}

// Decide forwards to the wrapped pilot and records its intents.
func (r *Recorder) Decide(s engine.RunState, t *engine.Tables) []engine.Intent {
	intents := r.Pilot.Decide(s, t)
	for _, in := range intents {
		r.steps = append(r.steps, StepFor(s.TimeMs, in))
	}
	return intents
}

// Script returns the recorded steps as a playable script.
func (r *Recorder) Script(seed int64, stage int, tickMs, maxMs int64) Script {
	steps := make([]Step, len(r.steps))
	copy(steps, r.steps)
	return Script{Seed: seed, Stage: stage, TickMs: tickMs, MaxMs: maxMs, Steps: steps}
}
