// Package session hosts a single run: it owns the current RunState,
// serializes ticks and intents against it, and drives the tick cadence.
package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mergerun-td/internal/engine"
	"github.com/vovakirdan/mergerun-td/internal/registry"
)

// DefaultTickMs is the simulation step used when none is configured.
const DefaultTickMs = 100

// maxEvents bounds the recent-event log.
const maxEvents = 64

// Options configures a session.
type Options struct {
	Stage  int
	Seed   int64
	TickMs int64

	// Pilot, when set, issues intents before every tick.
	Pilot registry.Pilot

	// Logger receives run progress. Nil discards it.
	Logger *log.Logger

	// OnEnd is called once when a run reaches Victory or Defeat.
	// It runs without the session lock held.
	OnEnd func(Result)
}

// Result summarizes a finished (or abandoned) run.
type Result struct {
	Stage        int
	Seed         int64
	End          engine.RunEnd
	WavesCleared int
	BaseHP       int
	Coins        int
	TimeMs       int64
	Pilot        string
	Snapshot     uint64
}

// Session serializes access to one run. All methods are safe for concurrent use.
type Session struct {
	mu     sync.Mutex
	engine *engine.Engine
	opts   Options
	state  engine.RunState
	seed   int64
	events []engine.Event
	logger *log.Logger
	done   bool // OnEnd already delivered for the current run
}

// New starts a run on e.
func New(e *engine.Engine, opts Options) *Session {
	if opts.TickMs <= 0 {
		opts.TickMs = DefaultTickMs
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Session{
		engine: e,
		opts:   opts,
		logger: logger,
	}
	s.reset(opts.Stage, opts.Seed)
	return s
}

func (s *Session) reset(stage int, seed int64) {
	s.state = s.engine.NewRun(stage, seed)
	s.seed = seed
	s.events = s.events[:0]
	s.done = false
	s.logger.Info("run started", "stage", s.state.StageIndex+1, "seed", seed)
}

// Engine returns the engine the session simulates with.
func (s *Session) Engine() *engine.Engine {
	return s.engine
}

// TickMs returns the simulation step per tick.
func (s *Session) TickMs() int64 {
	return s.opts.TickMs
}

// State returns a copy of the current run state.
func (s *Session) State() engine.RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Events returns the most recent events, oldest first.
func (s *Session) Events() []engine.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]engine.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Result summarizes the current run.
func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resultLocked()
}

func (s *Session) resultLocked() Result {
	r := Result{
		Stage:        s.state.StageIndex,
		Seed:         s.seed,
		End:          s.state.End,
		WavesCleared: s.state.WaveIndex,
		BaseHP:       s.state.BaseHP,
		Coins:        s.state.Coins,
		TimeMs:       s.state.TimeMs,
		Snapshot:     engine.Snapshot(s.state),
	}
	if s.opts.Pilot != nil {
		r.Pilot = s.opts.Pilot.ID()
	}
	return r
}

// Apply validates and applies a player intent.
func (s *Session) Apply(intent engine.Intent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(intent)
}

func (s *Session) applyLocked(intent engine.Intent) error {
	next, err := s.engine.Apply(s.state, intent)
	if err != nil {
		s.logger.Debug("intent rejected", "intent", intentName(intent), "reason", err)
		return err
	}
	s.state = next
	return nil
}

// Step runs the pilot (if any) and advances the run by one tick.
func (s *Session) Step() engine.TickResult {
	s.mu.Lock()
	if s.opts.Pilot != nil {
		for _, in := range s.opts.Pilot.Decide(s.state, s.engine.Tables()) {
			_ = s.applyLocked(in)
		}
	}
	res := s.engine.Tick(s.state, s.opts.TickMs)
	s.state = res.State
	s.record(res.Events)

	var ended *Result
	if s.state.Ended() && !s.done {
		s.done = true
		r := s.resultLocked()
		ended = &r
	}
	s.mu.Unlock()

	if ended != nil && s.opts.OnEnd != nil {
		s.opts.OnEnd(*ended)
	}
	return res
}

func (s *Session) record(events []engine.Event) {
	for _, ev := range events {
		s.logEvent(ev)
	}
	s.events = append(s.events, events...)
	if over := len(s.events) - maxEvents; over > 0 {
		s.events = append(s.events[:0], s.events[over:]...)
	}
}

func (s *Session) logEvent(ev engine.Event) {
	switch ev.Kind {
	case engine.EventWaveStarted:
		s.logger.Info("wave started", "stage", s.state.StageIndex+1, "wave", ev.Wave)
	case engine.EventWaveEnded:
		s.logger.Info("wave cleared", "wave", ev.Wave, "hp", s.state.BaseHP, "coins", s.state.Coins)
	case engine.EventBaseDamaged:
		s.logger.Debug("base damaged", "amount", ev.Amount, "hp", s.state.BaseHP)
	case engine.EventUpgradeOffered:
		s.logger.Info("upgrade offered", "wave", ev.Wave)
	case engine.EventUpgradeApplied:
		s.logger.Info("upgrade applied", "upgrade", ev.Upgrade, "auto", ev.Auto)
	case engine.EventRunEnded:
		s.logger.Info("run ended", "result", ev.End, "waves", ev.Wave, "time_ms", s.state.TimeMs)
	}
}

// FastForward steps without waiting until the run ends or maxMs of
// simulation time has elapsed (0 means no limit).
func (s *Session) FastForward(maxMs int64) Result {
	for {
		st := s.State()
		if st.Ended() || (maxMs > 0 && st.TimeMs >= maxMs) {
			return s.Result()
		}
		s.Step()
	}
}

// Run ticks on a wall-clock cadence of TickMs until ctx is cancelled or the
// run ends. Cancellation leaves the last applied state in place, so Run can
// be called again to resume.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Duration(s.opts.TickMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			s.Step()
			if s.State().Ended() {
				return nil
			}
		}
	}
}

// Restart begins a new run on the same stage.
func (s *Session) Restart(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(s.state.StageIndex, seed)
}

// NextStage begins a run on the following stage, wrapping to the first
// after the last.
func (s *Session) NextStage(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.StageIndex + 1
	if next != s.engine.ClampStage(next) {
		next = 0
	}
	s.reset(next, seed)
}

func intentName(in engine.Intent) string {
	switch in.(type) {
	case engine.BuyFromShop:
		return "buy"
	case engine.RerollShop:
		return "reroll"
	case engine.SellAt:
		return "sell"
	case engine.Merge:
		return "merge"
	case engine.SelectUpgrade:
		return "select-upgrade"
	default:
		return "unknown"
	}
}
