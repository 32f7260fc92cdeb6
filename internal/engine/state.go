package engine

import (
	"maps"
	"slices"
)

// Phase is the run's position in the wave cycle.
type Phase int

const (
	PhasePrep Phase = iota
	PhaseCombat
	PhasePostWave
	PhaseEnded
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhasePrep:
		return "prep"
	case PhaseCombat:
		return "combat"
	case PhasePostWave:
		return "post-wave"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// RunEnd is the terminal result of a run.
type RunEnd int

const (
	RunEndNone RunEnd = iota
	RunVictory
	RunDefeat
)

// String returns the result name.
func (r RunEnd) String() string {
	switch r {
	case RunVictory:
		return "victory"
	case RunDefeat:
		return "defeat"
	default:
		return "none"
	}
}

// UpgradeOffer is a timed choice between upgrade candidates.
type UpgradeOffer struct {
	Wave       int // 1-based cleared wave that triggered the offer
	Options    []UpgradeDef
	DeadlineMs int64
}

// RunState is the complete snapshot of one run.
// It is replaced wholesale by Tick and Apply, never mutated by callers.
type RunState struct {
	StageIndex  int
	WaveIndex   int // waves cleared so far
	Phase       Phase
	BaseHP      int
	Coins       int
	FreeRerolls int

	Board Board
	Shop  ShopState
	Lane  LaneState

	AtkMul                   float64
	AspdMul                  float64
	RerollCostDelta          int
	WaveStartFreeRerollBonus int

	Offer         *UpgradeOffer
	TransformUsed bool
	UpgradeCounts map[string]int

	End    RunEnd
	TimeMs int64
	Rng    RngState
}

// Ended reports whether the run has a terminal result.
func (s RunState) Ended() bool {
	return s.End != RunEndNone
}

// Clone returns a deep copy of the state.
func (s RunState) Clone() RunState {
	c := s
	c.Board = s.Board.Clone()
	c.Shop = s.Shop.Clone()
	c.Lane = s.Lane.Clone()
	if s.Offer != nil {
		offer := *s.Offer
		offer.Options = slices.Clone(s.Offer.Options)
		c.Offer = &offer
	}
	c.UpgradeCounts = maps.Clone(s.UpgradeCounts)
	if c.UpgradeCounts == nil {
		c.UpgradeCounts = make(map[string]int)
	}
	return c
}
