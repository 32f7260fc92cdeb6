package engine

// Engine simulates runs against one immutable set of tables.
// It holds no run state and is safe for concurrent use.
type Engine struct {
	tables Tables
}

// New creates an engine for the given tables.
func New(tables Tables) *Engine {
	return &Engine{tables: tables}
}

// Tables returns the engine's configuration tables.
func (e *Engine) Tables() *Tables {
	return &e.tables
}

// ClampStage limits a stage index to the playable range.
func (e *Engine) ClampStage(stage int) int {
	limit := min(MaxStageIndex, len(e.tables.Stages)-1)
	if limit < 0 {
		limit = 0
	}
	return max(0, min(stage, limit))
}

// NewRun creates the initial state for a stage.
func (e *Engine) NewRun(stage int, seed int64) RunState {
	return RunState{
		StageIndex:    e.ClampStage(stage),
		Phase:         PhasePrep,
		BaseHP:        e.tables.GuardianHP(),
		Coins:         e.tables.Shop.StartingCoins,
		Board:         NewBoard(BoardRows, BoardCols),
		Shop:          NewShop(e.tables.Shop.Slots),
		Lane:          NewLane(e.tables.LaneTiles),
		AtkMul:        1,
		AspdMul:       1,
		UpgradeCounts: make(map[string]int),
		Rng:           RngState{Seed: seed},
	}
}

// waveCap returns the number of waves the state's stage plays.
func (e *Engine) waveCap(stage int) int {
	if stage < 0 || stage >= len(e.tables.Stages) {
		return 0
	}
	return min(len(e.tables.Stages[stage].Waves), MaxWavesPerStage)
}

// Tick advances the run by deltaMs of simulation time.
func (e *Engine) Tick(state RunState, deltaMs int64) TickResult {
	if deltaMs < 0 {
		deltaMs = 0
	}
	s := state.Clone()
	s.TimeMs += deltaMs
	if s.Ended() {
		s.Phase = PhaseEnded
		return TickResult{State: s}
	}

	var events []Event

	if s.Offer != nil && s.TimeMs > s.Offer.DeadlineMs {
		pick := e.autoPick(s.Offer)
		if e.applyUpgrade(&s, pick) {
			events = append(events, Event{
				Kind:      EventUpgradeApplied,
				UpgradeID: pick.ID,
				Upgrade:   pick.Name,
				Auto:      true,
			})
		}
	}

	if s.Phase == PhasePrep || (s.Phase == PhasePostWave && s.Offer == nil) {
		e.startWave(&s, &events)
	}

	if s.Phase == PhaseCombat {
		e.resolveCombat(&s, deltaMs, &events)
	}

	e.tickShop(&s, deltaMs)

	if s.Phase == PhaseCombat && s.Lane.Clear() {
		e.endWave(&s, &events)
	}

	if s.BaseHP <= 0 {
		s.Phase = PhaseEnded
		s.End = RunDefeat
	}
	if s.End != RunEndNone {
		events = append(events, Event{Kind: EventRunEnded, End: s.End, Wave: s.WaveIndex})
	}
	return TickResult{State: s, Events: events}
}

func (e *Engine) startWave(s *RunState, events *[]Event) {
	if s.WaveIndex >= e.waveCap(s.StageIndex) {
		s.Phase = PhaseEnded
		s.End = RunVictory
		return
	}
	wave := e.tables.Stages[s.StageIndex].Waves[s.WaveIndex]
	s.Lane.Pending = buildWaveSpawns(wave)
	s.Lane.Enemies = nil
	s.Lane.CombatElapsedMs = 0
	s.FreeRerolls += e.tables.Shop.WaveStartFreeRerolls + s.WaveStartFreeRerollBonus
	s.Phase = PhaseCombat
	*events = append(*events, Event{Kind: EventWaveStarted, Wave: s.WaveIndex + 1})
}

func (e *Engine) endWave(s *RunState, events *[]Event) {
	s.WaveIndex++
	cleared := s.WaveIndex
	*events = append(*events, Event{Kind: EventWaveEnded, Wave: cleared})

	if cleared >= e.waveCap(s.StageIndex) {
		s.Phase = PhaseEnded
		s.End = RunVictory
		return
	}
	s.Phase = PhasePostWave
	if !e.offersAfter(cleared) {
		return
	}
	if offer := e.buildOffer(s, cleared); offer != nil {
		s.Offer = offer
		*events = append(*events, Event{Kind: EventUpgradeOffered, Wave: cleared})
	}
}
