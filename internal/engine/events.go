package engine

// EventKind identifies an informational simulation event.
type EventKind int

const (
	EventWaveStarted EventKind = iota
	EventWaveEnded
	EventBaseDamaged
	EventEnemySpawned
	EventEnemyKilled
	EventUpgradeOffered
	EventUpgradeApplied
	EventRunEnded
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventWaveStarted:
		return "wave-started"
	case EventWaveEnded:
		return "wave-ended"
	case EventBaseDamaged:
		return "base-damaged"
	case EventEnemySpawned:
		return "enemy-spawned"
	case EventEnemyKilled:
		return "enemy-killed"
	case EventUpgradeOffered:
		return "upgrade-offered"
	case EventUpgradeApplied:
		return "upgrade-applied"
	case EventRunEnded:
		return "run-ended"
	default:
		return "unknown"
	}
}

// Event is emitted by Tick for presentation. Only the fields relevant to
// Kind are set. Correctness never depends on consuming events.
type Event struct {
	Kind      EventKind
	Wave      int    // 1-based wave number for wave and offer events
	Amount    int    // base damage or kill reward
	EnemyType string // spawn and kill events
	UpgradeID string // applied upgrade
	Upgrade   string // applied upgrade display name
	Auto      bool   // upgrade applied by timeout
	End       RunEnd // run-ended
}

// TickResult is the outcome of one Tick call.
type TickResult struct {
	State  RunState
	Events []Event
}
