package engine

import "slices"

// EnemyInstance is a live enemy on the lane.
type EnemyInstance struct {
	Type       string
	HP         int
	Tile       int   // 0 = spawn, lane length = base
	ProgressMs int64 // sub-tile remainder carried between ticks
}

// PendingSpawn schedules an enemy relative to the wave's combat start.
type PendingSpawn struct {
	Type  string
	DueMs int64
}

// LaneState is the single enemy lane.
type LaneState struct {
	Length          int
	Enemies         []EnemyInstance
	Pending         []PendingSpawn // ordered by DueMs
	CombatElapsedMs int64
}

// NewLane creates an empty lane of the given length.
func NewLane(length int) LaneState {
	if length < 1 {
		length = DefaultLaneTiles
	}
	return LaneState{Length: length}
}

// Clear reports whether no enemies remain alive or scheduled.
func (l LaneState) Clear() bool {
	return len(l.Enemies) == 0 && len(l.Pending) == 0
}

// Clone returns a deep copy.
func (l LaneState) Clone() LaneState {
	return LaneState{
		Length:          l.Length,
		Enemies:         slices.Clone(l.Enemies),
		Pending:         slices.Clone(l.Pending),
		CombatElapsedMs: l.CombatElapsedMs,
	}
}

// frontmost returns the index of the enemy with the greatest tile, first one
// wins ties. Returns -1 for an empty list.
func frontmost(enemies []EnemyInstance) int {
	best := -1
	for i := range enemies {
		if best < 0 || enemies[i].Tile > enemies[best].Tile {
			best = i
		}
	}
	return best
}

// buildWaveSpawns expands per-type counts into one schedule. The due-time
// counter is shared across types, so the result is a single sequence at
// SpawnSpacingMs intervals.
func buildWaveSpawns(w WaveDef) []PendingSpawn {
	pending := make([]PendingSpawn, 0, w.Total())
	var due int64
	add := func(kind string, count int) {
		for range count {
			pending = append(pending, PendingSpawn{Type: kind, DueMs: due})
			due += SpawnSpacingMs
		}
	}
	add(EnemyNormal, w.Normal)
	add(EnemyFast, w.Fast)
	add(EnemyTank, w.Tank)
	add(EnemyBoss, w.Boss)
	return pending
}
