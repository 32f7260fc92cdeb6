// Package engine provides the deterministic simulation core for Merge Run TD.
// This package is UI-agnostic: every operation maps a RunState (plus an intent
// or a time delta) to a new RunState and never touches shared state.
package engine

import (
	"strconv"
)

// LCG constants (Knuth MMIX).
const (
	rngMultiplier = 6364136223846793005
	rngIncrement  = 1442695040888963407
)

// RngState is the seed of the run's linear congruential generator.
// Every draw returns the successor state; a consumed state must not be reused.
type RngState struct {
	Seed int64
}

// NextLong advances the generator by one step.
// Multiplication and addition wrap at 64 bits.
func NextLong(r RngState) (int64, RngState) {
	next := int64(uint64(r.Seed)*rngMultiplier + rngIncrement)
	return next, RngState{Seed: next}
}

// NextDouble returns a value in [0, 1) built from the top 53 bits of NextLong.
func NextDouble(r RngState) (float64, RngState) {
	value, next := NextLong(r)
	return float64(uint64(value)>>11) / (1 << 53), next
}

// pickIndex draws a uniform index in [0, n). n must be positive.
func pickIndex(r RngState, n int) (int, RngState) {
	roll, next := NextDouble(r)
	idx := int(roll * float64(n))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx, next
}

// nextUnitID derives a fresh unit identity from one generator step.
func nextUnitID(r RngState) (string, RngState) {
	value, next := NextLong(r)
	return "u-" + strconv.FormatUint(uint64(value), 10), next
}
