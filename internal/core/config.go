package core

// RuntimeConfig contains the options a host needs to start a run screen.
type RuntimeConfig struct {
	ScreenW int    // Screen width in characters
	ScreenH int    // Screen height in characters
	TickMs  int64  // Simulation step per tick in milliseconds
	Seed    int64  // RNG seed; 0 means time based, chosen by the platform layer
	Stage   int    // 0-based stage index
	Player  string // Name recorded with finished runs
}

// DefaultTickMs is the run-screen cadence.
const DefaultTickMs = 100

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
		TickMs:  DefaultTickMs,
	}
}

// Normalize fills zero or invalid fields with defaults.
func (c RuntimeConfig) Normalize() RuntimeConfig {
	def := DefaultConfig()
	if c.ScreenW <= 0 {
		c.ScreenW = def.ScreenW
	}
	if c.ScreenH <= 0 {
		c.ScreenH = def.ScreenH
	}
	if c.TickMs <= 0 {
		c.TickMs = def.TickMs
	}
	if c.Stage < 0 {
		c.Stage = 0
	}
	return c
}
