// Package replay loads timed intent scripts and plays them back against the
// engine. Playback is deterministic: the same script and tables always
// produce the same final state hash.
package replay

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/mergerun-td/internal/engine"
)

// Intent names used in scripts.
const (
	IntentBuy     = "buy"
	IntentReroll  = "reroll"
	IntentSell    = "sell"
	IntentMerge   = "merge"
	IntentUpgrade = "upgrade"
)

// DefaultMaxMs caps playback when a script sets no limit (one hour).
const DefaultMaxMs = 60 * 60 * 1000

// Script is a seeded run plus the intents to issue at given run times.
type Script struct {
	Seed   int64   `yaml:"seed"`
	Stage  int     `yaml:"stage"`
	TickMs int64   `yaml:"tick_ms,omitempty"`
	MaxMs  int64   `yaml:"max_ms,omitempty"`
	Expect *Expect `yaml:"expect,omitempty"`
	Steps  []Step  `yaml:"steps"`
}

// Expect optionally pins the outcome of a script.
type Expect struct {
	End      string `yaml:"end,omitempty"`      // "victory", "defeat" or "none"
	Waves    *int   `yaml:"waves,omitempty"`    // waves cleared
	Snapshot string `yaml:"snapshot,omitempty"` // %016x of engine.Snapshot
}

// Step issues one intent once run time reaches AtMs.
type Step struct {
	AtMs   int64  `yaml:"at_ms"`
	Intent string `yaml:"intent"`
	Slot   *int   `yaml:"slot,omitempty"`
	Cell   *int   `yaml:"cell,omitempty"`
	From   *int   `yaml:"from,omitempty"`
	To     *int   `yaml:"to,omitempty"`
	Option *int   `yaml:"option,omitempty"`
}

// Parse decodes a YAML script and validates every step.
func Parse(data []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("replay: failed to parse script: %w", err)
	}
	if s.TickMs < 0 || s.MaxMs < 0 {
		return Script{}, fmt.Errorf("replay: tick_ms and max_ms must not be negative")
	}
	for i, st := range s.Steps {
		if st.AtMs < 0 {
			return Script{}, fmt.Errorf("replay: step %d: at_ms must not be negative", i+1)
		}
		if _, err := st.ToIntent(); err != nil {
			return Script{}, fmt.Errorf("replay: step %d: %w", i+1, err)
		}
	}
	sort.SliceStable(s.Steps, func(i, j int) bool {
		return s.Steps[i].AtMs < s.Steps[j].AtMs
	})
	return s, nil
}

// Load reads and parses a script file.
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("replay: failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// Marshal encodes a script as YAML.
func Marshal(s Script) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("replay: failed to encode script: %w", err)
	}
	return data, nil
}

// Save writes a script to path.
func Save(path string, s Script) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("replay: failed to write %s: %w", path, err)
	}
	return nil
}

// ToIntent converts the step into an engine intent.
func (st Step) ToIntent() (engine.Intent, error) {
	switch st.Intent {
	case IntentBuy:
		if st.Slot == nil {
			return nil, fmt.Errorf("%s needs slot", st.Intent)
		}
		return engine.BuyFromShop{Slot: *st.Slot}, nil
	case IntentReroll:
		return engine.RerollShop{}, nil
	case IntentSell:
		if st.Cell == nil {
			return nil, fmt.Errorf("%s needs cell", st.Intent)
		}
		return engine.SellAt{Cell: *st.Cell}, nil
	case IntentMerge:
		if st.From == nil || st.To == nil {
			return nil, fmt.Errorf("%s needs from and to", st.Intent)
		}
		return engine.Merge{From: *st.From, To: *st.To}, nil
	case IntentUpgrade:
		if st.Option == nil {
			return nil, fmt.Errorf("%s needs option", st.Intent)
		}
		return engine.SelectUpgrade{Option: *st.Option}, nil
	default:
		return nil, fmt.Errorf("unknown intent %q", st.Intent)
	}
}

// StepFor converts an engine intent into a script step at atMs.
func StepFor(atMs int64, in engine.Intent) Step {
	st := Step{AtMs: atMs}
	switch v := in.(type) {
	case engine.BuyFromShop:
		st.Intent, st.Slot = IntentBuy, intPtr(v.Slot)
	case engine.RerollShop:
		st.Intent = IntentReroll
	case engine.SellAt:
		st.Intent, st.Cell = IntentSell, intPtr(v.Cell)
	case engine.Merge:
		st.Intent, st.From, st.To = IntentMerge, intPtr(v.From), intPtr(v.To)
	case engine.SelectUpgrade:
		st.Intent, st.Option = IntentUpgrade, intPtr(v.Option)
	}
	return st
}

func intPtr(v int) *int {
	return &v
}
