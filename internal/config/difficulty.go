package config

import (
	"fmt"
	"math"
	"slices"

	"github.com/vovakirdan/mergerun-td/internal/engine"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// Presets lists the accepted preset names.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard}
}

// ParsePreset validates a preset name; "" means normal.
func ParsePreset(name string) (DifficultyPreset, error) {
	if name == "" {
		return DifficultyNormal, nil
	}
	p := DifficultyPreset(name)
	if !slices.Contains(Presets(), p) {
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", name)
	}
	return p, nil
}

// ApplyPreset returns a copy of t adjusted for a difficulty preset.
// Normal leaves the tables unchanged.
func ApplyPreset(t engine.Tables, preset DifficultyPreset) engine.Tables {
	out := t
	out.Units = slices.Clone(t.Units)

	switch preset {
	case DifficultyEasy:
		out.Shop.StartingCoins += 3
		scaleGuardian(&out, 1.5)
	case DifficultyHard:
		out.Shop.StartingCoins = max(0, out.Shop.StartingCoins-3)
		out.Shop.WaveStartFreeRerolls = 0
		scaleGuardian(&out, 0.7)
	}
	return out
}

// scaleGuardian multiplies the guardian's base hp, adding a guardian
// definition when the table has none.
func scaleGuardian(t *engine.Tables, mul float64) {
	hp := max(1, int(math.Round(float64(t.GuardianHP())*mul)))
	for i := range t.Units {
		if t.Units[i].ID == engine.GuardianID {
			t.Units[i].BaseHP = hp
			return
		}
	}
	t.Units = append(t.Units, engine.UnitDef{ID: engine.GuardianID, Role: engine.RoleGuardian, BaseHP: hp})
}
