// Package config provides YAML-based loading of the Merge Run TD tables
// (stages, enemies, units, shop economy and upgrades).
package config

import (
	"fmt"
	"math"

	"github.com/vovakirdan/mergerun-td/internal/engine"
)

// File is the on-disk layout of mergerun.yaml.
type File struct {
	Lane     LaneConfig      `yaml:"lane"`
	Stages   []StageConfig   `yaml:"stages"`
	Enemies  []EnemyConfig   `yaml:"enemies"`
	Units    []UnitConfig    `yaml:"units"`
	Shop     ShopConfig      `yaml:"shop"`
	Upgrades []UpgradeConfig `yaml:"upgrades"`
	Rules    RulesConfig     `yaml:"rules"`
}

// LaneConfig defines the enemy lane.
type LaneConfig struct {
	Tiles int `yaml:"tiles"`
}

// StageConfig defines one stage and its waves.
type StageConfig struct {
	Stage    int          `yaml:"stage"`
	HPMul    float64      `yaml:"hp_mul"`
	SpdMul   float64      `yaml:"spd_mul"`
	CountAdd int          `yaml:"count_add"`
	Waves    []WaveConfig `yaml:"waves"`
}

// WaveConfig holds per-type enemy counts.
type WaveConfig struct {
	Normal int `yaml:"normal,omitempty"`
	Fast   int `yaml:"fast,omitempty"`
	Tank   int `yaml:"tank,omitempty"`
	Boss   int `yaml:"boss,omitempty"`
}

// EnemyConfig defines an enemy type.
type EnemyConfig struct {
	ID         string  `yaml:"id"`
	HP         int     `yaml:"hp"`
	Speed      float64 `yaml:"speed"`
	BaseDamage int     `yaml:"base_damage"`
	Reward     int     `yaml:"reward"`
}

// UnitConfig defines a unit; base_hp is only set for the guardian.
type UnitConfig struct {
	ID      string  `yaml:"id"`
	Role    string  `yaml:"role"`
	BaseAtk int     `yaml:"base_atk"`
	AtkSpd  float64 `yaml:"atk_spd"`
	Range   float64 `yaml:"range"`
	BaseHP  *int    `yaml:"base_hp,omitempty"`
}

// ShopConfig defines the shop economy.
type ShopConfig struct {
	Slots                int                `yaml:"slots"`
	BuyCost              int                `yaml:"buy_cost"`
	RerollCost           int                `yaml:"reroll_cost"`
	SellRefund           int                `yaml:"sell_refund"`
	RefillSec            float64            `yaml:"refill_sec"`
	WaveStartFreeRerolls int                `yaml:"wave_start_free_rerolls"`
	StartingCoins        int                `yaml:"starting_coins"`
	SpawnWeights         map[string]float64 `yaml:"spawn_weights,omitempty"`
}

// UpgradeConfig defines an upgrade. Absent fields are neutral.
type UpgradeConfig struct {
	ID                       string   `yaml:"id"`
	Type                     string   `yaml:"type"`
	Name                     string   `yaml:"name"`
	AtkMul                   *float64 `yaml:"atk_mul,omitempty"`
	AspdMul                  *float64 `yaml:"aspd_mul,omitempty"`
	RerollCostDelta          *int     `yaml:"reroll_cost_delta,omitempty"`
	WaveStartFreeRerollBonus *int     `yaml:"wave_start_free_reroll_bonus,omitempty"`
	MaxApplications          *int     `yaml:"max_applications,omitempty"`
	TargetRole               string   `yaml:"target_role,omitempty"`
}

// RulesConfig defines when upgrade offers appear.
type RulesConfig struct {
	OfferAfterWaves       []int  `yaml:"offer_after_waves"`
	TimeoutSec            int    `yaml:"timeout_sec"`
	MaxTransformPerRun    int    `yaml:"max_transform_per_run"`
	AutoPickTypeOnTimeout string `yaml:"auto_pick_type_on_timeout"`
}

// ValidationError contains details about an invalid table.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Tables converts the file into engine tables.
func (f File) Tables() engine.Tables {
	t := engine.Tables{
		LaneTiles: f.Lane.Tiles,
		Stages:    make([]engine.StageDef, 0, len(f.Stages)),
		Units:     make([]engine.UnitDef, 0, len(f.Units)),
		Enemies:   make([]engine.EnemyDef, 0, len(f.Enemies)),
		Upgrades:  make([]engine.UpgradeDef, 0, len(f.Upgrades)),
		Rules: engine.UpgradeRules{
			OfferAfterWaves:    append([]int(nil), f.Rules.OfferAfterWaves...),
			TimeoutSec:         f.Rules.TimeoutSec,
			MaxTransformPerRun: f.Rules.MaxTransformPerRun,
			AutoPickType:       engine.UpgradeType(f.Rules.AutoPickTypeOnTimeout),
		},
		Shop: engine.ShopDef{
			Slots:                f.Shop.Slots,
			BuyCost:              f.Shop.BuyCost,
			RerollCost:           f.Shop.RerollCost,
			SellRefund:           f.Shop.SellRefund,
			RefillMs:             int64(math.Round(f.Shop.RefillSec * 1000)),
			WaveStartFreeRerolls: f.Shop.WaveStartFreeRerolls,
			StartingCoins:        f.Shop.StartingCoins,
			SpawnWeights:         f.Shop.SpawnWeights,
		},
	}

	for _, s := range f.Stages {
		stage := engine.StageDef{
			Stage:    s.Stage,
			HPMul:    s.HPMul,
			SpeedMul: s.SpdMul,
			CountAdd: s.CountAdd,
			Waves:    make([]engine.WaveDef, 0, len(s.Waves)),
		}
		for _, w := range s.Waves {
			stage.Waves = append(stage.Waves, engine.WaveDef(w))
		}
		t.Stages = append(t.Stages, stage)
	}
	for _, e := range f.Enemies {
		t.Enemies = append(t.Enemies, engine.EnemyDef(e))
	}
	for _, u := range f.Units {
		t.Units = append(t.Units, engine.UnitDef{
			ID:      u.ID,
			Role:    engine.Role(u.Role),
			BaseAtk: u.BaseAtk,
			AtkSpd:  u.AtkSpd,
			Range:   u.Range,
			BaseHP:  deref(u.BaseHP),
		})
	}
	for _, u := range f.Upgrades {
		t.Upgrades = append(t.Upgrades, engine.UpgradeDef{
			ID:                       u.ID,
			Type:                     engine.UpgradeType(u.Type),
			Name:                     u.Name,
			AtkMul:                   deref(u.AtkMul),
			AspdMul:                  deref(u.AspdMul),
			RerollCostDelta:          deref(u.RerollCostDelta),
			WaveStartFreeRerollBonus: deref(u.WaveStartFreeRerollBonus),
			MaxApplications:          deref(u.MaxApplications),
			TargetRole:               engine.Role(u.TargetRole),
		})
	}
	return t
}

// FromTables converts engine tables back into the file layout.
func FromTables(t engine.Tables) File {
	f := File{
		Lane: LaneConfig{Tiles: t.LaneTiles},
		Shop: ShopConfig{
			Slots:                t.Shop.Slots,
			BuyCost:              t.Shop.BuyCost,
			RerollCost:           t.Shop.RerollCost,
			SellRefund:           t.Shop.SellRefund,
			RefillSec:            float64(t.Shop.RefillMs) / 1000,
			WaveStartFreeRerolls: t.Shop.WaveStartFreeRerolls,
			StartingCoins:        t.Shop.StartingCoins,
			SpawnWeights:         t.Shop.SpawnWeights,
		},
		Rules: RulesConfig{
			OfferAfterWaves:       append([]int(nil), t.Rules.OfferAfterWaves...),
			TimeoutSec:            t.Rules.TimeoutSec,
			MaxTransformPerRun:    t.Rules.MaxTransformPerRun,
			AutoPickTypeOnTimeout: string(t.Rules.AutoPickType),
		},
	}
	for _, s := range t.Stages {
		stage := StageConfig{Stage: s.Stage, HPMul: s.HPMul, SpdMul: s.SpeedMul, CountAdd: s.CountAdd}
		for _, w := range s.Waves {
			stage.Waves = append(stage.Waves, WaveConfig(w))
		}
		f.Stages = append(f.Stages, stage)
	}
	for _, e := range t.Enemies {
		f.Enemies = append(f.Enemies, EnemyConfig(e))
	}
	for _, u := range t.Units {
		f.Units = append(f.Units, UnitConfig{
			ID:      u.ID,
			Role:    string(u.Role),
			BaseAtk: u.BaseAtk,
			AtkSpd:  u.AtkSpd,
			Range:   u.Range,
			BaseHP:  ref(u.BaseHP),
		})
	}
	for _, u := range t.Upgrades {
		f.Upgrades = append(f.Upgrades, UpgradeConfig{
			ID:                       u.ID,
			Type:                     string(u.Type),
			Name:                     u.Name,
			AtkMul:                   ref(u.AtkMul),
			AspdMul:                  ref(u.AspdMul),
			RerollCostDelta:          ref(u.RerollCostDelta),
			WaveStartFreeRerollBonus: ref(u.WaveStartFreeRerollBonus),
			MaxApplications:          ref(u.MaxApplications),
			TargetRole:               string(u.TargetRole),
		})
	}
	return f
}

func deref[T int | float64](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// ref returns nil for the zero value so omitted fields stay omitted.
func ref[T int | float64](v T) *T {
	if v == 0 {
		return nil
	}
	return &v
}
