package config

import (
	_ "embed"
	"math"

	"github.com/vovakirdan/mergerun-td/internal/engine"
)

//go:embed defaults/mergerun.yaml
var defaultYAML []byte

const defaultStageCount = 20

// DefaultTables returns the built-in tables. It matches defaults/mergerun.yaml
// and is used when the embedded document cannot be parsed.
func DefaultTables() engine.Tables {
	stages := make([]engine.StageDef, 0, defaultStageCount)
	for s := range defaultStageCount {
		stage := engine.StageDef{
			Stage:    s + 1,
			HPMul:    round2(1 + 0.15*float64(s)),
			SpeedMul: round2(1 + 0.03*float64(s)),
			CountAdd: s / 2,
		}
		for w := range engine.MaxWavesPerStage {
			stage.Waves = append(stage.Waves, defaultWave(s, w))
		}
		stages = append(stages, stage)
	}

	return engine.Tables{
		LaneTiles: engine.DefaultLaneTiles,
		Stages:    stages,
		Units: []engine.UnitDef{
			{ID: "archer", Role: engine.RoleShooter, BaseAtk: 3, AtkSpd: 2.0, Range: 4},
			{ID: "cannon", Role: engine.RoleSplash, BaseAtk: 2, AtkSpd: 1.4, Range: 3},
			{ID: "frost", Role: engine.RoleSlow, BaseAtk: 1, AtkSpd: 1.6, Range: 3},
			{ID: "wall", Role: engine.RoleWall},
			{ID: engine.GuardianID, Role: engine.RoleGuardian, BaseHP: engine.DefaultGuardian},
		},
		Enemies: []engine.EnemyDef{
			{ID: engine.EnemyNormal, HP: 6, Speed: 1.25, BaseDamage: 1, Reward: 1},
			{ID: engine.EnemyFast, HP: 4, Speed: 2.0, BaseDamage: 1, Reward: 1},
			{ID: engine.EnemyTank, HP: 18, Speed: 0.8, BaseDamage: 3, Reward: 2},
			{ID: engine.EnemyBoss, HP: 60, Speed: 1.1, BaseDamage: 10, Reward: 5},
		},
		Upgrades: []engine.UpgradeDef{
			{ID: "sharp_arrows", Type: engine.UpgradeStat, Name: "Sharpened Arrows", AtkMul: 1.2, MaxApplications: 3},
			{ID: "quick_hands", Type: engine.UpgradeStat, Name: "Quick Hands", AspdMul: 1.15, MaxApplications: 3},
			{ID: "bargain_bin", Type: engine.UpgradeEconomy, Name: "Bargain Bin", RerollCostDelta: -1, MaxApplications: 2},
			{ID: "fresh_stock", Type: engine.UpgradeEconomy, Name: "Fresh Stock", WaveStartFreeRerollBonus: 1, MaxApplications: 2},
			{ID: "arm_the_walls", Type: engine.UpgradeTransform, Name: "Arm the Walls", TargetRole: engine.RoleWall},
			{ID: "shatter_frost", Type: engine.UpgradeTransform, Name: "Shatter Frost", TargetRole: engine.RoleSlow},
		},
		Rules: engine.UpgradeRules{
			OfferAfterWaves:    []int{2, 4},
			TimeoutSec:         10,
			MaxTransformPerRun: 1,
			AutoPickType:       engine.UpgradeStat,
		},
		Shop: engine.ShopDef{
			Slots:                engine.DefaultShopSlots,
			BuyCost:              3,
			RerollCost:           2,
			SellRefund:           1,
			RefillMs:             engine.DefaultRefillMs,
			WaveStartFreeRerolls: 1,
			StartingCoins:        6,
			SpawnWeights: map[string]float64{
				"archer": 1.0,
				"cannon": 0.8,
				"frost":  0.8,
				"wall":   0.6,
			},
		},
	}
}

// defaultWave grows enemy counts with the stage (0-based s) and wave (0-based w).
func defaultWave(s, w int) engine.WaveDef {
	wave := engine.WaveDef{Normal: 3 + w + s/2}
	if w >= 1 {
		wave.Fast = w + s/3
	}
	if w >= 2 {
		wave.Tank = w - 1 + s/4
	}
	if w == engine.MaxWavesPerStage-1 {
		wave.Boss = 1 + s/5
	}
	return wave
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
