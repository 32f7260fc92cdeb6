package config

import (
	"fmt"

	"github.com/vovakirdan/mergerun-td/internal/engine"
)

// Validate checks tables for values the engine cannot simulate sensibly.
// Checks:
//   - At least one stage, each with at least one wave and no negative counts
//   - Lane has at least one tile
//   - Unit, enemy and upgrade ids are present and unique
//   - Shop has a slot and non-negative prices
//   - Upgrade and auto-pick types are known
//   - Unit roles and transform targets are known roles
func Validate(t engine.Tables) error {
	if t.LaneTiles < 1 {
		return ValidationError{Code: "LANE_TILES", Message: fmt.Sprintf("lane needs at least one tile, got %d", t.LaneTiles)}
	}
	if len(t.Stages) == 0 {
		return ValidationError{Code: "NO_STAGES", Message: "at least one stage is required"}
	}
	for i, s := range t.Stages {
		if len(s.Waves) == 0 {
			return ValidationError{Code: "NO_WAVES", Message: fmt.Sprintf("stage %d has no waves", i+1)}
		}
		for j, w := range s.Waves {
			if w.Normal < 0 || w.Fast < 0 || w.Tank < 0 || w.Boss < 0 {
				return ValidationError{
					Code:    "NEGATIVE_COUNT",
					Message: fmt.Sprintf("stage %d wave %d has a negative enemy count", i+1, j+1),
				}
			}
		}
	}

	if err := uniqueIDs("UNIT", len(t.Units), func(i int) string { return t.Units[i].ID }); err != nil {
		return err
	}
	if err := uniqueIDs("ENEMY", len(t.Enemies), func(i int) string { return t.Enemies[i].ID }); err != nil {
		return err
	}
	if err := uniqueIDs("UPGRADE", len(t.Upgrades), func(i int) string { return t.Upgrades[i].ID }); err != nil {
		return err
	}

	for _, u := range t.Units {
		if !knownRole(u.Role) {
			return ValidationError{Code: "UNIT_ROLE", Message: fmt.Sprintf("unit %q has unknown role %q", u.ID, u.Role)}
		}
	}

	for _, e := range t.Enemies {
		if e.HP < 1 {
			return ValidationError{Code: "ENEMY_HP", Message: fmt.Sprintf("enemy %q needs positive hp", e.ID)}
		}
	}

	shop := t.Shop
	if shop.Slots < 1 {
		return ValidationError{Code: "SHOP_SLOTS", Message: "shop needs at least one slot"}
	}
	if shop.BuyCost < 0 || shop.RerollCost < 0 || shop.SellRefund < 0 || shop.StartingCoins < 0 {
		return ValidationError{Code: "SHOP_PRICE", Message: "shop prices and starting coins must not be negative"}
	}
	if shop.RefillMs < 0 {
		return ValidationError{Code: "SHOP_REFILL", Message: "refill time must not be negative"}
	}

	for _, u := range t.Upgrades {
		if !knownUpgradeType(u.Type) {
			return ValidationError{Code: "UPGRADE_TYPE", Message: fmt.Sprintf("upgrade %q has unknown type %q", u.ID, u.Type)}
		}
		if u.Type == engine.UpgradeTransform && u.TargetRole != "" && !knownRole(u.TargetRole) {
			return ValidationError{Code: "UNIT_ROLE", Message: fmt.Sprintf("upgrade %q targets unknown role %q", u.ID, u.TargetRole)}
		}
	}
	if t.Rules.AutoPickType != "" && !knownUpgradeType(t.Rules.AutoPickType) {
		return ValidationError{Code: "AUTO_PICK", Message: fmt.Sprintf("unknown auto-pick type %q", t.Rules.AutoPickType)}
	}
	if t.Rules.TimeoutSec < 0 {
		return ValidationError{Code: "TIMEOUT", Message: "offer timeout must not be negative"}
	}
	for _, w := range t.Rules.OfferAfterWaves {
		if w < 1 {
			return ValidationError{Code: "OFFER_WAVE", Message: fmt.Sprintf("offer wave %d must be 1 or greater", w)}
		}
	}
	return nil
}

func uniqueIDs(kind string, n int, id func(int) string) error {
	seen := make(map[string]bool, n)
	for i := range n {
		v := id(i)
		if v == "" {
			return ValidationError{Code: kind + "_ID", Message: fmt.Sprintf("%s %d has no id", kind, i+1)}
		}
		if seen[v] {
			return ValidationError{Code: "DUPLICATE_" + kind, Message: fmt.Sprintf("duplicate id %q", v)}
		}
		seen[v] = true
	}
	return nil
}

func knownUpgradeType(t engine.UpgradeType) bool {
	switch t {
	case engine.UpgradeStat, engine.UpgradeEconomy, engine.UpgradeTransform:
		return true
	}
	return false
}

func knownRole(r engine.Role) bool {
	switch r {
	case engine.RoleShooter, engine.RoleSplash, engine.RoleSlow, engine.RoleWall, engine.RoleGuardian:
		return true
	}
	return false
}
