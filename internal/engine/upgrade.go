package engine

import (
	"math"
	"slices"
)

// transformRoles maps a TRANSFORM target role to the role it becomes.
var transformRoles = map[Role]Role{
	RoleWall: RoleShooter,
	RoleSlow: RoleSplash,
}

// transformBlocked reports whether another TRANSFORM may not be applied.
func (e *Engine) transformBlocked(s *RunState) bool {
	return s.TransformUsed || e.tables.Rules.MaxTransformPerRun < 1
}

// applyUpgrade applies u to s and clears the pending offer. A blocked
// TRANSFORM only clears the offer.
func (e *Engine) applyUpgrade(s *RunState, u UpgradeDef) bool {
	s.Offer = nil
	if u.Type == UpgradeTransform && e.transformBlocked(s) {
		return false
	}

	s.AtkMul *= factor(u.AtkMul)
	s.AspdMul *= factor(u.AspdMul)
	s.RerollCostDelta += u.RerollCostDelta
	s.WaveStartFreeRerollBonus += u.WaveStartFreeRerollBonus
	if s.UpgradeCounts == nil {
		s.UpgradeCounts = make(map[string]int)
	}
	s.UpgradeCounts[u.ID]++

	if u.Type == UpgradeTransform {
		s.TransformUsed = true
		if to, ok := transformRoles[u.TargetRole]; ok {
			for _, unit := range s.Board.Cells {
				if unit != nil && unit.Role == u.TargetRole {
					unit.Role = to
				}
			}
		}
	}
	return true
}

func factor(f float64) float64 {
	if f == 0 || math.IsNaN(f) {
		return 1
	}
	return f
}

// eligibleUpgrades filters out capped upgrades and, once one has been used,
// TRANSFORM upgrades. An empty result falls back to the full table.
func (e *Engine) eligibleUpgrades(s *RunState) []UpgradeDef {
	eligible := make([]UpgradeDef, 0, len(e.tables.Upgrades))
	for _, u := range e.tables.Upgrades {
		if u.MaxApplications > 0 && s.UpgradeCounts[u.ID] >= u.MaxApplications {
			continue
		}
		if u.Type == UpgradeTransform && e.transformBlocked(s) {
			continue
		}
		eligible = append(eligible, u)
	}
	if len(eligible) == 0 {
		return slices.Clone(e.tables.Upgrades)
	}
	return eligible
}

// buildOffer samples up to OfferSize upgrades without replacement.
// It returns nil when the upgrade table is empty.
func (e *Engine) buildOffer(s *RunState, wave int) *UpgradeOffer {
	pool := e.eligibleUpgrades(s)
	if len(pool) == 0 {
		return nil
	}
	n := min(OfferSize, len(pool))
	options := make([]UpgradeDef, 0, n)
	for range n {
		idx, rng := pickIndex(s.Rng, len(pool))
		s.Rng = rng
		options = append(options, pool[idx])
		pool = slices.Delete(pool, idx, idx+1)
	}
	return &UpgradeOffer{
		Wave:       wave,
		Options:    options,
		DeadlineMs: s.TimeMs + int64(e.tables.Rules.TimeoutSec)*1000,
	}
}

// autoPick chooses the option used when an offer times out.
func (e *Engine) autoPick(offer *UpgradeOffer) UpgradeDef {
	for _, u := range offer.Options {
		if u.Type == e.tables.Rules.AutoPickType {
			return u
		}
	}
	return offer.Options[0]
}

func (e *Engine) offersAfter(wave int) bool {
	return slices.Contains(e.tables.Rules.OfferAfterWaves, wave)
}
