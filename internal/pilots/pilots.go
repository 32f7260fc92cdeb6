// Package pilots implements autopilot strategies for headless runs.
// Each pilot registers itself with the registry in init().
package pilots

import (
	"github.com/vovakirdan/mergerun-td/internal/engine"
	"github.com/vovakirdan/mergerun-td/internal/registry"
)

func init() {
	registry.Register("idle", func() registry.Pilot { return Idle{} })
	registry.Register("greedy", func() registry.Pilot { return Greedy{} })
}

// Idle never acts. Offers resolve through the timeout auto-pick.
type Idle struct{}

func (Idle) ID() string    { return "idle" }
func (Idle) Title() string { return "Idle (no actions)" }

func (Idle) Decide(engine.RunState, *engine.Tables) []engine.Intent {
	return nil
}

// Greedy picks upgrades immediately, merges any matching pair and spends
// coins on attacking units.
type Greedy struct{}

func (Greedy) ID() string    { return "greedy" }
func (Greedy) Title() string { return "Greedy builder" }

func (Greedy) Decide(s engine.RunState, t *engine.Tables) []engine.Intent {
	if s.Ended() {
		return nil
	}
	if s.Offer != nil {
		return []engine.Intent{engine.SelectUpgrade{Option: preferredOption(s.Offer)}}
	}

	var intents []engine.Intent
	if from, to, ok := mergePair(s.Board); ok {
		intents = append(intents, engine.Merge{From: from, To: to})
	}

	coins := s.Coins
	free := s.Board.Len() - s.Board.Occupied()
	if len(intents) > 0 {
		free++
	}
	bought := false
	for i, slot := range s.Shop.Slots {
		if free == 0 || coins < t.Shop.BuyCost {
			break
		}
		def, ok := t.Unit(slot.UnitID)
		if !ok || def.Role == engine.RoleWall {
			continue
		}
		intents = append(intents, engine.BuyFromShop{Slot: i})
		coins -= t.Shop.BuyCost
		free--
		bought = true
	}

	if !bought && free > 0 && s.FreeRerolls > 0 {
		intents = append(intents, engine.RerollShop{})
	}
	return intents
}

// preferredOption favors attack upgrades, then the first option.
func preferredOption(offer *engine.UpgradeOffer) int {
	for i, u := range offer.Options {
		if u.Type == engine.UpgradeStat {
			return i
		}
	}
	for i, u := range offer.Options {
		if u.Type == engine.UpgradeTransform {
			return i
		}
	}
	return 0
}

// mergePair finds the first two units with equal role and level.
// The later cell merges into the earlier one so front cells grow.
func mergePair(b engine.Board) (from, to int, ok bool) {
	for i, a := range b.Cells {
		if a == nil {
			continue
		}
		for j := i + 1; j < len(b.Cells); j++ {
			c := b.Cells[j]
			if c != nil && c.Role == a.Role && c.Level == a.Level {
				return j, i, true
			}
		}
	}
	return 0, 0, false
}
