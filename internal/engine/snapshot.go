package engine

import (
	"fmt"
	"hash/fnv"
	"maps"
	"slices"
)

// Snapshot returns a deterministic hash of the complete run state.
// Two states with equal hashes are treated as identical by replay checks.
func Snapshot(s RunState) uint64 {
	h := fnv.New64a()

	fmt.Fprintf(h, "stage:%d wave:%d phase:%d hp:%d coins:%d free:%d|",
		s.StageIndex, s.WaveIndex, s.Phase, s.BaseHP, s.Coins, s.FreeRerolls)
	fmt.Fprintf(h, "mul:%g,%g delta:%d bonus:%d transform:%t|",
		s.AtkMul, s.AspdMul, s.RerollCostDelta, s.WaveStartFreeRerollBonus, s.TransformUsed)
	fmt.Fprintf(h, "end:%d time:%d rng:%d|", s.End, s.TimeMs, s.Rng.Seed)

	fmt.Fprintf(h, "board:%dx%d|", s.Board.Rows, s.Board.Cols)
	for i, u := range s.Board.Cells {
		if u == nil {
			continue
		}
		fmt.Fprintf(h, "%d:%s,%s,%s,%d,%d|", i, u.ID, u.Role, u.UnitDefID, u.Level, u.CooldownMs)
	}

	fmt.Fprintf(h, "shop:%d|", s.Shop.RefillTimerMs)
	for _, slot := range s.Shop.Slots {
		fmt.Fprintf(h, "%s|", slot.UnitID)
	}

	fmt.Fprintf(h, "lane:%d,%d|", s.Lane.Length, s.Lane.CombatElapsedMs)
	for _, en := range s.Lane.Enemies {
		fmt.Fprintf(h, "e:%s,%d,%d,%d|", en.Type, en.HP, en.Tile, en.ProgressMs)
	}
	for _, p := range s.Lane.Pending {
		fmt.Fprintf(h, "p:%s,%d|", p.Type, p.DueMs)
	}

	if s.Offer != nil {
		fmt.Fprintf(h, "offer:%d,%d|", s.Offer.Wave, s.Offer.DeadlineMs)
		for _, u := range s.Offer.Options {
			fmt.Fprintf(h, "%s|", u.ID)
		}
	}

	for _, id := range slices.Sorted(maps.Keys(s.UpgradeCounts)) {
		fmt.Fprintf(h, "u:%s=%d|", id, s.UpgradeCounts[id])
	}

	return h.Sum64()
}
