package engine

import "slices"

// ShopSlot holds an optional unit definition id; "" means empty.
type ShopSlot struct {
	UnitID string
}

// Empty reports whether the slot has nothing for sale.
func (s ShopSlot) Empty() bool {
	return s.UnitID == ""
}

// ShopState is the fixed list of slots plus the refill accumulator.
type ShopState struct {
	Slots         []ShopSlot
	RefillTimerMs int64
}

// NewShop creates a shop with n empty slots.
func NewShop(n int) ShopState {
	if n < 1 {
		n = DefaultShopSlots
	}
	return ShopState{Slots: make([]ShopSlot, n)}
}

// FirstEmpty returns the first empty slot index, or -1.
func (s ShopState) FirstEmpty() int {
	for i, slot := range s.Slots {
		if slot.Empty() {
			return i
		}
	}
	return -1
}

// InRange reports whether idx addresses a slot.
func (s ShopState) InRange(idx int) bool {
	return idx >= 0 && idx < len(s.Slots)
}

// Clone returns a deep copy.
func (s ShopState) Clone() ShopState {
	return ShopState{Slots: slices.Clone(s.Slots), RefillTimerMs: s.RefillTimerMs}
}

// refillMs returns the configured refill threshold.
func (e *Engine) refillMs() int64 {
	if e.tables.Shop.RefillMs > 0 {
		return e.tables.Shop.RefillMs
	}
	return DefaultRefillMs
}

// rerollCost returns the coin price of a paid reroll.
func (e *Engine) rerollCost(s *RunState) int {
	return max(0, e.tables.Shop.RerollCost+s.RerollCostDelta)
}

// tickShop fills at most one empty slot per threshold crossing. Leftover
// time is kept so backlogged refills drain one per tick.
func (e *Engine) tickShop(s *RunState, deltaMs int64) {
	shop := &s.Shop
	empty := shop.FirstEmpty()
	if empty < 0 {
		shop.RefillTimerMs = 0
		return
	}

	timer := shop.RefillTimerMs + deltaMs
	threshold := e.refillMs()
	if timer < threshold {
		shop.RefillTimerMs = timer
		return
	}
	shop.RefillTimerMs = timer - threshold

	pool := e.tables.ShopPool()
	if len(pool) == 0 {
		return
	}
	idx, rng := pickIndex(s.Rng, len(pool))
	s.Rng = rng
	shop.Slots[empty] = ShopSlot{UnitID: pool[idx].ID}
}

// restock redraws every slot uniformly from the shop pool.
func (e *Engine) restock(s *RunState, pool []UnitDef) {
	for i := range s.Shop.Slots {
		idx, rng := pickIndex(s.Rng, len(pool))
		s.Rng = rng
		s.Shop.Slots[i] = ShopSlot{UnitID: pool[idx].ID}
	}
	s.Shop.RefillTimerMs = 0
}
