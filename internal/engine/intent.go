package engine

// Intent is a discrete player action. The set is closed: only the types in
// this file implement it.
type Intent interface {
	isIntent()
}

// BuyFromShop buys the unit in a shop slot.
type BuyFromShop struct{ Slot int }

// RerollShop redraws every shop slot.
type RerollShop struct{}

// SellAt sells the unit in a board cell.
type SellAt struct{ Cell int }

// Merge combines the unit at From into the unit at To.
type Merge struct{ From, To int }

// SelectUpgrade picks an option from the pending offer.
type SelectUpgrade struct{ Option int }

func (BuyFromShop) isIntent()   {}
func (RerollShop) isIntent()    {}
func (SellAt) isIntent()        {}
func (Merge) isIntent()         {}
func (SelectUpgrade) isIntent() {}

// Apply validates intent against state and returns the successor state.
// On failure it returns the input state and a *Failure.
func (e *Engine) Apply(state RunState, intent Intent) (RunState, error) {
	if state.Offer != nil {
		if _, ok := intent.(SelectUpgrade); !ok {
			return state, fail(ReasonOfferPending)
		}
	}

	next := state.Clone()
	var err error
	switch in := intent.(type) {
	case BuyFromShop:
		err = e.buy(&next, in.Slot)
	case RerollShop:
		err = e.reroll(&next)
	case SellAt:
		err = e.sell(&next, in.Cell)
	case Merge:
		err = e.merge(&next, in.From, in.To)
	case SelectUpgrade:
		err = e.selectUpgrade(&next, in.Option)
	default:
		err = fail(ReasonUnknownIntent)
	}
	if err != nil {
		return state, err
	}
	return next, nil
}

func (e *Engine) buy(s *RunState, slot int) error {
	if !s.Shop.InRange(slot) {
		return fail(ReasonInvalidSlot)
	}
	unitID := s.Shop.Slots[slot].UnitID
	if unitID == "" {
		return fail(ReasonSlotEmpty)
	}
	if s.Coins < e.tables.Shop.BuyCost {
		return fail(ReasonNotEnoughCoins)
	}
	cell := s.Board.FirstEmpty()
	if cell < 0 {
		return fail(ReasonBoardFull)
	}
	def, ok := e.tables.Unit(unitID)
	if !ok {
		return fail(ReasonUnitMissing)
	}

	id, rng := nextUnitID(s.Rng)
	s.Rng = rng
	s.Coins -= e.tables.Shop.BuyCost
	s.Board.Cells[cell] = &UnitInstance{
		ID:        id,
		Role:      def.Role,
		UnitDefID: def.ID,
		Level:     1,
	}
	s.Shop.Slots[slot] = ShopSlot{}
	return nil
}

func (e *Engine) reroll(s *RunState) error {
	pool := e.tables.ShopPool()
	if len(pool) == 0 {
		return fail(ReasonNoRerollPool)
	}
	if s.FreeRerolls > 0 {
		s.FreeRerolls--
	} else {
		cost := e.rerollCost(s)
		if s.Coins < cost {
			return fail(ReasonNotEnoughCoins)
		}
		s.Coins -= cost
	}
	e.restock(s, pool)
	return nil
}

func (e *Engine) sell(s *RunState, cell int) error {
	if !s.Board.InRange(cell) {
		return fail(ReasonInvalidCell)
	}
	if s.Board.Cells[cell] == nil {
		return fail(ReasonCellEmpty)
	}
	s.Board.Cells[cell] = nil
	s.Coins += e.tables.Shop.SellRefund
	return nil
}

func (e *Engine) merge(s *RunState, from, to int) error {
	if from == to {
		return fail(ReasonSameCell)
	}
	if !s.Board.InRange(from) || !s.Board.InRange(to) {
		return fail(ReasonInvalidCell)
	}
	src, dst := s.Board.Cells[from], s.Board.Cells[to]
	if src == nil {
		return fail(ReasonSourceEmpty)
	}
	if dst == nil {
		return fail(ReasonTargetEmpty)
	}
	if src.Role != dst.Role {
		return fail(ReasonRoleMismatch)
	}
	if src.Level != dst.Level {
		return fail(ReasonLevelMismatch)
	}

	id, rng := nextUnitID(s.Rng)
	s.Rng = rng
	merged := *dst
	merged.ID = id
	merged.Level = dst.Level + 1
	s.Board.Cells[to] = &merged
	s.Board.Cells[from] = nil
	return nil
}

func (e *Engine) selectUpgrade(s *RunState, option int) error {
	if s.Offer == nil {
		return fail(ReasonNoOffer)
	}
	if option < 0 || option >= len(s.Offer.Options) {
		return fail(ReasonInvalidOption)
	}
	e.applyUpgrade(s, s.Offer.Options[option])
	return nil
}
