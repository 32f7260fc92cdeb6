package engine

// Stable failure reasons returned by Apply.
const (
	ReasonOfferPending   = "Finish upgrade selection first"
	ReasonInvalidSlot    = "Invalid shop slot"
	ReasonNotEnoughCoins = "Not enough coins"
	ReasonSlotEmpty      = "Selected slot is empty"
	ReasonUnitMissing    = "Unit definition missing"
	ReasonBoardFull      = "Board is full"
	ReasonNoRerollPool   = "No units available for reroll"
	ReasonInvalidCell    = "Invalid board cell"
	ReasonCellEmpty      = "Cell is already empty"
	ReasonSameCell       = "Cannot merge the same cell"
	ReasonSourceEmpty    = "Source cell is empty"
	ReasonTargetEmpty    = "Target cell is empty"
	ReasonRoleMismatch   = "Cannot merge: roles do not match"
	ReasonLevelMismatch  = "Cannot merge: levels do not match"
	ReasonNoOffer        = "No upgrade offer pending"
	ReasonInvalidOption  = "Invalid upgrade option"
	ReasonUnknownIntent  = "Unknown intent"
)

// Failure is a rejected intent. The state passed to Apply is left unchanged.
type Failure struct {
	Reason string
}

func (f *Failure) Error() string {
	return f.Reason
}

func fail(reason string) error {
	return &Failure{Reason: reason}
}
