package core

// Action is a semantic run-screen action, abstracted from physical keys.
type Action int

const (
	ActionNone Action = iota
	ActionCursorUp
	ActionCursorDown
	ActionCursorLeft
	ActionCursorRight
	ActionSelect // pick up a unit, or merge it onto the cursor cell
	ActionCancel // drop the current selection
	ActionSlot1  // buy from a shop slot, or choose an upgrade option
	ActionSlot2
	ActionSlot3
	ActionReroll
	ActionSell
	ActionRetry
	ActionNextStage
	ActionPause
	ActionHelp
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:        "None",
	ActionCursorUp:    "CursorUp",
	ActionCursorDown:  "CursorDown",
	ActionCursorLeft:  "CursorLeft",
	ActionCursorRight: "CursorRight",
	ActionSelect:      "Select",
	ActionCancel:      "Cancel",
	ActionSlot1:       "Slot1",
	ActionSlot2:       "Slot2",
	ActionSlot3:       "Slot3",
	ActionReroll:      "Reroll",
	ActionSell:        "Sell",
	ActionRetry:       "Retry",
	ActionNextStage:   "NextStage",
	ActionPause:       "Pause",
	ActionHelp:        "Help",
	ActionQuit:        "Quit",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// Slot returns the 0-based slot index for ActionSlotN, or -1.
func (a Action) Slot() int {
	switch a {
	case ActionSlot1:
		return 0
	case ActionSlot2:
		return 1
	case ActionSlot3:
		return 2
	default:
		return -1
	}
}

// InputFrame collects the actions triggered between two ticks, in the
// order they arrived. Intents are order sensitive, so duplicates are kept.
type InputFrame struct {
	actions []Action
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

// Set appends an action. ActionNone is ignored.
func (f *InputFrame) Set(a Action) {
	if a == ActionNone {
		return
	}
	f.actions = append(f.actions, a)
}

// Has reports whether the action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	for _, got := range f.actions {
		if got == a {
			return true
		}
	}
	return false
}

// Actions returns the triggered actions in arrival order.
func (f InputFrame) Actions() []Action {
	out := make([]Action, len(f.actions))
	copy(out, f.actions)
	return out
}

// Empty reports whether nothing was triggered.
func (f InputFrame) Empty() bool {
	return len(f.actions) == 0
}

// Clear resets the frame for the next tick.
func (f *InputFrame) Clear() {
	f.actions = f.actions[:0]
}
