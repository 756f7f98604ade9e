package menu

import "strings"

// State is a state of the menu controller.
type State int

const (
	Listing State = iota
	Editing
	Removing
	Importing
	Validating
	RevealingSensitive
	ConfirmExit
)

func (s State) String() string {
	switch s {
	case Listing:
		return "listing"
	case Editing:
		return "editing"
	case Removing:
		return "removing"
	case Importing:
		return "importing"
	case Validating:
		return "validating"
	case RevealingSensitive:
		return "revealing-sensitive"
	case ConfirmExit:
		return "confirm-exit"
	default:
		return "unknown"
	}
}

// dispatch maps one line of operator input to the next state. save is only
// meaningful for ConfirmExit. ok is false for unrecognised input, in which
// case the controller stays where it is.
func dispatch(input string) (next State, save bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "1":
		return Listing, false, true
	case "2":
		return Editing, false, true
	case "3":
		return Removing, false, true
	case "4":
		return Importing, false, true
	case "5":
		return Validating, false, true
	case "6":
		return RevealingSensitive, false, true
	case "s":
		return ConfirmExit, true, true
	case "q":
		return ConfirmExit, false, true
	default:
		return Listing, false, false
	}
}
