package interp

// Phase is a state of the interpreter's state machine:
//
//	Parsing -> TypeChecking -> Normalizing -> Interpreting -> Done | Stuck
//
// with ParseFailed, TypeFailed, Exception and OutOfFuel as the other
// terminal states.
type Phase int

const (
	Parsing Phase = iota
	TypeChecking
	Normalizing
	Interpreting
	Done
	Stuck
	OutOfFuel
	ParseFailed
	TypeFailed
	Exception
)

// String returns the status text shown to the host
func (p Phase) String() string {
	switch p {
	case Parsing:
		return "Parsing"
	case TypeChecking:
		return "Type checking"
	case Normalizing:
		return "Normalizing"
	case Interpreting:
		return "Interpreting"
	case Done:
		return "Done"
	case Stuck:
		return "Stuck"
	case OutOfFuel:
		return "Out of fuel"
	case ParseFailed:
		return "Parse error"
	case TypeFailed:
		return "Type error"
	case Exception:
		return "Exception"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further transition leaves p
func (p Phase) Terminal() bool {
	return p >= Done
}

// Failed reports whether p is a terminal failure. Stuck and OutOfFuel are
// not failures.
func (p Phase) Failed() bool {
	return p == ParseFailed || p == TypeFailed || p == Exception
}
