package character

type Action uint8

const (
	Idle Action = iota
	Walk
	Run
)

// String returns the animation clip name for the action.
func (a Action) String() string {
	switch a {
	case Idle:
		return "Idle"
	case Walk:
		return "Walk"
	case Run:
		return "Run"
	default:
		return "Unknown"
	}
}

func ParseAction(name string) (Action, bool) {
	switch name {
	case "Idle":
		return Idle, true
	case "Walk":
		return Walk, true
	case "Run":
		return Run, true
	default:
		return Idle, false
	}
}
