package engine

// Direction is the transient transition signal consumed by presentation.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Backward:
		return "backward"
	case Forward:
		return "forward"
	default:
		return "none"
	}
}

// Cause records which command produced a transition.
type Cause string

const (
	CauseGoTo   Cause = "goto"
	CauseNext   Cause = "next"
	CauseBack   Cause = "back"
	CauseChoose Cause = "choose"
)
