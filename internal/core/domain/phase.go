package domain

import "fmt"

// Phase is one of the four strictly ordered construction stages.
type Phase int

const (
	PhaseLevels Phase = iota + 1
	PhaseWalls
	PhaseRooms
	PhaseOpenings
)

// Phases returns the construction stages in build order.
func Phases() []Phase {
	return []Phase{PhaseLevels, PhaseWalls, PhaseRooms, PhaseOpenings}
}

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseLevels:
		return "levels"
	case PhaseWalls:
		return "walls"
	case PhaseRooms:
		return "rooms"
	case PhaseOpenings:
		return "openings"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ParsePhase converts a phase name back to a Phase. Unknown names yield zero.
func ParsePhase(s string) Phase {
	for _, p := range Phases() {
		if p.String() == s {
			return p
		}
	}
	return 0
}
