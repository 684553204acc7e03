package domain

// BuildResult lists the host handles created by one build, per phase.
type BuildResult struct {
	Levels []ElementID `json:"levels"`
	Walls  []ElementID `json:"walls"`

	// RoomBoundaries holds one entry per room: the boundary lines registered for it.
	RoomBoundaries [][]ElementID `json:"room_boundaries"`

	Openings []ElementID `json:"openings"`

	// Activated lists prototypes switched to active during the build.
	// Activation may outlive a rolled-back transaction.
	Activated []ElementID `json:"activated,omitempty"`
}

// Counts returns the number of entities created per phase.
func (r *BuildResult) Counts() Counts {
	if r == nil {
		return Counts{}
	}
	return Counts{
		Levels:   len(r.Levels),
		Walls:    len(r.Walls),
		Rooms:    len(r.RoomBoundaries),
		Openings: len(r.Openings),
	}
}
