package domain

// DefaultWallHeight is the height given to every generated wall.
const DefaultWallHeight = 3.0

// DesignDocument is a generated design, decoded and read-only.
// It lives for one import and is never persisted.
type DesignDocument struct {
	// Levels are created first, in order.
	Levels []Level

	// Walls reference a wall type and a level.
	Walls []Wall

	// Rooms are described by explicit boundary segments.
	Rooms []Room

	// Openings are doors and windows hosted by walls.
	Openings []Opening
}

// Counts returns the number of entities of each kind.
func (d *DesignDocument) Counts() Counts {
	if d == nil {
		return Counts{}
	}
	return Counts{
		Levels:   len(d.Levels),
		Walls:    len(d.Walls),
		Rooms:    len(d.Rooms),
		Openings: len(d.Openings),
	}
}

// Counts tallies entities per phase.
type Counts struct {
	Levels   int `json:"levels"`
	Walls    int `json:"walls"`
	Rooms    int `json:"rooms"`
	Openings int `json:"openings"`
}

// Total returns the sum of all counts.
func (c Counts) Total() int {
	return c.Levels + c.Walls + c.Rooms + c.Openings
}

// Level is a storey at an elevation relative to BaseLevel.
type Level struct {
	Elevation float64
}

// Wall is a straight wall segment on a level.
type Wall struct {
	Start   Point2D
	End     Point2D
	TypeID  ResourceRef
	LevelID ResourceRef
}

// Line returns the wall's location line at elevation z.
func (w Wall) Line(z float64) Line {
	return Line{Start: w.Start.At(z), End: w.End.At(z)}
}

// BoundaryPoint is one explicit room boundary segment from Point to Next.
type BoundaryPoint struct {
	Point Point2D
	Next  Point2D
}

// Room is a region bounded by explicit segments.
type Room struct {
	// Name is an optional label such as "Bedroom 1".
	Name     string
	Boundary []BoundaryPoint
}

// Segments returns the boundary exactly as given, one line per entry.
// No closing edge is added.
func (r Room) Segments(z float64) []Line {
	lines := make([]Line, 0, len(r.Boundary))
	for _, b := range r.Boundary {
		lines = append(lines, Line{Start: b.Point.At(z), End: b.Next.At(z)})
	}
	return lines
}

// Closed reports whether every segment ends where the next begins,
// wrapping from the last segment to the first.
func (r Room) Closed() bool {
	n := len(r.Boundary)
	if n == 0 {
		return false
	}
	for i := range r.Boundary {
		if r.Boundary[i].Next != r.Boundary[(i+1)%n].Point {
			return false
		}
	}
	return true
}

// Opening is a door or window placed on a host wall.
type Opening struct {
	Location Point2D
	TypeID   ResourceRef
	HostID   ResourceRef
}
