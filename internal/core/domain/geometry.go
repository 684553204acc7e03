package domain

import "math"

// BaseLevel is the elevation every design coordinate is relative to.
const BaseLevel = 0.0

// Point2D is a plan coordinate.
type Point2D struct {
	X float64
	Y float64
}

// At lifts the point to elevation z.
func (p Point2D) At(z float64) Point3D {
	return Point3D{X: p.X, Y: p.Y, Z: z}
}

// Point3D is a model coordinate.
type Point3D struct {
	X float64
	Y float64
	Z float64
}

// Line is a bounded segment between two points.
type Line struct {
	Start Point3D
	End   Point3D
}

// Length returns the Euclidean length of the segment.
func (l Line) Length() float64 {
	dx := l.End.X - l.Start.X
	dy := l.End.Y - l.Start.Y
	dz := l.End.Z - l.Start.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
