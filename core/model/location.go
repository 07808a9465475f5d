package model

import "math"

// Location is a position on the simulation grid.
type Location struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo returns the Euclidean distance to the other location.
func (l Location) DistanceTo(o Location) float64 {
	dx := l.X - o.X
	dy := l.Y - o.Y
	return math.Sqrt(dx*dx + dy*dy)
}
