// Package orbit lays out satellites on a circular orbit diagram and renders
// it as SVG or as a character grid. Layout is a pure function of its inputs
// and the instant passed in.
package orbit

import (
	"math"
	"time"
)

// Canvas and scene constants, in viewBox units.
const (
	ViewWidth   = 800.0
	ViewHeight  = 600.0
	EarthRadius = 140.0
)

// RangeRings are the radii of the concentric range rings.
var RangeRings = []float64{100, 200, 300, 400}

// Point is a position in viewBox units.
type Point struct {
	X float64
	Y float64
}

// Geometry places satellites on a circle of Radius around (CenterX, CenterY).
// DriftPerMilli is the angular drift in radians per wall-clock millisecond.
type Geometry struct {
	CenterX       float64
	CenterY       float64
	Radius        float64
	DriftPerMilli float64
}

// DefaultGeometry is the standard 800x600 orbit diagram.
var DefaultGeometry = Geometry{
	CenterX:       400,
	CenterY:       300,
	Radius:        220,
	DriftPerMilli: 0.00005,
}

// Angle returns the angle in radians of satellite i of n at instant t. The
// angle is not reduced modulo 2π. ok is false when n is not positive or i is
// out of range.
func (g Geometry) Angle(i, n int, t time.Time) (angle float64, ok bool) {
	if n <= 0 || i < 0 || i >= n {
		return 0, false
	}
	base := float64(i) * (2 * math.Pi / float64(n))
	offset := float64(t.UnixMilli())*g.DriftPerMilli + float64(i)
	return base + offset, true
}

// Position returns the screen position of satellite i of n at instant t.
func (g Geometry) Position(i, n int, t time.Time) (Point, bool) {
	angle, ok := g.Angle(i, n, t)
	if !ok {
		return Point{}, false
	}
	return Point{
		X: g.CenterX + g.Radius*math.Cos(angle),
		Y: g.CenterY + g.Radius*math.Sin(angle),
	}, true
}

// Center returns the center of the diagram.
func (g Geometry) Center() Point {
	return Point{X: g.CenterX, Y: g.CenterY}
}
