// Package core provides fundamental types and utilities shared by the
// simulation and the platform. It has no external dependencies so game
// logic stays pure and testable.
package core

import "math"

// Box is an axis-aligned rectangle described by its edges, in arena cells.
// Balls, paddles and blocks all expose their extent as a Box.
type Box struct {
	Left, Right float64
	Top, Bottom float64
}

// BoxAt builds a box from a center point and a full width/height.
func BoxAt(cx, cy, w, h float64) Box {
	return Box{
		Left:   cx - w/2,
		Right:  cx + w/2,
		Top:    cy - h/2,
		Bottom: cy + h/2,
	}
}

// Width returns the horizontal extent.
func (b Box) Width() float64 {
	return b.Right - b.Left
}

// Height returns the vertical extent.
func (b Box) Height() float64 {
	return b.Bottom - b.Top
}

// Center returns the center point of the box.
func (b Box) Center() (float64, float64) {
	return (b.Left + b.Right) / 2, (b.Top + b.Bottom) / 2
}

// Overlaps reports whether two boxes share any interior area.
func (b Box) Overlaps(o Box) bool {
	return b.Left < o.Right && o.Left < b.Right && b.Top < o.Bottom && o.Top < b.Bottom
}

// CellSpan converts the box to the inclusive-exclusive cell range it covers.
// A box always covers at least one cell.
func (b Box) CellSpan() (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(b.Left))
	y0 = int(math.Floor(b.Top))
	x1 = max(int(math.Ceil(b.Right)), x0+1)
	y1 = max(int(math.Ceil(b.Bottom)), y0+1)
	return x0, y0, x1, y1
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// ClampF restricts a float64 value to be within [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}

// Round rounds v to the given number of decimal digits.
func Round(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}
