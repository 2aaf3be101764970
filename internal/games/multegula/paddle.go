package multegula

import (
	"fmt"

	"github.com/vovakirdan/multegula/internal/core"
)

// Paddle is a slab guarding one arena edge. Its center moves along the edge;
// the cross-axis band [near, far) is fixed.
type Paddle struct {
	orientation Orientation
	center      float64
	width       float64
	thickness   float64
	speed       float64
	direction   Direction

	length    float64 // edge length, bounds the center
	near, far float64
}

// PaddleSpec describes paddle geometry within an arena.
type PaddleSpec struct {
	Width     float64 // along the edge, clamped to the edge length
	Thickness float64
	Inset     float64 // gap between the arena bound and the paddle
	Speed     float64 // cells per tick
}

// NewPaddle creates a paddle centred on its edge of an arenaW x arenaH arena.
// A non-positive width or thickness panics.
func NewPaddle(o Orientation, arenaW, arenaH float64, spec PaddleSpec) *Paddle {
	if spec.Width <= 0 {
		panic(fmt.Sprintf("multegula: paddle width must be positive, got %v", spec.Width))
	}
	if spec.Thickness <= 0 {
		panic(fmt.Sprintf("multegula: paddle thickness must be positive, got %v", spec.Thickness))
	}

	p := &Paddle{
		orientation: o,
		thickness:   spec.Thickness,
		speed:       spec.Speed,
		direction:   Stop,
	}

	switch o {
	case North:
		p.length = arenaW
		p.near, p.far = spec.Inset, spec.Inset+spec.Thickness
	case South:
		p.length = arenaW
		p.near, p.far = arenaH-spec.Inset-spec.Thickness, arenaH-spec.Inset
	case West:
		p.length = arenaH
		p.near, p.far = spec.Inset, spec.Inset+spec.Thickness
	case East:
		p.length = arenaH
		p.near, p.far = arenaW-spec.Inset-spec.Thickness, arenaW-spec.Inset
	default:
		panic(fmt.Sprintf("multegula: invalid orientation %d", int(o)))
	}

	p.width = min(spec.Width, p.length)
	p.center = p.length / 2
	return p
}

// Advance moves the paddle one tick in its direction, clamped to the edge.
func (p *Paddle) Advance() {
	p.SetCenter(p.center + p.direction.sign()*p.speed)
}

// Info returns (center, width, direction, orientation).
func (p *Paddle) Info() (float64, float64, Direction, Orientation) {
	return p.center, p.width, p.direction, p.orientation
}

// Edges returns (left, right, top, bottom) of the paddle rectangle.
func (p *Paddle) Edges() (float64, float64, float64, float64) {
	lo, hi := p.center-p.width/2, p.center+p.width/2
	if p.orientation.Horizontal() {
		return lo, hi, p.near, p.far
	}
	return p.near, p.far, lo, hi
}

// Box returns the paddle rectangle.
func (p *Paddle) Box() core.Box {
	l, r, t, b := p.Edges()
	return core.Box{Left: l, Right: r, Top: t, Bottom: b}
}

// Center returns the position along the edge.
func (p *Paddle) Center() float64 {
	return p.center
}

// SetCenter moves the paddle, keeping it inside the edge.
func (p *Paddle) SetCenter(c float64) {
	half := p.width / 2
	p.center = core.ClampF(c, half, p.length-half)
}

// Width returns the paddle length along its edge.
func (p *Paddle) Width() float64 {
	return p.width
}

// SetWidth resizes the paddle. Non-positive widths panic.
func (p *Paddle) SetWidth(w float64) {
	if w <= 0 {
		panic(fmt.Sprintf("multegula: paddle width must be positive, got %v", w))
	}
	p.width = min(w, p.length)
	p.SetCenter(p.center)
}

// Direction returns the current motion.
func (p *Paddle) Direction() Direction {
	return p.direction
}

// SetDirection changes the motion. Invalid values panic.
func (p *Paddle) SetDirection(d Direction) {
	d.sign()
	p.direction = d
}

// Orientation returns the guarded edge.
func (p *Paddle) Orientation() Orientation {
	return p.orientation
}

// Length returns the length of the guarded edge.
func (p *Paddle) Length() float64 {
	return p.length
}
