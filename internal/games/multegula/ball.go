package multegula

import (
	"fmt"

	"github.com/vovakirdan/multegula/internal/core"
)

// Ball scale factors. Increase and decrease are not reciprocal: growing and
// then shrinking the radius leaves it about 22% larger than before.
const (
	radiusGrow    = 1.1
	radiusShrink  = 0.9 // radius is divided by this
	velocityGrow  = 1.1
	velocitySlow  = 0.9
	minBallRadius = 0.5
)

// Ball is the single ball shared by every Player of an arena.
type Ball struct {
	width, height float64 // arena size, fixed at construction
	speed         float64 // base speed used for serves and deflections

	x, y        float64
	vx, vy      float64
	radius      float64
	color       core.Color
	lastToTouch string // "" when nobody has touched the ball since the serve
}

// NewBall creates a ball at the centre of a width x height arena moving
// straight down at speed. The radius is width/50, at least half a cell.
func NewBall(width, height, speed float64) *Ball {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("multegula: degenerate arena %vx%v", width, height))
	}
	if speed <= 0 {
		panic(fmt.Sprintf("multegula: ball speed must be positive, got %v", speed))
	}
	return &Ball{
		width:  width,
		height: height,
		speed:  speed,
		x:      width / 2,
		y:      height / 2,
		vy:     speed,
		radius: max(width/50, minBallRadius),
		color:  core.ColorGreen,
	}
}

// Reset serves the ball from the arena centre with a random horizontal
// velocity, a vertical velocity of ±speed and a new color.
func (b *Ball) Reset(rng Rand) {
	b.randomXVelocity(rng)
	b.vy = b.speed
	if rng.Intn(2) == 0 {
		b.vy = -b.speed
	}
	b.x = b.width / 2
	b.y = b.height / 2
	b.randomColor(rng)
}

// randomXVelocity sets vx to speed × U[0,1) × {-2..2}.
func (b *Ball) randomXVelocity(rng Rand) {
	factor := rng.Float64()
	factor *= float64(rng.Intn(5) - 2)
	b.vx = b.speed * factor
}

// randomColor picks a palette color different from the current one.
func (b *Ball) randomColor(rng Rand) {
	current := b.color
	next := current
	for next == current {
		next = BallColors[rng.Intn(len(BallColors))]
	}
	b.color = next
}

// AdvanceMenu moves the ball for idle screens, bouncing it off all four
// arena bounds. A bounce on the bottom bound also re-rolls vx.
func (b *Ball) AdvanceMenu(rng Rand) {
	switch {
	case b.y+b.radius >= b.height && b.vy > 0:
		b.randomXVelocity(rng)
		b.randomColor(rng)
		b.vy = -b.vy
	case b.y-b.radius <= 0 && b.vy < 0:
		b.randomColor(rng)
		b.vy = -b.vy
	default:
		b.y += b.vy
	}

	switch {
	case b.x-b.radius <= 0 && b.vx < 0:
		b.randomColor(rng)
		b.vx = -b.vx
	case b.x+b.radius >= b.width && b.vx > 0:
		b.randomColor(rng)
		b.vx = -b.vx
	default:
		b.x += b.vx
	}
}

// AdvanceGame moves the ball by its velocity. Bounds are handled by Players.
func (b *Ball) AdvanceGame() {
	b.x += b.vx
	b.y += b.vy
}

// Center returns the ball position.
func (b *Ball) Center() (float64, float64) {
	return b.x, b.y
}

// SetCenter moves the ball.
func (b *Ball) SetCenter(x, y float64) {
	b.x, b.y = x, y
}

// Radius returns the current radius.
func (b *Ball) Radius() float64 {
	return b.radius
}

// SetRadius sets the radius. Non-positive values panic.
func (b *Ball) SetRadius(r float64) {
	if r <= 0 {
		panic(fmt.Sprintf("multegula: ball radius must be positive, got %v", r))
	}
	b.radius = r
}

// IncreaseRadius grows the radius by 10%.
func (b *Ball) IncreaseRadius() {
	b.radius *= radiusGrow
}

// DecreaseRadius divides the radius by 0.9.
func (b *Ball) DecreaseRadius() {
	b.radius /= radiusShrink
}

// Velocity returns (vx, vy).
func (b *Ball) Velocity() (float64, float64) {
	return b.vx, b.vy
}

// SetVelocity replaces the velocity.
func (b *Ball) SetVelocity(vx, vy float64) {
	b.vx, b.vy = vx, vy
}

// IncreaseVelocity scales both components by 1.1.
func (b *Ball) IncreaseVelocity() {
	b.vx *= velocityGrow
	b.vy *= velocityGrow
}

// DecreaseVelocity scales both components by 0.9.
func (b *Ball) DecreaseVelocity() {
	b.vx *= velocitySlow
	b.vy *= velocitySlow
}

// Speed returns the base speed.
func (b *Ball) Speed() float64 {
	return b.speed
}

// SetSpeed changes the base speed used by the next serve or deflection.
func (b *Ball) SetSpeed(s float64) {
	if s <= 0 {
		panic(fmt.Sprintf("multegula: ball speed must be positive, got %v", s))
	}
	b.speed = s
}

// Color returns the ball color.
func (b *Ball) Color() core.Color {
	return b.color
}

// SetColor sets the ball color.
func (b *Ball) SetColor(c core.Color) {
	b.color = c
}

// Info returns (x, y, radius).
func (b *Ball) Info() (float64, float64, float64) {
	return b.x, b.y, b.radius
}

// Edges returns (left, right, top, bottom).
func (b *Ball) Edges() (float64, float64, float64, float64) {
	return b.x - b.radius, b.x + b.radius, b.y - b.radius, b.y + b.radius
}

// Box returns the bounding box of the ball.
func (b *Ball) Box() core.Box {
	l, r, t, bt := b.Edges()
	return core.Box{Left: l, Right: r, Top: t, Bottom: bt}
}

// LastToTouch returns the name of the player that last touched the ball.
func (b *Ball) LastToTouch() string {
	return b.lastToTouch
}

// SetLastToTouch records who touched the ball.
func (b *Ball) SetLastToTouch(name string) {
	b.lastToTouch = name
}

// ArenaSize returns the arena dimensions the ball lives in.
func (b *Ball) ArenaSize() (float64, float64) {
	return b.width, b.height
}
