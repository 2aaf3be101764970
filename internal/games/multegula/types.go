// Package multegula implements the Multegula arena: a block breaker with up
// to four paddles guarding the north, south, east and west edges.
//
// The simulation is pure. Players read the shared Ball and Level and return
// a Result; the Game applies every Result to scores, lives and the Ball.
package multegula

import (
	"fmt"

	"github.com/vovakirdan/multegula/internal/core"
)

// Orientation names the arena edge a Player guards.
type Orientation int

const (
	North Orientation = iota
	South
	East
	West
)

// Orientations lists the edges in tick order.
var Orientations = [...]Orientation{South, North, East, West}

func (o Orientation) String() string {
	switch o {
	case North:
		return "NORTH"
	case South:
		return "SOUTH"
	case East:
		return "EAST"
	case West:
		return "WEST"
	}
	panic(fmt.Sprintf("multegula: invalid orientation %d", int(o)))
}

// Horizontal reports whether the paddle on this edge moves along the x axis.
func (o Orientation) Horizontal() bool {
	switch o {
	case North, South:
		return true
	case East, West:
		return false
	}
	panic(fmt.Sprintf("multegula: invalid orientation %d", int(o)))
}

// Seat maps an edge to the online seat that plays it.
func (o Orientation) Seat() core.PlayerID {
	switch o {
	case South:
		return core.Player1
	case North:
		return core.Player2
	case East:
		return core.Player3
	case West:
		return core.Player4
	}
	panic(fmt.Sprintf("multegula: invalid orientation %d", int(o)))
}

// OrientationForSeat is the inverse of Orientation.Seat.
func OrientationForSeat(id core.PlayerID) Orientation {
	switch id {
	case core.Player1:
		return South
	case core.Player2:
		return North
	case core.Player3:
		return East
	case core.Player4:
		return West
	}
	panic(fmt.Sprintf("multegula: invalid seat %d", int(id)))
}

// ParseOrientation converts an edge name back to an Orientation.
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "NORTH":
		return North, nil
	case "SOUTH":
		return South, nil
	case "EAST":
		return East, nil
	case "WEST":
		return West, nil
	}
	return 0, fmt.Errorf("multegula: unknown orientation %q", s)
}

// Direction is the discrete motion of a paddle. Left moves toward the lower
// coordinate of the paddle axis, Right toward the higher one.
type Direction int

const (
	Stop Direction = iota
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Stop:
		return "STOP"
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	}
	panic(fmt.Sprintf("multegula: invalid direction %d", int(d)))
}

// sign returns -1, 0 or +1 along the paddle axis.
func (d Direction) sign() float64 {
	switch d {
	case Stop:
		return 0
	case Left:
		return -1
	case Right:
		return 1
	}
	panic(fmt.Sprintf("multegula: invalid direction %d", int(d)))
}

// ParseDirection converts a direction name back to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "STOP":
		return Stop, nil
	case "LEFT":
		return Left, nil
	case "RIGHT":
		return Right, nil
	}
	return 0, fmt.Errorf("multegula: unknown direction %q", s)
}

// PlayerState is the control mode of a Player.
type PlayerState int

const (
	// User is driven by local input.
	User PlayerState = iota
	// AI is driven by the probabilistic tracker.
	AI
	// Comp is a remote competitor; the paddle is shown but owns no physics.
	Comp
	// Wall never misses and mirrors the ball.
	Wall
)

func (s PlayerState) String() string {
	switch s {
	case User:
		return "USER"
	case AI:
		return "AI"
	case Comp:
		return "COMP"
	case Wall:
		return "WALL"
	}
	panic(fmt.Sprintf("multegula: invalid player state %d", int(s)))
}

// ResultKind classifies what a Player observed during one tick.
type ResultKind int

const (
	NoStatus ResultKind = iota
	BallMissed
	BallDeflected
	WallBallDeflected
	WallNoStatus
	BlockBroken
)

func (k ResultKind) String() string {
	switch k {
	case NoStatus:
		return "NO_STATUS"
	case BallMissed:
		return "BALL_MISSED"
	case BallDeflected:
		return "BALL_DEFLECTED"
	case WallBallDeflected:
		return "WALL_BALL_DEFLECTED"
	case WallNoStatus:
		return "WALL_NO_STATUS"
	case BlockBroken:
		return "BLOCK_BROKEN"
	}
	panic(fmt.Sprintf("multegula: invalid result kind %d", int(k)))
}

// Result is returned by Player.Update. Payload is empty for no-op results,
// [vx, vy] for deflections and [vx, vy, blockIndex] for BlockBroken.
type Result struct {
	Kind    ResultKind
	Payload []float64
}

// Velocity returns the new ball velocity carried by the result.
func (r Result) Velocity() (float64, float64, bool) {
	if len(r.Payload) < 2 {
		return 0, 0, false
	}
	return r.Payload[0], r.Payload[1], true
}

// BlockIndex returns the broken block index, or -1.
func (r Result) BlockIndex() int {
	if r.Kind != BlockBroken || len(r.Payload) < 3 {
		return -1
	}
	return int(r.Payload[2])
}

// BallColors is the palette the ball cycles through.
var BallColors = [...]core.Color{
	core.ColorRed,
	core.ColorGreen,
	core.ColorBlue,
	core.ColorPurple,
	core.ColorOrange,
	core.ColorYellow,
}

// PowerUp is a bonus granted to the player that breaks a block.
type PowerUp int

const (
	PowerNone PowerUp = iota
	PowerBigBall
	PowerSmallBall
	PowerFastBall
	PowerSlowBall
	PowerExtraLife
)

func (p PowerUp) String() string {
	switch p {
	case PowerNone:
		return "none"
	case PowerBigBall:
		return "Big"
	case PowerSmallBall:
		return "Small"
	case PowerFastBall:
		return "Fast"
	case PowerSlowBall:
		return "Slow"
	case PowerExtraLife:
		return "Life"
	}
	panic(fmt.Sprintf("multegula: invalid power-up %d", int(p)))
}

// Glyph returns the HUD marker for the power-up.
func (p PowerUp) Glyph() rune {
	switch p {
	case PowerNone:
		return ' '
	case PowerBigBall:
		return 'O'
	case PowerSmallBall:
		return 'o'
	case PowerFastBall:
		return '+'
	case PowerSlowBall:
		return '-'
	case PowerExtraLife:
		return '♥'
	}
	panic(fmt.Sprintf("multegula: invalid power-up %d", int(p)))
}
