package multegula

import (
	"fmt"
	"math"

	"github.com/vovakirdan/multegula/internal/core"
)

const (
	// StartingLives is the number of misses a player survives.
	StartingLives = 5

	// deflectPrecision is the number of decimals kept in deflected velocity.
	deflectPrecision = 2

	// aiLucky starts a stopped AI paddle; aiHalt stops it.
	aiLucky = 1
	aiHalt  = 0
	aiRolls = 5
)

// Player guards one arena edge with a Paddle.
type Player struct {
	orientation Orientation
	state       PlayerState
	name        string
	score       int
	lives       int
	power       PowerUp
	paddle      *Paddle
}

// NewPlayer creates a player owning paddle. The paddle must guard the same
// edge as the player.
func NewPlayer(o Orientation, state PlayerState, name string, paddle *Paddle) *Player {
	if paddle == nil {
		panic("multegula: player needs a paddle")
	}
	if paddle.Orientation() != o {
		panic(fmt.Sprintf("multegula: %s player given a %s paddle", o, paddle.Orientation()))
	}
	_ = state.String()
	return &Player{
		orientation: o,
		state:       state,
		name:        name,
		lives:       StartingLives,
		power:       PowerNone,
		paddle:      paddle,
	}
}

// Update runs one tick for this player and returns what it observed.
// AI players steer first. User, AI and Comp paddles move. User, AI and Wall
// players then check the ball against their edge, and if nothing happened
// there, check whether their last touch broke a block.
func (p *Player) Update(ball *Ball, level *Level, rng Rand) Result {
	switch p.state {
	case AI:
		p.AI(ball, rng)
		p.paddle.Advance()
	case User:
		p.paddle.Advance()
	case Comp:
		p.paddle.Advance()
		return Result{Kind: NoStatus}
	case Wall:
	default:
		panic(fmt.Sprintf("multegula: invalid player state %d", int(p.state)))
	}

	res := p.DeflectBall(ball, rng)
	if res.Kind == NoStatus && p.name != "" && ball.LastToTouch() == p.name {
		res = p.BreakBlock(ball, level)
	}
	return res
}

// DeflectBall classifies the ball against this player's edge and paddle.
// A miss means the ball crossed the guarded arena bound. A deflection means
// the ball's leading edge is inside the paddle band while it overlaps the
// paddle along the edge and moves toward the bound.
func (p *Player) DeflectBall(ball *Ball, rng Rand) Result {
	bl, br, bt, bb := ball.Edges()
	vx, vy := ball.Velocity()
	w, h := ball.ArenaSize()
	l, r, t, b := p.paddle.Edges()

	alongX := (l <= br && br < r) || (l < bl && bl <= r)
	alongY := (t <= bb && bb < b) || (t < bt && bt <= b)

	var missed, deflected bool
	switch p.orientation {
	case North:
		if bt <= 0 {
			missed = true
		} else if alongX && t <= bt && bt < b && vy < 0 {
			deflected = true
		}
	case South:
		if bb >= h {
			missed = true
		} else if alongX && t <= bb && bb < b && vy > 0 {
			deflected = true
		}
	case East:
		if br >= w {
			missed = true
		} else if alongY && l <= br && br < r && vx > 0 {
			deflected = true
		}
	case West:
		if bl <= 0 {
			missed = true
		} else if alongY && l <= bl && bl < r && vx < 0 {
			deflected = true
		}
	default:
		panic(fmt.Sprintf("multegula: invalid orientation %d", int(p.orientation)))
	}

	wall := p.state == Wall
	switch {
	case missed && !wall:
		return Result{Kind: BallMissed}
	case deflected && !wall:
		nvx, nvy := p.deflectVelocity(ball, rng)
		return Result{Kind: BallDeflected, Payload: []float64{nvx, nvy}}
	case deflected && wall:
		nvx, nvy := p.deflectVelocity(ball, rng)
		return Result{Kind: WallBallDeflected, Payload: []float64{nvx, nvy}}
	case wall:
		return Result{Kind: WallNoStatus}
	}
	return Result{Kind: NoStatus}
}

// deflectVelocity computes the velocity after a paddle or wall contact.
// A wall mirrors the perpendicular component. A paddle sends the ball out
// at base speed with a parallel component set by where it struck, scaled by
// U(1, 1.1) and shifted by U(-0.1, 0.1).
func (p *Player) deflectVelocity(ball *Ball, rng Rand) (float64, float64) {
	speed := ball.Speed()
	offsetFactor := uniform(rng, 1, 1.1)
	offset := uniform(rng, -0.1, 0.1)

	x, y, _ := ball.Info()
	vx, vy := ball.Velocity()
	center, width, _, _ := p.paddle.Info()
	wall := p.state == Wall

	angled := func(pos float64) float64 {
		speedFactor := (pos - center) / width
		return core.Round(speed*speedFactor*offsetFactor+offset, deflectPrecision)
	}

	switch p.orientation {
	case North:
		if wall {
			return vx, -vy
		}
		return angled(x), speed
	case South:
		if wall {
			return vx, -vy
		}
		return angled(x), -speed
	case East:
		if wall {
			return -vx, vy
		}
		return -speed, angled(y)
	case West:
		if wall {
			return -vx, vy
		}
		return speed, angled(y)
	}
	panic(fmt.Sprintf("multegula: invalid orientation %d", int(p.orientation)))
}

// BreakBlock finds the first enabled block the ball is striking and returns
// BlockBroken with the bounced velocity and the block index. Only the two
// faces the ball can reach given its velocity quadrant are tested.
func (p *Player) BreakBlock(ball *Ball, level *Level) Result {
	if level == nil {
		return Result{Kind: NoStatus}
	}
	bl, br, bt, bb := ball.Edges()
	vx, vy := ball.Velocity()

	hitBottom := func(k Block) bool {
		return bt <= k.Bottom && bb > k.Bottom && k.Left <= br && bl <= k.Right
	}
	hitTop := func(k Block) bool {
		return bb >= k.Top && bt < k.Top && k.Left <= br && bl <= k.Right
	}
	hitRight := func(k Block) bool {
		return bl <= k.Right && br > k.Right && k.Top <= bb && bt <= k.Bottom
	}
	hitLeft := func(k Block) bool {
		return br >= k.Left && bl < k.Left && k.Top <= bb && bt <= k.Bottom
	}

	var vertical, horizontal func(Block) bool
	switch {
	case vx < 0 && vy <= 0: // north-west
		vertical, horizontal = hitBottom, hitRight
	case vx >= 0 && vy <= 0: // north-east
		vertical, horizontal = hitBottom, hitLeft
	case vx < 0: // south-west
		vertical, horizontal = hitTop, hitRight
	default: // south-east
		vertical, horizontal = hitTop, hitLeft
	}

	for i, k := range level.Blocks {
		if !k.Enabled {
			continue
		}
		if vertical(k) {
			return Result{Kind: BlockBroken, Payload: []float64{vx, -vy, float64(i)}}
		}
		if horizontal(k) {
			return Result{Kind: BlockBroken, Payload: []float64{-vx, vy, float64(i)}}
		}
	}
	return Result{Kind: NoStatus}
}

// AI steers the paddle toward the ball imperfectly. A stopped paddle starts
// moving only on a lucky roll once the ball is more than a fifth of the
// paddle width off centre, and any paddle stops on an unlucky roll.
func (p *Player) AI(ball *Ball, rng Rand) {
	x, y, _ := ball.Info()
	center, width, dir, o := p.paddle.Info()

	offset := width / 5
	chance := rng.Intn(aiRolls)

	var direction float64
	if o.Horizontal() {
		direction = center - x
	} else {
		direction = center - y
	}

	if math.Abs(direction) > offset && dir == Stop && chance == aiLucky {
		if direction < offset {
			p.paddle.SetDirection(Right)
		} else if direction > offset {
			p.paddle.SetDirection(Left)
		}
	} else if chance == aiHalt {
		p.paddle.SetDirection(Stop)
	}
}

// Orientation returns the guarded edge.
func (p *Player) Orientation() Orientation { return p.orientation }

// State returns the control mode.
func (p *Player) State() PlayerState { return p.state }

// SetState changes the control mode. Invalid values panic.
func (p *Player) SetState(s PlayerState) {
	_ = s.String()
	p.state = s
	if s == Wall {
		p.paddle.SetDirection(Stop)
	}
}

// Name returns the player name used for lastToTouch attribution.
func (p *Player) Name() string { return p.name }

// SetName renames the player.
func (p *Player) SetName(name string) { p.name = name }

// Score returns the points earned from broken blocks.
func (p *Player) Score() int { return p.score }

// AddScore adds points.
func (p *Player) AddScore(points int) { p.score += points }

// SetScore overwrites the score.
func (p *Player) SetScore(s int) { p.score = s }

// Lives returns the remaining lives.
func (p *Player) Lives() int { return p.lives }

// SetLives overwrites the lives.
func (p *Player) SetLives(n int) { p.lives = max(n, 0) }

// LoseLife takes one life and reports whether the player is out.
func (p *Player) LoseLife() bool {
	if p.lives > 0 {
		p.lives--
	}
	return p.lives == 0
}

// Power returns the active power-up.
func (p *Player) Power() PowerUp { return p.power }

// SetPower sets the active power-up.
func (p *Player) SetPower(pw PowerUp) {
	_ = pw.String()
	p.power = pw
}

// Paddle returns the owned paddle.
func (p *Player) Paddle() *Paddle { return p.paddle }
