package multegula

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// EventKind is the kind of an authoritative arena event.
type EventKind int

const (
	EventDeflect EventKind = iota + 1
	EventMiss
	EventBreak
)

func (k EventKind) String() string {
	switch k {
	case EventDeflect:
		return "DEFLECT"
	case EventMiss:
		return "MISS"
	case EventBreak:
		return "BREAK"
	default:
		return "UNKNOWN"
	}
}

// Event is a physics result produced by the peer that owns a seat. It carries
// the ball state right after the result was applied so receivers can snap to
// it instead of trusting their own simulation.
type Event struct {
	Kind   EventKind
	Seat   Orientation
	Block  int // -1 unless Kind is EventBreak
	Power  PowerUp
	Score  int
	Lives  int
	X, Y   float64
	VX, VY float64
	Radius float64
}

// ErrBadEvent is returned when an encoded event cannot be decoded.
var ErrBadEvent = errors.New("multegula: malformed event")

const eventFields = 11

// Encode renders the event as '|' separated fields.
func (e Event) Encode() string {
	f := func(v float64) string {
		return strconv.FormatFloat(v, 'f', 4, 64)
	}
	return strings.Join([]string{
		e.Kind.String(),
		e.Seat.String(),
		strconv.Itoa(e.Block),
		strconv.Itoa(int(e.Power)),
		strconv.Itoa(e.Score),
		strconv.Itoa(e.Lives),
		f(e.X), f(e.Y), f(e.VX), f(e.VY), f(e.Radius),
	}, "|")
}

// DecodeEvent parses the output of Event.Encode.
func DecodeEvent(s string) (Event, error) {
	parts := strings.Split(s, "|")
	if len(parts) != eventFields {
		return Event{}, fmt.Errorf("%w: want %d fields, got %d", ErrBadEvent, eventFields, len(parts))
	}

	var e Event
	switch parts[0] {
	case "DEFLECT":
		e.Kind = EventDeflect
	case "MISS":
		e.Kind = EventMiss
	case "BREAK":
		e.Kind = EventBreak
	default:
		return Event{}, fmt.Errorf("%w: kind %q", ErrBadEvent, parts[0])
	}

	seat, err := ParseOrientation(parts[1])
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrBadEvent, err)
	}
	e.Seat = seat

	ints := make([]int, 4)
	for i := range ints {
		if ints[i], err = strconv.Atoi(parts[2+i]); err != nil {
			return Event{}, fmt.Errorf("%w: field %d: %v", ErrBadEvent, 2+i, err)
		}
	}
	if ints[1] < int(PowerNone) || ints[1] > int(PowerExtraLife) {
		return Event{}, fmt.Errorf("%w: power-up %d", ErrBadEvent, ints[1])
	}
	e.Block, e.Power, e.Score, e.Lives = ints[0], PowerUp(ints[1]), ints[2], ints[3]

	floats := make([]float64, 5)
	for i := range floats {
		if floats[i], err = strconv.ParseFloat(parts[6+i], 64); err != nil {
			return Event{}, fmt.Errorf("%w: field %d: %v", ErrBadEvent, 6+i, err)
		}
	}
	e.X, e.Y, e.VX, e.VY, e.Radius = floats[0], floats[1], floats[2], floats[3], floats[4]
	return e, nil
}

// record queues an event for a result of the local seat.
func (g *Game) record(kind EventKind, p *Player, block int, power PowerUp) {
	if !g.recordEvents || !g.hasLocal || p.Orientation() != g.local {
		return
	}
	x, y, r := g.ball.Info()
	vx, vy := g.ball.Velocity()
	g.events = append(g.events, Event{
		Kind:   kind,
		Seat:   p.Orientation(),
		Block:  block,
		Power:  power,
		Score:  p.Score(),
		Lives:  p.Lives(),
		X:      x,
		Y:      y,
		VX:     vx,
		VY:     vy,
		Radius: r,
	})
}

// DrainEvents returns and clears the queued local events.
func (g *Game) DrainEvents() []Event {
	if len(g.events) == 0 {
		return nil
	}
	out := make([]Event, len(g.events))
	copy(out, g.events)
	g.events = g.events[:0]
	return out
}

// ApplyEvent applies an event produced by the peer owning e.Seat. The ball
// snaps to the carried state; score, lives, block and power-up follow.
func (g *Game) ApplyEvent(e Event) {
	p := g.players[e.Seat]
	if p == nil {
		return
	}

	p.SetScore(e.Score)
	p.SetLives(e.Lives)
	if e.Lives == 0 && p.State() != Wall {
		p.SetState(Wall)
		p.Paddle().SetWidth(p.Paddle().Length())
	}

	g.ball.SetCenter(e.X, e.Y)
	g.ball.SetVelocity(e.VX, e.VY)
	if e.Radius > 0 {
		g.ball.SetRadius(e.Radius)
	}

	switch e.Kind {
	case EventDeflect:
		g.ball.SetLastToTouch(p.Name())
	case EventMiss:
		g.ball.SetLastToTouch("")
		g.powerups.Clear()
		p.SetPower(PowerNone)
	case EventBreak:
		g.ball.SetLastToTouch(p.Name())
		g.level.Disable(e.Block)
		if e.Power != PowerNone {
			p.SetPower(e.Power)
			switch e.Power {
			case PowerBigBall:
				g.powerups.RemoveEffect(EffectSmallBall)
				g.powerups.AddEffect(EffectBigBall, e.Seat, g.tickCount)
			case PowerSmallBall:
				g.powerups.RemoveEffect(EffectBigBall)
				g.powerups.AddEffect(EffectSmallBall, e.Seat, g.tickCount)
			}
		}
	}

	if g.state != StatePlaying {
		return
	}
	if g.level.Remaining() == 0 {
		g.nextLevel()
	}
	g.checkGameOver()
}

// SteerRemote moves the paddle of a remote seat to the state its owner
// reported.
func (g *Game) SteerRemote(o Orientation, d Direction, center float64) {
	p := g.players[o]
	if p == nil || p.State() != Comp {
		return
	}
	p.Paddle().SetCenter(center)
	p.Paddle().SetDirection(d)
}

// DropSeat turns the seat of a peer that left into a wall.
func (g *Game) DropSeat(o Orientation) {
	p := g.players[o]
	if p == nil || p.State() == Wall {
		return
	}
	p.SetState(Wall)
	p.Paddle().SetWidth(p.Paddle().Length())
	if g.state == StatePlaying {
		g.checkGameOver()
	}
}

// LocalSeat returns the edge played on this machine.
func (g *Game) LocalSeat() (Orientation, bool) {
	return g.local, g.hasLocal
}
