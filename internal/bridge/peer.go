package bridge

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/multegula/internal/core"
	"github.com/vovakirdan/multegula/internal/games/multegula"
)

// PeerArena is the screen every peer simulates, whatever its terminal size.
var PeerArena = core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30}

// posEvery is how often, in ticks, a moving local paddle reports its center.
const posEvery = 15

// Sender delivers messages to the hub.
type Sender interface {
	Send(m Message) error
}

// Peer runs one seat of a peer arena. Roster order maps names to edges in
// tick order: the first name guards the south edge, then north, east, west.
type Peer struct {
	name  string
	game  *multegula.Game
	local multegula.Orientation
	seats map[string]multegula.Orientation

	lastDir multegula.Direction
}

// NewPeer creates the arena for name from the hub's start message.
func NewPeer(name string, start Start) (*Peer, error) {
	if len(start.Roster) > len(multegula.Orientations) {
		return nil, fmt.Errorf("bridge: roster of %d peers does not fit the arena", len(start.Roster))
	}

	seats := make(map[string]multegula.Orientation, len(start.Roster))
	roster := make(map[multegula.Orientation]string, len(start.Roster))
	for i, n := range start.Roster {
		o := multegula.Orientations[i]
		seats[n] = o
		roster[o] = n
	}
	local, ok := seats[name]
	if !ok {
		return nil, fmt.Errorf("bridge: %s is not in the roster", name)
	}

	g := multegula.NewPeer(local, roster)
	runtime := PeerArena
	runtime.Seed = start.Seed
	g.Reset(runtime)

	return &Peer{name: name, game: g, local: local, seats: seats}, nil
}

// Game returns the local arena.
func (p *Peer) Game() *multegula.Game {
	return p.game
}

// Seat returns the local edge.
func (p *Peer) Seat() multegula.Orientation {
	return p.local
}

// Step advances the arena with local input.
func (p *Peer) Step(in core.InputFrame) core.StepResult {
	return p.game.Step(in)
}

// Handle applies a message relayed by the hub. Messages of unknown peers
// and kinds are ignored.
func (p *Peer) Handle(m Message) error {
	if m.Kind == KindError {
		return fmt.Errorf("bridge: hub error: %s", m.Content)
	}

	seat, known := p.seats[m.Source]
	if !known || seat == p.local {
		return nil
	}

	switch m.Kind {
	case KindEvent:
		e, err := multegula.DecodeEvent(m.Content)
		if err != nil {
			return err
		}
		if e.Seat != seat {
			return fmt.Errorf("bridge: %s reported an event for %s", m.Source, e.Seat)
		}
		p.game.ApplyEvent(e)

	case KindPaddleDir:
		fields := m.Fields()
		if len(fields) != 3 {
			return fmt.Errorf("%w: paddle direction needs 3 fields", ErrMalformedMessage)
		}
		o, err := p.remoteSeat(m.Source, seat, fields[0])
		if err != nil {
			return err
		}
		d, err := multegula.ParseDirection(fields[1])
		if err != nil {
			return err
		}
		center, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return fmt.Errorf("%w: paddle center: %v", ErrMalformedMessage, err)
		}
		p.game.SteerRemote(o, d, center)

	case KindPaddlePos:
		fields := m.Fields()
		if len(fields) != 2 {
			return fmt.Errorf("%w: paddle position needs 2 fields", ErrMalformedMessage)
		}
		o, err := p.remoteSeat(m.Source, seat, fields[0])
		if err != nil {
			return err
		}
		center, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return fmt.Errorf("%w: paddle center: %v", ErrMalformedMessage, err)
		}
		p.game.SteerRemote(o, p.game.Player(o).Paddle().Direction(), center)

	case KindLeave:
		p.game.DropSeat(seat)
	}
	return nil
}

func (p *Peer) remoteSeat(source string, seat multegula.Orientation, field string) (multegula.Orientation, error) {
	o, err := multegula.ParseOrientation(field)
	if err != nil {
		return 0, err
	}
	if o != seat {
		return 0, fmt.Errorf("bridge: %s steered the %s paddle", source, o)
	}
	return o, nil
}

// Outbox returns the messages that report the local seat since the last
// call: arena events, direction changes and a periodic paddle position.
func (p *Peer) Outbox() []Message {
	var out []Message
	for _, e := range p.game.DrainEvents() {
		out = append(out, Message{
			Source:      p.name,
			Destination: DestEverybody,
			Content:     e.Encode(),
			Kind:        KindEvent,
		})
	}

	paddle := p.game.Player(p.local).Paddle()
	center := strconv.FormatFloat(paddle.Center(), 'f', 4, 64)
	switch dir := paddle.Direction(); {
	case dir != p.lastDir:
		p.lastDir = dir
		out = append(out, NewMessage(p.name, DestEverybody, KindPaddleDir, p.local.String(), dir.String(), center))
	case dir != multegula.Stop && p.game.Tick()%posEvery == 0:
		out = append(out, NewMessage(p.name, DestEverybody, KindPaddlePos, p.local.String(), center))
	}
	return out
}

// Flush sends the outbox through s.
func (p *Peer) Flush(s Sender) error {
	for _, m := range p.Outbox() {
		if err := s.Send(m); err != nil {
			return err
		}
	}
	return nil
}
