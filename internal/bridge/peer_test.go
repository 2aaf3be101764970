package bridge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/multegula/internal/core"
	"github.com/vovakirdan/multegula/internal/games/multegula"
)

// recorder collects sent messages.
type recorder struct {
	sent []Message
	err  error
}

func (r *recorder) Send(m Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, m)
	return nil
}

func newPeerPair(t *testing.T) (alice, bob *Peer) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	start := Start{Seed: 7, Roster: []string{"alice", "bob"}}

	alice, err := NewPeer("alice", start)
	require.NoError(t, err)
	bob, err = NewPeer("bob", start)
	require.NoError(t, err)
	return alice, bob
}

func TestNewPeerSeats(t *testing.T) {
	alice, bob := newPeerPair(t)

	assert.Equal(t, multegula.South, alice.Seat())
	assert.Equal(t, multegula.North, bob.Seat())

	g := bob.Game()
	assert.Equal(t, multegula.Comp, g.Player(multegula.South).State())
	assert.Equal(t, multegula.User, g.Player(multegula.North).State())
	assert.Equal(t, multegula.Wall, g.Player(multegula.East).State())
	assert.Equal(t, multegula.Wall, g.Player(multegula.West).State())
}

func TestNewPeerErrors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tests := []struct {
		name  string
		start Start
	}{
		{"not in roster", Start{Seed: 1, Roster: []string{"bob", "cy"}}},
		{"roster too long", Start{Seed: 1, Roster: []string{"alice", "b", "c", "d", "e"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPeer("alice", tt.start)
			assert.Error(t, err)
		})
	}
}

func TestPeerReportsDirection(t *testing.T) {
	alice, bob := newPeerPair(t)
	assert.Empty(t, alice.Outbox(), "nothing to report before moving")

	left := core.NewInputFrame()
	left.Set(core.ActionLeft)
	alice.Step(left)

	out := alice.Outbox()
	require.Len(t, out, 1)
	assert.Equal(t, KindPaddleDir, out[0].Kind)
	assert.True(t, out[0].Multicast())
	assert.Equal(t, "alice", out[0].Source)

	require.NoError(t, bob.Handle(out[0]))
	local := alice.Game().Player(multegula.South).Paddle()
	remote := bob.Game().Player(multegula.South).Paddle()
	assert.Equal(t, multegula.Left, remote.Direction())
	assert.InDelta(t, local.Center(), remote.Center(), 1e-4)

	// Holding the direction reports nothing new until the position tick.
	alice.Step(core.NewInputFrame())
	assert.Empty(t, alice.Outbox())
}

func TestPeerFlush(t *testing.T) {
	alice, _ := newPeerPair(t)
	right := core.NewInputFrame()
	right.Set(core.ActionRight)
	alice.Step(right)

	r := &recorder{}
	require.NoError(t, alice.Flush(r))
	require.Len(t, r.sent, 1)
	assert.Equal(t, []string{"SOUTH", "RIGHT"}, r.sent[0].Fields()[:2])

	alice.Step(core.NewInputFrame())
	stop := core.NewInputFrame()
	stop.Set(core.ActionStop)
	alice.Step(stop)
	r.err = errors.New("gone")
	assert.Error(t, alice.Flush(r))
}

func TestPeerAppliesEvents(t *testing.T) {
	alice, _ := newPeerPair(t)

	e := multegula.Event{
		Kind:   multegula.EventDeflect,
		Seat:   multegula.North,
		Block:  -1,
		Score:  3,
		Lives:  5,
		X:      20,
		Y:      2,
		VX:     0.25,
		VY:     0.5,
		Radius: 0.5,
	}
	msg := Message{Source: "bob", Destination: DestEverybody, Content: e.Encode(), Kind: KindEvent}
	require.NoError(t, alice.Handle(msg))

	g := alice.Game()
	x, y := g.Ball().Center()
	assert.InDelta(t, 20, x, 1e-9)
	assert.InDelta(t, 2, y, 1e-9)
	assert.Equal(t, 3, g.Player(multegula.North).Score())
	assert.Equal(t, "bob", g.Ball().LastToTouch())
}

func TestPeerRejectsForeignSeats(t *testing.T) {
	alice, _ := newPeerPair(t)

	e := multegula.Event{Kind: multegula.EventMiss, Seat: multegula.South, Block: -1, Radius: 0.5}
	tests := []struct {
		name string
		msg  Message
	}{
		{"event for another seat", Message{Source: "bob", Content: e.Encode(), Kind: KindEvent}},
		{"steering another paddle", NewMessage("bob", DestEverybody, KindPaddleDir, "SOUTH", "LEFT", "3")},
		{"position of another paddle", NewMessage("bob", DestEverybody, KindPaddlePos, "EAST", "3")},
		{"short direction", NewMessage("bob", DestEverybody, KindPaddleDir, "NORTH", "LEFT")},
		{"bad event", Message{Source: "bob", Content: "DEFLECT|NORTH", Kind: KindEvent}},
		{"hub error", NewMessage(DestMultegula, "", KindError, "boom")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, alice.Handle(tt.msg))
		})
	}
	assert.Equal(t, 5, alice.Game().Player(multegula.South).Lives())
}

func TestPeerIgnoresStrangers(t *testing.T) {
	alice, _ := newPeerPair(t)
	for _, m := range []Message{
		NewMessage("carol", DestEverybody, KindLeave),
		NewMessage("alice", DestEverybody, KindLeave),
		NewMessage("bob", DestEverybody, KindGameType, "classic"),
	} {
		assert.NoError(t, alice.Handle(m))
	}
	assert.False(t, alice.Game().IsGameOver())
}

func TestPeerLeaveEndsDuel(t *testing.T) {
	alice, _ := newPeerPair(t)

	require.NoError(t, alice.Handle(NewMessage("bob", DestEverybody, KindLeave)))
	g := alice.Game()
	assert.Equal(t, multegula.Wall, g.Player(multegula.North).State())
	assert.True(t, g.IsGameOver())
	assert.Equal(t, core.Player1, g.Winner())
}
