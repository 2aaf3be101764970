package multiplayer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/multegula/internal/core"
)

func startMatch(t *testing.T, game OnlineGame, sessions map[PlayerID]SessionHandle) (*OnlineMatch, <-chan MatchResult) {
	t.Helper()
	var seats []Seat
	for id, s := range sessions {
		seats = append(seats, Seat{ID: id, Session: s.ID()})
	}
	m := NewOnlineMatch("m1", "ABCDEF", "online", game, seats, sessions, 100)
	results := make(chan MatchResult, 1)
	go m.Run(func(r MatchResult) { results <- r })
	t.Cleanup(m.Stop)
	return m, results
}

func TestMatchDisconnectReleasesSeat(t *testing.T) {
	game := newFakeGame(0)
	alice := NewChannelSession("alice", 16)
	bob := NewChannelSession("bob", 16)
	m, results := startMatch(t, game, map[PlayerID]SessionHandle{Player1: alice, Player2: bob})

	bob.Close()
	require.Eventually(t, func() bool {
		return len(game.releasedSeats()) == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []PlayerID{Player2}, game.releasedSeats())

	select {
	case r := <-results:
		t.Fatalf("match ended early: %+v", r)
	case <-time.After(50 * time.Millisecond):
	}

	m.PlayerDisconnected(alice.ID())
	select {
	case r := <-results:
		assert.Equal(t, MatchEndReasonDisconnect, r.Reason)
		assert.Equal(t, core.PlayerNone, r.Winner)
		assert.Equal(t, [core.MaxPlayers]int{30, 10, 0, 20}, r.Scores)
	case <-time.After(2 * time.Second):
		t.Fatal("match did not end")
	}
	assert.Equal(t, []PlayerID{Player2, Player1}, game.releasedSeats())
}

func TestMatchForwardsInputOfHumanSeats(t *testing.T) {
	game := newFakeGame(0)
	alice := NewChannelSession("alice", 16)
	m, _ := startMatch(t, game, map[PlayerID]SessionHandle{Player1: alice})

	left := core.NewInputFrame()
	left.Set(core.ActionLeft)
	right := core.NewInputFrame()
	right.Set(core.ActionRight)

	// Player3 is an AI seat, its input is dropped.
	m.SendInput(Player3, right)
	m.SendInput(Player1, left)

	require.Eventually(t, func() bool {
		return len(game.pressedBy(Player1)) > 0
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []core.Action{core.ActionLeft}, game.pressedBy(Player1))
	assert.Empty(t, game.pressedBy(Player3))
}

func TestMatchBroadcastsSnapshots(t *testing.T) {
	game := newFakeGame(3)
	alice := NewChannelSession("alice", 16)
	_, results := startMatch(t, game, map[PlayerID]SessionHandle{Player1: alice})

	first := waitFor[SnapshotEvent](t, alice)
	assert.Equal(t, MatchID("m1"), first.MatchID)
	assert.Equal(t, uint64(1), first.Tick)

	select {
	case r := <-results:
		assert.Equal(t, MatchEndReasonCompleted, r.Reason)
		assert.Equal(t, Player1, r.Winner)
		assert.Equal(t, uint64(3), r.Ticks)
	case <-time.After(2 * time.Second):
		t.Fatal("match did not end")
	}
}

func TestChannelSessionDropsOldest(t *testing.T) {
	s := NewChannelSession("s", 2)
	for _, msg := range []string{"1", "2", "3"} {
		s.Send(LobbyErrorEvent{Message: msg})
	}

	var got []string
	for range 2 {
		got = append(got, (<-s.Events()).(LobbyErrorEvent).Message)
	}
	assert.Equal(t, []string{"2", "3"}, got)

	s.Close()
	s.Close()
	s.Send(LobbyErrorEvent{Message: "late"})
	assert.Empty(t, s.Events())
}

func TestGenerateJoinCode(t *testing.T) {
	for range 20 {
		code := generateJoinCode()
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, (r >= 'A' && r <= 'Z') || (r >= '2' && r <= '7'), "unexpected rune %q in %s", r, code)
		}
	}
}
