package bridge

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T, players int) string {
	t.Helper()
	hub := NewHub(HubConfig{Players: players, Seed: func() int64 { return 42 }}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url, name string) *Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c, err := Dial(ctx, url, name)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func waitStart(t *testing.T, c *Client) (Start, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return c.WaitStart(ctx)
}

// recv returns the next message of kind, skipping others.
func recv(t *testing.T, c *Client, kind string) Message {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case m, ok := <-c.Incoming():
			require.True(t, ok, "connection closed while waiting for %s", kind)
			if m.Kind == kind {
				return m
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", kind)
			return Message{}
		}
	}
}

func TestHubStartsFullArena(t *testing.T) {
	url := startHub(t, 2)
	alice := dial(t, url, "alice")
	bob := dial(t, url, "bob")

	for _, c := range []*Client{alice, bob} {
		start, err := waitStart(t, c)
		require.NoError(t, err)
		assert.Equal(t, int64(42), start.Seed)
		assert.ElementsMatch(t, []string{"alice", "bob"}, start.Roster)
	}
}

func TestHubRelays(t *testing.T) {
	url := startHub(t, 2)
	alice := dial(t, url, "alice")
	bob := dial(t, url, "bob")
	for _, c := range []*Client{alice, bob} {
		_, err := waitStart(t, c)
		require.NoError(t, err)
	}

	t.Run("multicast skips the sender and fixes the source", func(t *testing.T) {
		require.NoError(t, alice.Send(Message{Source: "bob", Destination: DestEverybody, Content: "x", Kind: KindEvent}))
		got := recv(t, bob, KindEvent)
		assert.Equal(t, Message{Source: "alice", Destination: DestEverybody, Content: "x", Kind: KindEvent}, got)
	})

	t.Run("direct", func(t *testing.T) {
		require.NoError(t, bob.Send(NewMessage("", "alice", KindPaddlePos, "NORTH", "3.0000")))
		got := recv(t, alice, KindPaddlePos)
		assert.Equal(t, "bob", got.Source)
		assert.Equal(t, []string{"NORTH", "3.0000"}, got.Fields())
	})

	t.Run("unknown peer", func(t *testing.T) {
		require.NoError(t, alice.Send(NewMessage("", "carol", KindEvent, "x")))
		got := recv(t, alice, KindError)
		assert.Equal(t, "unknown peer carol", got.Content)
	})

	t.Run("late joiner is refused", func(t *testing.T) {
		carol := dial(t, url, "carol")
		_, err := waitStart(t, carol)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "arena already started")
	})

	t.Run("leave", func(t *testing.T) {
		require.NoError(t, bob.Close())
		got := recv(t, alice, KindLeave)
		assert.Equal(t, "bob", got.Source)
	})
}

func TestHubRefusesNames(t *testing.T) {
	url := startHub(t, 3)
	dial(t, url, "alice")

	again := dial(t, url, "alice")
	_, err := waitStart(t, again)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name taken")
}

func TestHubMulticastBeforeStart(t *testing.T) {
	url := startHub(t, 3)
	dial(t, url, "alice")
	bob := dial(t, url, "bob")

	require.NoError(t, bob.Send(NewMessage("", DestEverybody, KindEvent, "x")))
	got := recv(t, bob, KindError)
	assert.Equal(t, "arena not started", got.Content)
}

func TestDialRejectsBadName(t *testing.T) {
	_, err := Dial(context.Background(), "ws://127.0.0.1:1", "a|b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid peer name")
}
