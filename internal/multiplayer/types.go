// Package multiplayer runs server-authoritative online arenas: sessions
// gather in a lobby, the coordinator seats them on arena edges and a match
// goroutine steps the game and broadcasts snapshots.
package multiplayer

import "github.com/vovakirdan/multegula/internal/core"

// PlayerID is an alias to core.PlayerID for convenience.
// Seats are handed out in join order, the host sits in Player1.
type PlayerID = core.PlayerID

// Re-export seat constants for convenience.
const (
	Player1 = core.Player1
	Player2 = core.Player2
	Player3 = core.Player3
	Player4 = core.Player4
)

// SessionID uniquely identifies a connection (e.g., an SSH session).
type SessionID string

// MatchID uniquely identifies a running match.
type MatchID string

// Seat is one human seat of a lobby or match.
type Seat struct {
	ID      PlayerID
	Session SessionID
	Name    string
}

// seatIndex maps a valid seat to 0..3.
func seatIndex(id PlayerID) int {
	return int(id) - int(Player1)
}

// seatForIndex maps 0..3 back to a seat.
func seatForIndex(i int) PlayerID {
	return PlayerID(i + int(Player1))
}
