package multegula

import (
	"fmt"

	"github.com/vovakirdan/multegula/internal/core"
	"github.com/vovakirdan/multegula/internal/multiplayer"
)

var _ multiplayer.OnlineGame = (*Game)(nil)

// NewOnlineMatch is a multiplayer.GameFactory. It seats every lobby member
// on its edge and leaves the free edges to the AI.
func NewOnlineMatch(gameID string, cfg core.RuntimeConfig, seats []multiplayer.Seat) (multiplayer.OnlineGame, error) {
	if gameID != ModeOnline {
		return nil, fmt.Errorf("multegula: no online arena for mode %q", gameID)
	}

	humans := make(map[core.PlayerID]string, len(seats))
	for _, s := range seats {
		if !s.ID.Valid() {
			return nil, fmt.Errorf("multegula: invalid seat %d", s.ID)
		}
		humans[s.ID] = s.Name
	}

	g := NewOnline(humans)
	g.Reset(cfg)
	return g, nil
}
