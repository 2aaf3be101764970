package multiplayer

import (
	"sync"
	"time"

	"github.com/vovakirdan/multegula/internal/core"
)

// OnlineGame is what a game implements to be run by an OnlineMatch.
type OnlineGame interface {
	// Reset initializes the game state.
	Reset(cfg core.RuntimeConfig)

	// StepMulti advances the game by one tick with input from every seat.
	StepMulti(input core.MultiInputFrame) core.StepResult

	// Snapshot returns the state sent to sessions after each tick.
	Snapshot() GameSnapshot

	// IsGameOver returns true once the match has a result.
	IsGameOver() bool

	// Winner returns the winning seat, or PlayerNone.
	Winner() PlayerID

	// Score returns the score of a seat.
	Score(id PlayerID) int

	// ReleaseSeat hands the seat of a departed session to the AI.
	ReleaseSeat(id PlayerID)
}

// MatchResult contains the outcome of a finished match.
type MatchResult struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  PlayerID
	Scores  [core.MaxPlayers]int // Indexed by seat - 1
	Ticks   uint64
}

// OnlineMatch is a running arena. One goroutine (Run) owns the game;
// input and disconnects reach it through channels.
type OnlineMatch struct {
	id     MatchID
	code   string
	gameID string
	game   OnlineGame

	seats   []Seat
	handles [core.MaxPlayers]SessionHandle // nil for AI seats
	active  [core.MaxPlayers]bool          // owned by Run

	// Input handling
	inputMu   sync.Mutex
	lastInput [core.MaxPlayers]core.InputFrame
	inputChan chan playerInput

	// Match state
	tick     uint64
	tickRate int
	done     chan struct{}
	doneOnce sync.Once

	disconnectChan chan SessionID
}

type playerInput struct {
	player PlayerID
	input  core.InputFrame
}

// NewOnlineMatch creates a match. sessions maps each human seat to its
// session; seats without one are played by the game's AI.
func NewOnlineMatch(
	id MatchID,
	code string,
	gameID string,
	game OnlineGame,
	seats []Seat,
	sessions map[PlayerID]SessionHandle,
	tickRate int,
) *OnlineMatch {
	m := &OnlineMatch{
		id:             id,
		code:           code,
		gameID:         gameID,
		game:           game,
		seats:          seats,
		inputChan:      make(chan playerInput, 64),
		tickRate:       max(tickRate, 1),
		done:           make(chan struct{}),
		disconnectChan: make(chan SessionID, core.MaxPlayers),
	}
	for i := range m.lastInput {
		m.lastInput[i] = core.NewInputFrame()
	}
	for id, s := range sessions {
		if !id.Valid() || s == nil {
			continue
		}
		m.handles[seatIndex(id)] = s
		m.active[seatIndex(id)] = true
	}
	return m
}

// ID returns the match identifier.
func (m *OnlineMatch) ID() MatchID {
	return m.id
}

// Code returns the join code of the lobby the match came from.
func (m *OnlineMatch) Code() string {
	return m.code
}

// GameID returns the game identifier.
func (m *OnlineMatch) GameID() string {
	return m.gameID
}

// Seats returns the human seats the match started with.
func (m *OnlineMatch) Seats() []Seat {
	return m.seats
}

// Session returns the session that started in a seat, or nil.
func (m *OnlineMatch) Session(id PlayerID) SessionHandle {
	if !id.Valid() {
		return nil
	}
	return m.handles[seatIndex(id)]
}

// SendInput queues input for a seat. Never blocks; input is dropped when
// the queue is full.
func (m *OnlineMatch) SendInput(player PlayerID, input core.InputFrame) {
	select {
	case m.inputChan <- playerInput{player: player, input: input}:
	default:
	}
}

// PlayerDisconnected signals that a session has left.
func (m *OnlineMatch) PlayerDisconnected(sessionID SessionID) {
	select {
	case m.disconnectChan <- sessionID:
	default:
	}
}

// Run starts the authoritative match loop and blocks until the match
// ends. onComplete is called with the result unless the match is stopped.
func (m *OnlineMatch) Run(onComplete func(MatchResult)) {
	defer m.Stop()

	ticker := time.NewTicker(time.Second / time.Duration(m.tickRate))
	defer ticker.Stop()

	m.monitorSessions()

	for {
		select {
		case <-ticker.C:
			if result, done := m.runTick(); done {
				if onComplete != nil {
					onComplete(result)
				}
				return
			}

		case sessionID := <-m.disconnectChan:
			if result, done := m.handleDisconnect(sessionID); done {
				if onComplete != nil {
					onComplete(result)
				}
				return
			}

		case <-m.done:
			return
		}
	}
}

func (m *OnlineMatch) runTick() (MatchResult, bool) {
	m.drainInputs()

	m.inputMu.Lock()
	multiInput := core.NewMultiInputFrame()
	for i := range m.lastInput {
		multiInput.SetPlayer(seatForIndex(i), m.lastInput[i].Clone())
		// Inputs are consumed by the tick.
		m.lastInput[i].Clear()
	}
	m.inputMu.Unlock()

	m.game.StepMulti(multiInput)
	m.tick++

	evt := SnapshotEvent{
		MatchID:  m.id,
		Tick:     m.tick,
		Snapshot: m.game.Snapshot(),
	}
	for i, s := range m.handles {
		if m.active[i] {
			s.Send(evt)
		}
	}

	if m.game.IsGameOver() {
		return m.result(MatchEndReasonCompleted, m.game.Winner()), true
	}
	return MatchResult{}, false
}

func (m *OnlineMatch) drainInputs() {
	m.inputMu.Lock()
	defer m.inputMu.Unlock()

	for {
		select {
		case pi := <-m.inputChan:
			if !pi.player.Valid() || !m.active[seatIndex(pi.player)] {
				continue
			}
			m.lastInput[seatIndex(pi.player)].Merge(pi.input)
		default:
			return
		}
	}
}

// handleDisconnect releases the seat of a departed session. The match
// ends once no human is left.
func (m *OnlineMatch) handleDisconnect(sessionID SessionID) (MatchResult, bool) {
	for i, s := range m.handles {
		if s == nil || !m.active[i] || s.ID() != sessionID {
			continue
		}
		m.active[i] = false
		m.game.ReleaseSeat(seatForIndex(i))
	}

	for _, active := range m.active {
		if active {
			return MatchResult{}, false
		}
	}
	return m.result(MatchEndReasonDisconnect, core.PlayerNone), true
}

func (m *OnlineMatch) result(reason MatchEndReason, winner PlayerID) MatchResult {
	res := MatchResult{
		MatchID: m.id,
		Reason:  reason,
		Winner:  winner,
		Ticks:   m.tick,
	}
	for i, id := range core.AllPlayers {
		res.Scores[i] = m.game.Score(id)
	}
	return res
}

// monitorSessions turns closed sessions into disconnects.
func (m *OnlineMatch) monitorSessions() {
	for _, s := range m.handles {
		if s == nil {
			continue
		}
		go func(s SessionHandle) {
			select {
			case <-s.Done():
				select {
				case m.disconnectChan <- s.ID():
				case <-m.done:
				}
			case <-m.done:
			}
		}(s)
	}
}

// Stop ends the match loop without a result.
func (m *OnlineMatch) Stop() {
	m.doneOnce.Do(func() {
		close(m.done)
	})
}
