package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/multegula/internal/core"
)

// LobbyMember is a session waiting in a lobby.
type LobbyMember struct {
	Session SessionHandle
	Name    string
}

// Lobby is a waiting room. Members[0] is the host; a member's seat is its
// position plus one, so seats close up when someone leaves.
type Lobby struct {
	Code      string
	GameID    string
	Members   []LobbyMember
	CreatedAt time.Time
}

// Host returns the session that created the lobby.
func (l *Lobby) Host() SessionHandle {
	return l.Members[0].Session
}

// Full reports whether every seat is taken.
func (l *Lobby) Full() bool {
	return len(l.Members) >= core.MaxPlayers
}

// Seats lists the members with their current seats.
func (l *Lobby) Seats() []Seat {
	seats := make([]Seat, len(l.Members))
	for i, m := range l.Members {
		seats[i] = Seat{ID: seatForIndex(i), Session: m.Session.ID(), Name: m.Name}
	}
	return seats
}

func (l *Lobby) indexOf(id SessionID) int {
	for i, m := range l.Members {
		if m.Session.ID() == id {
			return i
		}
	}
	return -1
}

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // How long a lobby waits for a second player
	TickRate      int           // Game tick rate (Hz)
	CleanupPeriod time.Duration // How often to clean up expired lobbies
	ScreenW       int           // Arena size shared by every client
	ScreenH       int
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  2 * time.Minute,
		TickRate:      30,
		CleanupPeriod: 30 * time.Second,
		ScreenW:       80,
		ScreenH:       24,
	}
}

// GameFactory creates a reset game for a match. seats lists the human
// seats; the rest are played by the AI.
type GameFactory func(gameID string, cfg core.RuntimeConfig, seats []Seat) (OnlineGame, error)

// MatchResultSaver persists finished matches. It lets the coordinator save
// results without depending on the storage package.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData contains match result data for persistence.
type MatchResultData struct {
	MatchID      string
	GameID       string
	Players      [core.MaxPlayers]string // Human names by seat - 1, "" for AI
	Scores       [core.MaxPlayers]int
	WinnerSeat   int // 0 if nobody won
	EndReason    string
	DurationSecs int
}

// Coordinator manages lobbies and active matches.
type Coordinator struct {
	config      CoordinatorConfig
	gameFactory GameFactory
	sessions    *SessionRegistry
	resultSaver MatchResultSaver // Optional, can be nil
	logger      *log.Logger

	mu      sync.RWMutex
	lobbies map[string]*Lobby        // code -> lobby
	matches map[MatchID]*OnlineMatch // matchID -> match

	// Track which session is in which lobby/match
	sessionLobby map[SessionID]string  // sessionID -> lobby code
	sessionMatch map[SessionID]MatchID // sessionID -> matchID

	// Message channel for async processing
	msgChan  chan CoordinatorMessage
	done     chan struct{}
	stopOnce sync.Once
}

// NewCoordinator creates a new coordinator.
func NewCoordinator(cfg CoordinatorConfig, factory GameFactory, sessions *SessionRegistry) *Coordinator {
	return &Coordinator{
		config:       cfg,
		gameFactory:  factory,
		sessions:     sessions,
		logger:       log.New(io.Discard),
		lobbies:      make(map[string]*Lobby),
		matches:      make(map[MatchID]*OnlineMatch),
		sessionLobby: make(map[SessionID]string),
		sessionMatch: make(map[SessionID]MatchID),
		msgChan:      make(chan CoordinatorMessage, 256),
		done:         make(chan struct{}),
	}
}

// SetResultSaver sets the optional match result saver.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.resultSaver = saver
}

// SetLogger sets the logger for lobby and match lifecycle messages.
func (c *Coordinator) SetLogger(logger *log.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Config returns the coordinator configuration. Clients use its arena size
// to mirror snapshots.
func (c *Coordinator) Config() CoordinatorConfig {
	return c.config
}

// Start begins the coordinator's background processing.
func (c *Coordinator) Start() {
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop shuts down the coordinator and every running match.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
		c.mu.RLock()
		defer c.mu.RUnlock()
		for _, m := range c.matches {
			m.Stop()
		}
	})
}

// Send queues a message for the coordinator goroutine.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(m)
	case StartMatchMsg:
		c.handleStartMatch(m)
	case CancelLobbyMsg:
		c.handleCancelLobby(m)
	case LeaveLobbyMsg:
		c.handleLeaveLobby(m)
	case LeaveMatchMsg:
		c.handleLeaveMatch(m)
	case PlayerInputMsg:
		c.handlePlayerInput(m)
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	}
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy(msg.SessionID) {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	code := c.generateUniqueCode()
	c.lobbies[code] = &Lobby{
		Code:      code,
		GameID:    msg.GameID,
		Members:   []LobbyMember{{Session: session, Name: msg.Name}},
		CreatedAt: time.Now(),
	}
	c.sessionLobby[msg.SessionID] = code

	c.logger.Info("lobby created", "code", code, "host", msg.Name)
	session.Send(LobbyCreatedEvent{Code: code, GameID: msg.GameID})
}

func (c *Coordinator) handleJoinLobby(msg JoinLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy(msg.SessionID) {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(msg.Code))
	lobby, exists := c.lobbies[code]
	if !exists {
		session.Send(LobbyErrorEvent{Message: "Lobby not found"})
		return
	}
	if lobby.Full() {
		session.Send(LobbyErrorEvent{Message: "Lobby is full"})
		return
	}

	lobby.Members = append(lobby.Members, LobbyMember{Session: session, Name: msg.Name})
	c.sessionLobby[msg.SessionID] = code
	c.logger.Info("lobby joined", "code", code, "player", msg.Name, "players", len(lobby.Members))

	seats := lobby.Seats()
	for i, m := range lobby.Members {
		m.Session.Send(LobbyJoinedEvent{Code: code, Side: seatForIndex(i), Members: seats})
	}

	if lobby.Full() {
		c.startMatch(lobby)
	}
}

func (c *Coordinator) handleStartMatch(msg StartMatchMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[strings.ToUpper(msg.Code)]
	if !exists {
		return
	}
	if lobby.Host().ID() != msg.SessionID {
		if session, ok := c.sessions.Get(msg.SessionID); ok {
			session.Send(LobbyErrorEvent{Message: "Only the host can start"})
		}
		return
	}
	c.startMatch(lobby)
}

// startMatch turns a lobby into a running match. Must be called with the
// lock held.
func (c *Coordinator) startMatch(lobby *Lobby) {
	matchID := MatchID(fmt.Sprintf("match-%s-%d", lobby.Code, time.Now().UnixNano()))

	cfg := core.RuntimeConfig{
		ScreenW:  c.config.ScreenW,
		ScreenH:  c.config.ScreenH,
		TickRate: c.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	seats := lobby.Seats()
	game, err := c.gameFactory(lobby.GameID, cfg, seats)
	if err != nil {
		c.logger.Error("cannot create game", "code", lobby.Code, "game", lobby.GameID, "error", err)
		for _, m := range lobby.Members {
			m.Session.Send(LobbyErrorEvent{Message: "Failed to create game"})
		}
		return
	}

	sessions := make(map[PlayerID]SessionHandle, len(lobby.Members))
	for i, m := range lobby.Members {
		sessions[seatForIndex(i)] = m.Session
	}
	match := NewOnlineMatch(matchID, lobby.Code, lobby.GameID, game, seats, sessions, c.config.TickRate)

	c.matches[matchID] = match
	for _, m := range lobby.Members {
		delete(c.sessionLobby, m.Session.ID())
		c.sessionMatch[m.Session.ID()] = matchID
	}
	delete(c.lobbies, lobby.Code)

	for i, m := range lobby.Members {
		m.Session.Send(MatchStartedEvent{
			MatchID: matchID,
			Side:    seatForIndex(i),
			Code:    lobby.Code,
			Seats:   seats,
		})
	}
	c.logger.Info("match started", "match", matchID, "players", len(seats))

	go match.Run(func(result MatchResult) {
		c.handleMatchEnded(matchID, result)
	})
}

func (c *Coordinator) handleMatchEnded(matchID MatchID, result MatchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	match, exists := c.matches[matchID]
	if !exists {
		return
	}
	delete(c.matches, matchID)

	c.logger.Info("match ended", "match", matchID, "reason", result.Reason, "winner", int(result.Winner))

	if c.resultSaver != nil {
		data := MatchResultData{
			MatchID:      string(matchID),
			GameID:       match.GameID(),
			Scores:       result.Scores,
			WinnerSeat:   int(result.Winner),
			EndReason:    result.Reason.String(),
			DurationSecs: int(result.Ticks / uint64(max(1, c.config.TickRate))), //nolint:gosec // tick rate is clamped positive
		}
		for _, s := range match.Seats() {
			data.Players[seatIndex(s.ID)] = s.Name
		}
		// Best effort save, don't block on error
		go func() {
			if err := c.resultSaver.SaveMatchResult(data); err != nil {
				c.logger.Warn("cannot save match result", "match", matchID, "error", err)
			}
		}()
	}

	endEvent := MatchEndedEvent{
		MatchID: matchID,
		Reason:  result.Reason,
		Winner:  result.Winner,
		Scores:  result.Scores,
	}
	// Sessions that left the match have moved on and get no event.
	for _, s := range match.Seats() {
		if c.sessionMatch[s.Session] != matchID {
			continue
		}
		delete(c.sessionMatch, s.Session)
		if h := match.Session(s.ID); h != nil {
			h.Send(endEvent)
		}
	}
}

func (c *Coordinator) handleCancelLobby(msg CancelLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[msg.Code]
	if !exists || lobby.Host().ID() != msg.SessionID {
		return
	}
	c.closeLobby(lobby)
}

func (c *Coordinator) handleLeaveLobby(msg LeaveLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[msg.Code]
	if !exists {
		return
	}
	c.leaveLobby(lobby, msg.SessionID)
}

// leaveLobby removes a member. A leaving host closes the lobby. Must be
// called with the lock held.
func (c *Coordinator) leaveLobby(lobby *Lobby, sessionID SessionID) {
	i := lobby.indexOf(sessionID)
	switch {
	case i < 0:
		return
	case i == 0:
		c.closeLobby(lobby)
		return
	}

	lobby.Members = append(lobby.Members[:i], lobby.Members[i+1:]...)
	delete(c.sessionLobby, sessionID)
	c.logger.Info("lobby left", "code", lobby.Code, "players", len(lobby.Members))

	seats := lobby.Seats()
	for j, m := range lobby.Members {
		m.Session.Send(LobbyPlayerLeftEvent{Code: lobby.Code, Side: seatForIndex(j), Members: seats})
	}
}

// closeLobby removes a lobby and tells the guests. Must be called with the
// lock held.
func (c *Coordinator) closeLobby(lobby *Lobby) {
	for i, m := range lobby.Members {
		if i > 0 {
			m.Session.Send(MatchEndedEvent{Reason: MatchEndReasonHostLeft})
		}
		delete(c.sessionLobby, m.Session.ID())
	}
	delete(c.lobbies, lobby.Code)
	c.logger.Info("lobby closed", "code", lobby.Code)
}

func (c *Coordinator) handleLeaveMatch(msg LeaveMatchMsg) {
	c.mu.Lock()
	match, exists := c.matches[msg.MatchID]
	if exists && c.sessionMatch[msg.SessionID] == msg.MatchID {
		delete(c.sessionMatch, msg.SessionID)
	}
	c.mu.Unlock()

	if exists {
		match.PlayerDisconnected(msg.SessionID)
	}
}

func (c *Coordinator) handlePlayerInput(msg PlayerInputMsg) {
	c.mu.RLock()
	match, exists := c.matches[msg.MatchID]
	c.mu.RUnlock()

	if exists {
		match.SendInput(msg.Player, msg.Input)
	}
}

func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if code, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		if lobby, exists := c.lobbies[code]; exists {
			c.leaveLobby(lobby, msg.SessionID)
		}
		delete(c.sessionLobby, msg.SessionID)
	}

	if matchID, inMatch := c.sessionMatch[msg.SessionID]; inMatch {
		delete(c.sessionMatch, msg.SessionID)
		if match, exists := c.matches[matchID]; exists {
			match.PlayerDisconnected(msg.SessionID)
		}
	}
}

// busy reports whether a session already waits in a lobby or plays.
// Must be called with the lock held.
func (c *Coordinator) busy(id SessionID) bool {
	_, inLobby := c.sessionLobby[id]
	_, inMatch := c.sessionMatch[id]
	return inLobby || inMatch
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpiredLobbies()
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) cleanupExpiredLobbies() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for code, lobby := range c.lobbies {
		// Only lobbies nobody joined expire.
		if len(lobby.Members) == 1 && now.Sub(lobby.CreatedAt) > c.config.LobbyTimeout {
			lobby.Host().Send(LobbyErrorEvent{Message: "Lobby expired"})
			delete(c.sessionLobby, lobby.Host().ID())
			delete(c.lobbies, code)
			c.logger.Info("lobby expired", "code", code)
		}
	}
}

func (c *Coordinator) generateUniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := c.lobbies[code]; !exists {
			return code
		}
	}
}

// generateJoinCode creates a 6-character uppercase alphanumeric code.
func generateJoinCode() string {
	b := make([]byte, 4) // 4 bytes = 32 bits, base32 encodes to 8 chars, we take 6
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	return base32.StdEncoding.EncodeToString(b)[:6]
}

// GetLobby returns a lobby by code (for testing/debug).
func (c *Coordinator) GetLobby(code string) (*Lobby, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.lobbies[strings.ToUpper(code)]
	return l, ok
}

// GetMatch returns a match by ID (for testing/debug).
func (c *Coordinator) GetMatch(id MatchID) (*OnlineMatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.matches[id]
	return m, ok
}

// LobbyCount returns the number of open lobbies.
func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobbies)
}

// MatchCount returns the number of running matches.
func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}
