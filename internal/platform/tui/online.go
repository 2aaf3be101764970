package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/multegula/internal/core"
	"github.com/vovakirdan/multegula/internal/games/multegula"
	"github.com/vovakirdan/multegula/internal/multiplayer"
)

// OnlineState represents the current state of the online matchmaking flow.
type OnlineState int

const (
	OnlineStateChooseMode    OnlineState = iota // Choose Host or Join
	OnlineStateHostWaiting                      // Hosting, waiting for players
	OnlineStateJoinEnterCode                    // Entering join code
	OnlineStateJoinWaiting                      // Join sent, waiting for the coordinator
	OnlineStateGuestWaiting                     // Seated in a lobby, waiting for the host
	OnlineStateInMatch                          // In active match
)

const joinCodeLen = 6

// waitForEvent returns a command that delivers the next coordinator event.
func waitForEvent(ch <-chan multiplayer.SessionEvent) tea.Cmd {
	return func() tea.Msg {
		if ch == nil {
			return nil
		}
		evt, ok := <-ch
		if !ok {
			return nil
		}
		return evt
	}
}

// OnlineLobbyModel handles the online matchmaking flow.
type OnlineLobbyModel struct {
	state       OnlineState
	width       int
	height      int
	name        string
	sessionID   multiplayer.SessionID
	coordinator *multiplayer.Coordinator

	lobbyCode string
	side      core.PlayerID
	members   []multiplayer.Seat

	joinCodeInput string
	lastError     string

	started multiplayer.MatchStartedEvent

	backToMenu bool
	quitting   bool

	eventChan <-chan multiplayer.SessionEvent
}

// NewOnlineLobbyModel creates a new online lobby model.
func NewOnlineLobbyModel(
	name string,
	sessionID multiplayer.SessionID,
	coordinator *multiplayer.Coordinator,
	eventChan <-chan multiplayer.SessionEvent,
	width, height int,
) OnlineLobbyModel {
	return OnlineLobbyModel{
		state:       OnlineStateChooseMode,
		width:       width,
		height:      height,
		name:        name,
		sessionID:   sessionID,
		coordinator: coordinator,
		eventChan:   eventChan,
	}
}

// Init starts listening for coordinator events.
func (m OnlineLobbyModel) Init() tea.Cmd {
	return waitForEvent(m.eventChan)
}

// Update handles messages.
func (m OnlineLobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = msg.Code
		m.side = multiplayer.Player1
		m.members = []multiplayer.Seat{{ID: multiplayer.Player1, Session: m.sessionID, Name: m.name}}
		m.lastError = ""
		m.state = OnlineStateHostWaiting
	case multiplayer.LobbyJoinedEvent:
		m.lobbyCode = msg.Code
		m.side = msg.Side
		m.members = msg.Members
		m.lastError = ""
		if m.state == OnlineStateJoinWaiting {
			m.state = OnlineStateGuestWaiting
		}
	case multiplayer.LobbyPlayerLeftEvent:
		m.side = msg.Side
		m.members = msg.Members
	case multiplayer.LobbyErrorEvent:
		m.lastError = msg.Message
		if m.state == OnlineStateJoinWaiting {
			m.state = OnlineStateJoinEnterCode
		}
	case multiplayer.MatchEndedEvent:
		// The host closed the lobby before the match started.
		m.lastError = msg.Reason.String()
		m.state = OnlineStateChooseMode
		m.members = nil
	case multiplayer.MatchStartedEvent:
		m.started = msg
		m.side = msg.Side
		m.state = OnlineStateInMatch
		return m, nil
	case multiplayer.SessionEvent:
		// Leftovers of an earlier match.
	default:
		return m, nil
	}
	return m, waitForEvent(m.eventChan)
}

func (m OnlineLobbyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.handleChooseModeKey(msg)
	case OnlineStateJoinEnterCode:
		return m.handleJoinCodeKey(msg)
	case OnlineStateHostWaiting, OnlineStateJoinWaiting, OnlineStateGuestWaiting:
		return m.handleWaitingKey(msg)
	}

	return m, nil
}

func (m OnlineLobbyModel) handleChooseModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "H", "1":
		m.coordinator.Send(multiplayer.CreateLobbyMsg{
			SessionID: m.sessionID,
			GameID:    multegula.ModeOnline,
			Name:      m.name,
		})
	case "j", "J", "2":
		m.state = OnlineStateJoinEnterCode
		m.joinCodeInput = ""
		m.lastError = ""
	case "esc", "b":
		m.backToMenu = true
	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m OnlineLobbyModel) handleJoinCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc":
		m.state = OnlineStateChooseMode
	case "enter":
		if m.joinCodeInput != "" {
			m.state = OnlineStateJoinWaiting
			m.lastError = ""
			m.coordinator.Send(multiplayer.JoinLobbyMsg{
				SessionID: m.sessionID,
				Code:      m.joinCodeInput,
				Name:      m.name,
			})
		}
	case "backspace":
		if m.joinCodeInput != "" {
			m.joinCodeInput = m.joinCodeInput[:len(m.joinCodeInput)-1]
		}
	default:
		// Join codes are base32: A-Z and 2-7.
		if len(key) == 1 && len(m.joinCodeInput) < joinCodeLen {
			c := strings.ToUpper(key)[0]
			if (c >= 'A' && c <= 'Z') || (c >= '2' && c <= '7') {
				m.joinCodeInput += string(c)
			}
		}
	}
	return m, nil
}

func (m OnlineLobbyModel) handleWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.state == OnlineStateHostWaiting {
			m.coordinator.Send(multiplayer.StartMatchMsg{SessionID: m.sessionID, Code: m.lobbyCode})
		}
	case "esc", "b":
		m.leave()
		m.state = OnlineStateChooseMode
		m.members = nil
	case "q":
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// leave tells the coordinator this session gave up its lobby.
func (m OnlineLobbyModel) leave() {
	switch m.state {
	case OnlineStateHostWaiting:
		m.coordinator.Send(multiplayer.CancelLobbyMsg{SessionID: m.sessionID, Code: m.lobbyCode})
	case OnlineStateJoinWaiting, OnlineStateGuestWaiting:
		m.coordinator.Send(multiplayer.LeaveLobbyMsg{SessionID: m.sessionID, Code: m.lobbyCode})
	}
}

// View renders the current state.
func (m OnlineLobbyModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	line := func(s string) {
		b.WriteString(centerText(s, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch m.state {
	case OnlineStateChooseMode:
		line("ONLINE MULTEGULA")
		line("")
		line("[H] Host an arena")
		line("[J] Join an arena")
		line("")
		line("Esc: Back  |  Q: Quit")

	case OnlineStateHostWaiting:
		line("HOSTING ARENA")
		line("")
		line("Share this code:")
		line(fmt.Sprintf("[ %s ]", m.lobbyCode))
		line("")
		m.viewMembers(line)
		line("")
		line("Enter: Start (free edges play themselves)  |  Esc: Cancel")

	case OnlineStateJoinEnterCode:
		line("JOIN ARENA")
		line("")
		line("Enter the arena code:")
		code := m.joinCodeInput
		if len(code) < joinCodeLen {
			code += "_" + strings.Repeat(" ", joinCodeLen-1-len(code))
		}
		line(fmt.Sprintf("[ %s ]", code))
		line("")
		line("Enter: Connect  |  Esc: Back")

	case OnlineStateJoinWaiting:
		line("CONNECTING")
		line("")
		line(fmt.Sprintf("Joining arena %s...", m.joinCodeInput))
		line("")
		line("Esc: Cancel")

	case OnlineStateGuestWaiting:
		line(fmt.Sprintf("ARENA %s", m.lobbyCode))
		line("")
		m.viewMembers(line)
		line("")
		line("Waiting for the host to start...  |  Esc: Leave")

	case OnlineStateInMatch:
		line("MATCH STARTING")
		line("")
		line(fmt.Sprintf("You guard the %s edge", multegula.OrientationForSeat(m.side)))
	}

	if m.lastError != "" {
		line("")
		line("Error: " + m.lastError)
	}
	return b.String()
}

func (m OnlineLobbyModel) viewMembers(line func(string)) {
	for _, id := range core.AllPlayers {
		who := "(AI)"
		for _, s := range m.members {
			if s.ID == id {
				who = s.Name
			}
		}
		marker := "  "
		if id == m.side {
			marker = "> "
		}
		line(fmt.Sprintf("%s%-5s %s", marker, multegula.OrientationForSeat(id), who))
	}
}

// State returns the current online state.
func (m OnlineLobbyModel) State() OnlineState {
	return m.state
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineLobbyModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineLobbyModel) IsQuitting() bool {
	return m.quitting
}

// Started returns the start event once the match began.
func (m OnlineLobbyModel) Started() multiplayer.MatchStartedEvent {
	return m.started
}

// LobbyCode returns the lobby code.
func (m OnlineLobbyModel) LobbyCode() string {
	return m.lobbyCode
}

// OnlineMatchModel plays one seat of a server-side match. The screen
// mirrors the snapshots the match broadcasts.
type OnlineMatchModel struct {
	coordinator *multiplayer.Coordinator
	sessionID   multiplayer.SessionID
	matchID     multiplayer.MatchID
	side        core.PlayerID
	seats       []multiplayer.Seat

	game      *multegula.Game
	screen    *core.Screen
	keyMapper *KeyMapper
	lastTick  uint64

	ended      *multiplayer.MatchEndedEvent
	backToMenu bool
	quitting   bool

	eventChan <-chan multiplayer.SessionEvent
}

// NewOnlineMatchModel creates the client view of a started match.
func NewOnlineMatchModel(
	coordinator *multiplayer.Coordinator,
	sessionID multiplayer.SessionID,
	started multiplayer.MatchStartedEvent,
	eventChan <-chan multiplayer.SessionEvent,
) OnlineMatchModel {
	humans := make(map[core.PlayerID]string, len(started.Seats))
	for _, s := range started.Seats {
		humans[s.ID] = s.Name
	}

	cfg := coordinator.Config()
	game := multegula.NewOnline(humans)
	game.Reset(core.RuntimeConfig{ScreenW: cfg.ScreenW, ScreenH: cfg.ScreenH, TickRate: cfg.TickRate})
	game.SetLocalSeat(multegula.OrientationForSeat(started.Side))

	return OnlineMatchModel{
		coordinator: coordinator,
		sessionID:   sessionID,
		matchID:     started.MatchID,
		side:        started.Side,
		seats:       started.Seats,
		game:        game,
		screen:      core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		keyMapper:   NewKeyMapper(),
		eventChan:   eventChan,
	}
}

// Init starts listening for snapshots.
func (m OnlineMatchModel) Init() tea.Cmd {
	return waitForEvent(m.eventChan)
}

// Update handles messages.
func (m OnlineMatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case multiplayer.SnapshotEvent:
		if msg.MatchID == m.matchID && msg.Tick >= m.lastTick {
			if snap, ok := msg.Snapshot.(multegula.Snapshot); ok {
				m.game.ApplySnapshot(snap)
				m.game.SetLocalSeat(multegula.OrientationForSeat(m.side))
				m.lastTick = msg.Tick
			}
		}
		return m, waitForEvent(m.eventChan)

	case multiplayer.MatchEndedEvent:
		if msg.MatchID != m.matchID {
			return m, waitForEvent(m.eventChan)
		}
		m.ended = &msg
		return m, nil

	case multiplayer.SessionEvent:
		return m, waitForEvent(m.eventChan)
	}
	return m, nil
}

func (m OnlineMatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	in := core.NewInputFrame()
	quit := m.keyMapper.MapKeyToFrame(msg, &in)

	if quit || in.Has(core.ActionBack) {
		if m.ended == nil {
			m.coordinator.Send(multiplayer.LeaveMatchMsg{SessionID: m.sessionID, MatchID: m.matchID})
		}
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		m.backToMenu = true
		return m, nil
	}

	if m.ended == nil && len(in.Actions) > 0 {
		m.coordinator.Send(multiplayer.PlayerInputMsg{
			MatchID:  m.matchID,
			Player:   m.side,
			TickHint: m.lastTick,
			Input:    in,
		})
	}
	return m, nil
}

// View renders the mirrored arena.
func (m OnlineMatchModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if m.ended != nil {
		m.renderResult()
	}
	return RenderScreen(m.screen)
}

// renderResult replaces the bottom rows with the final standings.
func (m OnlineMatchModel) renderResult() {
	e := m.ended
	h := m.screen.Height()

	parts := make([]string, 0, core.MaxPlayers)
	for i, id := range core.AllPlayers {
		parts = append(parts, fmt.Sprintf("%s %d", m.seatLabel(id), e.Scores[i]))
	}

	headline := e.Reason.String()
	switch {
	case e.Winner == m.side:
		headline = "You win!"
	case e.Winner.Valid():
		headline = m.seatLabel(e.Winner) + " wins"
	}

	m.screen.FillBox(core.Box{Left: 0, Top: float64(h - 3), Right: float64(m.screen.Width()), Bottom: float64(h)}, ' ', core.ColorDefault)
	m.screen.DrawTextCentered(h-3, headline)
	m.screen.DrawTextCentered(h-2, strings.Join(parts, "  "))
	m.screen.DrawTextCentered(h-1, "Esc: Menu  |  Q: Quit")
}

// seatLabel names a seat by its player, or by its edge for AI seats.
func (m OnlineMatchModel) seatLabel(id core.PlayerID) string {
	if name := m.game.SeatName(id); name != "" {
		return name
	}
	return multegula.OrientationForSeat(id).String()
}

// Ended returns true once the match is over.
func (m OnlineMatchModel) Ended() bool {
	return m.ended != nil
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineMatchModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineMatchModel) IsQuitting() bool {
	return m.quitting
}
