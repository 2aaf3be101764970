package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/multegula/internal/bridge"
	"github.com/vovakirdan/multegula/internal/core"
)

// hubClosedMsg is sent when the hub connection ends.
type hubClosedMsg struct{}

// steeringActions are the only inputs a peer forwards to its arena. Pause
// and restart would fork the shared simulation.
var steeringActions = []core.Action{
	core.ActionLeft, core.ActionRight, core.ActionUp, core.ActionDown, core.ActionStop,
}

// waitForMessage returns a command that delivers the next hub message.
func waitForMessage(ch <-chan bridge.Message) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return hubClosedMsg{}
		}
		return msg
	}
}

// PeerModel plays the local seat of a peer arena.
type PeerModel struct {
	client    *bridge.Client
	peer      *bridge.Peer
	screen    *core.Screen
	keyMapper *KeyMapper
	input     core.InputFrame
	tickRate  int
	lastError string
	closed    bool
	quitting  bool
}

// NewPeerModel creates the model for a started arena.
func NewPeerModel(client *bridge.Client, peer *bridge.Peer) PeerModel {
	arena := bridge.PeerArena
	return PeerModel{
		client:    client,
		peer:      peer,
		screen:    core.NewScreen(arena.ScreenW, arena.ScreenH),
		keyMapper: NewKeyMapper(),
		input:     core.NewInputFrame(),
		tickRate:  arena.TickRate,
	}
}

// Init starts the tick loop and the hub reader.
func (m PeerModel) Init() tea.Cmd {
	return tea.Batch(waitForMessage(m.client.Incoming()), tickCmd(m.tickRate))
}

// Update handles messages.
func (m PeerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		var in core.InputFrame
		if m.keyMapper.MapKeyToFrame(msg, &in) {
			m.quitting = true
			return m, tea.Quit
		}
		for _, a := range steeringActions {
			if in.Has(a) {
				m.input.Set(a)
			}
		}
		return m, nil

	case bridge.Message:
		if err := m.peer.Handle(msg); err != nil {
			m.lastError = err.Error()
		}
		return m, waitForMessage(m.client.Incoming())

	case hubClosedMsg:
		m.closed = true
		return m, nil

	case TickMsg:
		m.peer.Step(m.input)
		m.input.Clear()
		if !m.closed {
			if err := m.peer.Flush(m.client); err != nil {
				m.lastError = err.Error()
			}
		}
		return m, tickCmd(m.tickRate)
	}
	return m, nil
}

// View renders the local arena.
func (m PeerModel) View() string {
	if m.quitting {
		return ""
	}

	m.peer.Game().Render(m.screen)
	bottom := m.screen.Height() - 1
	switch {
	case m.closed:
		m.screen.DrawTextCentered(bottom, " hub connection lost, Q to quit ")
	case m.lastError != "":
		m.screen.DrawTextCentered(bottom, " "+m.lastError+" ")
	}
	return RenderScreen(m.screen)
}

// RunPeer plays a started peer arena until the user quits, then leaves the hub.
func RunPeer(client *bridge.Client, peer *bridge.Peer) error {
	defer client.Close() //nolint:errcheck // leaving the hub is best-effort

	p := tea.NewProgram(NewPeerModel(client, peer), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
