package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/multegula/internal/core"
	"github.com/vovakirdan/multegula/internal/games/multegula"
)

const (
	titleText      = "M U L T E G U L A"
	titleBallSpeed = 0.6
)

// TitleModel is the attract screen: a ball bounces behind the logo until a
// key is pressed.
type TitleModel struct {
	screen     *core.Screen
	ball       *multegula.Ball
	rng        *multegula.SimpleRNG
	tickRate   int
	standalone bool
	done       bool
	quitting   bool
}

// NewTitleModel creates the attract screen for a width x height terminal.
func NewTitleModel(cfg core.RuntimeConfig) TitleModel {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	m := TitleModel{
		screen:   core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		rng:      multegula.NewSimpleRNG(seed),
		tickRate: cfg.TickRate,
	}
	m.resetBall(cfg.ScreenW, cfg.ScreenH)
	return m
}

func (m *TitleModel) resetBall(w, h int) {
	m.ball = multegula.NewBall(float64(max(w, 1)), float64(max(h, 1)), titleBallSpeed)
	m.ball.Reset(m.rng)
}

// Init starts the animation.
func (m TitleModel) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages.
func (m TitleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if k := msg.String(); k == "ctrl+c" || k == "q" {
			m.quitting = true
			return m, tea.Quit
		}
		m.done = true
		if m.standalone {
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
		m.resetBall(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		m.ball.AdvanceMenu(m.rng)
		return m, tickCmd(m.tickRate)
	}
	return m, nil
}

// View renders the logo and the ball.
func (m TitleModel) View() string {
	if m.quitting {
		return ""
	}

	s := m.screen
	s.Clear()
	mid := s.Height() / 2
	s.DrawTextCentered(mid-2, titleText)
	s.DrawTextCentered(mid, "break blocks, guard your edge")
	s.DrawTextCentered(mid+3, "press any key")

	x, y := m.ball.Center()
	s.SetColored(int(x), int(y), multegula.BallChar, m.ball.Color())
	return RenderScreen(s)
}

// Done reports whether a key dismissed the screen.
func (m TitleModel) Done() bool {
	return m.done
}

// IsQuitting returns true if user requested to quit.
func (m TitleModel) IsQuitting() bool {
	return m.quitting
}

// RunTitle shows the attract screen. It returns false if the user quit.
func RunTitle(cfg core.RuntimeConfig) (bool, error) {
	model := NewTitleModel(cfg)
	model.standalone = true
	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(TitleModel)
	return ok && !m.IsQuitting(), nil
}
