package core

// Action is a semantic input, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // A, Left arrow - paddle toward the lower coordinate
	ActionRight          // D, Right arrow - paddle toward the higher coordinate
	ActionUp             // W, Up arrow - same as Left for side paddles
	ActionDown           // S, Down arrow - same as Right for side paddles
	ActionStop           // Space - stop the paddle
	ActionConfirm        // Enter
	ActionBack           // B, Escape
	ActionRestart        // R, after game over
	ActionQuit           // Q, Ctrl+C
	ActionPause          // P
)

var actionNames = [...]string{
	ActionNone:    "None",
	ActionLeft:    "Left",
	ActionRight:   "Right",
	ActionUp:      "Up",
	ActionDown:    "Down",
	ActionStop:    "Stop",
	ActionConfirm: "Confirm",
	ActionBack:    "Back",
	ActionRestart: "Restart",
	ActionQuit:    "Quit",
	ActionPause:   "Pause",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "Unknown"
}

// InputFrame holds the actions triggered by one player during one tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Merge ORs the actions of other into f.
func (f *InputFrame) Merge(other InputFrame) {
	for a, pressed := range other.Actions {
		if pressed {
			f.Set(a)
		}
	}
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	clear(f.Actions)
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	clone.Merge(f)
	return clone
}

// PlayerID identifies a seat in an arena. Seat order is fixed:
// Player1 guards the south edge, Player2 north, Player3 east, Player4 west.
type PlayerID int

const (
	PlayerNone PlayerID = iota
	Player1
	Player2
	Player3
	Player4
)

// MaxPlayers is the number of arena edges.
const MaxPlayers = 4

// AllPlayers lists the seats in tick order.
var AllPlayers = [MaxPlayers]PlayerID{Player1, Player2, Player3, Player4}

// Valid reports whether id names a seat.
func (id PlayerID) Valid() bool {
	return id >= Player1 && id <= Player4
}

// MultiInputFrame contains input from every seat for a single tick.
type MultiInputFrame struct {
	ByPlayer map[PlayerID]InputFrame
}

// NewMultiInputFrame creates an empty multi-input frame.
func NewMultiInputFrame() MultiInputFrame {
	return MultiInputFrame{
		ByPlayer: make(map[PlayerID]InputFrame),
	}
}

// Player returns the input frame for a seat, empty if it has none.
func (m MultiInputFrame) Player(id PlayerID) InputFrame {
	if frame, ok := m.ByPlayer[id]; ok {
		return frame
	}
	return NewInputFrame()
}

// SetPlayer sets the input frame for a seat.
func (m *MultiInputFrame) SetPlayer(id PlayerID, frame InputFrame) {
	if m.ByPlayer == nil {
		m.ByPlayer = make(map[PlayerID]InputFrame)
	}
	m.ByPlayer[id] = frame
}

// Clear resets all seat inputs for the next frame.
func (m *MultiInputFrame) Clear() {
	for id := range m.ByPlayer {
		frame := m.ByPlayer[id]
		frame.Clear()
		m.ByPlayer[id] = frame
	}
}
