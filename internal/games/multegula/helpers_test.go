package multegula

import (
	"math"
	"testing"

	"github.com/vovakirdan/multegula/internal/core"
)

// scriptedRand replays fixed draws. Once a script runs out, Intn counts up
// and Float64 returns 0.5.
type scriptedRand struct {
	ints   []int
	floats []float64
	next   int
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) > 0 {
		v := r.ints[0]
		r.ints = r.ints[1:]
		return v % n
	}
	r.next++
	return r.next % n
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) > 0 {
		v := r.floats[0]
		r.floats = r.floats[1:]
		return v
	}
	return 0.5
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// testRuntime is an 80x24 terminal, which gives an 80x23 arena.
func testRuntime(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		Seed:     seed,
	}
}

// newTestGame builds a game that ignores any config in the user's home.
func newTestGame(t *testing.T, mode string, seed int64) *Game {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	g := New(mode)
	g.Reset(testRuntime(seed))
	return g
}

// testSpec is the paddle used by the single-player tests.
var testSpec = PaddleSpec{Width: 16, Thickness: 1, Inset: 1, Speed: 1}

const (
	testW = 80.0
	testH = 40.0
)

func newTestPlayer(o Orientation, s PlayerState) *Player {
	return NewPlayer(o, s, "p-"+o.String(), NewPaddle(o, testW, testH, testSpec))
}

func newTestBall(x, y, vx, vy float64) *Ball {
	b := NewBall(testW, testH, 0.5)
	b.SetRadius(0.5)
	b.SetCenter(x, y)
	b.SetVelocity(vx, vy)
	return b
}
