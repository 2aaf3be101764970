package multegula

import (
	"testing"

	"github.com/vovakirdan/multegula/internal/core"
)

func TestNewBall(t *testing.T) {
	b := NewBall(100, 60, 0.5)

	x, y, r := b.Info()
	if x != 50 || y != 30 {
		t.Errorf("center = (%v, %v), expected (50, 30)", x, y)
	}
	if r != 2 {
		t.Errorf("radius = %v, expected width/50 = 2", r)
	}
	if vx, vy := b.Velocity(); vx != 0 || vy != 0.5 {
		t.Errorf("velocity = (%v, %v), expected (0, 0.5)", vx, vy)
	}
	if b.Color() != core.ColorGreen {
		t.Errorf("color = %v, expected green", b.Color())
	}
	if b.LastToTouch() != "" {
		t.Errorf("new ball should be untouched, got %q", b.LastToTouch())
	}

	if small := NewBall(10, 10, 0.5); small.Radius() != minBallRadius {
		t.Errorf("radius should not drop below %v, got %v", minBallRadius, small.Radius())
	}
}

func TestBallRejectsDegenerateGeometry(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"zero width", func() { NewBall(0, 10, 0.5) }},
		{"negative height", func() { NewBall(10, -1, 0.5) }},
		{"zero speed", func() { NewBall(10, 10, 0) }},
		{"zero radius", func() { NewBall(10, 10, 0.5).SetRadius(0) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tc.fn()
		})
	}
}

func TestBallReset(t *testing.T) {
	b := NewBall(80, 40, 0.5)
	b.SetCenter(3, 4)

	rng := &scriptedRand{
		floats: []float64{0.5},
		// factor index 4 -> x2, sign roll 0 -> up, colors: green (rejected), purple
		ints: []int{4, 0, 1, 3},
	}
	b.Reset(rng)

	if x, y := b.Center(); x != 40 || y != 20 {
		t.Errorf("Reset should recentre, got (%v, %v)", x, y)
	}
	vx, vy := b.Velocity()
	if vx != 0.5 {
		t.Errorf("vx = %v, expected speed * 0.5 * 2 = 0.5", vx)
	}
	if vy != -0.5 {
		t.Errorf("vy = %v, expected -0.5", vy)
	}
	if b.Color() != core.ColorPurple {
		t.Errorf("color = %v, expected purple after rejecting green", b.Color())
	}
}

func TestBallResetAlwaysChangesColor(t *testing.T) {
	b := NewBall(80, 40, 0.5)
	rng := NewSimpleRNG(99)

	for i := 0; i < 200; i++ {
		before := b.Color()
		b.Reset(rng)
		if b.Color() == before {
			t.Fatalf("reset %d kept color %v", i, before)
		}
		if _, vy := b.Velocity(); vy != 0.5 && vy != -0.5 {
			t.Fatalf("vy = %v, expected ±0.5", vy)
		}
		if vx, _ := b.Velocity(); vx < -1 || vx > 1 {
			t.Fatalf("vx = %v outside ±2*speed", vx)
		}
	}
}

func TestBallScaleFactorsAreAsymmetric(t *testing.T) {
	b := NewBall(80, 40, 0.5)
	b.SetRadius(1)
	b.IncreaseRadius()
	if !near(b.Radius(), 1.1) {
		t.Errorf("IncreaseRadius = %v, expected 1.1", b.Radius())
	}
	b.DecreaseRadius()
	if !near(b.Radius(), 1.1/0.9) {
		t.Errorf("DecreaseRadius = %v, expected 1.1/0.9", b.Radius())
	}
	if near(b.Radius(), 1) {
		t.Error("radius round trip should not return to the original value")
	}

	b.SetVelocity(1, -2)
	b.IncreaseVelocity()
	b.DecreaseVelocity()
	vx, vy := b.Velocity()
	if !near(vx, 0.99) || !near(vy, -1.98) {
		t.Errorf("velocity round trip = (%v, %v), expected (0.99, -1.98)", vx, vy)
	}
}

func TestBallAdvanceMenu(t *testing.T) {
	tests := []struct {
		name         string
		x, y, vx, vy float64
		wantVX       float64
		wantVY       float64
		wantX, wantY float64
		rerollsVX    bool
	}{
		{
			name: "free flight",
			x:    40, y: 20, vx: 0.5, vy: -0.5,
			wantVX: 0.5, wantVY: -0.5, wantX: 40.5, wantY: 19.5,
		},
		{
			name: "top bound",
			x:    40, y: 0.5, vx: 0.3, vy: -0.5,
			wantVX: 0.3, wantVY: 0.5, wantX: 40.3, wantY: 0.5,
		},
		{
			name: "bottom bound rerolls vx",
			x:    40, y: 39.5, vx: 0.3, vy: 0.5,
			wantVY: -0.5, wantX: 39.75, wantY: 39.5, rerollsVX: true,
		},
		{
			name: "left bound",
			x:    0.5, y: 20, vx: -0.3, vy: 0.5,
			wantVX: 0.3, wantVY: 0.5, wantX: 0.5, wantY: 20.5,
		},
		{
			name: "right bound",
			x:    79.5, y: 20, vx: 0.3, vy: 0.5,
			wantVX: -0.3, wantVY: 0.5, wantX: 79.5, wantY: 20.5,
		},
		{
			name: "moving away from a touched bound",
			x:    0.5, y: 0.5, vx: 0.3, vy: 0.5,
			wantVX: 0.3, wantVY: 0.5, wantX: 0.8, wantY: 1.0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := newTestBall(tc.x, tc.y, tc.vx, tc.vy)
			before := b.Color()
			// Float 0.25 with factor index 0 (x-2) gives vx = -0.25.
			rng := &scriptedRand{floats: []float64{0.25}, ints: []int{0, 0, 0, 0}}
			b.AdvanceMenu(rng)

			vx, vy := b.Velocity()
			x, y := b.Center()
			if tc.rerollsVX {
				if !near(vx, -0.25) {
					t.Errorf("vx = %v, expected re-rolled -0.25", vx)
				}
			} else if !near(vx, tc.wantVX) {
				t.Errorf("vx = %v, expected %v", vx, tc.wantVX)
			}
			if !near(vy, tc.wantVY) {
				t.Errorf("vy = %v, expected %v", vy, tc.wantVY)
			}
			if !near(x, tc.wantX) || !near(y, tc.wantY) {
				t.Errorf("center = (%v, %v), expected (%v, %v)", x, y, tc.wantX, tc.wantY)
			}
			bounced := !near(vx, tc.vx) || !near(vy, tc.vy)
			if bounced && b.Color() == before {
				t.Error("a bounce should change the color")
			}
		})
	}
}

func TestBallAdvanceGameIgnoresBounds(t *testing.T) {
	b := newTestBall(0.2, 0.2, -0.5, -0.5)
	b.AdvanceGame()

	x, y := b.Center()
	if !near(x, -0.3) || !near(y, -0.3) {
		t.Errorf("center = (%v, %v), expected (-0.3, -0.3)", x, y)
	}
}

func TestBallEdges(t *testing.T) {
	b := newTestBall(10, 20, 0, 0)
	b.SetRadius(2)

	l, r, top, bottom := b.Edges()
	if l != 8 || r != 12 || top != 18 || bottom != 22 {
		t.Errorf("Edges() = (%v, %v, %v, %v)", l, r, top, bottom)
	}
	if box := b.Box(); box.Width() != 4 || box.Height() != 4 {
		t.Errorf("Box() = %+v", box)
	}
}
