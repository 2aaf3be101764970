package multegula

import (
	"strings"
	"testing"

	"github.com/vovakirdan/multegula/internal/core"
	"github.com/vovakirdan/multegula/internal/registry"
)

func emptyInput() core.InputFrame {
	return core.NewInputFrame()
}

func inputWith(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func TestNewUnknownModePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown mode")
		}
	}()
	New("tetris")
}

func TestResetLineups(t *testing.T) {
	tests := []struct {
		mode  string
		seats [4]PlayerState // indexed by Orientation
	}{
		{ModeClassic, [4]PlayerState{North: AI, South: User, East: AI, West: AI}},
		{ModePractice, [4]PlayerState{North: Wall, South: User, East: Wall, West: Wall}},
		{ModeDuel, [4]PlayerState{North: AI, South: User, East: Wall, West: Wall}},
		{ModeDemo, [4]PlayerState{North: AI, South: AI, East: AI, West: AI}},
	}

	for _, tc := range tests {
		t.Run(tc.mode, func(t *testing.T) {
			g := newTestGame(t, tc.mode, 1)

			for _, o := range Orientations {
				p := g.Player(o)
				if p.State() != tc.seats[o] {
					t.Errorf("%s state = %v, expected %v", o, p.State(), tc.seats[o])
				}
				if p.Lives() != 5 {
					t.Errorf("%s lives = %d, expected 5", o, p.Lives())
				}
				if p.State() == Wall && p.Paddle().Width() != p.Paddle().Length() {
					t.Errorf("%s wall should span its edge", o)
				}
			}
			if g.Level().Remaining() == 0 {
				t.Error("first level should have blocks")
			}
			if g.State().GameOver || g.State().Paused {
				t.Errorf("fresh game state = %+v", g.State())
			}
			if x, y := g.Ball().Center(); x != 40 || y != 11.5 {
				t.Errorf("ball = (%v, %v), expected the arena centre", x, y)
			}
		})
	}
}

func TestPlayerNames(t *testing.T) {
	t.Cleanup(func() { playerName = "you" })
	SetPlayerName("ann")
	SetPlayerName("")

	g := newTestGame(t, ModeClassic, 1)
	if g.Player(South).Name() != "ann" {
		t.Errorf("south name = %q, expected ann", g.Player(South).Name())
	}
	if g.Player(East).Name() != "cpu-EAST" {
		t.Errorf("east name = %q, expected cpu-EAST", g.Player(East).Name())
	}

	online := NewOnline(map[core.PlayerID]string{core.Player1: "x", core.Player2: "x"})
	online.Reset(testRuntime(1))
	if online.SeatName(core.Player1) != "x" || online.SeatName(core.Player2) != "x-NORTH" {
		t.Errorf("duplicate names = %q, %q", online.SeatName(core.Player1), online.SeatName(core.Player2))
	}
}

func TestStepDeflectSetsLastToTouch(t *testing.T) {
	g := newTestGame(t, ModePractice, 1)
	g.Ball().SetCenter(40, 21)
	g.Ball().SetVelocity(0, 0.5)

	g.Step(emptyInput())

	if _, vy := g.Ball().Velocity(); vy >= 0 {
		t.Errorf("vy = %v, expected the ball to head north", vy)
	}
	if got := g.Ball().LastToTouch(); got != g.Player(South).Name() {
		t.Errorf("lastToTouch = %q, expected %q", got, g.Player(South).Name())
	}
	if g.Tick() != 1 {
		t.Errorf("tick = %d, expected 1", g.Tick())
	}
}

func TestStepWallSetsLastToTouch(t *testing.T) {
	g := newTestGame(t, ModePractice, 1)
	g.Ball().SetCenter(78, 10)
	g.Ball().SetVelocity(0.4, 0.3)

	g.Step(emptyInput())

	if vx, vy := g.Ball().Velocity(); vx != -0.4 || vy != 0.3 {
		t.Errorf("velocity = (%v, %v), expected (-0.4, 0.3)", vx, vy)
	}
	if got := g.Ball().LastToTouch(); got != "wall-EAST" {
		t.Errorf("lastToTouch = %q, expected wall-EAST", got)
	}
}

func TestStepMissCostsLifeAndServes(t *testing.T) {
	g := newTestGame(t, ModeClassic, 3)
	g.Ball().SetCenter(40, 0.4)
	g.Ball().SetVelocity(0, -0.5)
	g.Ball().SetLastToTouch("cpu-EAST")

	g.Step(emptyInput())

	if lives := g.Player(North).Lives(); lives != 4 {
		t.Errorf("north lives = %d, expected 4", lives)
	}
	if g.Ball().LastToTouch() != "" {
		t.Errorf("served ball should be untouched, got %q", g.Ball().LastToTouch())
	}
	if _, y := g.Ball().Center(); y < 10 || y > 13 {
		t.Errorf("ball y = %v, expected a serve from the centre", y)
	}
}

func TestEliminatedPlayerBecomesWall(t *testing.T) {
	g := newTestGame(t, ModeClassic, 3)
	g.Player(North).SetLives(1)
	g.Ball().SetCenter(40, 0.4)
	g.Ball().SetVelocity(0, -0.5)

	g.Step(emptyInput())

	north := g.Player(North)
	if north.State() != Wall {
		t.Fatalf("north state = %v, expected WALL", north.State())
	}
	if north.Paddle().Width() != north.Paddle().Length() {
		t.Errorf("eliminated paddle width = %v, expected %v", north.Paddle().Width(), north.Paddle().Length())
	}
	if g.IsGameOver() {
		t.Error("classic continues while three players are in")
	}
}

func TestGameOver(t *testing.T) {
	t.Run("duel ends when the rival is out", func(t *testing.T) {
		g := newTestGame(t, ModeDuel, 3)
		g.Player(North).SetLives(1)
		g.Ball().SetCenter(40, 0.4)
		g.Ball().SetVelocity(0, -0.5)

		g.Step(emptyInput())

		if !g.IsGameOver() {
			t.Fatal("duel should be over")
		}
		if g.Winner() != core.Player1 {
			t.Errorf("winner = %v, expected seat 1", g.Winner())
		}
	})

	t.Run("practice ends when the user is out", func(t *testing.T) {
		g := newTestGame(t, ModePractice, 3)
		g.Player(South).SetLives(1)
		g.Ball().SetCenter(40, 22.6)
		g.Ball().SetVelocity(0, 0.5)

		g.Step(emptyInput())

		if !g.State().GameOver {
			t.Fatal("practice should be over")
		}

		g.Step(inputWith(core.ActionRestart))
		if g.IsGameOver() || g.Player(South).Lives() != 5 || g.Tick() != 0 {
			t.Errorf("restart should start a fresh match, state = %+v", g.State())
		}
	})

	t.Run("practice survives misses", func(t *testing.T) {
		g := newTestGame(t, ModePractice, 3)
		g.Ball().SetCenter(40, 22.6)
		g.Ball().SetVelocity(0, 0.5)

		g.Step(emptyInput())

		if g.IsGameOver() || g.Player(South).Lives() != 4 {
			t.Errorf("state = %+v lives = %d", g.State(), g.Player(South).Lives())
		}
	})
}

func TestBlockBrokenScoresAndAdvancesLevel(t *testing.T) {
	setup := func(t *testing.T) *Game {
		g := newTestGame(t, ModePractice, 1)
		g.level = &Level{ID: "t", Blocks: []Block{
			{Left: 38, Right: 41, Top: 10, Bottom: 11, Enabled: true, Points: 10},
		}}
		g.Ball().SetCenter(39.5, 11.3)
		g.Ball().SetVelocity(0, -0.5)
		g.Ball().SetLastToTouch(g.Player(South).Name())
		return g
	}

	t.Run("next map", func(t *testing.T) {
		g := setup(t)
		g.Step(emptyInput())

		if g.Player(South).Score() != 10 {
			t.Errorf("score = %d, expected 10", g.Player(South).Score())
		}
		if g.Level().ID != "cross" || g.levelIndex != 1 {
			t.Errorf("level = %q (%d), expected cross", g.Level().ID, g.levelIndex)
		}
		if g.Ball().LastToTouch() != "" {
			t.Error("a new level should serve a fresh ball")
		}
	})

	t.Run("wraps after the last map", func(t *testing.T) {
		g := setup(t)
		g.levelIndex = len(g.maps) - 1
		g.Step(emptyInput())

		if g.levelIndex != 0 || g.round != 1 {
			t.Errorf("level index/round = %d/%d, expected 0/1", g.levelIndex, g.round)
		}
	})

	t.Run("not attributed", func(t *testing.T) {
		g := setup(t)
		g.Ball().SetLastToTouch("")
		g.Step(emptyInput())

		if g.Player(South).Score() != 0 || g.Level().Remaining() != 1 {
			t.Error("an untouched ball must not break blocks")
		}
	})
}

func TestPause(t *testing.T) {
	g := newTestGame(t, ModeClassic, 1)

	g.Step(inputWith(core.ActionPause))
	if !g.State().Paused || g.Tick() != 0 {
		t.Fatalf("expected paused at tick 0, got %+v tick %d", g.State(), g.Tick())
	}
	g.Step(emptyInput())
	if g.Tick() != 0 {
		t.Error("paused game should not tick")
	}
	g.Step(inputWith(core.ActionPause))
	if g.State().Paused || g.Tick() != 1 {
		t.Errorf("expected resumed at tick 1, got %+v tick %d", g.State(), g.Tick())
	}
}

func TestOnlineIgnoresPause(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	g := NewOnline(map[core.PlayerID]string{core.Player1: "ann"})
	g.Reset(testRuntime(1))

	m := core.NewMultiInputFrame()
	m.SetPlayer(core.Player1, inputWith(core.ActionPause))
	g.StepMulti(m)

	if g.State().Paused || g.Tick() != 1 {
		t.Errorf("online game paused: %+v tick %d", g.State(), g.Tick())
	}
}

func TestSteering(t *testing.T) {
	t.Run("local seat", func(t *testing.T) {
		g := newTestGame(t, ModeClassic, 1)
		g.Step(inputWith(core.ActionRight))
		if c := g.Player(South).Paddle().Center(); c != 41 {
			t.Errorf("center = %v, expected 41", c)
		}
		// The direction holds without input.
		g.Step(emptyInput())
		if c := g.Player(South).Paddle().Center(); c != 42 {
			t.Errorf("center = %v, expected 42", c)
		}
		g.Step(inputWith(core.ActionStop))
		if c := g.Player(South).Paddle().Center(); c != 42 {
			t.Errorf("center = %v, expected the paddle to stop at 42", c)
		}
	})

	t.Run("every seat", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		g := NewOnline(map[core.PlayerID]string{core.Player3: "cat"})
		g.Reset(testRuntime(1))

		m := core.NewMultiInputFrame()
		m.SetPlayer(core.Player3, inputWith(core.ActionDown))
		g.StepMulti(m)

		if c := g.Player(East).Paddle().Center(); c != 12.5 {
			t.Errorf("east center = %v, expected 12.5", c)
		}
	})
}

func TestReleaseSeat(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	g := NewOnline(map[core.PlayerID]string{core.Player1: "ann", core.Player3: "cat"})
	g.Reset(testRuntime(1))

	g.ReleaseSeat(core.Player3)
	if g.Player(East).State() != AI {
		t.Fatalf("released seat state = %v, expected AI", g.Player(East).State())
	}
	g.StepMulti(core.NewMultiInputFrame())
	if g.IsGameOver() {
		t.Fatal("game should go on while a user is seated")
	}

	g.ReleaseSeat(core.Player1)
	g.StepMulti(core.NewMultiInputFrame())
	if !g.IsGameOver() {
		t.Error("game should end once every user has left")
	}
}

func TestDifficultyRaisesBallSpeed(t *testing.T) {
	g := newTestGame(t, ModePractice, 1)
	g.Player(South).SetScore(600)

	g.Step(emptyInput())

	if s := g.Ball().Speed(); !near(s, 0.8) {
		t.Errorf("speed = %v, expected 0.5 * 1.6", s)
	}
}

func TestGrantPowerUps(t *testing.T) {
	tests := []struct {
		power PowerUp
		check func(t *testing.T, g *Game)
	}{
		{PowerBigBall, func(t *testing.T, g *Game) {
			if !near(g.Ball().Radius(), 0.55) || !g.powerups.HasEffect(EffectBigBall) {
				t.Errorf("radius = %v", g.Ball().Radius())
			}
		}},
		{PowerSmallBall, func(t *testing.T, g *Game) {
			if !near(g.Ball().Radius(), 0.45) || !g.powerups.HasEffect(EffectSmallBall) {
				t.Errorf("radius = %v", g.Ball().Radius())
			}
		}},
		{PowerFastBall, func(t *testing.T, g *Game) {
			if vx, vy := g.Ball().Velocity(); !near(vx, 0.9) || !near(vy, 0.55) {
				t.Errorf("velocity = (%v, %v), expected (0.9 capped, 0.55)", vx, vy)
			}
		}},
		{PowerSlowBall, func(t *testing.T, g *Game) {
			if vx, vy := g.Ball().Velocity(); !near(vx, 0.765) || !near(vy, 0.45) {
				t.Errorf("velocity = (%v, %v)", vx, vy)
			}
		}},
		{PowerExtraLife, func(t *testing.T, g *Game) {
			if g.Player(South).Lives() != 6 {
				t.Errorf("lives = %d, expected 6", g.Player(South).Lives())
			}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.power.String(), func(t *testing.T) {
			g := newTestGame(t, ModePractice, 1)
			g.Ball().SetVelocity(0.85, 0.5)

			g.grant(g.Player(South), tc.power)

			if g.Player(South).Power() != tc.power {
				t.Errorf("power = %v, expected %v", g.Player(South).Power(), tc.power)
			}
			tc.check(t, g)
		})
	}
}

func TestRadiusEffectExpires(t *testing.T) {
	g := newTestGame(t, ModePractice, 1)
	g.grant(g.Player(South), PowerBigBall)
	g.tickCount = g.cfg.PowerUps.RadiusDuration - 1

	g.Step(emptyInput())

	if !near(g.Ball().Radius(), 0.5) {
		t.Errorf("radius = %v, expected base radius after expiry", g.Ball().Radius())
	}
	if g.Player(South).Power() != PowerNone {
		t.Errorf("power = %v, expected none after expiry", g.Player(South).Power())
	}
}

func TestDeterminism(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	run := func(seed int64) uint64 {
		g := New(ModeClassic)
		g.Reset(testRuntime(seed))
		for i := 0; i < 900; i++ {
			in := emptyInput()
			switch {
			case i%60 < 20:
				in.Set(core.ActionLeft)
			case i%60 < 40:
				in.Set(core.ActionRight)
			}
			g.Step(in)
		}
		snap := g.Capture()
		return snap.Hash()
	}

	if a, b := run(42), run(42); a != b {
		t.Errorf("same seed produced different states: %d != %d", a, b)
	}
	if run(42) == run(43) {
		t.Error("different seeds should diverge")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	src := newTestGame(t, ModeClassic, 7)
	for i := 0; i < 50; i++ {
		src.Step(emptyInput())
	}
	src.grant(src.Player(East), PowerBigBall)

	dst := New(ModeClassic)
	dst.Reset(testRuntime(99))
	snap := src.Capture()
	dst.ApplySnapshot(snap)

	got := dst.Capture()
	if snap.Hash() != got.Hash() {
		t.Fatal("applied snapshot differs from the captured one")
	}

	// Both sides keep agreeing once restored.
	for i := 0; i < 30; i++ {
		src.Step(inputWith(core.ActionLeft))
		dst.Step(inputWith(core.ActionLeft))
	}
	a, b := src.Capture(), dst.Capture()
	if a.Hash() != b.Hash() {
		t.Error("games diverged after restoring a snapshot")
	}
}

func TestRender(t *testing.T) {
	g := newTestGame(t, ModeClassic, 1)
	screen := core.NewScreen(80, 24)
	g.Render(screen)

	if hud := screen.Row(0); !strings.Contains(hud, "you") || !strings.Contains(hud, "L1") {
		t.Errorf("HUD = %q", hud)
	}
	out := screen.String()
	if !strings.ContainsRune(out, BallChar) {
		t.Error("ball not drawn")
	}
	if !strings.Contains(out, "Level 1: Core") {
		t.Error("level banner not drawn")
	}
}

func TestRenderGameOver(t *testing.T) {
	g := newTestGame(t, ModePractice, 1)
	g.Player(South).SetLives(1)
	g.Ball().SetCenter(40, 22.6)
	g.Ball().SetVelocity(0, 0.5)
	g.Step(emptyInput())

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Press R to restart") {
		t.Error("game over overlay not drawn")
	}
}

func TestRenderTooSmall(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	g := New(ModeClassic)
	g.Reset(core.RuntimeConfig{ScreenW: 20, ScreenH: 10, TickRate: 30, Seed: 1})

	g.Step(emptyInput())
	if g.Tick() != 0 {
		t.Error("a game on a screen that is too small should not tick")
	}

	screen := core.NewScreen(20, 10)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Window too small") {
		t.Errorf("screen = %q", screen.String())
	}
}

func TestModesRegistered(t *testing.T) {
	for _, mode := range []string{ModeClassic, ModePractice, ModeDuel, ModeDemo} {
		g, err := registry.Create(mode)
		if err != nil {
			t.Fatalf("Create(%q) failed: %v", mode, err)
		}
		if g.ID() != mode {
			t.Errorf("ID() = %q, expected %q", g.ID(), mode)
		}
	}
	if registry.Exists(ModeOnline) || registry.Exists(ModePeer) {
		t.Error("networked modes need a transport and must not be listed")
	}
}
