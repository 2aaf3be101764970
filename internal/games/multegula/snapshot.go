package multegula

import (
	"math"

	"github.com/vovakirdan/multegula/internal/core"
	"github.com/vovakirdan/multegula/internal/multiplayer"
)

// PlayerSnapshot is the state of one edge.
type PlayerSnapshot struct {
	State     int
	Name      string
	Score     int
	Lives     int
	Power     int
	Center    float64
	Width     float64
	Direction int
}

// Snapshot contains the complete arena state for online play and
// determinism tests. Players are indexed by Orientation.
type Snapshot struct {
	Tick       uint64
	Mode       string
	State      string
	LevelIndex int
	Round      int
	Banner     int
	Winner     int

	BallX, BallY   float64
	BallVX, BallVY float64
	BallRadius     float64
	BallSpeed      float64
	BallColor      int
	LastToTouch    string

	Players [4]PlayerSnapshot
	Blocks  []bool // enabled flag per block index

	// Effect state (each effect is 3 ints: Type, Owner, UntilTick)
	EffectData []int

	RNGState uint64
}

// IsGameSnapshot implements the GameSnapshot interface marker.
func (Snapshot) IsGameSnapshot() {}

// Ensure Snapshot implements multiplayer.GameSnapshot
var _ multiplayer.GameSnapshot = Snapshot{}

// Snapshot returns the current state for network transmission.
func (g *Game) Snapshot() multiplayer.GameSnapshot {
	return g.Capture()
}

// Capture returns the current state as a Snapshot.
func (g *Game) Capture() Snapshot {
	vx, vy := g.ball.Velocity()
	snap := Snapshot{
		Tick:        uint64(max(0, g.tickCount)), //nolint:gosec // tickCount is never negative
		Mode:        g.mode,
		State:       g.state,
		LevelIndex:  g.levelIndex,
		Round:       g.round,
		Banner:      g.bannerUntil,
		Winner:      int(g.winner),
		BallX:       g.ball.x,
		BallY:       g.ball.y,
		BallVX:      vx,
		BallVY:      vy,
		BallRadius:  g.ball.Radius(),
		BallSpeed:   g.ball.Speed(),
		BallColor:   int(g.ball.Color()),
		LastToTouch: g.ball.LastToTouch(),
		Blocks:      make([]bool, len(g.level.Blocks)),
		EffectData:  make([]int, 0, len(g.powerups.Effects)*3),
		RNGState:    g.rng.State(),
	}

	for _, o := range Orientations {
		p := g.players[o]
		snap.Players[o] = PlayerSnapshot{
			State:     int(p.State()),
			Name:      p.Name(),
			Score:     p.Score(),
			Lives:     p.Lives(),
			Power:     int(p.Power()),
			Center:    p.Paddle().Center(),
			Width:     p.Paddle().Width(),
			Direction: int(p.Paddle().Direction()),
		}
	}

	for i, b := range g.level.Blocks {
		snap.Blocks[i] = b.Enabled
	}
	for _, e := range g.powerups.Effects {
		snap.EffectData = append(snap.EffectData, int(e.Type), int(e.Owner), e.UntilTick)
	}
	return snap
}

// ApplySnapshot restores state captured by a game of the same arena size.
// Used by clients to sync with server state.
func (g *Game) ApplySnapshot(snap Snapshot) {
	g.tickCount = int(min(snap.Tick, math.MaxInt)) //nolint:gosec // clamped to max int
	g.state = snap.State
	g.round = snap.Round
	g.bannerUntil = snap.Banner
	g.winner = core.PlayerID(snap.Winner)

	if snap.LevelIndex != g.levelIndex && len(g.maps) > 0 {
		g.loadLevel(snap.LevelIndex)
		g.bannerUntil = snap.Banner
	}
	if len(snap.Blocks) == len(g.level.Blocks) {
		for i, enabled := range snap.Blocks {
			g.level.Blocks[i].Enabled = enabled
		}
	}

	g.ball.SetCenter(snap.BallX, snap.BallY)
	g.ball.SetVelocity(snap.BallVX, snap.BallVY)
	if snap.BallRadius > 0 {
		g.ball.SetRadius(snap.BallRadius)
	}
	if snap.BallSpeed > 0 {
		g.ball.SetSpeed(snap.BallSpeed)
	}
	g.ball.SetColor(core.Color(snap.BallColor)) //nolint:gosec // colors fit in a byte
	g.ball.SetLastToTouch(snap.LastToTouch)

	for _, o := range Orientations {
		ps := snap.Players[o]
		p := g.players[o]
		p.SetState(PlayerState(ps.State))
		p.SetName(ps.Name)
		p.SetScore(ps.Score)
		p.SetLives(ps.Lives)
		p.SetPower(PowerUp(ps.Power))
		if ps.Width > 0 {
			p.Paddle().SetWidth(ps.Width)
		}
		p.Paddle().SetCenter(ps.Center)
		p.Paddle().SetDirection(Direction(ps.Direction))
	}

	g.powerups.Effects = g.powerups.Effects[:0]
	for i := 0; i+2 < len(snap.EffectData); i += 3 {
		g.powerups.Effects = append(g.powerups.Effects, &Effect{
			Type:      EffectType(snap.EffectData[i]),
			Owner:     Orientation(snap.EffectData[i+1]),
			UntilTick: snap.EffectData[i+2],
		})
	}

	g.rng.SetState(snap.RNGState)
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Tick
	mix := func(v uint64) {
		h = h*31 + v
	}
	mixInt := func(v int) {
		mix(uint64(v)) //#nosec G115 -- hash computation
	}
	mixFloat := func(v float64) {
		mix(math.Float64bits(v))
	}
	mixString := func(s string) {
		for i := 0; i < len(s); i++ {
			mix(uint64(s[i]))
		}
	}

	mixString(snap.Mode)
	mixString(snap.State)
	mixInt(snap.LevelIndex)
	mixInt(snap.Round)
	mixInt(snap.Winner)
	mixFloat(snap.BallX)
	mixFloat(snap.BallY)
	mixFloat(snap.BallVX)
	mixFloat(snap.BallVY)
	mixFloat(snap.BallRadius)
	mixFloat(snap.BallSpeed)
	mixInt(snap.BallColor)
	mixString(snap.LastToTouch)

	for _, p := range snap.Players {
		mixInt(p.State)
		mixString(p.Name)
		mixInt(p.Score)
		mixInt(p.Lives)
		mixInt(p.Power)
		mixFloat(p.Center)
		mixFloat(p.Width)
		mixInt(p.Direction)
	}

	for _, enabled := range snap.Blocks {
		if enabled {
			mix(1)
		} else {
			mix(0)
		}
	}

	for _, v := range snap.EffectData {
		mixInt(v)
	}

	mix(snap.RNGState)
	return h
}
