package multegula

import (
	"fmt"
	"math"

	"github.com/vovakirdan/multegula/internal/config"
	"github.com/vovakirdan/multegula/internal/core"
	"github.com/vovakirdan/multegula/internal/registry"
)

// Game modes.
const (
	ModeClassic  = "classic"  // You against three AI paddles
	ModePractice = "practice" // You against three walls
	ModeDuel     = "duel"     // You against one AI, walls on the sides
	ModeDemo     = "demo"     // Four AI paddles
	ModeOnline   = "online"   // Server-authoritative, seats filled by sessions
	ModePeer     = "peer"     // One local seat, remote seats fed by events
)

// Game states
const (
	StatePlaying  = "playing"
	StatePaused   = "paused"
	StateGameOver = "gameover"
)

// Screen reserves one row for the HUD above the arena.
const (
	hudRows    = 1
	minScreenW = 40
	minScreenH = 16
	bannerTime = 2 // seconds a level banner stays on screen
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// playerName is the name of the local user seat
var playerName = "you"

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	p, ok := config.ParsePreset(preset)
	if !ok {
		p = ""
	}
	difficultyPreset = p
}

// SetPlayerName sets the name shown for the local user seat.
func SetPlayerName(name string) {
	if name != "" {
		playerName = name
	}
}

// SeatConfig describes who plays one edge. An empty name is filled in.
type SeatConfig struct {
	State PlayerState
	Name  string
}

// Lineup assigns a SeatConfig to every edge, indexed by Orientation.
type Lineup [4]SeatConfig

// Game implements the Multegula arena.
type Game struct {
	mode   string
	lineup Lineup

	players [4]*Player // indexed by Orientation
	ball    *Ball
	level   *Level

	powerups   *PowerUpManager
	rng        *SimpleRNG
	difficulty *config.DifficultyManager

	state       string
	tickCount   int
	levelIndex  int
	round       int
	bannerUntil int
	baseRadius  float64
	winner      core.PlayerID
	competitors int // non-wall players at the start of the match

	local    Orientation
	hasLocal bool

	recordEvents bool
	events       []Event

	runtime        core.RuntimeConfig
	cfg            config.MultegulaConfig
	maps           []config.LevelMap
	arenaW, arenaH float64
	screenTooSmall bool
}

// New creates a game in one of the local modes.
func New(mode string) *Game {
	g := &Game{mode: mode}
	switch mode {
	case ModeClassic:
		g.lineup = Lineup{
			North: {State: AI},
			South: {State: User},
			East:  {State: AI},
			West:  {State: AI},
		}
	case ModePractice:
		g.lineup = Lineup{
			North: {State: Wall},
			South: {State: User},
			East:  {State: Wall},
			West:  {State: Wall},
		}
	case ModeDuel:
		g.lineup = Lineup{
			North: {State: AI},
			South: {State: User},
			East:  {State: Wall},
			West:  {State: Wall},
		}
	case ModeDemo:
		g.lineup = Lineup{
			North: {State: AI},
			South: {State: AI},
			East:  {State: AI},
			West:  {State: AI},
		}
	default:
		panic(fmt.Sprintf("multegula: unknown mode %q", mode))
	}
	return g
}

// NewOnline creates a server-side game. Seats with a name are played by
// sessions; the others are AI.
func NewOnline(humans map[core.PlayerID]string) *Game {
	g := &Game{mode: ModeOnline}
	for _, o := range Orientations {
		g.lineup[o] = SeatConfig{State: AI}
		if name, ok := humans[o.Seat()]; ok {
			g.lineup[o] = SeatConfig{State: User, Name: name}
		}
	}
	return g
}

// NewPeer creates a peer game. The local edge is played here, the other
// named edges are remote competitors and the rest are walls. Physics results
// of the local seat are recorded as events for the transport to send.
func NewPeer(local Orientation, roster map[Orientation]string) *Game {
	g := &Game{mode: ModePeer, recordEvents: true}
	for _, o := range Orientations {
		g.lineup[o] = SeatConfig{State: Wall}
		if name, ok := roster[o]; ok {
			g.lineup[o] = SeatConfig{State: Comp, Name: name}
		}
	}
	g.lineup[local].State = User
	if g.lineup[local].Name == "" {
		g.lineup[local].Name = playerName
	}
	return g
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return g.mode
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	switch g.mode {
	case ModeClassic:
		return "Multegula"
	case ModePractice:
		return "Multegula (Practice)"
	case ModeDuel:
		return "Multegula (Duel)"
	case ModeDemo:
		return "Multegula (Demo)"
	case ModeOnline:
		return "Multegula (Online)"
	case ModePeer:
		return "Multegula (Peer)"
	default:
		return "Multegula"
	}
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	cfg, err := config.LoadMultegula(configPath)
	if err != nil {
		cfg = config.DefaultMultegulaConfig()
	}
	if difficultyPreset != "" {
		config.ApplyMultegulaPreset(&cfg, difficultyPreset)
	}
	g.cfg = cfg
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)

	g.maps = cfg.Levels
	if len(g.maps) == 0 {
		g.maps = BuiltinMaps()
	}

	g.screenTooSmall = runtime.ScreenW < minScreenW || runtime.ScreenH < minScreenH
	g.arenaW = float64(max(runtime.ScreenW, minScreenW))
	g.arenaH = float64(max(runtime.ScreenH, minScreenH) - hudRows)

	g.rng = NewSimpleRNG(runtime.Seed)
	g.powerups = NewPowerUpManager(cfg.PowerUps)
	g.events = g.events[:0]
	g.state = StatePlaying
	g.tickCount = 0
	g.round = 0
	g.winner = core.PlayerNone

	g.ball = NewBall(g.arenaW, g.arenaH, min(cfg.Physics.BallSpeed, cfg.Physics.MaxBallSpeed))
	if cfg.Physics.BallRadius > 0 {
		g.ball.SetRadius(cfg.Physics.BallRadius)
	}
	g.baseRadius = g.ball.Radius()

	g.hasLocal = false
	g.competitors = 0
	for _, o := range Orientations {
		seat := g.lineup[o]
		if seat.Name == "" {
			seat.Name = defaultName(o, seat.State)
		}
		p := NewPlayer(o, seat.State, g.uniqueName(o, seat.Name), g.newPaddle(o, seat.State))
		p.SetLives(cfg.Gameplay.Lives)
		g.players[o] = p

		if seat.State != Wall {
			g.competitors++
		}
		if seat.State == User && !g.hasLocal {
			g.local, g.hasLocal = o, true
		}
	}

	g.loadLevel(max(cfg.Gameplay.StartLevel-1, 0))
	g.serve()
}

func defaultName(o Orientation, s PlayerState) string {
	switch s {
	case User:
		if o == South {
			return playerName
		}
		return "player-" + o.String()
	case Wall:
		return "wall-" + o.String()
	default:
		return "cpu-" + o.String()
	}
}

// uniqueName appends the edge to a name already used by an earlier seat.
func (g *Game) uniqueName(o Orientation, name string) string {
	for _, other := range Orientations {
		if other == o {
			break
		}
		if p := g.players[other]; p != nil && p.Name() == name {
			return name + "-" + o.String()
		}
	}
	return name
}

func (g *Game) newPaddle(o Orientation, s PlayerState) *Paddle {
	length := g.arenaW
	if !o.Horizontal() {
		length = g.arenaH
	}
	width := length * g.cfg.Paddles.WidthFraction
	if s == Wall {
		width = length
	}
	return NewPaddle(o, g.arenaW, g.arenaH, PaddleSpec{
		Width:     max(width, 1),
		Thickness: g.cfg.Paddles.Thickness,
		Inset:     g.cfg.Paddles.Inset,
		Speed:     g.cfg.Physics.PaddleSpeed,
	})
}

// loadLevel lays out level map index (wrapping) and resizes the paddles for
// the current difficulty.
func (g *Game) loadLevel(index int) {
	g.levelIndex = index % len(g.maps)
	g.level = ParseLevel(g.maps[g.levelIndex], Layout{
		ArenaW:     g.arenaW,
		ArenaH:     g.arenaH,
		BlockWidth: g.cfg.Gameplay.BlockWidth,
		BasePoints: g.cfg.Gameplay.BlockPoints,
	})
	g.bannerUntil = g.tickCount + bannerTime*max(g.runtime.TickRate, 1)

	fraction := g.difficulty.PaddleFraction(g.cfg.Paddles.WidthFraction, g.difficultyScore(), g.tickCount)
	for _, p := range g.players {
		if p == nil || p.State() == Wall {
			continue
		}
		p.Paddle().SetWidth(max(p.Paddle().Length()*fraction, 1))
	}
}

// serve resets the ball and hands it to nobody.
func (g *Game) serve() {
	g.powerups.Clear()
	g.ball.SetRadius(g.baseRadius)
	g.ball.Reset(g.rng)
	g.ball.SetLastToTouch("")
	g.clampVelocity()
}

// clampVelocity caps each velocity component at the configured maximum so
// the ball never skips over a paddle band.
func (g *Game) clampVelocity() {
	limit := g.cfg.Physics.MaxBallSpeed
	vx, vy := g.ball.Velocity()
	g.ball.SetVelocity(core.ClampF(vx, -limit, limit), core.ClampF(vy, -limit, limit))
}

// Step advances the game by one tick with input for the local seat.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	inputs := map[Orientation]core.InputFrame{}
	if g.hasLocal {
		inputs[g.local] = in
	} else {
		// Demo games still honour pause and restart.
		inputs[South] = in
	}
	return g.step(inputs)
}

// StepMulti advances the game using input from every seat.
func (g *Game) StepMulti(input core.MultiInputFrame) core.StepResult {
	inputs := make(map[Orientation]core.InputFrame, core.MaxPlayers)
	for _, id := range core.AllPlayers {
		inputs[OrientationForSeat(id)] = input.Player(id)
	}
	return g.step(inputs)
}

func (g *Game) step(inputs map[Orientation]core.InputFrame) core.StepResult {
	if g.screenTooSmall {
		return core.StepResult{State: g.State()}
	}

	for _, in := range inputs {
		if in.Has(core.ActionRestart) && g.state == StateGameOver {
			g.Reset(g.runtime)
			return core.StepResult{State: g.State()}
		}
	}

	if g.mode != ModeOnline {
		for _, in := range inputs {
			if !in.Has(core.ActionPause) {
				continue
			}
			switch g.state {
			case StatePaused:
				g.state = StatePlaying
			case StatePlaying:
				g.state = StatePaused
			}
			break
		}
	}

	if g.state != StatePlaying {
		return core.StepResult{State: g.State()}
	}

	g.tickCount++

	for o, in := range inputs {
		if p := g.players[o]; p != nil && p.State() == User {
			steer(p.Paddle(), in)
		}
	}

	speed := g.difficulty.Speed(g.cfg.Physics.BallSpeed, g.difficultyScore(), g.tickCount)
	g.ball.SetSpeed(min(speed, g.cfg.Physics.MaxBallSpeed))

	for _, o := range Orientations {
		p := g.players[o]
		res := p.Update(g.ball, g.level, g.rng)
		g.apply(p, res)
	}

	g.ball.AdvanceGame()

	for _, e := range g.powerups.ExpireEffects(g.tickCount) {
		g.onEffectExpired(e)
	}

	if g.level.Remaining() == 0 {
		g.nextLevel()
	}
	g.checkGameOver()

	return core.StepResult{State: g.State()}
}

// steer maps input to paddle direction. Up and Left both move toward the
// lower coordinate; the direction holds until changed or stopped.
func steer(p *Paddle, in core.InputFrame) {
	switch {
	case in.Has(core.ActionStop):
		p.SetDirection(Stop)
	case in.Has(core.ActionLeft), in.Has(core.ActionUp):
		p.SetDirection(Left)
	case in.Has(core.ActionRight), in.Has(core.ActionDown):
		p.SetDirection(Right)
	}
}

// apply folds one player result into the game.
func (g *Game) apply(p *Player, res Result) {
	switch res.Kind {
	case NoStatus, WallNoStatus:
		return

	case BallMissed:
		if p.LoseLife() {
			p.SetState(Wall)
			p.Paddle().SetWidth(p.Paddle().Length())
		}
		p.SetPower(PowerNone)
		g.serve()
		g.record(EventMiss, p, -1, PowerNone)

	case BallDeflected, WallBallDeflected:
		vx, vy, _ := res.Velocity()
		g.ball.SetVelocity(vx, vy)
		g.clampVelocity()
		g.ball.SetLastToTouch(p.Name())
		if res.Kind == BallDeflected {
			g.record(EventDeflect, p, -1, PowerNone)
		}

	case BlockBroken:
		vx, vy, _ := res.Velocity()
		g.ball.SetVelocity(vx, vy)
		idx := res.BlockIndex()
		power := PowerNone
		if g.level.Disable(idx) {
			p.AddScore(g.level.Blocks[idx].Points)
			power = g.powerups.Roll(g.rng)
			g.grant(p, power)
		}
		g.record(EventBreak, p, idx, power)

	default:
		panic(fmt.Sprintf("multegula: invalid result kind %d", int(res.Kind)))
	}
}

// grant applies a power-up to the player that earned it.
func (g *Game) grant(p *Player, power PowerUp) {
	if power == PowerNone {
		return
	}
	p.SetPower(power)

	switch power {
	case PowerBigBall:
		g.powerups.RemoveEffect(EffectSmallBall)
		g.powerups.AddEffect(EffectBigBall, p.Orientation(), g.tickCount)
		g.ball.SetRadius(g.baseRadius)
		g.ball.IncreaseRadius()
	case PowerSmallBall:
		g.powerups.RemoveEffect(EffectBigBall)
		g.powerups.AddEffect(EffectSmallBall, p.Orientation(), g.tickCount)
		g.ball.SetRadius(g.baseRadius * radiusShrink)
	case PowerFastBall:
		g.ball.IncreaseVelocity()
		g.clampVelocity()
	case PowerSlowBall:
		g.ball.DecreaseVelocity()
	case PowerExtraLife:
		p.SetLives(p.Lives() + 1)
	}
}

func (g *Game) onEffectExpired(e *Effect) {
	g.ball.SetRadius(g.baseRadius)
	if p := g.players[e.Owner]; p != nil {
		switch {
		case e.Type == EffectBigBall && p.Power() == PowerBigBall,
			e.Type == EffectSmallBall && p.Power() == PowerSmallBall:
			p.SetPower(PowerNone)
		}
	}
}

// nextLevel loads the next map, wrapping to the first one after the last.
func (g *Game) nextLevel() {
	next := g.levelIndex + 1
	if next >= len(g.maps) {
		g.round++
	}
	g.loadLevel(next)
	g.serve()
}

// checkGameOver ends the game once the local user is out, or when a match
// that started with rivals is down to one.
func (g *Game) checkGameOver() {
	alive, users := 0, 0
	for _, p := range g.players {
		switch p.State() {
		case Wall:
			continue
		case User:
			users++
		}
		alive++
	}

	var over bool
	switch {
	case alive == 0:
		over = true
	case g.competitors >= 2 && alive <= 1:
		over = true
	case g.mode == ModeOnline:
		over = g.hasLocal && users == 0
	default:
		over = g.hasLocal && g.players[g.local].State() == Wall
	}
	if !over {
		return
	}

	g.state = StateGameOver
	g.winner = g.leader(true)
}

// leader returns the seat with the highest score, preferring players still
// in the game when aliveOnly is set.
func (g *Game) leader(aliveOnly bool) core.PlayerID {
	best := core.PlayerNone
	bestScore := math.MinInt
	for _, o := range Orientations {
		p := g.players[o]
		if g.lineup[o].State == Wall {
			continue
		}
		if aliveOnly && p.State() == Wall {
			continue
		}
		if p.Score() > bestScore {
			best, bestScore = o.Seat(), p.Score()
		}
	}
	if best == core.PlayerNone && aliveOnly {
		return g.leader(false)
	}
	return best
}

// difficultyScore is the score that drives difficulty progression.
func (g *Game) difficultyScore() int {
	if g.hasLocal {
		if p := g.players[g.local]; p != nil {
			return p.Score()
		}
	}
	best := 0
	for _, p := range g.players {
		if p != nil {
			best = max(best, p.Score())
		}
	}
	return best
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.difficultyScore(),
		GameOver: g.state == StateGameOver,
		Paused:   g.state == StatePaused,
	}
}

// IsGameOver returns true once the match has a result.
func (g *Game) IsGameOver() bool {
	return g.state == StateGameOver
}

// Winner returns the winning seat, or PlayerNone while the game runs.
func (g *Game) Winner() core.PlayerID {
	return g.winner
}

// Score returns the score of a seat.
func (g *Game) Score(id core.PlayerID) int {
	if !id.Valid() {
		return 0
	}
	return g.players[OrientationForSeat(id)].Score()
}

// SeatName returns the player name of a seat.
func (g *Game) SeatName(id core.PlayerID) string {
	if !id.Valid() {
		return ""
	}
	return g.players[OrientationForSeat(id)].Name()
}

// ReleaseSeat hands a user seat whose session left to the AI.
func (g *Game) ReleaseSeat(id core.PlayerID) {
	if !id.Valid() {
		return
	}
	p := g.players[OrientationForSeat(id)]
	if p.State() == User {
		p.SetState(AI)
	}
}

// SetLocalSeat selects whose paddle the HUD highlights. Used by clients that
// render snapshots of an online game.
func (g *Game) SetLocalSeat(o Orientation) {
	g.local, g.hasLocal = o, true
}

// Player returns the player guarding an edge.
func (g *Game) Player(o Orientation) *Player {
	return g.players[o]
}

// Ball returns the arena ball.
func (g *Game) Ball() *Ball {
	return g.ball
}

// Level returns the current level.
func (g *Game) Level() *Level {
	return g.level
}

// Tick returns the number of simulated ticks.
func (g *Game) Tick() int {
	return g.tickCount
}

// Register the local modes with the registry
func init() {
	for _, mode := range []string{ModeClassic, ModePractice, ModeDuel, ModeDemo} {
		registry.Register(mode, func() registry.Game {
			return New(mode)
		})
	}
}
