// Package config provides YAML/TOML-based game configuration loading and
// difficulty management.
package config

// MultegulaConfig contains all tunables of the Multegula arena.
type MultegulaConfig struct {
	Physics    MultegulaPhysics  `yaml:"physics" toml:"physics"`
	Paddles    MultegulaPaddles  `yaml:"paddles" toml:"paddles"`
	Gameplay   MultegulaGameplay `yaml:"gameplay" toml:"gameplay"`
	PowerUps   MultegulaPowerUps `yaml:"powerups" toml:"powerups"`
	Levels     []LevelMap        `yaml:"levels" toml:"levels"`
	Difficulty DifficultyConfig  `yaml:"difficulty" toml:"difficulty"`
}

// MultegulaPhysics defines ball and paddle motion, in cells per tick.
type MultegulaPhysics struct {
	BallSpeed    float64 `yaml:"ball_speed" toml:"ball_speed"`         // Serve and deflection speed
	MaxBallSpeed float64 `yaml:"max_ball_speed" toml:"max_ball_speed"` // Cap for speed power-ups
	PaddleSpeed  float64 `yaml:"paddle_speed" toml:"paddle_speed"`
	BallRadius   float64 `yaml:"ball_radius" toml:"ball_radius"` // 0 = arena width / 50
}

// MultegulaPaddles defines paddle geometry.
type MultegulaPaddles struct {
	WidthFraction float64 `yaml:"width_fraction" toml:"width_fraction"` // Paddle length as a fraction of its edge
	Thickness     float64 `yaml:"thickness" toml:"thickness"`
	Inset         float64 `yaml:"inset" toml:"inset"` // Gap between the arena edge and the paddle
}

// MultegulaGameplay defines scoring and match rules.
type MultegulaGameplay struct {
	Lives       int `yaml:"lives" toml:"lives"`
	BlockPoints int `yaml:"block_points" toml:"block_points"` // Points for a plain '#' block
	StartLevel  int `yaml:"start_level" toml:"start_level"`   // 1-based
	BlockWidth  int `yaml:"block_width" toml:"block_width"`   // Cells per level-map column
}

// MultegulaPowerUps defines power-up rolls and effect durations.
type MultegulaPowerUps struct {
	SpawnChance     int `yaml:"spawn_chance" toml:"spawn_chance"` // Percent per broken block
	WeightBigBall   int `yaml:"weight_big_ball" toml:"weight_big_ball"`
	WeightSmallBall int `yaml:"weight_small_ball" toml:"weight_small_ball"`
	WeightFastBall  int `yaml:"weight_fast_ball" toml:"weight_fast_ball"`
	WeightSlowBall  int `yaml:"weight_slow_ball" toml:"weight_slow_ball"`
	WeightExtraLife int `yaml:"weight_extra_life" toml:"weight_extra_life"`
	RadiusDuration  int `yaml:"radius_duration" toml:"radius_duration"` // Ticks a radius change lasts
}

// LevelMap is an ASCII block layout.
type LevelMap struct {
	ID   string   `yaml:"id" toml:"id"`
	Name string   `yaml:"name" toml:"name"`
	Rows []string `yaml:"rows" toml:"rows"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled" toml:"enabled"`
	InitialLevel float64           `yaml:"initial_level" toml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression" toml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling" toml:"scaling"`
}

// ProgressionConfig defines how difficulty increases.
type ProgressionConfig struct {
	Type  string `yaml:"type" toml:"type"`     // "score", "time", or "none"
	MaxAt int    `yaml:"max_at" toml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier" toml:"speed_multiplier"` // Added to ball speed at max difficulty
	PaddleShrink    float64 `yaml:"paddle_shrink" toml:"paddle_shrink"`       // Fraction of paddle length removed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. The empty string means "no preset".
func ParsePreset(name string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(name); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	default:
		return "", false
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}
