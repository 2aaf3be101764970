package config

import (
	_ "embed"
)

//go:embed defaults/multegula.yaml
var defaultMultegulaYAML []byte

// DefaultMultegulaConfig returns the hardcoded Multegula configuration.
// It matches defaults/multegula.yaml and backs it up if the embed fails to parse.
func DefaultMultegulaConfig() MultegulaConfig {
	return MultegulaConfig{
		Physics: MultegulaPhysics{
			BallSpeed:    0.5,
			MaxBallSpeed: 0.9,
			PaddleSpeed:  1.0,
			BallRadius:   0.5,
		},
		Paddles: MultegulaPaddles{
			WidthFraction: 0.22,
			Thickness:     1,
			Inset:         1,
		},
		Gameplay: MultegulaGameplay{
			Lives:       5,
			BlockPoints: 10,
			StartLevel:  1,
			BlockWidth:  3,
		},
		PowerUps: MultegulaPowerUps{
			SpawnChance:     15,
			WeightBigBall:   25,
			WeightSmallBall: 20,
			WeightFastBall:  20,
			WeightSlowBall:  25,
			WeightExtraLife: 10,
			RadiusDuration:  300, // 10 seconds at 30 FPS
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 600,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 0.6,
				PaddleShrink:    0.3,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "multegula":
		return defaultMultegulaYAML
	default:
		return nil
	}
}
