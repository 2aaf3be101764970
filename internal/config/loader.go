package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const multegulaFile = "multegula.yaml"

// LoadMultegula loads the arena configuration.
// Search order: customPath -> ~/.multegula/configs/multegula.yaml ->
// ./configs/multegula.yaml -> embedded default.
// Values missing from a file keep their defaults. A customPath ending in
// .toml is decoded as TOML.
func LoadMultegula(customPath string) (MultegulaConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return MultegulaConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := decodeMultegula(customPath, data)
		if err != nil {
			return MultegulaConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return MultegulaConfig{}, fmt.Errorf("invalid config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	for _, path := range []string{userConfigPath(multegulaFile), filepath.Join("configs", multegulaFile)} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := decodeMultegula(path, data); err == nil && cfg.Validate() == nil {
			return cfg, nil
		}
	}

	cfg, err := decodeMultegula(multegulaFile, defaultMultegulaYAML)
	if err != nil {
		return DefaultMultegulaConfig(), nil
	}
	return cfg, nil
}

// decodeMultegula parses data on top of the hardcoded defaults.
func decodeMultegula(path string, data []byte) (MultegulaConfig, error) {
	cfg := DefaultMultegulaConfig()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations the arena cannot be built from.
func (c MultegulaConfig) Validate() error {
	var errs []error
	if c.Physics.BallSpeed <= 0 {
		errs = append(errs, errors.New("physics.ball_speed must be positive"))
	}
	if c.Physics.MaxBallSpeed < c.Physics.BallSpeed {
		errs = append(errs, errors.New("physics.max_ball_speed must be at least ball_speed"))
	}
	if c.Physics.PaddleSpeed <= 0 {
		errs = append(errs, errors.New("physics.paddle_speed must be positive"))
	}
	if c.Physics.BallRadius < 0 {
		errs = append(errs, errors.New("physics.ball_radius must not be negative"))
	}
	if c.Paddles.WidthFraction <= 0 || c.Paddles.WidthFraction > 1 {
		errs = append(errs, errors.New("paddles.width_fraction must be in (0, 1]"))
	}
	if c.Paddles.Thickness <= 0 {
		errs = append(errs, errors.New("paddles.thickness must be positive"))
	}
	if c.Gameplay.Lives <= 0 {
		errs = append(errs, errors.New("gameplay.lives must be positive"))
	}
	if c.Gameplay.BlockWidth <= 0 {
		errs = append(errs, errors.New("gameplay.block_width must be positive"))
	}
	if c.PowerUps.SpawnChance < 0 || c.PowerUps.SpawnChance > 100 {
		errs = append(errs, errors.New("powerups.spawn_chance must be a percentage"))
	}
	for i, lvl := range c.Levels {
		if len(lvl.Rows) == 0 {
			errs = append(errs, fmt.Errorf("levels[%d] has no rows", i))
		}
	}
	return errors.Join(errs...)
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".multegula", "configs", filename)
}

// ApplyMultegulaPreset modifies the config based on a difficulty preset.
func ApplyMultegulaPreset(cfg *MultegulaConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	switch preset {
	case DifficultyEasy:
		cfg.Gameplay.Lives = 7
		cfg.Paddles.WidthFraction = 0.3
		cfg.Physics.BallSpeed = 0.4
	case DifficultyHard:
		cfg.Gameplay.Lives = 3
		cfg.Paddles.WidthFraction = 0.16
		cfg.Physics.BallSpeed = 0.6
	}
	cfg.Physics.MaxBallSpeed = max(cfg.Physics.MaxBallSpeed, cfg.Physics.BallSpeed)
}
