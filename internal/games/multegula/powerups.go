package multegula

import "github.com/vovakirdan/multegula/internal/config"

// EffectType is a timed effect on the ball.
type EffectType int

const (
	EffectBigBall   EffectType = iota // Radius grown
	EffectSmallBall                   // Radius shrunk
)

// String returns the short name for effect display.
func (e EffectType) String() string {
	switch e {
	case EffectBigBall:
		return "Big"
	case EffectSmallBall:
		return "Small"
	default:
		return "?"
	}
}

// Effect is an active timed effect granted to one player.
type Effect struct {
	Type      EffectType
	Owner     Orientation
	UntilTick int
}

// TicksRemaining returns how many ticks until the effect expires.
func (e *Effect) TicksRemaining(currentTick int) int {
	return max(e.UntilTick-currentTick, 0)
}

// PowerUpManager rolls power-ups for broken blocks and tracks timed effects.
type PowerUpManager struct {
	Config  config.MultegulaPowerUps
	Effects []*Effect
}

// NewPowerUpManager creates a manager with no active effects.
func NewPowerUpManager(cfg config.MultegulaPowerUps) *PowerUpManager {
	return &PowerUpManager{
		Config:  cfg,
		Effects: make([]*Effect, 0),
	}
}

// Roll decides whether a broken block grants a power-up and which one.
// Returns PowerNone when the spawn roll fails.
func (pm *PowerUpManager) Roll(rng Rand) PowerUp {
	if rng.Intn(100) >= pm.Config.SpawnChance {
		return PowerNone
	}

	weights := []struct {
		Power  PowerUp
		Weight int
	}{
		{PowerBigBall, pm.Config.WeightBigBall},
		{PowerSmallBall, pm.Config.WeightSmallBall},
		{PowerFastBall, pm.Config.WeightFastBall},
		{PowerSlowBall, pm.Config.WeightSlowBall},
		{PowerExtraLife, pm.Config.WeightExtraLife},
	}

	total := 0
	for _, w := range weights {
		total += max(w.Weight, 0)
	}
	if total <= 0 {
		return PowerNone
	}

	roll := rng.Intn(total)
	cumulative := 0
	for _, w := range weights {
		cumulative += max(w.Weight, 0)
		if roll < cumulative {
			return w.Power
		}
	}
	return PowerNone
}

// AddEffect adds an effect or extends it if already active.
func (pm *PowerUpManager) AddEffect(t EffectType, owner Orientation, currentTick int) {
	until := currentTick + pm.Config.RadiusDuration
	for _, e := range pm.Effects {
		if e.Type == t {
			e.UntilTick = until
			e.Owner = owner
			return
		}
	}
	pm.Effects = append(pm.Effects, &Effect{Type: t, Owner: owner, UntilTick: until})
}

// RemoveEffect removes an effect by type.
func (pm *PowerUpManager) RemoveEffect(t EffectType) {
	for i, e := range pm.Effects {
		if e.Type == t {
			pm.Effects = append(pm.Effects[:i], pm.Effects[i+1:]...)
			return
		}
	}
}

// ExpireEffects removes and returns the effects that have run out.
func (pm *PowerUpManager) ExpireEffects(currentTick int) []*Effect {
	var expired []*Effect
	active := pm.Effects[:0]
	for _, e := range pm.Effects {
		if e.UntilTick <= currentTick {
			expired = append(expired, e)
		} else {
			active = append(active, e)
		}
	}
	pm.Effects = active
	return expired
}

// HasEffect returns true if the given effect is active.
func (pm *PowerUpManager) HasEffect(t EffectType) bool {
	for _, e := range pm.Effects {
		if e.Type == t {
			return true
		}
	}
	return false
}

// Clear drops every active effect.
func (pm *PowerUpManager) Clear() {
	pm.Effects = pm.Effects[:0]
}
