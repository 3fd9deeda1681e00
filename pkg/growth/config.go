package growth

import (
	"github.com/matzehuels/areamap/pkg/logic"
	"github.com/matzehuels/areamap/pkg/terrain"
)

// DefaultNoiseSeed keys the growth noise when Config.NoiseSeed is zero.
const DefaultNoiseSeed = 0x5eed_a5ea

// coherentShare is the fraction by which coherent noise stretches or shrinks
// path distances at full jitter.
const coherentShare = 0.12

// Config parameterizes an Engine.
type Config struct {
	BaseRadius          float64
	Multiplier          float64
	ClonePowerThreshold float64
	Thresholds          terrain.Thresholds
	Classifier          terrain.Classifier

	Jitter         float64 // 0 disables boundary noise
	NoiseCell      int     // coherent noise lattice spacing in pixels
	NoiseSeed      uint64
	CorridorWidth  float64 // gaps narrower than this may admit water pixels
	CorridorChance float64 // admission probability for a corridor pixel
	ProbeDistance  float64 // barrier measurements stop here
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		BaseRadius:          logic.DefaultBaseGrowthRadius,
		Multiplier:          logic.DefaultGrowthMultiplier,
		ClonePowerThreshold: logic.DefaultClonePowerThreshold,
		Thresholds:          logic.DefaultBarrierThresholds,
		Classifier:          terrain.DefaultClassifier(),
		Jitter:              logic.DefaultJitter,
		NoiseCell:           logic.DefaultNoiseCell,
		NoiseSeed:           DefaultNoiseSeed,
		CorridorWidth:       logic.DefaultCorridorWidth,
		CorridorChance:      logic.DefaultCorridorChance,
		ProbeDistance:       terrain.DefaultProbeDistance,
	}
}

// ConfigFromLogic maps a defaulted logic file onto an engine configuration.
func ConfigFromLogic(l *logic.Logic) Config {
	e := l.Engine
	cfg := Config{
		BaseRadius:          l.GrowthRadius(),
		Multiplier:          l.GrowthMultiplier,
		ClonePowerThreshold: l.ClonePowerThreshold,
		Thresholds:          l.BarrierThresholds,
		Classifier:          e.Classifier(),
		Jitter:              e.JitterAmplitude(),
		NoiseCell:           e.NoiseCell,
		NoiseSeed:           DefaultNoiseSeed,
		CorridorWidth:       e.CorridorWidth,
		CorridorChance:      e.CorridorProbability(),
		ProbeDistance:       e.ProbeDistance,
	}
	if cfg.NoiseCell == 0 {
		cfg.NoiseCell = logic.DefaultNoiseCell
	}
	if cfg.CorridorWidth == 0 {
		cfg.CorridorWidth = logic.DefaultCorridorWidth
	}
	if cfg.ProbeDistance == 0 {
		cfg.ProbeDistance = terrain.DefaultProbeDistance
	}
	return cfg
}
