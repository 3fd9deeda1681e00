package logic

import (
	"math"
	"strconv"
	"time"

	"github.com/matzehuels/areamap/pkg/area"
	"github.com/matzehuels/areamap/pkg/terrain"
)

// Reference values used when a logic file leaves a field unset.
const (
	DefaultTurns                 = 8
	DefaultOverlayAnimationMaxMs = 2000
	DefaultBaseGrowthRadius      = 50.0
	DefaultGrowthMultiplier      = 1.5
	DefaultClonePowerThreshold   = 2.0

	DefaultCanvasWidth  = 800
	DefaultCanvasHeight = 533

	DefaultJitter         = 1.0
	MaxJitter             = 4.0
	DefaultNoiseCell      = 12
	DefaultCorridorWidth  = 10.0
	DefaultCorridorChance = 0.5
	DefaultHighlightBoost = 2.0
	DefaultPowerEpsilon   = 1e-9
)

// DefaultBarrierThresholds are applied when a logic file sets none.
var DefaultBarrierThresholds = terrain.Thresholds{River: 1.0, Mountain: 1.5, Ocean: 2.5}

// Logic is the parsed game logic file.
type Logic struct {
	Areas                 []area.Area            `json:"areas" toml:"areas"`
	OpacityByRank         map[string]float64     `json:"opacityByRank" toml:"opacityByRank"`
	BarrierThresholds     terrain.Thresholds     `json:"barrierThresholds" toml:"barrierThresholds"`
	Turns                 int                    `json:"turns" toml:"turns"`
	OverlayAnimationMaxMs int                    `json:"overlayAnimationMaxMs" toml:"overlayAnimationMaxMs"`
	BaseGrowthRadius      *float64               `json:"baseGrowthRadius,omitempty" toml:"baseGrowthRadius,omitempty"`
	GrowthMultiplier      float64                `json:"growthMultiplier" toml:"growthMultiplier"`
	ClonePowerThreshold   float64                `json:"clonePowerThreshold" toml:"clonePowerThreshold"`
	PopulationMultipliers *PopulationMultipliers `json:"populationMultipliers,omitempty" toml:"populationMultipliers,omitempty"`
	Engine                Engine                 `json:"engine,omitempty" toml:"engine,omitempty"`
}

// PopulationMultipliers scale the population of the last two rounds in the
// history snapshots. They do not affect growth.
type PopulationMultipliers struct {
	Round7 float64 `json:"round7" toml:"round7"`
	Round8 float64 `json:"round8" toml:"round8"`
}

// Engine holds renderer tunables. Zero values mean "use the default",
// except for the pointer fields, where zero is a real setting and nil means
// unset. A negative PowerEpsilon selects exact power comparison.
type Engine struct {
	CanvasWidth       int      `json:"canvasWidth,omitempty" toml:"canvasWidth,omitempty"`
	CanvasHeight      int      `json:"canvasHeight,omitempty" toml:"canvasHeight,omitempty"`
	Jitter            *float64 `json:"jitter,omitempty" toml:"jitter,omitempty"`
	NoiseCell         int      `json:"noiseCell,omitempty" toml:"noiseCell,omitempty"`
	CorridorWidth     float64  `json:"corridorWidth,omitempty" toml:"corridorWidth,omitempty"`
	CorridorChance    *float64 `json:"corridorChance,omitempty" toml:"corridorChance,omitempty"`
	ProbeDistance     float64  `json:"probeDistance,omitempty" toml:"probeDistance,omitempty"`
	RiverWidth        float64  `json:"riverWidth,omitempty" toml:"riverWidth,omitempty"`
	MountainWidth     float64  `json:"mountainWidth,omitempty" toml:"mountainWidth,omitempty"`
	MajorLandmassSize int      `json:"majorLandmassSize,omitempty" toml:"majorLandmassSize,omitempty"`
	HighlightBoost    *float64 `json:"highlightBoost,omitempty" toml:"highlightBoost,omitempty"`
	PowerEpsilon      *float64 `json:"powerEpsilon,omitempty" toml:"powerEpsilon,omitempty"`
}

// SetDefaults fills unset fields with the reference values. Barrier
// thresholds are defaulted only when all three are zero; an explicit
// baseGrowthRadius of 0 is kept.
func (l *Logic) SetDefaults() {
	if l.Turns == 0 {
		l.Turns = DefaultTurns
	}
	if l.OverlayAnimationMaxMs == 0 {
		l.OverlayAnimationMaxMs = DefaultOverlayAnimationMaxMs
	}
	if l.BaseGrowthRadius == nil {
		l.BaseGrowthRadius = ptr(DefaultBaseGrowthRadius)
	}
	if l.GrowthMultiplier == 0 {
		l.GrowthMultiplier = DefaultGrowthMultiplier
	}
	if l.ClonePowerThreshold == 0 {
		l.ClonePowerThreshold = DefaultClonePowerThreshold
	}
	if l.BarrierThresholds == (terrain.Thresholds{}) {
		l.BarrierThresholds = DefaultBarrierThresholds
	}
	l.Engine.SetDefaults()
}

// SetDefaults fills unset engine tunables.
func (e *Engine) SetDefaults() {
	if e.CanvasWidth == 0 {
		e.CanvasWidth = DefaultCanvasWidth
	}
	if e.CanvasHeight == 0 {
		e.CanvasHeight = DefaultCanvasHeight
	}
	if e.Jitter == nil {
		e.Jitter = ptr(DefaultJitter)
	}
	if e.NoiseCell == 0 {
		e.NoiseCell = DefaultNoiseCell
	}
	if e.CorridorWidth == 0 {
		e.CorridorWidth = DefaultCorridorWidth
	}
	if e.CorridorChance == nil {
		e.CorridorChance = ptr(DefaultCorridorChance)
	}
	if e.ProbeDistance == 0 {
		e.ProbeDistance = terrain.DefaultProbeDistance
	}
	if e.RiverWidth == 0 {
		e.RiverWidth = terrain.DefaultRiverWidth
	}
	if e.MountainWidth == 0 {
		e.MountainWidth = terrain.DefaultMountainWidth
	}
	if e.MajorLandmassSize == 0 {
		e.MajorLandmassSize = terrain.DefaultMajorSize
	}
	if e.HighlightBoost == nil {
		e.HighlightBoost = ptr(DefaultHighlightBoost)
	}
	if e.PowerEpsilon == nil {
		e.PowerEpsilon = ptr(DefaultPowerEpsilon)
	}
}

// JitterAmplitude returns the configured jitter, or the default when unset.
func (e Engine) JitterAmplitude() float64 {
	if e.Jitter == nil {
		return DefaultJitter
	}
	return *e.Jitter
}

// CorridorProbability returns the configured corridor admission chance, or
// the default when unset.
func (e Engine) CorridorProbability() float64 {
	if e.CorridorChance == nil {
		return DefaultCorridorChance
	}
	return *e.CorridorChance
}

// Boost returns the highlight opacity boost, or the default when unset.
func (e Engine) Boost() float64 {
	if e.HighlightBoost == nil {
		return DefaultHighlightBoost
	}
	return *e.HighlightBoost
}

// Epsilon returns the power tie tolerance, or the default when unset.
func (e Engine) Epsilon() float64 {
	if e.PowerEpsilon == nil {
		return DefaultPowerEpsilon
	}
	return *e.PowerEpsilon
}

// Classifier returns the barrier classifier for the configured widths.
func (e Engine) Classifier() terrain.Classifier {
	c := terrain.DefaultClassifier()
	if e.RiverWidth > 0 {
		c.RiverWidth = e.RiverWidth
	}
	if e.MountainWidth > 0 {
		c.MountainWidth = e.MountainWidth
	}
	return c
}

// Opacities converts OpacityByRank to a rank-keyed table. Keys that are not
// positive integers are ignored; Validate reports them.
func (l *Logic) Opacities() map[int]float64 {
	out := make(map[int]float64, len(l.OpacityByRank))
	for k, v := range l.OpacityByRank {
		rank, err := strconv.Atoi(k)
		if err != nil || rank < 1 {
			continue
		}
		out[rank] = v
	}
	return out
}

// GrowthRadius returns the base growth radius, or the default when unset.
func (l *Logic) GrowthRadius() float64 {
	if l.BaseGrowthRadius == nil {
		return DefaultBaseGrowthRadius
	}
	return *l.BaseGrowthRadius
}

// PopulationMultiplier returns the history multiplier for a round.
func (l *Logic) PopulationMultiplier(round int) float64 {
	return l.PopulationMultipliers.For(round)
}

// For returns the configured round7/round8 value, and 1 for other rounds or
// a nil receiver.
func (p *PopulationMultipliers) For(round int) float64 {
	if p == nil {
		return 1
	}
	switch round {
	case 7:
		return p.Round7
	case 8:
		return p.Round8
	default:
		return 1
	}
}

// AnimationDuration returns the overlay reveal duration.
func (l *Logic) AnimationDuration() time.Duration {
	return time.Duration(l.OverlayAnimationMaxMs) * time.Millisecond
}

// Progress converts time elapsed since the start of a turn into an animation
// progress fraction in [0, 1].
func (l *Logic) Progress(elapsed time.Duration) float64 {
	total := l.AnimationDuration()
	if total <= 0 {
		return 1
	}
	return math.Max(0, math.Min(1, float64(elapsed)/float64(total)))
}

func ptr[T any](v T) *T { return &v }
