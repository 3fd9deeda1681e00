package render

import (
	"runtime"

	"github.com/matzehuels/areamap/pkg/arbiter"
	"github.com/matzehuels/areamap/pkg/growth"
	"github.com/matzehuels/areamap/pkg/logic"
)

// Config parameterizes a Renderer.
type Config struct {
	Growth         growth.Config
	Opacity        map[int]float64 // rank to opacity
	HighlightBoost float64
	Epsilon        float64 // power tie tolerance
	Workers        int     // pixel-loop row bands; 0 selects GOMAXPROCS
}

// DefaultConfig returns the reference configuration with an empty opacity
// table.
func DefaultConfig() Config {
	return Config{
		Growth:         growth.DefaultConfig(),
		HighlightBoost: arbiter.DefaultHighlightBoost,
		Epsilon:        arbiter.DefaultEpsilon,
	}
}

// ConfigFromLogic builds a renderer configuration from a defaulted logic
// file.
func ConfigFromLogic(l *logic.Logic) Config {
	return Config{
		Growth:         growth.ConfigFromLogic(l),
		Opacity:        l.Opacities(),
		HighlightBoost: l.Engine.Boost(),
		Epsilon:        l.Engine.Epsilon(),
	}
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}
