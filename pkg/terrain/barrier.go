package terrain

import (
	"math"
)

// Barrier classifies a water gap by its width.
type Barrier int

const (
	BarrierNone Barrier = iota
	BarrierRiver
	BarrierMountain
	BarrierOcean
)

// String returns the lowercase barrier name.
func (b Barrier) String() string {
	switch b {
	case BarrierRiver:
		return "river"
	case BarrierMountain:
		return "mountain"
	case BarrierOcean:
		return "ocean"
	default:
		return "none"
	}
}

// Reference gap widths, in pixels on the 800x533 reference canvas.
const (
	DefaultRiverWidth    = 5.0
	DefaultMountainWidth = 15.0

	// DefaultProbeDistance caps a barrier measurement; reaching it means
	// the gap is treated as open ocean.
	DefaultProbeDistance = 50.0
)

// Classifier maps a measured gap width to a Barrier.
type Classifier struct {
	RiverWidth    float64 // gaps narrower than this are rivers
	MountainWidth float64 // gaps narrower than this (and not rivers) are mountains
}

// DefaultClassifier returns the reference widths.
func DefaultClassifier() Classifier {
	return Classifier{RiverWidth: DefaultRiverWidth, MountainWidth: DefaultMountainWidth}
}

// Classify returns River below RiverWidth, Mountain below MountainWidth and
// Ocean otherwise.
func (c Classifier) Classify(width float64) Barrier {
	if width < c.RiverWidth {
		return BarrierRiver
	}
	if width < c.MountainWidth {
		return BarrierMountain
	}
	return BarrierOcean
}

// Thresholds holds the minimum acc stat needed to cross each barrier kind.
type Thresholds struct {
	River    float64 `json:"river" toml:"river"`
	Mountain float64 `json:"mountain" toml:"mountain"`
	Ocean    float64 `json:"ocean" toml:"ocean"`
}

// CanCross reports whether a region with the given acc may cross b.
func (t Thresholds) CanCross(acc float64, b Barrier) bool {
	switch b {
	case BarrierNone:
		return true
	case BarrierRiver:
		return acc >= t.River
	case BarrierMountain:
		return acc >= t.Mountain
	case BarrierOcean:
		return acc >= t.Ocean
	default:
		return false
	}
}

// MeasureBarrier marches from (x, y) along (dx, dy) and returns the distance
// travelled when land is found again. Leaving the canvas or travelling
// maxDistance without finding land returns maxDistance.
func (m *Mask) MeasureBarrier(x, y, dx, dy int, maxDistance float64) float64 {
	if _, _, d, ok := m.Landing(x, y, dx, dy, maxDistance); ok {
		return d
	}
	return maxDistance
}

// Landing returns the first land pixel along (dx, dy) from (x, y) within
// maxDistance, together with the distance travelled.
func (m *Mask) Landing(x, y, dx, dy int, maxDistance float64) (lx, ly int, distance float64, ok bool) {
	step := math.Hypot(float64(dx), float64(dy))
	if step == 0 {
		return 0, 0, 0, false
	}
	cx, cy := x, y
	for distance < maxDistance {
		cx += dx
		cy += dy
		distance += step
		if !m.InBounds(cx, cy) {
			return 0, 0, 0, false
		}
		if m.land[cy*m.width+cx] {
			return cx, cy, distance, true
		}
	}
	return 0, 0, 0, false
}
