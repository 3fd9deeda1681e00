// Package arbiter ranks areas by power and decides which area owns a pixel
// that several overlays claim.
//
// Ownership goes to the claimant with the highest power. Claimants tied at
// the maximum (within Epsilon) are separated by a pseudo-random pick whose
// seed is derived from the pixel position and the turn seed, so a pixel
// keeps its owner across every frame of a turn.
package arbiter

import (
	"math"
	"sort"

	"github.com/matzehuels/areamap/pkg/area"
	"github.com/matzehuels/areamap/pkg/rng"
)

const (
	// MissingOpacity applies to ranks absent from the opacity table.
	MissingOpacity = 0.5

	// DefaultHighlightBoost is added to a highlighted area's opacity.
	DefaultHighlightBoost = 2.0

	// DefaultEpsilon is the power difference below which claimants tie.
	DefaultEpsilon = 1e-9
)

// Standing is an area's rank among all areas in a render pass.
type Standing struct {
	ID      string  `json:"id"`
	Rank    int     `json:"rank"` // 1-based, by power descending
	Power   float64 `json:"power"`
	Opacity float64 `json:"opacity"`
}

// Standings sorts areas by power, highest first, and maps each rank to an
// opacity from table. Equal powers keep their input order. Ranks missing
// from the table get MissingOpacity.
func Standings(areas []area.Area, table map[int]float64) []Standing {
	order := make([]int, len(areas))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return areas[order[i]].Power > areas[order[j]].Power
	})

	out := make([]Standing, len(order))
	for rank, i := range order {
		op, ok := table[rank+1]
		if !ok {
			op = MissingOpacity
		}
		out[rank] = Standing{ID: areas[i].ID, Rank: rank + 1, Power: areas[i].Power, Opacity: op}
	}
	return out
}

// Rank returns Standings keyed by area id.
func Rank(areas []area.Area, table map[int]float64) map[string]Standing {
	list := Standings(areas, table)
	out := make(map[string]Standing, len(list))
	for _, s := range list {
		out[s.ID] = s
	}
	return out
}

// Highlight returns opacity raised by boost, capped at 1.
func Highlight(opacity, boost float64) float64 {
	return math.Min(1, opacity+boost)
}

// Claimant is one area claiming a pixel. Index identifies the area to the
// caller; Resolve returns it unchanged.
type Claimant struct {
	Index int
	Power float64
}

// Arbiter resolves contested pixels. It owns a random source and scratch
// space, so each goroutine needs its own Arbiter.
type Arbiter struct {
	turnSeed int64
	epsilon  float64
	src      *rng.Source
	tied     []int
}

// New returns an arbiter for one turn. A negative epsilon selects exact
// comparison.
func New(turnSeed int64, epsilon float64) *Arbiter {
	return &Arbiter{
		turnSeed: turnSeed,
		epsilon:  math.Max(0, epsilon),
		src:      rng.New(turnSeed),
	}
}

// TieSeed is the random seed used to break a tie at (x, y).
func (a *Arbiter) TieSeed(x, y int) int64 {
	return int64(x)*1000 + int64(y) + a.turnSeed
}

// Resolve returns the Index of the winning claimant. With no claimants it
// reports false.
func (a *Arbiter) Resolve(x, y int, claimants []Claimant) (int, bool) {
	switch len(claimants) {
	case 0:
		return -1, false
	case 1:
		return claimants[0].Index, true
	}

	best := claimants[0].Power
	for _, c := range claimants[1:] {
		if c.Power > best {
			best = c.Power
		}
	}
	a.tied = a.tied[:0]
	for i, c := range claimants {
		if best-c.Power <= a.epsilon {
			a.tied = append(a.tied, i)
		}
	}
	if len(a.tied) == 1 {
		return claimants[a.tied[0]].Index, true
	}
	a.src.SetSeed(a.TieSeed(x, y))
	return claimants[a.tied[a.src.IntRange(0, len(a.tied))]].Index, true
}
