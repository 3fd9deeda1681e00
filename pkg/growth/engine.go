package growth

import (
	"math"
	"sync"

	"github.com/matzehuels/areamap/pkg/area"
	"github.com/matzehuels/areamap/pkg/rng"
	"github.com/matzehuels/areamap/pkg/terrain"
)

var neighbours = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Engine grows area overlays over one land mask. It is immutable after
// construction and safe for concurrent use.
type Engine struct {
	index *terrain.Index
	mask  *terrain.Mask
	cfg   Config

	dirSalt [8]uint64
	scratch sync.Pool
}

// New returns an engine over idx.
func New(idx *terrain.Index, cfg Config) *Engine {
	e := &Engine{index: idx, mask: idx.Mask(), cfg: cfg}
	e.scratch.New = func() any { return new(scratch) }
	for i, d := range neighbours {
		e.dirSalt[i] = rng.Hash(cfg.NoiseSeed, d[0], d[1], 0xc0dd)
	}
	return e
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Index returns the landmass index the engine grows over.
func (e *Engine) Index() *terrain.Index { return e.index }

// Radius returns the growth budget for acc at the given animation progress.
// Progress is clamped to [0, 1] and the result is never negative.
func (e *Engine) Radius(acc, progress float64) float64 {
	progress = math.Max(0, math.Min(1, progress))
	r := e.cfg.BaseRadius * math.Pow(e.cfg.Multiplier, acc-1) * progress
	if math.IsNaN(r) || r < 0 {
		return 0
	}
	return r
}

// Grow returns the pixels a claims at the given progress. A seed off land
// yields an empty overlay; a zero radius yields just the seed.
func (e *Engine) Grow(a area.Area, progress float64) *Overlay {
	w, h := e.mask.Width(), e.mask.Height()
	ov := NewOverlay(a.ID, w, h)
	sx, sy := a.Seed(w, h)
	ov.Seed.X, ov.Seed.Y = sx, sy
	ov.Radius = e.Radius(a.Acc, progress)

	if !e.mask.IsLand(sx, sy) {
		return ov
	}
	ov.Seeded = true
	ov.Add(sy*w + sx)
	if ov.Radius <= 0 {
		return ov
	}

	salt := rng.Salt(a.ID)
	e.spread(ov, sx, sy, a.Acc, salt)
	e.clone(ov, a, salt)
	return ov
}

// spread runs the bounded shortest-path search from (sx, sy) and claims
// every admitted pixel into ov.
func (e *Engine) spread(ov *Overlay, sx, sy int, acc float64, salt uint64) {
	w, h := e.mask.Width(), e.mask.Height()
	radius := ov.Radius

	s := e.scratch.Get().(*scratch)
	defer e.scratch.Put(s)
	s.reset(w * h)

	start := sy*w + sx
	s.relax(start, 0)
	for len(s.q) > 0 {
		cur := s.q.pop()
		p := int(cur.pixel)
		if !s.settle(p, cur.dist) {
			continue
		}

		px, py := p%w, p/w
		if p != start && !e.admit(px, py, cur.dist, radius, salt) {
			continue
		}
		ov.Add(p)

		for di, d := range neighbours {
			nx, ny := px+d[0], py+d[1]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			n := ny*w + nx
			if s.finished(n) {
				continue
			}
			if e.mask.IsLand(nx, ny) {
				s.relax(n, cur.dist+stepLength(d))
				continue
			}
			e.water(ov, s, px, py, di, cur.dist, acc, salt)
		}
	}
}

// water handles a step from land (px, py), reached at path distance from,
// onto water in direction di.
func (e *Engine) water(ov *Overlay, s *scratch, px, py, di int, from, acc float64, salt uint64) {
	d := neighbours[di]
	lx, ly, gap, found := e.mask.Landing(px, py, d[0], d[1], e.cfg.ProbeDistance)
	width := e.cfg.ProbeDistance
	if found {
		width = gap
	}
	if !e.cfg.Thresholds.CanCross(acc, e.cfg.Classifier.Classify(width)) {
		return
	}

	w := e.mask.Width()
	nx, ny := px+d[0], py+d[1]
	if width < e.cfg.CorridorWidth &&
		rng.Unit(e.cfg.NoiseSeed, nx, ny, salt^e.dirSalt[di]) < e.cfg.CorridorChance &&
		e.admit(nx, ny, from+stepLength(d), ov.Radius, salt) {
		ov.Add(ny*w + nx)
	}
	if found {
		s.relax(ly*w+lx, from+gap)
	}
}

// admit reports whether a pixel at path distance d falls inside radius once
// the boundary noise at (x, y) is applied.
func (e *Engine) admit(x, y int, d, radius float64, salt uint64) bool {
	if e.cfg.Jitter == 0 {
		return d <= radius
	}
	j := e.cfg.Jitter
	stretch := 1 + coherentShare*j*rng.Noise(e.cfg.NoiseSeed, x, y, salt, e.cfg.NoiseCell)
	grain := 0.5 * j * rng.Signed(e.cfg.NoiseSeed, x, y, salt)
	return d*stretch+grain <= radius
}

func stepLength(d [2]int) float64 {
	if d[0] != 0 && d[1] != 0 {
		return math.Sqrt2
	}
	return 1
}
