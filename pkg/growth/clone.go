package growth

import "github.com/matzehuels/areamap/pkg/area"

// Eligible reports whether a is powerful enough to grow a clone.
func (e *Engine) Eligible(a area.Area) bool {
	return a.Power > e.cfg.ClonePowerThreshold
}

// clone grows a second origin for a on the nearest other major landmass and
// merges it into ov. Without a target it does nothing.
func (e *Engine) clone(ov *Overlay, a area.Area, salt uint64) {
	if !e.Eligible(a) || ov.Radius <= 0 {
		return
	}
	lf, ok := e.index.NearestMajor(ov.Seed.X, ov.Seed.Y)
	if !ok {
		return
	}
	ov.Clone = &lf
	ov.Add(lf.Y*ov.width + lf.X)
	e.spread(ov, lf.X, lf.Y, a.Acc, salt)
}
