package render

import (
	"context"
	"image/color"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/areamap/pkg/area"
	"github.com/matzehuels/areamap/pkg/arbiter"
	"github.com/matzehuels/areamap/pkg/errors"
	"github.com/matzehuels/areamap/pkg/growth"
	"github.com/matzehuels/areamap/pkg/observability"
	"github.com/matzehuels/areamap/pkg/terrain"
)

// maxAreas bounds the owner table element type.
const maxAreas = math.MaxInt16

// Renderer draws frames for one map and remembers the latest for hit
// testing. Render may be called from several goroutines; the frame of the
// most recently started call that completes is the one kept.
type Renderer struct {
	engine *growth.Engine
	cfg    Config

	mu      sync.RWMutex
	started uint64
	kept    uint64
	last    *Frame
}

// NewRenderer returns a renderer over the landmass index idx.
func NewRenderer(idx *terrain.Index, cfg Config) *Renderer {
	return &Renderer{engine: growth.New(idx, cfg.Growth), cfg: cfg}
}

// Engine returns the growth engine.
func (r *Renderer) Engine() *growth.Engine { return r.engine }

// Config returns the renderer configuration.
func (r *Renderer) Config() Config { return r.cfg }

// Size returns the canvas dimensions.
func (r *Renderer) Size() (width, height int) {
	m := r.engine.Index().Mask()
	return m.Width(), m.Height()
}

// Last returns the kept frame, or nil before the first render.
func (r *Renderer) Last() *Frame {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// Render computes a frame for areas. areas is only read.
func (r *Renderer) Render(ctx context.Context, areas []area.Area, p Params) (f *Frame, err error) {
	if len(areas) > maxAreas {
		return nil, errors.New(errors.ErrCodeInvalidInput, "too many areas: %d", len(areas))
	}
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, len(areas))
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, len(areas), time.Since(start), err) }()

	r.mu.Lock()
	r.started++
	gen := r.started
	r.mu.Unlock()

	w, h := r.Size()
	f = newFrame(w, h, len(areas))
	f.Params = p
	f.Standings = arbiter.Standings(areas, r.cfg.Opacity)

	if err = r.grow(ctx, areas, f); err != nil {
		return nil, err
	}
	if err = r.paint(ctx, areas, f); err != nil {
		return nil, err
	}

	r.mu.Lock()
	if gen > r.kept {
		r.kept = gen
		r.last = f
	}
	r.mu.Unlock()
	return f, nil
}

func (r *Renderer) grow(ctx context.Context, areas []area.Area, f *Frame) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.workers())
	for i := range areas {
		f.IDs[i] = areas[i].ID
		f.Colors[i] = areas[i].RGB()
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f.Overlays[i] = r.engine.Grow(areas[i], f.Params.Progress)
			return nil
		})
	}
	return g.Wait()
}

// paint arbitrates every pixel in parallel row bands.
func (r *Renderer) paint(ctx context.Context, areas []area.Area, f *Frame) error {
	w, h := f.Width(), f.Height()
	ink := r.inks(areas, f)

	bands := min(r.cfg.workers(), h)
	if bands < 1 {
		bands = 1
	}
	counts := make([][]int, bands)

	g, ctx := errgroup.WithContext(ctx)
	for b := 0; b < bands; b++ {
		y0, y1 := b*h/bands, (b+1)*h/bands
		g.Go(func() error {
			arb := arbiter.New(f.Params.TurnSeed, r.cfg.Epsilon)
			owned := make([]int, len(areas))
			claimants := make([]arbiter.Claimant, 0, len(areas))
			for y := y0; y < y1; y++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				for x := 0; x < w; x++ {
					i := y*w + x
					claimants = claimants[:0]
					for ai, ov := range f.Overlays {
						if ov.HasIndex(i) {
							claimants = append(claimants, arbiter.Claimant{Index: ai, Power: areas[ai].Power})
						}
					}
					win, ok := arb.Resolve(x, y, claimants)
					if !ok {
						continue
					}
					f.owners[i] = int16(win)
					owned[win]++
					c := ink[win]
					o := f.Image.PixOffset(x, y)
					f.Image.Pix[o+0] = c.R
					f.Image.Pix[o+1] = c.G
					f.Image.Pix[o+2] = c.B
					f.Image.Pix[o+3] = c.A
				}
			}
			counts[b] = owned
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, owned := range counts {
		for i, n := range owned {
			f.owned[i] += n
		}
	}
	return nil
}

// inks returns each area's color at its ranked (and possibly highlighted)
// opacity.
func (r *Renderer) inks(areas []area.Area, f *Frame) []color.NRGBA {
	opacity := make(map[string]float64, len(f.Standings))
	for _, s := range f.Standings {
		opacity[s.ID] = s.Opacity
	}
	out := make([]color.NRGBA, len(areas))
	for i, a := range areas {
		op := opacity[a.ID]
		if f.Params.Highlight != "" && a.ID == f.Params.Highlight {
			op = arbiter.Highlight(op, r.cfg.HighlightBoost)
		}
		c := f.Colors[i]
		c.A = Alpha(op)
		out[i] = c
	}
	return out
}

// Alpha converts an opacity in [0, 1] to an 8-bit alpha.
func Alpha(opacity float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, opacity)) * 255))
}
