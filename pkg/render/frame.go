package render

import (
	"image"
	"image/color"

	"github.com/matzehuels/areamap/pkg/arbiter"
	"github.com/matzehuels/areamap/pkg/growth"
)

// Params are the per-call render inputs.
type Params struct {
	Progress  float64 // animation progress in [0, 1]
	Highlight string  // area id drawn at boosted opacity; empty for none
	TurnSeed  int64   // keeps tie-breaks stable within a turn
}

// Frame is the output of one render pass.
type Frame struct {
	Image     *image.NRGBA
	Params    Params
	IDs       []string      // area ids in input order
	Colors    []color.NRGBA // opaque display colors, parallel to IDs
	Standings []arbiter.Standing
	Overlays  []*growth.Overlay // parallel to IDs

	owners []int16 // index into IDs per pixel, -1 when unowned
	owned  []int   // pixels won per area, parallel to IDs
}

func newFrame(w, h, n int) *Frame {
	f := &Frame{
		Image:    image.NewNRGBA(image.Rect(0, 0, w, h)),
		IDs:      make([]string, n),
		Colors:   make([]color.NRGBA, n),
		Overlays: make([]*growth.Overlay, n),
		owners:   make([]int16, w*h),
		owned:    make([]int, n),
	}
	for i := range f.owners {
		f.owners[i] = -1
	}
	return f
}

// Width returns the canvas width.
func (f *Frame) Width() int { return f.Image.Rect.Dx() }

// Height returns the canvas height.
func (f *Frame) Height() int { return f.Image.Rect.Dy() }

// Owned returns how many pixels id won in this frame.
func (f *Frame) Owned(id string) int {
	for i, v := range f.IDs {
		if v == id {
			return f.owned[i]
		}
	}
	return 0
}

// OwnerTable returns a copy of the per-pixel owner ids, row-major, with ""
// for unowned pixels.
func (f *Frame) OwnerTable() []string {
	out := make([]string, len(f.owners))
	for i, o := range f.owners {
		if o >= 0 {
			out[i] = f.IDs[o]
		}
	}
	return out
}
