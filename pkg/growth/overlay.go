package growth

import (
	"image"
	"math/bits"

	"github.com/matzehuels/areamap/pkg/terrain"
)

// Overlay is the set of pixels one area claims in a render pass, stored as
// a bitset indexed by y*width+x.
type Overlay struct {
	AreaID string
	Radius float64

	// Seed is the origin pixel. Seeded is false when it was not on land
	// and the overlay is empty.
	Seed   image.Point
	Seeded bool

	// Clone is the landfall of the clone growth, or nil when none was grown.
	Clone *terrain.Landfall

	width, height int
	words         []uint64
	count         int
}

// NewOverlay returns an empty overlay for a width x height canvas.
func NewOverlay(areaID string, width, height int) *Overlay {
	return &Overlay{
		AreaID: areaID,
		width:  width,
		height: height,
		words:  make([]uint64, (width*height+63)/64),
	}
}

// Width returns the canvas width.
func (o *Overlay) Width() int { return o.width }

// Height returns the canvas height.
func (o *Overlay) Height() int { return o.height }

// Count returns the number of claimed pixels.
func (o *Overlay) Count() int { return o.count }

// Has reports whether (x, y) is claimed. Out-of-bounds is never claimed.
func (o *Overlay) Has(x, y int) bool {
	if x < 0 || x >= o.width || y < 0 || y >= o.height {
		return false
	}
	return o.HasIndex(y*o.width + x)
}

// HasIndex reports whether the flat index i is claimed.
func (o *Overlay) HasIndex(i int) bool {
	return o.words[i>>6]&(1<<(uint(i)&63)) != 0
}

// Add claims the flat index i and reports whether it was new.
func (o *Overlay) Add(i int) bool {
	w, b := i>>6, uint64(1)<<(uint(i)&63)
	if o.words[w]&b != 0 {
		return false
	}
	o.words[w] |= b
	o.count++
	return true
}

// Union adds every pixel of other. Both overlays must share dimensions.
func (o *Overlay) Union(other *Overlay) {
	n := 0
	for i, w := range other.words {
		o.words[i] |= w
		n += bits.OnesCount64(o.words[i])
	}
	o.count = n
}

// Each calls fn for every claimed pixel in row-major order.
func (o *Overlay) Each(fn func(x, y int)) {
	for wi, w := range o.words {
		for w != 0 {
			i := wi<<6 + bits.TrailingZeros64(w)
			fn(i%o.width, i/o.width)
			w &= w - 1
		}
	}
}

// Bounds returns the smallest rectangle containing every claimed pixel.
func (o *Overlay) Bounds() image.Rectangle {
	var r image.Rectangle
	first := true
	o.Each(func(x, y int) {
		p := image.Rect(x, y, x+1, y+1)
		if first {
			r, first = p, false
			return
		}
		r = r.Union(p)
	})
	return r
}
