package terrain

import (
	"image"
	"math"
	"sort"
)

// DefaultMajorSize is the pixel count a landmass must exceed to be a clone
// target.
const DefaultMajorSize = 2000

// Landmass is one 4-connected component of land pixels.
type Landmass struct {
	ID       int
	Size     int
	Centroid Point
	Bounds   image.Rectangle // half-open, in canvas pixels

	pixels []int32 // flat indices y*width+x
}

// Point is a position in canvas pixel space.
type Point struct {
	X, Y float64
}

// Pixels returns the flat indices of the landmass members. The slice is
// shared and must not be modified.
func (l *Landmass) Pixels() []int32 { return l.pixels }

// Landfall is a clone seeding target on another landmass.
type Landfall struct {
	LandmassID int `json:"landmass_id"`
	X          int `json:"x"`
	Y          int `json:"y"`
}

// Index labels every land pixel of a mask with its landmass.
type Index struct {
	mask      *Mask
	labels    []int32 // -1 for water
	masses    []*Landmass
	majorSize int
}

// NewIndex computes the connected components of m. Landmasses larger than
// majorSize are major; majorSize <= 0 selects DefaultMajorSize.
func NewIndex(m *Mask, majorSize int) *Index {
	if majorSize <= 0 {
		majorSize = DefaultMajorSize
	}
	idx := &Index{
		mask:      m,
		labels:    make([]int32, len(m.land)),
		majorSize: majorSize,
	}
	for i := range idx.labels {
		idx.labels[i] = -1
	}

	w, h := m.width, m.height
	var stack []int32
	for start, isLand := range m.land {
		if !isLand || idx.labels[start] >= 0 {
			continue
		}
		id := int32(len(idx.masses))
		lm := &Landmass{ID: int(id)}
		minX, minY, maxX, maxY := w, h, -1, -1
		var sumX, sumY float64

		idx.labels[start] = id
		stack = append(stack[:0], int32(start))
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			lm.pixels = append(lm.pixels, p)

			x, y := int(p)%w, int(p)/w
			sumX += float64(x)
			sumY += float64(y)
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)

			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				n := ny*w + nx
				if m.land[n] && idx.labels[n] < 0 {
					idx.labels[n] = id
					stack = append(stack, int32(n))
				}
			}
		}

		lm.Size = len(lm.pixels)
		lm.Centroid = Point{X: sumX / float64(lm.Size), Y: sumY / float64(lm.Size)}
		lm.Bounds = image.Rect(minX, minY, maxX+1, maxY+1)
		idx.masses = append(idx.masses, lm)
	}
	return idx
}

// Mask returns the mask the index was built from.
func (idx *Index) Mask() *Mask { return idx.mask }

// MajorSize returns the size threshold for major landmasses.
func (idx *Index) MajorSize() int { return idx.majorSize }

// LandmassAt returns the landmass containing (x, y), or nil for water and
// out-of-bounds coordinates.
func (idx *Index) LandmassAt(x, y int) *Landmass {
	if !idx.mask.InBounds(x, y) {
		return nil
	}
	id := idx.labels[y*idx.mask.width+x]
	if id < 0 {
		return nil
	}
	return idx.masses[id]
}

// Landmasses returns every landmass in label order.
func (idx *Index) Landmasses() []*Landmass { return idx.masses }

// IsMajor reports whether l is large enough to receive clones.
func (idx *Index) IsMajor(l *Landmass) bool {
	return l != nil && l.Size > idx.majorSize
}

// Major returns the major landmasses ordered by size, largest first.
func (idx *Index) Major() []*Landmass {
	var out []*Landmass
	for _, l := range idx.masses {
		if idx.IsMajor(l) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Size > out[j].Size })
	return out
}

// NearestMajor finds the closest pixel of a major landmass other than the
// one containing (x, y). When the origin is water every major landmass is a
// candidate. Ties keep the lower landmass id and then the lower flat index.
func (idx *Index) NearestMajor(x, y int) (Landfall, bool) {
	origin := -1
	if l := idx.LandmassAt(x, y); l != nil {
		origin = l.ID
	}

	w := idx.mask.width
	best := math.MaxFloat64
	var found Landfall
	ok := false
	for _, l := range idx.masses {
		if l.ID == origin || !idx.IsMajor(l) {
			continue
		}
		if boxDistSq(l.Bounds, x, y) >= best {
			continue
		}
		for _, p := range l.pixels {
			px, py := int(p)%w, int(p)/w
			dx, dy := float64(px-x), float64(py-y)
			d := dx*dx + dy*dy
			if d < best || (d == best && ok && found.LandmassID == l.ID && py*w+px < found.Y*w+found.X) {
				best = d
				found = Landfall{LandmassID: l.ID, X: px, Y: py}
				ok = true
			}
		}
	}
	return found, ok
}

// boxDistSq is the squared distance from (x, y) to the nearest pixel of r.
func boxDistSq(r image.Rectangle, x, y int) float64 {
	dx, dy := 0, 0
	switch {
	case x < r.Min.X:
		dx = r.Min.X - x
	case x >= r.Max.X:
		dx = x - (r.Max.X - 1)
	}
	switch {
	case y < r.Min.Y:
		dy = r.Min.Y - y
	case y >= r.Max.Y:
		dy = y - (r.Max.Y - 1)
	}
	return float64(dx*dx + dy*dy)
}
