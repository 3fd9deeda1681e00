package render

import "math"

// RegionAt returns the id of the area that owns (x, y) in this frame.
// Out-of-bounds and unowned pixels report false.
func (f *Frame) RegionAt(x, y int) (string, bool) {
	if f == nil || x < 0 || y < 0 || x >= f.Width() || y >= f.Height() {
		return "", false
	}
	o := f.owners[y*f.Width()+x]
	if o < 0 {
		return "", false
	}
	return f.IDs[o], true
}

// RegionAt answers from the most recent frame. Before the first render
// every coordinate reports false.
func (r *Renderer) RegionAt(x, y int) (string, bool) {
	return r.Last().RegionAt(x, y)
}

// ScreenToCanvas maps a pointer position on a display surface of
// displayW x displayH to canvas pixel coordinates. It reports false when
// the display size is degenerate or the point falls outside the canvas.
func ScreenToCanvas(px, py, displayW, displayH float64, canvasW, canvasH int) (x, y int, ok bool) {
	if displayW <= 0 || displayH <= 0 {
		return 0, 0, false
	}
	x = int(math.Floor(px * float64(canvasW) / displayW))
	y = int(math.Floor(py * float64(canvasH) / displayH))
	if x < 0 || y < 0 || x >= canvasW || y >= canvasH {
		return x, y, false
	}
	return x, y, true
}
