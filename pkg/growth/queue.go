package growth

type item struct {
	pixel int32
	dist  float64
}

// frontier is a min-heap on path distance. Ties pop the lower pixel index
// first so runs are reproducible.
type frontier []item

func (f frontier) less(i, j int) bool {
	if f[i].dist != f[j].dist {
		return f[i].dist < f[j].dist
	}
	return f[i].pixel < f[j].pixel
}

func (f *frontier) push(pixel int, dist float64) {
	*f = append(*f, item{pixel: int32(pixel), dist: dist})
	h := *f
	for i := len(h) - 1; i > 0; {
		parent := (i - 1) / 2
		if !h.less(i, parent) {
			break
		}
		h[i], h[parent] = h[parent], h[i]
		i = parent
	}
}

func (f *frontier) pop() item {
	h := *f
	top := h[0]
	n := len(h) - 1
	h[0] = h[n]
	h = h[:n]
	for i := 0; ; {
		m := i
		if l := 2*i + 1; l < n && h.less(l, m) {
			m = l
		}
		if r := 2*i + 2; r < n && h.less(r, m) {
			m = r
		}
		if m == i {
			break
		}
		h[i], h[m] = h[m], h[i]
		i = m
	}
	*f = h
	return top
}

// scratch holds the per-search state of spread as flat arrays indexed by
// y*width+x. A pixel's dist is valid only while seen[p] == gen, and it is
// final once done[p] == gen, so a new search just bumps gen.
type scratch struct {
	dist []float64
	seen []uint32
	done []uint32
	gen  uint32
	q    frontier
}

func (s *scratch) reset(n int) {
	if len(s.dist) < n {
		s.dist = make([]float64, n)
		s.seen = make([]uint32, n)
		s.done = make([]uint32, n)
		s.gen = 0
	}
	s.gen++
	if s.gen == 0 {
		clear(s.seen)
		clear(s.done)
		s.gen = 1
	}
	s.q = s.q[:0]
}

func (s *scratch) finished(p int) bool { return s.done[p] == s.gen }

// settle marks p final unless it was already settled or d is a stale entry.
func (s *scratch) settle(p int, d float64) bool {
	if s.done[p] == s.gen || d > s.dist[p] {
		return false
	}
	s.done[p] = s.gen
	return true
}

// relax records nd as the distance to n if it improves on the known one.
func (s *scratch) relax(n int, nd float64) {
	if s.seen[n] == s.gen && s.dist[n] <= nd {
		return
	}
	s.seen[n] = s.gen
	s.dist[n] = nd
	s.q.push(n, nd)
}
