package growth

import (
	"sync"
	"testing"

	"github.com/matzehuels/areamap/pkg/area"
	"github.com/matzehuels/areamap/pkg/terrain"
)

func TestFrontierOrder(t *testing.T) {
	var f frontier
	for _, it := range []item{{9, 2}, {4, 1}, {7, 1}, {1, 3}, {3, 1}, {2, 0.5}} {
		f.push(int(it.pixel), it.dist)
	}
	want := []int32{2, 3, 4, 7, 9, 1}
	for i, p := range want {
		got := f.pop()
		if got.pixel != p {
			t.Fatalf("pop %d = pixel %d (dist %v), want %d", i, got.pixel, got.dist, p)
		}
	}
	if len(f) != 0 {
		t.Errorf("%d items left", len(f))
	}
}

func TestScratchReset(t *testing.T) {
	var s scratch
	s.reset(16)
	s.relax(5, 2)
	s.relax(5, 3)
	if s.dist[5] != 2 || len(s.q) != 1 {
		t.Fatalf("worse distance replaced a better one: dist=%v queued=%d", s.dist[5], len(s.q))
	}
	if !s.settle(5, 2) || s.settle(5, 2) || !s.finished(5) {
		t.Fatal("pixel should settle exactly once")
	}

	s.reset(16)
	if s.finished(5) || len(s.q) != 0 {
		t.Fatal("reset left state from the previous search")
	}
	s.relax(5, 9)
	if s.dist[5] != 9 {
		t.Errorf("dist after reset = %v, want 9", s.dist[5])
	}

	s.gen = ^uint32(0)
	s.reset(16)
	if s.gen != 1 || s.finished(5) {
		t.Errorf("generation wrap: gen=%d finished=%v", s.gen, s.finished(5))
	}
}

func TestGrowConcurrentMatchesSerial(t *testing.T) {
	m := stripMask(t, 80, 40, 30, 33)
	e := New(terrain.NewIndex(m, 0), testConfig())
	areas := []area.Area{
		{ID: "A1", Start: at(10, 10, 80, 40), Acc: 1.4, Power: 1},
		{ID: "A2", Start: at(60, 30, 80, 40), Acc: 1, Power: 1},
		{ID: "A3", Start: at(20, 20, 80, 40), Acc: 2.2, Power: 1},
	}
	want := make([]int, len(areas))
	for i, a := range areas {
		want[i] = e.Grow(a, 1).Count()
	}

	var wg sync.WaitGroup
	got := make([]int, len(areas)*4)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = e.Grow(areas[i%len(areas)], 1).Count()
		}(i)
	}
	wg.Wait()
	for i, n := range got {
		if n != want[i%len(areas)] {
			t.Errorf("%s: concurrent count %d, serial %d", areas[i%len(areas)].ID, n, want[i%len(areas)])
		}
	}
}
