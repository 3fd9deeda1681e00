package render

import (
	"context"
	"image/color"
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/areamap/pkg/area"
	"github.com/matzehuels/areamap/pkg/terrain"
)

func testRenderer(w, h int, cfg Config) *Renderer {
	return NewRenderer(terrain.NewIndex(terrain.AllLand(w, h), 0), cfg)
}

func flatConfig(radius float64) Config {
	cfg := DefaultConfig()
	cfg.Growth.BaseRadius = radius
	cfg.Growth.Multiplier = 1
	cfg.Opacity = map[int]float64{1: 0.8, 2: 0.6, 3: 0.5, 4: 0.4, 5: 0.3}
	return cfg
}

func pt(x, y, w, h int) area.Point {
	return area.Point{X: (float64(x) + 0.5) / float64(w), Y: (float64(y) + 0.5) / float64(h)}
}

func TestRenderFiveSeparatedRegions(t *testing.T) {
	const w, h = 800, 533
	r := testRenderer(w, h, flatConfig(50))
	seeds := [][2]int{{100, 100}, {400, 100}, {700, 100}, {250, 400}, {550, 400}}
	colors := []string{"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231"}
	var areas []area.Area
	for i, s := range seeds {
		areas = append(areas, area.Area{
			ID: []string{"A1", "A2", "A3", "A4", "A5"}[i], Start: pt(s[0], s[1], w, h),
			Power: 1, Acc: 1, Color: colors[i],
		})
	}

	ctx := context.Background()
	first, err := r.Render(ctx, areas, Params{Progress: 1, TurnSeed: 3})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	disk := math.Pi * 50 * 50
	total := 0
	for i, a := range areas {
		ov := first.Overlays[i]
		if n := float64(ov.Count()); n < 0.7*disk || n > 1.25*disk {
			t.Errorf("%s claimed %v pixels, want about %v", a.ID, n, disk)
		}
		if first.Owned(a.ID) != ov.Count() {
			t.Errorf("%s owns %d of %d claimed pixels; regions should not overlap", a.ID, first.Owned(a.ID), ov.Count())
		}
		total += first.Owned(a.ID)
	}

	second, err := r.Render(ctx, areas, Params{Progress: 1, TurnSeed: 3})
	if err != nil {
		t.Fatal(err)
	}
	again := 0
	for _, a := range areas {
		again += second.Owned(a.ID)
	}
	if again != total {
		t.Errorf("total owned changed between runs: %d vs %d", total, again)
	}
}

func TestRenderHigherPowerWinsOverlap(t *testing.T) {
	const w, h = 120, 80
	r := testRenderer(w, h, flatConfig(30))
	areas := []area.Area{
		{ID: "A1", Start: pt(50, 40, w, h), Power: 1.0, Acc: 1, Color: "#ff0000"},
		{ID: "A2", Start: pt(70, 40, w, h), Power: 2.0, Acc: 1, Color: "#0000ff"},
	}
	f, err := r.Render(context.Background(), areas, Params{Progress: 1, TurnSeed: 1})
	if err != nil {
		t.Fatal(err)
	}
	overlap := 0
	f.Overlays[0].Each(func(x, y int) {
		if !f.Overlays[1].Has(x, y) {
			return
		}
		overlap++
		if id, _ := f.RegionAt(x, y); id != "A2" {
			t.Fatalf("overlap pixel (%d,%d) owned by %q, want A2", x, y, id)
		}
	})
	if overlap == 0 {
		t.Fatal("test regions do not overlap")
	}
}

func TestRenderDeterministicTieBreaks(t *testing.T) {
	const w, h = 100, 60
	areas := []area.Area{
		{ID: "A1", Start: pt(40, 30, w, h), Power: 1.5, Acc: 1, Color: "#ff0000"},
		{ID: "A2", Start: pt(60, 30, w, h), Power: 1.5, Acc: 1, Color: "#00ff00"},
	}
	var tables [][]string
	for _, workers := range []int{1, 3, 8} {
		cfg := flatConfig(25)
		cfg.Workers = workers
		f, err := testRenderer(w, h, cfg).Render(context.Background(), areas, Params{Progress: 1, TurnSeed: 5})
		if err != nil {
			t.Fatal(err)
		}
		tables = append(tables, f.OwnerTable())
	}
	for i := 1; i < len(tables); i++ {
		if !slices.Equal(tables[0], tables[i]) {
			t.Fatalf("owner table differs with worker count variant %d", i)
		}
	}

	both := map[string]bool{}
	for _, id := range tables[0] {
		both[id] = true
	}
	if !both["A1"] || !both["A2"] {
		t.Error("both tied regions should own some pixels")
	}
}

func TestRenderOpacityAndHighlight(t *testing.T) {
	const w, h = 60, 60
	r := testRenderer(w, h, flatConfig(10))
	areas := []area.Area{
		{ID: "A1", Start: pt(15, 15, w, h), Power: 3, Acc: 1, Color: "#102030"},
		{ID: "A2", Start: pt(45, 45, w, h), Power: 1, Acc: 1, Color: "#405060"},
	}
	f, err := r.Render(context.Background(), areas, Params{Progress: 1, Highlight: "A2"})
	if err != nil {
		t.Fatal(err)
	}
	if got := f.Image.NRGBAAt(15, 15); got != (color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: Alpha(0.8)}) {
		t.Errorf("rank-1 pixel = %v", got)
	}
	if got := f.Image.NRGBAAt(45, 45); got.A != 0xff || got.R != 0x40 {
		t.Errorf("highlighted pixel = %v, want full opacity", got)
	}
	if got := f.Image.NRGBAAt(0, 59); got.A != 0 {
		t.Errorf("unclaimed pixel alpha = %d, want 0", got.A)
	}
}

func TestRenderZeroProgress(t *testing.T) {
	const w, h = 50, 50
	r := testRenderer(w, h, flatConfig(20))
	areas := []area.Area{{ID: "A1", Start: pt(25, 25, w, h), Power: 5, Acc: 2, Color: "#ffffff"}}
	f, err := r.Render(context.Background(), areas, Params{Progress: 0})
	if err != nil {
		t.Fatal(err)
	}
	if f.Owned("A1") != 1 {
		t.Errorf("progress 0 owned %d pixels, want only the seed", f.Owned("A1"))
	}
}

func TestRenderWaterSeedOwnsNothing(t *testing.T) {
	land := make([]bool, 20*20)
	m, err := terrain.NewMask(20, 20, land)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRenderer(terrain.NewIndex(m, 0), flatConfig(10))
	f, err := r.Render(context.Background(), []area.Area{{ID: "A1", Start: pt(10, 10, 20, 20), Acc: 1, Color: "#ffffff"}}, Params{Progress: 1})
	if err != nil {
		t.Fatal(err)
	}
	if f.Owned("A1") != 0 {
		t.Errorf("water seed owned %d pixels", f.Owned("A1"))
	}
	if _, ok := f.RegionAt(10, 10); ok {
		t.Error("no pixel should be owned")
	}
}

func TestRenderCanceled(t *testing.T) {
	r := testRenderer(40, 40, flatConfig(10))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	areas := []area.Area{{ID: "A1", Start: pt(20, 20, 40, 40), Acc: 1, Color: "#ffffff"}}
	if _, err := r.Render(ctx, areas, Params{Progress: 1}); err == nil {
		t.Error("expected an error for a canceled context")
	}
	if r.Last() != nil {
		t.Error("a failed render must not replace the kept frame")
	}
}

func TestRenderNoAreas(t *testing.T) {
	r := testRenderer(10, 10, flatConfig(5))
	f, err := r.Render(context.Background(), nil, Params{Progress: 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := f.RegionAt(5, 5); ok {
		t.Error("empty render should own nothing")
	}
}

func TestAlpha(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{0, 0}, {0.5, 128}, {1, 255}, {1.7, 255}, {-0.2, 0}, {0.3, 77},
	}
	for _, tt := range tests {
		if got := Alpha(tt.in); got != tt.want {
			t.Errorf("Alpha(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
