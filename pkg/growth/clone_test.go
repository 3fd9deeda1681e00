package growth

import (
	"testing"

	"github.com/matzehuels/areamap/pkg/area"
	"github.com/matzehuels/areamap/pkg/terrain"
)

func TestCloneLandsOnOtherMajor(t *testing.T) {
	// Two 20x20 continents separated by 40 columns of ocean.
	const w, h = 80, 20
	m := stripMask(t, w, h, 20, 60)
	idx := terrain.NewIndex(m, 100)
	cfg := testConfig()
	cfg.ClonePowerThreshold = 2
	e := New(idx, cfg)

	a := area.Area{ID: "A1", Start: at(5, 10, w, h), Acc: 1, Power: 2.5}
	ov := e.Grow(a, 1)
	if ov.Clone == nil {
		t.Fatal("expected a clone landfall")
	}
	origin := idx.LandmassAt(5, 10)
	if ov.Clone.LandmassID == origin.ID {
		t.Fatal("clone landed on its origin landmass")
	}
	outside := 0
	ov.Each(func(x, y int) {
		if l := idx.LandmassAt(x, y); l != nil && l.ID != origin.ID {
			outside++
		}
	})
	if outside == 0 {
		t.Error("clone claimed no pixels outside the origin landmass")
	}
	if !ov.Has(ov.Clone.X, ov.Clone.Y) {
		t.Error("clone landfall pixel should be claimed")
	}
}

func TestCloneNeedsPowerAboveThreshold(t *testing.T) {
	const w, h = 80, 20
	m := stripMask(t, w, h, 20, 60)
	cfg := testConfig()
	cfg.ClonePowerThreshold = 2
	e := New(terrain.NewIndex(m, 100), cfg)

	ov := e.Grow(area.Area{ID: "A1", Start: at(5, 10, w, h), Acc: 1, Power: 2}, 1)
	if ov.Clone != nil {
		t.Error("power equal to the threshold must not clone")
	}
	ov.Each(func(x, y int) {
		if x >= 60 {
			t.Fatalf("pixel (%d,%d) claimed on the far continent without a clone", x, y)
		}
	})
}

func TestCloneWithoutTargetIsNoop(t *testing.T) {
	e := New(terrain.NewIndex(terrain.AllLand(50, 50), 100), testConfig())
	ov := e.Grow(area.Area{ID: "A1", Start: at(25, 25, 50, 50), Acc: 1, Power: 10}, 1)
	if ov.Clone != nil {
		t.Errorf("clone = %+v, want none on a single landmass", ov.Clone)
	}
	if ov.Count() == 0 {
		t.Error("origin growth should still happen")
	}
}

func TestCloneIgnoresMinorLandmass(t *testing.T) {
	const w, h = 60, 20
	land := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < 20; x++ {
			land[y*w+x] = true
		}
	}
	land[10*w+50] = true // a one-pixel islet
	m, err := terrain.NewMask(w, h, land)
	if err != nil {
		t.Fatal(err)
	}
	e := New(terrain.NewIndex(m, 100), testConfig())
	ov := e.Grow(area.Area{ID: "A1", Start: at(5, 10, w, h), Acc: 1, Power: 10}, 1)
	if ov.Clone != nil {
		t.Error("a minor landmass must not receive a clone")
	}
}
