package render

import (
	"image"

	"github.com/matzehuels/areamap/pkg/terrain"
)

// Summary is the JSON view of a frame.
type Summary struct {
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Progress  float64         `json:"progress"`
	TurnSeed  int64           `json:"turn_seed"`
	Highlight string          `json:"highlight,omitempty"`
	Regions   []RegionSummary `json:"regions"`
}

// RegionSummary describes one area in a frame, in rank order.
type RegionSummary struct {
	ID      string            `json:"id"`
	Rank    int               `json:"rank"`
	Power   float64           `json:"power"`
	Opacity float64           `json:"opacity"`
	Radius  float64           `json:"radius"`
	Seed    image.Point       `json:"seed"`
	Seeded  bool              `json:"seeded"`
	Claimed int               `json:"claimed"` // pixels in the overlay
	Owned   int               `json:"owned"`   // pixels won after arbitration
	Clone   *terrain.Landfall `json:"clone,omitempty"`
}

// Summary returns the frame's standings with claim counts.
func (f *Frame) Summary() Summary {
	s := Summary{
		Width:     f.Width(),
		Height:    f.Height(),
		Progress:  f.Params.Progress,
		TurnSeed:  f.Params.TurnSeed,
		Highlight: f.Params.Highlight,
		Regions:   make([]RegionSummary, 0, len(f.Standings)),
	}
	index := make(map[string]int, len(f.IDs))
	for i, id := range f.IDs {
		index[id] = i
	}
	for _, st := range f.Standings {
		rs := RegionSummary{ID: st.ID, Rank: st.Rank, Power: st.Power, Opacity: st.Opacity}
		if i, ok := index[st.ID]; ok {
			ov := f.Overlays[i]
			rs.Radius = ov.Radius
			rs.Seed = ov.Seed
			rs.Seeded = ov.Seeded
			rs.Claimed = ov.Count()
			rs.Owned = f.owned[i]
			rs.Clone = ov.Clone
		}
		s.Regions = append(s.Regions, rs)
	}
	return s
}
