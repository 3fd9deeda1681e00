// Package area defines the competing regions painted on the map.
//
// An [Area] carries a normalized seed position, two stats and a display
// color. The rendering packages treat areas as read-only input; only the
// turn package mutates them between render passes.
package area

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/areamap/pkg/errors"
)

// Point is a normalized map position; both coordinates are fractions of the
// canvas size in [0, 1].
type Point struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// Area is one competing region.
type Area struct {
	ID    string  `json:"id" toml:"id"`
	Start Point   `json:"start" toml:"start"`
	Power float64 `json:"power" toml:"power"` // ownership rank and clone eligibility
	Acc   float64 `json:"acc" toml:"acc"`     // growth radius and barrier crossing
	Color string  `json:"color" toml:"color"` // "#RRGGBB"
}

// Seed returns the seed pixel on a width x height canvas.
func (a Area) Seed(width, height int) (x, y int) {
	return int(math.Floor(a.Start.X * float64(width))), int(math.Floor(a.Start.Y * float64(height)))
}

// RGB returns the parsed display color, or black when Color is malformed.
func (a Area) RGB() color.NRGBA {
	c, err := ParseColor(a.Color)
	if err != nil {
		return color.NRGBA{A: 0xff}
	}
	return c
}

// Validate checks the id and color.
func (a Area) Validate() error {
	if err := errors.ValidateRegionID(a.ID); err != nil {
		return err
	}
	if _, err := ParseColor(a.Color); err != nil {
		return err
	}
	return nil
}

// ParseColor parses "#RRGGBB" (the leading '#' is optional, hex digits are
// case-insensitive) into an opaque color.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return color.NRGBA{}, errors.New(errors.ErrCodeInvalidColor, "color %q: want #RRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "color %q", s)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// Clone returns a deep copy of areas.
func Clone(areas []Area) []Area {
	if areas == nil {
		return nil
	}
	out := make([]Area, len(areas))
	copy(out, areas)
	return out
}

// Find returns the index of the area with the given id, or -1.
func Find(areas []Area, id string) int {
	for i := range areas {
		if areas[i].ID == id {
			return i
		}
	}
	return -1
}
