package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/areamap/pkg/area"
)

// DefaultBackground fills the canvas when no base map is available.
const DefaultBackground = "#2c5f7d"

// Composite draws overlay over base, scaling base to the overlay size. A nil
// base is replaced by DefaultBackground.
func Composite(base image.Image, overlay *image.NRGBA) *image.NRGBA {
	b := overlay.Bounds()
	dst := image.NewNRGBA(b)
	if base == nil {
		bg, _ := area.ParseColor(DefaultBackground)
		draw.Draw(dst, b, &image.Uniform{C: bg}, image.Point{}, draw.Src)
	} else {
		xdraw.ApproxBiLinear.Scale(dst, b, base, base.Bounds(), xdraw.Src, nil)
	}
	draw.Draw(dst, b, overlay, b.Min, draw.Over)
	return dst
}

const (
	legendPad    = 6
	legendSwatch = 10
	legendLine   = 16
)

// DrawLegend draws a ranked key of the frame's areas in the bottom-left
// corner of img.
func DrawLegend(img draw.Image, f *Frame) {
	if len(f.Standings) == 0 {
		return
	}
	colors := make(map[string]color.NRGBA, len(f.IDs))
	for i, id := range f.IDs {
		colors[id] = f.Colors[i]
	}

	face := basicfont.Face7x13
	lines := make([]string, len(f.Standings))
	textW := 0
	for i, s := range f.Standings {
		lines[i] = fmt.Sprintf("%d. %s  %.2f", s.Rank, s.ID, s.Power)
		textW = max(textW, font.MeasureString(face, lines[i]).Ceil())
	}

	b := img.Bounds()
	boxW := legendPad*3 + legendSwatch + textW
	boxH := legendPad*2 + legendLine*len(lines)
	box := image.Rect(b.Min.X+legendPad, b.Max.Y-legendPad-boxH, b.Min.X+legendPad+boxW, b.Max.Y-legendPad)
	draw.Draw(img, box, &image.Uniform{C: color.NRGBA{A: 0xa0}}, image.Point{}, draw.Over)

	ascent := face.Metrics().Ascent.Ceil()
	for i, s := range f.Standings {
		top := box.Min.Y + legendPad + i*legendLine
		sw := image.Rect(box.Min.X+legendPad, top+2, box.Min.X+legendPad+legendSwatch, top+2+legendSwatch)
		draw.Draw(img, sw, &image.Uniform{C: colors[s.ID]}, image.Point{}, draw.Src)

		ink := color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
		if s.ID == f.Params.Highlight {
			ink = color.NRGBA{R: 0xff, G: 0xd7, B: 0x00, A: 0xff}
		}
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(ink),
			Face: face,
			Dot:  fixed.P(sw.Max.X+legendPad, top+ascent),
		}
		d.DrawString(lines[i])
	}
}
