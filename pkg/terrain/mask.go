package terrain

import (
	"image"
	_ "image/gif"  // register GIF masks
	_ "image/jpeg" // register JPEG masks
	_ "image/png"  // register PNG masks
	"io"

	xdraw "golang.org/x/image/draw"

	"github.com/matzehuels/areamap/pkg/errors"
)

// DefaultThreshold is the brightness fraction above which a mask pixel is
// land. Anything at or below it (including anti-aliased coast edges that
// fall under half brightness) is water.
const DefaultThreshold = 0.5

// Mask is an immutable land/water raster at canvas resolution.
type Mask struct {
	width, height int
	land          []bool
	landCount     int
}

// AllLand returns a mask on which every pixel is land. It is the fail-open
// fallback when the real mask cannot be loaded.
func AllLand(width, height int) *Mask {
	land := make([]bool, width*height)
	for i := range land {
		land[i] = true
	}
	return &Mask{width: width, height: height, land: land, landCount: len(land)}
}

// NewMask builds a mask from a row-major land slice of length width*height.
func NewMask(width, height int, land []bool) (*Mask, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "mask size must be positive, got %dx%d", width, height)
	}
	if len(land) != width*height {
		return nil, errors.New(errors.ErrCodeInvalidInput, "mask has %d samples, want %d", len(land), width*height)
	}
	m := &Mask{width: width, height: height, land: make([]bool, len(land))}
	copy(m.land, land)
	for _, l := range m.land {
		if l {
			m.landCount++
		}
	}
	return m, nil
}

// LoadMask decodes a mask image, scales it to width x height and binarizes
// it at DefaultThreshold. A decode failure is returned as MASK_DECODE; the
// caller is expected to fall back to AllLand rather than stop rendering.
func LoadMask(r io.Reader, width, height int) (*Mask, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "mask size must be positive, got %dx%d", width, height)
	}
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMaskDecode, err, "decode land mask")
	}
	return FromImage(img, width, height, DefaultThreshold), nil
}

// FromImage binarizes img, scaling it to width x height first when its
// bounds differ. threshold is a brightness fraction in (0, 1).
func FromImage(img image.Image, width, height int, threshold float64) *Mask {
	src := Fit(img, width, height)
	cut := uint32(threshold * 255)

	m := &Mask{width: width, height: height, land: make([]bool, width*height)}
	b := src.Bounds()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, bl, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			// Same weights as color.GrayModel, reduced to 8 bits.
			gray := (19595*r + 38470*g + 7471*bl + 1<<15) >> 24
			if gray > cut {
				m.land[y*width+x] = true
				m.landCount++
			}
		}
	}
	return m
}

// Fit returns img scaled to exactly width x height, or img itself when it
// already has that size.
func Fit(img image.Image, width, height int) image.Image {
	if img.Bounds().Dx() == width && img.Bounds().Dy() == height {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// Width returns the mask width in pixels.
func (m *Mask) Width() int { return m.width }

// Height returns the mask height in pixels.
func (m *Mask) Height() int { return m.height }

// LandCount returns the number of land pixels.
func (m *Mask) LandCount() int { return m.landCount }

// InBounds reports whether (x, y) lies on the canvas.
func (m *Mask) InBounds(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// IsLand reports whether (x, y) is a land pixel. Out-of-bounds is water.
func (m *Mask) IsLand(x, y int) bool {
	if !m.InBounds(x, y) {
		return false
	}
	return m.land[y*m.width+x]
}
