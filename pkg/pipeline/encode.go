package pipeline

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"

	"github.com/matzehuels/areamap/pkg/errors"
	"github.com/matzehuels/areamap/pkg/render"
)

// Encode produces one artifact from a frame. base may be nil.
func Encode(f *render.Frame, format string, base image.Image, legend bool) ([]byte, error) {
	switch format {
	case FormatPNG:
		img := render.Composite(base, f.Image)
		if legend {
			render.DrawLegend(img, f)
		}
		return encodePNG(img)
	case FormatOverlay:
		return encodePNG(f.Image)
	case FormatJSON:
		data, err := json.MarshalIndent(f.Summary(), "", "  ")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode summary")
		}
		return data, nil
	default:
		return nil, ValidateFormat(format)
	}
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}
