// Package pipeline provides the map rendering pipeline shared by the CLI
// and the HTTP server.
//
// A run has three stages:
//
//  1. Terrain: load the land mask (file path or http(s) URL), scale it to
//     the canvas and label its landmasses
//  2. Render: grow every area's overlay and arbitrate pixel ownership
//  3. Encode: produce the requested artifacts (png, overlay, json)
//
// Terrain is memoized per source and canvas size. Encoded artifacts are
// cached by a hash of every render input, since a render is a pure
// function of them.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, logic, areas, pipeline.Options{
//	    MaskSource: "land-mask.png",
//	    Formats:    []string{pipeline.FormatPNG},
//	})
//	if err != nil {
//	    return err
//	}
//	png := result.Artifacts[pipeline.FormatPNG]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/areamap/pkg/cache"
	"github.com/matzehuels/areamap/pkg/errors"
	"github.com/matzehuels/areamap/pkg/logic"
	"github.com/matzehuels/areamap/pkg/render"
)

// Format constants for output formats.
const (
	FormatPNG     = "png"     // overlay composited over the base map
	FormatOverlay = "overlay" // transparent overlay only, PNG encoded
	FormatJSON    = "json"    // frame summary
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:     true,
	FormatOverlay: true,
	FormatJSON:    true,
}

// Options contains all configuration for one pipeline run.
type Options struct {
	MaskSource string `json:"mask,omitempty"` // land mask path or URL; empty means all land
	BaseSource string `json:"base,omitempty"` // base map path or URL for png output

	// Canvas size. Zero takes the logic file's engine canvas.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// Progress is the animation progress in [0, 1]. Nil means 1.
	Progress  *float64 `json:"progress,omitempty"`
	Highlight string   `json:"highlight,omitempty"`
	TurnSeed  int64    `json:"turn_seed,omitempty"`

	Formats []string `json:"formats,omitempty"`
	Legend  bool     `json:"legend,omitempty"`
	Workers int      `json:"workers,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Frame is the rendered frame. It is nil when every artifact came
	// from the cache.
	Frame *render.Frame

	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[string][]byte

	// InputHash identifies the render inputs.
	InputHash string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Landmasses  int
	Regions     int
	TerrainTime time.Duration
	RenderTime  time.Duration
	EncodeTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	TerrainHit bool // terrain came from the in-process memo
	RenderHit  bool // all artifacts came from the cache

	// TerrainFallback is set when the mask could not be read and the frame
	// was drawn on all land. Such artifacts are not cached.
	TerrainFallback bool
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, overlay, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options against l and applies
// defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults(l *logic.Logic) error {
	if o.validated {
		return nil
	}
	if o.Width == 0 {
		o.Width = l.Engine.CanvasWidth
	}
	if o.Height == 0 {
		o.Height = l.Engine.CanvasHeight
	}
	if o.Width <= 0 || o.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas size must be positive, got %dx%d", o.Width, o.Height)
	}
	if o.Progress != nil && (*o.Progress < 0 || *o.Progress > 1) {
		return errors.New(errors.ErrCodeInvalidInput, "progress must be in [0, 1], got %v", *o.Progress)
	}
	for _, src := range []string{o.MaskSource, o.BaseSource} {
		if src == "" {
			continue
		}
		if err := errors.ValidateSource(src); err != nil {
			return err
		}
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ProgressValue returns the progress to render at.
func (o *Options) ProgressValue() float64 {
	if o.Progress == nil {
		return 1
	}
	return *o.Progress
}

// Params returns the renderer parameters.
func (o *Options) Params() render.Params {
	return render.Params{
		Progress:  o.ProgressValue(),
		Highlight: o.Highlight,
		TurnSeed:  o.TurnSeed,
	}
}

// RenderKeyOpts returns cache key options for one artifact.
func (o *Options) RenderKeyOpts(format string) cache.RenderKeyOpts {
	return cache.RenderKeyOpts{
		Format:   format,
		Progress: o.ProgressValue(),
		Legend:   o.Legend,
		TurnSeed: o.TurnSeed,
	}
}

// TerrainKeyOpts returns cache key options for the land mask.
func (o *Options) TerrainKeyOpts() cache.TerrainKeyOpts {
	return cache.TerrainKeyOpts{Width: o.Width, Height: o.Height}
}

func (o *Options) String() string {
	return fmt.Sprintf("%dx%d progress=%.2f formats=%v", o.Width, o.Height, o.ProgressValue(), o.Formats)
}
