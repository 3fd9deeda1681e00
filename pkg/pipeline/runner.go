package pipeline

import (
	"context"
	"fmt"
	"image"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/areamap/pkg/area"
	"github.com/matzehuels/areamap/pkg/cache"
	"github.com/matzehuels/areamap/pkg/httputil"
	"github.com/matzehuels/areamap/pkg/logic"
	"github.com/matzehuels/areamap/pkg/render"
	"github.com/matzehuels/areamap/pkg/terrain"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the server use it so terrain loading and artifact
// caching behave the same everywhere.
//
// A Runner memoizes decoded terrain and base maps; it keeps no render
// results. It is safe for concurrent use.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Fetcher *httputil.Fetcher

	mu      sync.Mutex
	terrain map[string]*terrain.Index
	bases   map[string]image.Image
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	c = cache.Observed(c)
	fetcher := httputil.NewFetcher(c, cache.TTLTerrain)
	fetcher.Keyer = keyer
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
		Fetcher: fetcher,
		terrain: make(map[string]*terrain.Index),
		bases:   make(map[string]image.Image),
	}
}

// renderInputs is everything a frame depends on besides the per-artifact
// key options.
type renderInputs struct {
	Logic     *logic.Logic `json:"logic"`
	Areas     []area.Area  `json:"areas"`
	Mask      string       `json:"mask"`
	Base      string       `json:"base"`
	Width     int          `json:"width"`
	Height    int          `json:"height"`
	Highlight string       `json:"highlight"`
}

// Execute runs terrain → render → encode for areas under the rules in l.
// l must be defaulted (logic.Load and logic.Parse do that).
func (r *Runner) Execute(ctx context.Context, l *logic.Logic, areas []area.Area, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(l); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}

	hash, err := cache.HashJSON(renderInputs{
		Logic:     l,
		Areas:     areas,
		Mask:      opts.MaskSource,
		Base:      opts.BaseSource,
		Width:     opts.Width,
		Height:    opts.Height,
		Highlight: opts.Highlight,
	})
	if err != nil {
		return nil, err
	}
	result := &Result{
		Artifacts: make(map[string][]byte, len(opts.Formats)),
		InputHash: hash,
	}
	result.Stats.Regions = len(areas)

	if !opts.Refresh && r.cachedArtifacts(ctx, hash, &opts, result.Artifacts) {
		result.CacheInfo.RenderHit = true
		logger.Debug("artifacts from cache", "hash", hash[:12], "formats", opts.Formats)
		return result, nil
	}

	// Stage 1: Terrain
	start := time.Now()
	idx, hit, maskErr := r.loadTerrain(ctx, opts.MaskSource, opts.Width, opts.Height, l.Engine.MajorLandmassSize)
	result.Stats.TerrainTime = time.Since(start)
	result.Stats.Landmasses = len(idx.Landmasses())
	result.CacheInfo.TerrainHit = hit
	result.CacheInfo.TerrainFallback = maskErr != nil

	// Stage 2: Render
	start = time.Now()
	renderer := render.NewRenderer(idx, r.RenderConfig(l, opts))
	frame, err := renderer.Render(ctx, areas, opts.Params())
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Frame = frame
	result.Stats.RenderTime = time.Since(start)
	logger.Info("rendered map",
		"regions", len(areas),
		"landmasses", result.Stats.Landmasses,
		"progress", opts.ProgressValue(),
		"duration", result.Stats.RenderTime)

	// Stage 3: Encode
	start = time.Now()
	var base image.Image
	if slices.Contains(opts.Formats, FormatPNG) {
		if base, err = r.LoadBase(ctx, opts.BaseSource); err != nil {
			logger.Warn("base map unavailable, using background color", "source", opts.BaseSource, "error", err)
			base = nil
		}
	}
	for _, format := range opts.Formats {
		data, err := Encode(frame, format, base, opts.Legend)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", format, err)
		}
		result.Artifacts[format] = data
		if result.CacheInfo.TerrainFallback {
			continue
		}
		_ = r.Cache.Set(ctx, r.Keyer.RenderKey(hash, opts.RenderKeyOpts(format)), data, cache.TTLRender)
	}
	result.Stats.EncodeTime = time.Since(start)
	return result, nil
}

// RenderConfig builds the renderer configuration for l with the run's
// worker count.
func (r *Runner) RenderConfig(l *logic.Logic, opts Options) render.Config {
	cfg := render.ConfigFromLogic(l)
	cfg.Workers = opts.Workers
	return cfg
}

func (r *Runner) cachedArtifacts(ctx context.Context, hash string, opts *Options, out map[string][]byte) bool {
	for _, format := range opts.Formats {
		data, hit, err := r.Cache.Get(ctx, r.Keyer.RenderKey(hash, opts.RenderKeyOpts(format)))
		if err != nil || !hit {
			clear(out)
			return false
		}
		out[format] = data
	}
	return true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
