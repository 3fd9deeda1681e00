package pipeline

import (
	"bytes"
	"context"
	"image"
	"os"
	"time"

	"github.com/matzehuels/areamap/pkg/cache"
	"github.com/matzehuels/areamap/pkg/errors"
	"github.com/matzehuels/areamap/pkg/observability"
	"github.com/matzehuels/areamap/pkg/terrain"
)

// LoadTerrain returns the landmass index for source at width x height.
// An empty source yields an all-land map. A source that cannot be read or
// decoded is logged and also replaced by all land, so rendering continues
// without barriers. The bool reports whether the index was memoized.
func (r *Runner) LoadTerrain(ctx context.Context, source string, width, height, majorSize int) (*terrain.Index, bool) {
	idx, hit, _ := r.loadTerrain(ctx, source, width, height, majorSize)
	return idx, hit
}

// loadTerrain is LoadTerrain that also returns the mask error behind an
// all-land fallback. Callers must not persist anything derived from a
// fallback index.
func (r *Runner) loadTerrain(ctx context.Context, source string, width, height, majorSize int) (*terrain.Index, bool, error) {
	key := r.Keyer.TerrainKey(source, cache.TerrainKeyOpts{Width: width, Height: height})

	r.mu.Lock()
	idx, ok := r.terrain[key]
	r.mu.Unlock()
	if ok && idx.MajorSize() == majorSizeOrDefault(majorSize) {
		return idx, true, nil
	}

	start := time.Now()
	mask, err := r.LoadMask(ctx, source, width, height)
	if err != nil {
		r.Logger.Warn("land mask unavailable, treating canvas as land", "source", source, "error", err)
		mask = terrain.AllLand(width, height)
	}
	idx = terrain.NewIndex(mask, majorSize)
	observability.Render().OnMaskLoad(ctx, source, len(idx.Landmasses()), time.Since(start), err)
	r.Logger.Debug("labelled terrain",
		"source", source,
		"landmasses", len(idx.Landmasses()),
		"major", len(idx.Major()),
		"duration", time.Since(start))

	// Fallback masks are not memoized so a later call can retry the source.
	if err == nil {
		r.mu.Lock()
		r.terrain[key] = idx
		r.mu.Unlock()
	}
	return idx, false, err
}

// LoadMask reads and scales the land mask at source. An empty source is all
// land. Unlike LoadTerrain it reports read and decode errors.
func (r *Runner) LoadMask(ctx context.Context, source string, width, height int) (*terrain.Mask, error) {
	if source == "" {
		return terrain.AllLand(width, height), nil
	}
	data, err := r.readSource(ctx, source)
	if err != nil {
		return nil, err
	}
	return terrain.LoadMask(bytes.NewReader(data), width, height)
}

// LoadBase decodes the base map drawn under png output. An empty source
// returns nil, which selects render.DefaultBackground.
func (r *Runner) LoadBase(ctx context.Context, source string) (image.Image, error) {
	if source == "" {
		return nil, nil
	}
	r.mu.Lock()
	img, ok := r.bases[source]
	r.mu.Unlock()
	if ok {
		return img, nil
	}

	data, err := r.readSource(ctx, source)
	if err != nil {
		return nil, err
	}
	img, _, err = image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode base map %s", source)
	}
	r.mu.Lock()
	r.bases[source] = img
	r.mu.Unlock()
	return img, nil
}

func (r *Runner) readSource(ctx context.Context, source string) ([]byte, error) {
	if err := errors.ValidateSource(source); err != nil {
		return nil, err
	}
	if errors.IsURL(source) {
		return r.Fetcher.Fetch(ctx, source)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", source)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", source)
	}
	return data, nil
}

func majorSizeOrDefault(n int) int {
	if n <= 0 {
		return terrain.DefaultMajorSize
	}
	return n
}
