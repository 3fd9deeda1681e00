package logic

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/areamap/pkg/area"
	"github.com/matzehuels/areamap/pkg/errors"
)

// Supported logic file formats.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
)

// Load reads, parses, defaults and validates a logic file. The format is
// chosen by extension (.json or .toml).
func Load(path string) (*Logic, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "logic file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read logic file %s", path)
	}
	return Parse(data, format)
}

// FormatFor returns the logic format implied by a file extension.
func FormatFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported logic file %q (want .json or .toml)", path)
	}
}

// Parse decodes data in the given format, applies defaults and validates.
func Parse(data []byte, format string) (*Logic, error) {
	var l Logic
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&l); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse logic json")
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &l); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse logic toml")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported logic format %q", format)
	}
	l.SetDefaults()
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Validate reports the first configuration problem as INVALID_CONFIG (or the
// more specific area error).
func (l *Logic) Validate() error {
	if len(l.Areas) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "logic defines no areas")
	}
	seen := make(map[string]bool, len(l.Areas))
	for _, a := range l.Areas {
		if err := a.Validate(); err != nil {
			return err
		}
		if seen[a.ID] {
			return errors.New(errors.ErrCodeInvalidConfig, "duplicate area id %q", a.ID)
		}
		seen[a.ID] = true
	}
	for k, v := range l.OpacityByRank {
		if rank, err := strconv.Atoi(k); err != nil || rank < 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "opacityByRank key %q is not a rank", k)
		}
		if v < 0 || v > 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "opacityByRank[%s] = %v, want [0,1]", k, v)
		}
	}
	if r := l.GrowthRadius(); r < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "baseGrowthRadius must be >= 0, got %v", r)
	}
	if l.GrowthMultiplier <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "growthMultiplier must be > 0, got %v", l.GrowthMultiplier)
	}
	if l.Turns < 0 || l.OverlayAnimationMaxMs < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "turns and overlayAnimationMaxMs must be >= 0")
	}
	return l.Engine.Validate()
}

// Validate checks engine tunables after defaults have been applied.
func (e Engine) Validate() error {
	if e.CanvasWidth < 0 || e.CanvasHeight < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas size must be positive, got %dx%d", e.CanvasWidth, e.CanvasHeight)
	}
	if p := e.CorridorProbability(); p < 0 || p > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "engine.corridorChance = %v, want [0,1]", p)
	}
	if j := e.JitterAmplitude(); j < 0 || j > MaxJitter {
		return errors.New(errors.ErrCodeInvalidConfig, "engine.jitter = %v, want [0,%v]", j, MaxJitter)
	}
	if e.RiverWidth > 0 && e.MountainWidth > 0 && e.RiverWidth > e.MountainWidth {
		return errors.New(errors.ErrCodeInvalidConfig, "engine.riverWidth %v exceeds mountainWidth %v", e.RiverWidth, e.MountainWidth)
	}
	if e.ProbeDistance < 0 || e.CorridorWidth < 0 || e.Boost() < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "engine distances and boosts must be >= 0")
	}
	return nil
}

// AreaIDs returns the area ids in file order.
func (l *Logic) AreaIDs() []string {
	ids := make([]string, len(l.Areas))
	for i, a := range l.Areas {
		ids[i] = a.ID
	}
	return ids
}

// InitialAreas returns a copy of the configured areas.
func (l *Logic) InitialAreas() []area.Area {
	return area.Clone(l.Areas)
}
