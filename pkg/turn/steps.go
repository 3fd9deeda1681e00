package turn

import (
	"encoding/json"
	"os"

	"github.com/matzehuels/areamap/pkg/errors"
)

// ZoneDelta is the stat change applied to one area at the start of a round.
type ZoneDelta struct {
	PowerDelta float64 `json:"powerDelta"`
	AccDelta   float64 `json:"accDelta"`
}

// StepConfig lists the zone deltas for one step, in area order.
type StepConfig struct {
	Step  int         `json:"step"`
	Zones []ZoneDelta `json:"zones"`
}

// Steps is the parsed steps-config.json.
type Steps struct {
	Steps []StepConfig `json:"steps"`
}

// LoadSteps reads a steps configuration file.
func LoadSteps(path string) (*Steps, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "steps file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read steps file %s", path)
	}
	return ParseSteps(data)
}

// ParseSteps decodes a steps configuration.
func ParseSteps(data []byte) (*Steps, error) {
	var s Steps
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse steps config")
	}
	return &s, nil
}

// Deltas returns the zone deltas for step: the matching step entry, else
// the last configured entry, else deterministic pseudo-random deltas for
// zones areas. A nil receiver behaves like an empty configuration.
func (s *Steps) Deltas(step, zones int) []ZoneDelta {
	if s != nil {
		for _, c := range s.Steps {
			if c.Step == step {
				return c.Zones
			}
		}
		if n := len(s.Steps); n > 0 {
			return s.Steps[n-1].Zones
		}
	}
	out := make([]ZoneDelta, zones)
	for i := range out {
		out[i] = RandomDelta(step, i)
	}
	return out
}

// RandomDelta derives a reproducible delta for a step and zone index:
// power in [-0.8, 0.8) and acc in [0.1, 1.0).
func RandomDelta(step, zone int) ZoneDelta {
	seed := ((step*1000+zone*100)%10000 + 10000) % 10000
	return ZoneDelta{
		PowerDelta: lcg(seed)*1.6 - 0.8,
		AccDelta:   lcg(seed+1)*0.9 + 0.1,
	}
}

// lcg runs two rounds of the classic 9301/49297/233280 generator and
// normalizes the result to [0, 1).
func lcg(seed int) float64 {
	const a, c, m = 9301, 49297, 233280
	r := (seed*a + c) % m
	r = (r*a + c) % m
	return float64(r) / m
}
