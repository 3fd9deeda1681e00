package turn

import (
	"github.com/matzehuels/areamap/pkg/area"
)

// Phase is a stage of a turn or of the finished game.
type Phase string

const (
	PhaseIntro       Phase = "phase1"
	PhaseChoice      Phase = "phase2"
	PhaseOutcome     Phase = "phase3"
	PhaseComplete    Phase = "complete"
	PhaseFinalMap    Phase = "finalMap"
	PhaseFinalEnding Phase = "finalEnding"
)

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	switch p {
	case PhaseIntro, PhaseChoice, PhaseOutcome, PhaseComplete, PhaseFinalMap, PhaseFinalEnding:
		return true
	}
	return false
}

// Finished reports whether p comes after the last turn.
func (p Phase) Finished() bool {
	return p == PhaseComplete || p == PhaseFinalMap || p == PhaseFinalEnding
}

// AreaSnapshot records one area's stats at the end of a round.
type AreaSnapshot struct {
	AreaID     string  `json:"areaId"`
	Acc        float64 `json:"acc"`
	Power      float64 `json:"power"`
	Population float64 `json:"populationValue"`
}

// RoundSnapshot records every area at the end of a round. Round 0 is the
// starting position.
type RoundSnapshot struct {
	Round int            `json:"round"`
	Areas []AreaSnapshot `json:"areas"`
}

// State is the serializable game state.
type State struct {
	Turn          int             `json:"currentTurn"`
	Phase         Phase           `json:"currentPhase"`
	Areas         []area.Area     `json:"areas"`
	Completed     []int           `json:"completedSteps"`
	Selected      string          `json:"selectedArea,omitempty"`
	Highlighted   string          `json:"highlightedArea,omitempty"`
	History       []RoundSnapshot `json:"areaHistory"`
	ChoiceCounts  map[string]int  `json:"choiceCounts"`
	DeltasApplied []int           `json:"deltasApplied,omitempty"`
}

func (s *State) deltasApplied(round int) bool {
	for _, r := range s.DeltasApplied {
		if r == round {
			return true
		}
	}
	return false
}

func (s *State) completed(round int) bool {
	for _, r := range s.Completed {
		if r == round {
			return true
		}
	}
	return false
}
