// Package turn advances the game between render passes.
//
// A [Game] applies each round's stat deltas and the player's choice bonus
// to the areas, records per-round history snapshots and walks the phase
// sequence. Rendering never mutates areas; this package is the only place
// that does.
package turn

import (
	"sort"

	"github.com/matzehuels/areamap/pkg/area"
	"github.com/matzehuels/areamap/pkg/errors"
	"github.com/matzehuels/areamap/pkg/logic"
)

const (
	// DefaultMaxTurns is the number of playable rounds.
	DefaultMaxTurns = 8

	// ChoiceBonus is added to the chosen area's power and acc.
	ChoiceBonus = 0.05
)

// Rules are the fixed inputs of a game.
type Rules struct {
	Initial     []area.Area
	Steps       *Steps
	Multipliers *logic.PopulationMultipliers
	MaxTurns    int
}

// RulesFromLogic builds rules from a logic file and optional steps.
func RulesFromLogic(l *logic.Logic, steps *Steps) Rules {
	return Rules{
		Initial:     l.InitialAreas(),
		Steps:       steps,
		Multipliers: l.PopulationMultipliers,
		MaxTurns:    l.Turns,
	}
}

// Game pairs rules with a mutable state. It is not safe for concurrent use.
type Game struct {
	rules Rules
	state *State
}

// New starts a game at turn 1 with the round-0 snapshot recorded.
func New(rules Rules) *Game {
	if rules.MaxTurns <= 0 {
		rules.MaxTurns = DefaultMaxTurns
	}
	g := &Game{rules: rules}
	g.Restart()
	return g
}

// Resume continues a game from a saved state.
func Resume(rules Rules, state *State) *Game {
	if rules.MaxTurns <= 0 {
		rules.MaxTurns = DefaultMaxTurns
	}
	if state.ChoiceCounts == nil {
		state.ChoiceCounts = make(map[string]int)
	}
	return &Game{rules: rules, state: state}
}

// State returns the live state.
func (g *Game) State() *State { return g.state }

// Areas returns the current areas. The slice is shared with the state.
func (g *Game) Areas() []area.Area { return g.state.Areas }

// TurnSeed is the tie-break seed for renders of the current turn.
func (g *Game) TurnSeed() int64 { return int64(g.state.Turn) }

// Restart resets the game to turn 1 with the initial areas.
func (g *Game) Restart() {
	areas := area.Clone(g.rules.Initial)
	counts := make(map[string]int, len(areas))
	for _, a := range areas {
		counts[a.ID] = 0
	}
	g.state = &State{
		Turn:         1,
		Phase:        PhaseIntro,
		Areas:        areas,
		Completed:    []int{},
		History:      []RoundSnapshot{g.snapshot(areas, 0)},
		ChoiceCounts: counts,
	}
}

// SetPhase moves to phase p.
func (g *Game) SetPhase(p Phase) error {
	if !p.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "unknown phase %q", p)
	}
	g.state.Phase = p
	return nil
}

// SetHighlight marks id as highlighted. An empty id clears the highlight.
func (g *Game) SetHighlight(id string) error {
	if id != "" && area.Find(g.state.Areas, id) < 0 {
		return errors.New(errors.ErrCodeInvalidRegion, "unknown area %q", id)
	}
	g.state.Highlighted = id
	return nil
}

// Select records the player's choice for the current round. The round's
// deltas are applied to every area the first time the round sees a choice;
// the chosen area then gains ChoiceBonus power and acc.
func (g *Game) Select(id string) error {
	s := g.state
	if s.Phase.Finished() {
		return errors.New(errors.ErrCodeInvalidInput, "game is complete")
	}
	chosen := area.Find(s.Areas, id)
	if chosen < 0 {
		return errors.New(errors.ErrCodeInvalidRegion, "unknown area %q", id)
	}

	if !s.deltasApplied(s.Turn) {
		deltas := g.rules.Steps.Deltas(s.Turn, len(g.rules.Initial))
		for i := range s.Areas {
			zone := area.Find(g.rules.Initial, s.Areas[i].ID)
			if zone < 0 || zone >= len(deltas) {
				continue
			}
			s.Areas[i].Power += deltas[zone].PowerDelta
			s.Areas[i].Acc += deltas[zone].AccDelta
		}
		s.DeltasApplied = append(s.DeltasApplied, s.Turn)
	}

	s.Areas[chosen].Power += ChoiceBonus
	s.Areas[chosen].Acc += ChoiceBonus
	s.ChoiceCounts[id]++
	s.Selected = id
	s.Phase = PhaseOutcome
	return nil
}

// Next closes the current round and advances. Past the last turn the game
// stays on the final turn and enters PhaseComplete. Calling Next on a
// finished game does nothing.
func (g *Game) Next() {
	s := g.state
	if s.Phase.Finished() {
		return
	}
	g.Capture()
	s.Completed = append(s.Completed, s.Turn)
	s.Selected = ""
	s.Highlighted = ""
	if s.Turn+1 > g.rules.MaxTurns {
		s.Phase = PhaseComplete
		return
	}
	s.Turn++
	s.Phase = PhaseIntro
}

// Capture records the current round's snapshot, replacing any earlier
// snapshot of the same round.
func (g *Game) Capture() {
	s := g.state
	snap := g.snapshot(s.Areas, s.Turn)
	history := s.History[:0:0]
	for _, h := range s.History {
		if h.Round != s.Turn {
			history = append(history, h)
		}
	}
	history = append(history, snap)
	sort.SliceStable(history, func(i, j int) bool { return history[i].Round < history[j].Round })
	s.History = history
}

// MarkCompleted marks the current round completed without advancing.
func (g *Game) MarkCompleted() {
	s := g.state
	if s.completed(s.Turn) {
		return
	}
	g.Capture()
	s.Completed = append(s.Completed, s.Turn)
}

func (g *Game) snapshot(areas []area.Area, round int) RoundSnapshot {
	m := g.rules.Multipliers.For(round)
	snap := RoundSnapshot{Round: round, Areas: make([]AreaSnapshot, len(areas))}
	for i, a := range areas {
		snap.Areas[i] = AreaSnapshot{
			AreaID:     a.ID,
			Acc:        a.Acc,
			Power:      a.Power,
			Population: a.Acc * a.Power * m,
		}
	}
	return snap
}
