package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/areamap/pkg/area"
	"github.com/matzehuels/areamap/pkg/errors"
	"github.com/matzehuels/areamap/pkg/logic"
	"github.com/matzehuels/areamap/pkg/pipeline"
	"github.com/matzehuels/areamap/pkg/session"
	"github.com/matzehuels/areamap/pkg/turn"
)

type playOpts struct {
	steps       string
	choose      string
	interactive bool
	save        bool
	resume      string
	sessionDir  string
	render      string
	mask        string
	base        string
	cache       cacheFlags
}

// playCommand runs a game through its turns.
func (c *CLI) playCommand() *cobra.Command {
	var opts playOpts

	cmd := &cobra.Command{
		Use:   "play [logic]",
		Short: "Play a game through its turns",
		Long: `Play a game through its turns.

Each turn applies the round's stat deltas to every area and a bonus to
the chosen one. Choices come from --choose, one area id per turn, or from
an interactive picker with --interactive. The game stops when the choices
run out or the last turn is played.

With --save the game is stored and can be continued with --resume or
rendered with 'render --session'.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeLogicFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlay(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.steps, "steps", "", "steps file with per-round deltas (default: generated)")
	cmd.Flags().StringVarP(&opts.choose, "choose", "c", "", "area ids to choose, one per turn (comma-separated)")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick each turn's area interactively")
	cmd.Flags().BoolVar(&opts.save, "save", false, "store the game for later turns or renders")
	cmd.Flags().StringVar(&opts.resume, "resume", "", "continue a saved game")
	cmd.Flags().StringVar(&opts.sessionDir, "session-dir", "", "directory for saved games (default: ~/.config/areamap/sessions)")
	cmd.Flags().StringVar(&opts.render, "render", "", "write the final map to this png file")
	cmd.Flags().StringVar(&opts.mask, "mask", "", "land mask for --render")
	cmd.Flags().StringVar(&opts.base, "base", "", "base map for --render")
	opts.cache.register(cmd)
	registerCompletions(cmd, completeAreaIDs, "choose")
	registerCompletions(cmd, completeImage, "mask", "base", "render")
	registerCompletions(cmd, completeLogicFile, "steps")
	registerCompletions(cmd, completeSessions, "resume")

	return cmd
}

func (c *CLI) runPlay(ctx context.Context, input string, opts playOpts) error {
	l, steps, err := loadInputs(input, opts.steps)
	if err != nil {
		return err
	}
	rules := turn.RulesFromLogic(l, steps)

	var (
		store session.Store
		sess  *session.Session
	)
	if opts.save || opts.resume != "" {
		fs, err := session.NewFileStore(opts.sessionDir)
		if err != nil {
			return err
		}
		store = fs
		defer store.Close()
	}

	game := turn.New(rules)
	if opts.resume != "" {
		if sess, err = store.Get(ctx, opts.resume); err != nil {
			return err
		}
		if sess == nil {
			return errors.New(errors.ErrCodeSessionNotFound, "session %s not found", opts.resume)
		}
		game = turn.Resume(rules, sess.State)
		c.Logger.Info("resumed game", "session", sess.ID, "turn", sess.State.Turn)
	}

	played, err := c.playTurns(ctx, game, parseIDs(opts.choose), opts.interactive)
	if err != nil {
		return err
	}

	state := game.State()
	printSuccess("Played %d turns", played)
	if state.Phase.Finished() {
		printDetail("Game complete")
	} else {
		printDetail("Next turn: %d of %d", state.Turn, rules.MaxTurns)
	}
	fmt.Fprintln(c.Out, standingsTable(state).Render())
	fmt.Fprintln(c.Out, historyTable(state).Render())

	if store != nil {
		if sess == nil {
			sess = session.New(state, session.DefaultTTL)
		} else {
			sess.State = state
			sess.Touch(session.DefaultTTL)
		}
		if err := store.Set(ctx, sess); err != nil {
			return err
		}
		printKeyValue("Session", sess.ID)
	}

	if opts.render != "" {
		if err := c.renderGame(ctx, l, game, opts); err != nil {
			return err
		}
	}
	if sess != nil && !state.Phase.Finished() {
		printNextStep("Continue", fmt.Sprintf("%s play %s --resume %s", appName, input, sess.ID))
	}
	return nil
}

// playTurns plays one turn per choice, then asks the picker while
// interactive. It stops early when the game completes or the picker is
// dismissed.
func (c *CLI) playTurns(ctx context.Context, game *turn.Game, choices []string, interactive bool) (int, error) {
	logger := loggerFromContext(ctx)
	played := 0
	for !game.State().Phase.Finished() {
		if err := ctx.Err(); err != nil {
			return played, err
		}
		var id string
		switch {
		case played < len(choices):
			id = choices[played]
		case interactive:
			picked, err := pickArea(game.State())
			if err != nil {
				return played, err
			}
			if picked == "" {
				return played, nil
			}
			id = picked
		default:
			return played, nil
		}

		if err := game.Select(id); err != nil {
			return played, err
		}
		logger.Debug("turn played", "turn", game.State().Turn, "choice", id)
		game.Next()
		played++
	}
	if played < len(choices) {
		logger.Warn("game complete, ignoring remaining choices", "ignored", len(choices)-played)
	}
	return played, nil
}

// renderGame writes the current map of game to opts.render.
func (c *CLI) renderGame(ctx context.Context, l *logic.Logic, game *turn.Game, opts playOpts) error {
	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, l, game.Areas(), pipeline.Options{
		MaskSource: opts.mask,
		BaseSource: opts.base,
		TurnSeed:   game.TurnSeed(),
		Formats:    []string{pipeline.FormatPNG},
		Legend:     true,
		Logger:     loggerFromContext(ctx),
	})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := os.WriteFile(opts.render, result.Artifacts[pipeline.FormatPNG], 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", opts.render)
	}
	printFile(opts.render)
	return nil
}

// rankedAreas returns a copy of areas sorted by power, strongest first.
func rankedAreas(areas []area.Area) []area.Area {
	ranked := area.Clone(areas)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Power > ranked[j].Power })
	return ranked
}

func standingsTable(s *turn.State) *table.Table {
	ranked := rankedAreas(s.Areas)
	rows := make([][]string, 0, len(ranked))
	for i, a := range ranked {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			a.ID,
			formatStat(a.Power),
			formatStat(a.Acc),
			strconv.Itoa(s.ChoiceCounts[a.ID]),
		})
	}
	return newTable([]string{"Rank", "Area", "Power", "Acc", "Picks"}, rows, true)
}

// historyTable shows each area's population per recorded round.
func historyTable(s *turn.State) *table.Table {
	headers := []string{"Round"}
	for _, a := range s.Areas {
		headers = append(headers, a.ID)
	}
	rows := make([][]string, 0, len(s.History))
	for _, h := range s.History {
		row := []string{strconv.Itoa(h.Round)}
		pop := make(map[string]float64, len(h.Areas))
		for _, as := range h.Areas {
			pop[as.AreaID] = as.Population
		}
		for _, a := range s.Areas {
			row = append(row, formatStat(pop[a.ID]))
		}
		rows = append(rows, row)
	}
	return newTable(headers, rows, false)
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
