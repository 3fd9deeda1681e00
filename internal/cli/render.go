package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/areamap/pkg/area"
	"github.com/matzehuels/areamap/pkg/errors"
	"github.com/matzehuels/areamap/pkg/logic"
	"github.com/matzehuels/areamap/pkg/pipeline"
	"github.com/matzehuels/areamap/pkg/session"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string
	formats   string
	progress  float64
	sessionID string
	cache     cacheFlags
}

// renderCommand creates the render command for one map frame.
func (c *CLI) renderCommand() *cobra.Command {
	var ro renderOpts
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [logic]",
		Short: "Render a territory map",
		Long: `Render a territory map from a logic file.

Each area grows from its seed over the land mask and claims the pixels
where it is strongest. Output formats:

  png      overlay composited over the base map (or a plain background)
  overlay  transparent overlay only
  json     per-area standings and claimed pixel counts

Areas start from the logic file. Pass --session to render a saved game
from 'play --save'. Results are cached locally for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeLogicFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(ro.formats)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if cmd.Flags().Changed("progress") {
				opts.Progress = &ro.progress
			}
			return c.runRender(cmd.Context(), args[0], opts, ro)
		},
	}

	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&ro.formats, "format", "f", "", "output format(s): png (default), overlay, json (comma-separated)")
	cmd.Flags().StringVar(&opts.MaskSource, "mask", "", "land mask path or URL (default: all land)")
	cmd.Flags().StringVar(&opts.BaseSource, "base", "", "base map path or URL drawn under png output")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "canvas width (default: logic file)")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "canvas height (default: logic file)")
	cmd.Flags().Float64Var(&ro.progress, "progress", 1, "animation progress in [0, 1]")
	cmd.Flags().StringVar(&opts.Highlight, "highlight", "", "area to draw at boosted opacity")
	cmd.Flags().Int64Var(&opts.TurnSeed, "seed", 0, "turn seed for tie-breaks and corridors")
	cmd.Flags().BoolVar(&opts.Legend, "legend", false, "draw a legend on png output")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "growth workers (default: GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached artifacts")
	cmd.Flags().StringVar(&ro.sessionID, "session", "", "render the areas of a saved game")
	ro.cache.register(cmd)
	registerCompletions(cmd, completeFormats, "format")
	registerCompletions(cmd, completeAreaIDs, "highlight")
	registerCompletions(cmd, completeImage, "mask", "base", "output")
	registerCompletions(cmd, completeSessions, "session")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, ro renderOpts) error {
	prog := newProgress(c.Logger)
	l, err := logic.Load(input)
	if err != nil {
		return err
	}
	areas, seed, err := areasFor(ctx, l, ro.sessionID)
	if err != nil {
		return err
	}
	if ro.sessionID != "" && opts.TurnSeed == 0 {
		opts.TurnSeed = seed
	}

	runner, err := c.newRunner(ctx, ro.cache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	prog.step("inputs", "areas", len(areas))
	spinner := newRenderSpinner(ctx, os.Stderr, fmt.Sprintf("Rendering %d areas...", len(areas)))
	spinner.Start()

	result, err := runner.Execute(ctx, l, areas, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()
	prog.step("pipeline", "cached", result.CacheInfo.RenderHit, "fallback", result.CacheInfo.TerrainFallback)
	prog.done("Rendered %d regions over %d landmasses", result.Stats.Regions, result.Stats.Landmasses)

	return c.writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    ro.output,
		stats:     result.Stats,
		cacheHit:  result.CacheInfo.RenderHit,
	})
}

// areasFor returns the logic file's starting areas, or the areas and turn
// of a saved session.
func areasFor(ctx context.Context, l *logic.Logic, id string) ([]area.Area, int64, error) {
	if id == "" {
		return l.InitialAreas(), 0, nil
	}
	store, err := session.NewFileStore("")
	if err != nil {
		return nil, 0, err
	}
	sess, err := store.Get(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if sess == nil {
		return nil, 0, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	return sess.State.Areas, int64(sess.State.Turn), nil
}

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	stats     pipeline.Stats
	cacheHit  bool
}

// writeArtifacts writes each artifact to its output path and prints a
// summary.
func (c *CLI) writeArtifacts(p artifactWriteParams) error {
	base := basePath(p.output, p.input)
	var paths []string
	for _, format := range p.formats {
		path := base + extension(format)
		if len(p.formats) == 1 && p.output != "" {
			path = p.output
		}
		if err := os.WriteFile(path, p.artifacts[format], 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		c.Logger.Debug("wrote artifact", "format", format, "path", path, "bytes", len(p.artifacts[format]))
		paths = append(paths, path)
	}

	printSuccess("Rendered map")
	printStats(p.stats.Regions, p.stats.Landmasses, p.cacheHit)
	for _, path := range paths {
		printFile(path)
	}
	return nil
}

// extension returns the file suffix for an output format.
func extension(format string) string {
	switch format {
	case pipeline.FormatOverlay:
		return ".overlay.png"
	case pipeline.FormatJSON:
		return ".json"
	default:
		return ".png"
	}
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a known extension, it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	output = strings.TrimSuffix(output, ".overlay.png")
	switch filepath.Ext(output) {
	case ".png", ".json":
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}
