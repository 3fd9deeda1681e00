package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/areamap/pkg/errors"
	"github.com/matzehuels/areamap/pkg/logic"
	"github.com/matzehuels/areamap/pkg/pipeline"
	"github.com/matzehuels/areamap/pkg/render"
)

type probeOpts struct {
	display   string
	sessionID string
	progress  float64
}

// probeCommand answers which area owns a map position.
func (c *CLI) probeCommand() *cobra.Command {
	var po probeOpts
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "probe [logic] [x] [y]",
		Short: "Report the area owning a map position",
		Long: `Render the map and report the area owning pixel (x, y).

Coordinates are canvas pixels. With --display WxH they are positions on a
display surface of that size and are scaled to the canvas first.`,
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: completeLogicFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			px, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "x must be a number: %q", args[1])
			}
			py, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "y must be a number: %q", args[2])
			}
			if cmd.Flags().Changed("progress") {
				opts.Progress = &po.progress
			}
			return c.runProbe(cmd.Context(), args[0], px, py, opts, po)
		},
	}

	cmd.Flags().StringVar(&opts.MaskSource, "mask", "", "land mask path or URL (default: all land)")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "canvas width (default: logic file)")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "canvas height (default: logic file)")
	cmd.Flags().Float64Var(&po.progress, "progress", 1, "animation progress in [0, 1]")
	cmd.Flags().Int64Var(&opts.TurnSeed, "seed", 0, "turn seed for tie-breaks and corridors")
	cmd.Flags().StringVar(&po.display, "display", "", "display size WxH the coordinates refer to")
	cmd.Flags().StringVar(&po.sessionID, "session", "", "probe the areas of a saved game")
	registerCompletions(cmd, completeImage, "mask")
	registerCompletions(cmd, completeSessions, "session")

	return cmd
}

func (c *CLI) runProbe(ctx context.Context, input string, px, py float64, opts pipeline.Options, po probeOpts) error {
	l, err := logic.Load(input)
	if err != nil {
		return err
	}
	if err := opts.ValidateAndSetDefaults(l); err != nil {
		return err
	}
	areas, seed, err := areasFor(ctx, l, po.sessionID)
	if err != nil {
		return err
	}
	if po.sessionID != "" && opts.TurnSeed == 0 {
		opts.TurnSeed = seed
	}

	x, y, ok := int(px), int(py), true
	if po.display != "" {
		dw, dh, err := parseSize(po.display)
		if err != nil {
			return err
		}
		x, y, ok = render.ScreenToCanvas(px, py, dw, dh, opts.Width, opts.Height)
	}
	if !ok || x < 0 || y < 0 || x >= opts.Width || y >= opts.Height {
		return errors.New(errors.ErrCodeInvalidInput, "position (%d, %d) is outside the %dx%d canvas", x, y, opts.Width, opts.Height)
	}

	runner, err := c.newRunner(ctx, cacheFlags{noCache: true})
	if err != nil {
		return err
	}
	defer runner.Close()

	idx, _ := runner.LoadTerrain(ctx, opts.MaskSource, opts.Width, opts.Height, l.Engine.MajorLandmassSize)
	renderer := render.NewRenderer(idx, runner.RenderConfig(l, opts))
	if _, err := renderer.Render(ctx, areas, opts.Params()); err != nil {
		return err
	}

	id, owned := renderer.RegionAt(x, y)
	printKeyValue("Pixel", fmt.Sprintf("%d,%d", x, y))
	if !idx.Mask().IsLand(x, y) {
		printKeyValue("Terrain", "water")
	} else if lm := idx.LandmassAt(x, y); lm != nil {
		printKeyValue("Landmass", fmt.Sprintf("#%d (%d px)", lm.ID, lm.Size))
	}
	if !owned {
		printKeyValue("Region", StyleDim.Render("none"))
		return nil
	}
	printKeyValue("Region", StyleHighlight.Render(id))
	return nil
}

// parseSize parses "WxH" into positive floats.
func parseSize(s string) (w, h float64, err error) {
	ws, hs, found := strings.Cut(strings.ToLower(s), "x")
	if found {
		w, err = strconv.ParseFloat(ws, 64)
		if err == nil {
			h, err = strconv.ParseFloat(hs, 64)
		}
	}
	if !found || err != nil || w <= 0 || h <= 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "invalid size %q (want WxH)", s)
	}
	return w, h, nil
}
