package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/areamap/pkg/logic"
	"github.com/matzehuels/areamap/pkg/terrain"
)

type inspectOpts struct {
	width, height int
	major         int
	limit         int
	json          bool
}

// landmassInfo is the JSON row of the inspect command.
type landmassInfo struct {
	ID       int             `json:"id"`
	Size     int             `json:"size"`
	Major    bool            `json:"major"`
	Centroid terrain.Point   `json:"centroid"`
	Bounds   image.Rectangle `json:"bounds"`
}

// inspectCommand lists the landmasses of a land mask.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := inspectOpts{
		width:  logic.DefaultCanvasWidth,
		height: logic.DefaultCanvasHeight,
		major:  terrain.DefaultMajorSize,
		limit:  20,
	}

	cmd := &cobra.Command{
		Use:   "inspect [mask]",
		Short: "List the landmasses of a land mask",
		Long: `List the landmasses of a land mask, largest first.

The mask is scaled to the canvas before labelling, so sizes are canvas
pixels. Landmasses larger than --major are clone targets.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeImage,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.width, "width", opts.width, "canvas width")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "canvas height")
	cmd.Flags().IntVar(&opts.major, "major", opts.major, "pixel count a landmass must exceed to be major")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", opts.limit, "rows to show (0 for all)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON instead of a table")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, source string, opts inspectOpts) error {
	runner, err := c.newRunner(ctx, cacheFlags{})
	if err != nil {
		return err
	}
	defer runner.Close()

	mask, err := runner.LoadMask(ctx, source, opts.width, opts.height)
	if err != nil {
		return err
	}
	idx := terrain.NewIndex(mask, opts.major)
	infos := landmassInfos(idx)

	if opts.json {
		enc := json.NewEncoder(c.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	shown := infos
	if opts.limit > 0 && len(shown) > opts.limit {
		shown = shown[:opts.limit]
	}
	rows := make([][]string, 0, len(shown))
	for _, info := range shown {
		major := ""
		if info.Major {
			major = iconSuccess
		}
		rows = append(rows, []string{
			strconv.Itoa(info.ID),
			strconv.Itoa(info.Size),
			major,
			fmt.Sprintf("%.0f,%.0f", info.Centroid.X, info.Centroid.Y),
			fmt.Sprintf("%d,%d-%d,%d", info.Bounds.Min.X, info.Bounds.Min.Y, info.Bounds.Max.X, info.Bounds.Max.Y),
		})
	}

	printKeyValue("Canvas", fmt.Sprintf("%dx%d", mask.Width(), mask.Height()))
	printKeyValue("Land", fmt.Sprintf("%d px (%.1f%%)", mask.LandCount(), 100*float64(mask.LandCount())/float64(mask.Width()*mask.Height())))
	printKeyValue("Landmasses", fmt.Sprintf("%d (%d major)", len(infos), len(idx.Major())))
	fmt.Fprintln(c.Out, newTable([]string{"ID", "Size", "Major", "Centroid", "Bounds"}, rows, true).Render())
	if len(shown) < len(infos) {
		printDetail("%d more not shown", len(infos)-len(shown))
	}
	return nil
}

// landmassInfos returns every landmass, largest first.
func landmassInfos(idx *terrain.Index) []landmassInfo {
	infos := make([]landmassInfo, 0, len(idx.Landmasses()))
	for _, lm := range idx.Landmasses() {
		infos = append(infos, landmassInfo{
			ID:       lm.ID,
			Size:     lm.Size,
			Major:    idx.IsMajor(lm),
			Centroid: lm.Centroid,
			Bounds:   lm.Bounds,
		})
	}
	sort.SliceStable(infos, func(i, j int) bool { return infos[i].Size > infos[j].Size })
	return infos
}
