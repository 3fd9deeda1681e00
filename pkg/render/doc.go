// Package render paints area ownership onto the map canvas.
//
// # Overview
//
// A [Renderer] owns the terrain for one map. Each call to [Renderer.Render]
// ranks the areas by power, grows every overlay with the [growth] engine,
// arbitrates contested pixels with the [arbiter], and returns a [Frame]: an
// RGBA overlay plus the pixel to area table used for hit testing.
//
//	r := render.NewRenderer(idx, render.ConfigFromLogic(l))
//	frame, err := r.Render(ctx, areas, render.Params{Progress: 1, TurnSeed: 3})
//	if err != nil {
//	    return err
//	}
//	id, ok := r.RegionAt(412, 230)
//
// Frames are rebuilt from scratch on every call. The renderer keeps the
// most recently started render that completed and answers [Renderer.RegionAt]
// from it, so an animation driver can call Render once per frame and the
// last call wins.
//
// # Parallelism
//
// Overlays are grown concurrently, one goroutine per area. The pixel loop
// is split into row bands; each band has its own tie-break random source,
// and tie-break seeds depend only on the pixel and the turn seed, so the
// output does not depend on the number of workers.
//
// # Compositing
//
// [Composite] draws an overlay over the base map (or a flat background when
// no base map is available), and [DrawLegend] adds a ranked key.
//
// [growth]: github.com/matzehuels/areamap/pkg/growth
// [arbiter]: github.com/matzehuels/areamap/pkg/arbiter
package render
