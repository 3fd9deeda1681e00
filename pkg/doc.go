// Package pkg provides the core libraries for Areamap territory maps.
//
// # Overview
//
// Areamap paints the territories of competing areas onto a map. Every area
// grows outward from a seed over land; rivers and mountains slow or stop
// it depending on its stats, and where several areas reach the same pixel
// the strongest one owns it. The pkg directory is organized into three
// main areas:
//
//  1. Domain logic (terrain, growth, ownership, turns)
//  2. Infrastructure (caching, sessions, HTTP fetching, hooks)
//  3. Orchestration ([pipeline]: terrain → render → encode)
//
// # Architecture
//
// The typical data flow through Areamap:
//
//	Logic file + land mask
//	         ↓
//	    [terrain] package (binarize, label landmasses, classify barriers)
//	         ↓
//	    [growth] package (one overlay per area)
//	         ↓
//	    [arbiter] package (rank, opacity, per-pixel ownership)
//	         ↓
//	    [render] package (frame, hit tests, composite)
//	         ↓
//	    PNG / overlay / JSON output
//
// # Quick Start
//
// Render one frame:
//
//	l, _ := logic.Load("logic.json")
//	f, _ := os.Open("land-mask.png")
//	mask, _ := terrain.LoadMask(f, l.Engine.CanvasWidth, l.Engine.CanvasHeight)
//	idx := terrain.NewIndex(mask, l.Engine.MajorLandmassSize)
//
//	r := render.NewRenderer(idx, render.ConfigFromLogic(l))
//	frame, _ := r.Render(ctx, l.InitialAreas(), render.Params{Progress: 1})
//	id, ok := r.RegionAt(120, 80)
//
// # Main Packages
//
// ## Domain Logic
//
// [area] - Competing regions: normalized seed, power, acc and color.
//
// [logic] - The logic file (JSON or TOML): areas, opacity table, barrier
// thresholds, growth constants and engine tunables.
//
// [terrain] - Land masks, 4-connected landmass labelling, nearest major
// landmass lookup and barrier classification.
//
// [growth] - Best-first flood fill bounded by a radius that scales with
// acc and animation progress. Handles barrier crossing, coastal corridors
// and clone seeding onto another landmass.
//
// [arbiter] - Rank-based opacity and the per-pixel ownership rule with a
// deterministic tie-break.
//
// [render] - Concurrent growth and paint into a frame, hit testing and
// compositing over a base map.
//
// [turn] - Round deltas, the player's choice bonus, history snapshots and
// the phase sequence.
//
// [rng] - Seeded and coordinate-keyed pseudo-random numbers.
//
// ## Infrastructure
//
// [pipeline] - The terrain → render → encode pipeline shared by the CLI
// and the server. Ensures consistent behavior across all entry points.
//
// [cache] - File, Redis and null caches with namespaced keys.
//
// [session] - Game sessions with memory, file and Redis backends.
//
// [httputil] - Cached, retrying fetches of remote masks and base maps.
//
// [observability] - Render, cache and HTTP hooks; no-ops by default.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/growth/...             # Specific package
//	go test -run Example                 # Examples only
//
// [area]: https://pkg.go.dev/github.com/matzehuels/areamap/pkg/area
// [logic]: https://pkg.go.dev/github.com/matzehuels/areamap/pkg/logic
// [terrain]: https://pkg.go.dev/github.com/matzehuels/areamap/pkg/terrain
// [growth]: https://pkg.go.dev/github.com/matzehuels/areamap/pkg/growth
// [arbiter]: https://pkg.go.dev/github.com/matzehuels/areamap/pkg/arbiter
// [render]: https://pkg.go.dev/github.com/matzehuels/areamap/pkg/render
// [turn]: https://pkg.go.dev/github.com/matzehuels/areamap/pkg/turn
// [rng]: https://pkg.go.dev/github.com/matzehuels/areamap/pkg/rng
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/areamap/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/areamap/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/areamap/pkg/session
// [httputil]: https://pkg.go.dev/github.com/matzehuels/areamap/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/areamap/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/areamap/pkg/errors
package pkg
