package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/matzehuels/areamap/internal/server"
	"github.com/matzehuels/areamap/pkg/cache"
	"github.com/matzehuels/areamap/pkg/session"
)

type serveOpts struct {
	addr  string
	steps string
	cfg   server.Config
	cache cacheFlags
}

// serveCommand starts the HTTP game server.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr: ":8080",
		cfg: server.Config{
			Legend:        true,
			SessionTTL:    session.DefaultTTL,
			RenderTimeout: 30 * time.Second,
		},
	}

	cmd := &cobra.Command{
		Use:   "serve [logic]",
		Short: "Serve games over HTTP",
		Long: `Serve games over HTTP.

Clients create a session, play its turns and fetch map frames for any
animation progress. Sessions are kept in memory, or in Redis with --redis
so several instances can share them along with the artifact cache.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeLogicFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.steps, "steps", "", "steps file with per-round deltas (default: generated)")
	cmd.Flags().StringVar(&opts.cfg.MaskSource, "mask", "", "land mask path or URL (default: all land)")
	cmd.Flags().StringVar(&opts.cfg.BaseSource, "base", "", "base map path or URL")
	cmd.Flags().BoolVar(&opts.cfg.Legend, "legend", opts.cfg.Legend, "draw a legend on maps")
	cmd.Flags().IntVar(&opts.cfg.Workers, "workers", 0, "growth workers per render (default: GOMAXPROCS)")
	cmd.Flags().DurationVar(&opts.cfg.SessionTTL, "session-ttl", opts.cfg.SessionTTL, "idle session lifetime")
	cmd.Flags().DurationVar(&opts.cfg.RenderTimeout, "render-timeout", opts.cfg.RenderTimeout, "limit for one map request")
	opts.cache.register(cmd)
	registerCompletions(cmd, completeImage, "mask", "base")
	registerCompletions(cmd, completeLogicFile, "steps")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, input string, opts serveOpts) error {
	l, steps, err := loadInputs(input, opts.steps)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	store, err := newSessionStore(opts.cache.redis)
	if err != nil {
		return err
	}
	defer store.Close()

	// Warm the terrain memo so the first map request does not pay for it.
	idx, _ := runner.LoadTerrain(ctx, opts.cfg.MaskSource, l.Engine.CanvasWidth, l.Engine.CanvasHeight, l.Engine.MajorLandmassSize)
	c.Logger.Info("terrain ready", "landmasses", len(idx.Landmasses()), "major", len(idx.Major()))

	srv := server.New(opts.cfg, l, steps, runner, store, c.Logger)
	printInfo("Listening on %s", StyleLink.Render("http://"+displayAddr(opts.addr)))
	return srv.ListenAndServe(ctx, opts.addr)
}

// newSessionStore returns a Redis store when redisURL is set and an
// in-memory store otherwise.
func newSessionStore(redisURL string) (session.Store, error) {
	if redisURL == "" {
		return session.NewMemoryStore(), nil
	}
	ropts, err := cache.RedisConfig{URL: redisURL}.Options()
	if err != nil {
		return nil, err
	}
	return session.NewRedisStore(redis.NewClient(ropts), ""), nil
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
