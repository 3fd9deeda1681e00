// Package server exposes game sessions and their maps over HTTP.
//
// Each session owns a renderer, so hit tests answer from the last frame
// that session drew. Session state lives in a session.Store; renderers
// live in memory and are rebuilt on demand after a restart.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/areamap/pkg/logic"
	"github.com/matzehuels/areamap/pkg/pipeline"
	"github.com/matzehuels/areamap/pkg/render"
	"github.com/matzehuels/areamap/pkg/session"
	"github.com/matzehuels/areamap/pkg/turn"
)

// Config holds the map assets and session policy.
type Config struct {
	MaskSource string
	BaseSource string
	Legend     bool
	Workers    int
	SessionTTL time.Duration

	// RenderTimeout bounds one map request.
	RenderTimeout time.Duration
}

// Server serves the game API.
type Server struct {
	cfg    Config
	logic  *logic.Logic
	rules  turn.Rules
	runner *pipeline.Runner
	store  session.Store
	logger *log.Logger

	mu   sync.Mutex
	live map[string]*live
}

// live is the in-memory half of a session.
type live struct {
	mu       sync.Mutex
	renderer *render.Renderer
}

// New creates a server for the rules in l. steps may be nil.
func New(cfg Config, l *logic.Logic, steps *turn.Steps, runner *pipeline.Runner, store session.Store, logger *log.Logger) *Server {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = session.DefaultTTL
	}
	if cfg.RenderTimeout <= 0 {
		cfg.RenderTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:    cfg,
		logic:  l,
		rules:  turn.RulesFromLogic(l, steps),
		runner: runner,
		store:  store,
		logger: logger,
		live:   make(map[string]*live),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Get("/map.png", s.handleMap)
			r.Get("/region", s.handleRegion)
			r.Post("/select", s.handleSelect)
			r.Post("/next", s.handleNext)
			r.Post("/highlight", s.handleHighlight)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("serving", "addr", addr)

	go s.sweep(ctx)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// sweep removes expired sessions periodically.
func (s *Server) sweep(ctx context.Context) {
	t := time.NewTicker(time.Hour)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.prune(ctx)
		}
	}
}

// prune cleans the store and drops renderers of sessions that are gone.
func (s *Server) prune(ctx context.Context) {
	if err := s.store.Cleanup(ctx); err != nil {
		s.logger.Warn("session cleanup failed", "error", err)
	}

	s.mu.Lock()
	ids := make([]string, 0, len(s.live))
	for id := range s.live {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	var dropped int
	for _, id := range ids {
		sess, err := s.store.Get(ctx, id)
		if err != nil || sess != nil {
			continue
		}
		s.forget(id)
		dropped++
	}
	if dropped > 0 {
		s.logger.Debug("dropped renderers of expired sessions", "count", dropped)
	}
}

// liveFor returns the in-memory half of session id, creating it and its
// renderer on first use.
func (s *Server) liveFor(id string) *live {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lv, ok := s.live[id]; ok {
		return lv
	}
	lv := &live{}
	s.live[id] = lv
	return lv
}

// rendererFor lazily builds the renderer. Callers hold lv.mu.
func (s *Server) rendererFor(ctx context.Context, lv *live) *render.Renderer {
	if lv.renderer == nil {
		idx, _ := s.runner.LoadTerrain(ctx, s.cfg.MaskSource,
			s.logic.Engine.CanvasWidth, s.logic.Engine.CanvasHeight, s.logic.Engine.MajorLandmassSize)
		lv.renderer = render.NewRenderer(idx, s.runner.RenderConfig(s.logic, pipeline.Options{Workers: s.cfg.Workers}))
	}
	return lv.renderer
}

func (s *Server) forget(id string) {
	s.mu.Lock()
	delete(s.live, id)
	s.mu.Unlock()
}
