package server

import (
	"context"
	"image"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/areamap/pkg/area"
	"github.com/matzehuels/areamap/pkg/errors"
	"github.com/matzehuels/areamap/pkg/pipeline"
	"github.com/matzehuels/areamap/pkg/render"
	"github.com/matzehuels/areamap/pkg/session"
	"github.com/matzehuels/areamap/pkg/turn"
)

type sessionResponse struct {
	ID        string      `json:"id"`
	ExpiresAt time.Time   `json:"expires_at"`
	State     *turn.State `json:"state"`
}

func toResponse(sess *session.Session) sessionResponse {
	return sessionResponse{ID: sess.ID, ExpiresAt: sess.ExpiresAt, State: sess.State}
}

type areaRequest struct {
	Area string `json:"area"`
}

type regionResponse struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Region *string `json:"region"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	g := turn.New(s.rules)
	sess := session.New(g.State(), s.cfg.SessionTTL)
	if err := s.store.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("session created", "id", sess.ID)
	writeJSON(w, http.StatusCreated, toResponse(sess))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := s.load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(sess))
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req areaRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(g *turn.Game) error { return g.Select(req.Area) })
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(g *turn.Game) error {
		g.Next()
		return nil
	})
}

func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	var req areaRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(g *turn.Game) error { return g.SetHighlight(req.Area) })
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	q := r.URL.Query()

	format := pipeline.FormatPNG
	switch q.Get("layer") {
	case "", "map":
	case "overlay":
		format = pipeline.FormatOverlay
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "unknown layer %q", q.Get("layer")))
		return
	}
	progress, err := s.progress(q.Get("progress"), q.Get("elapsedMs"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Snapshot state under the session lock; render outside it.
	sess, err := s.load(ctx, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	lv := s.liveFor(id)
	lv.mu.Lock()
	renderer := s.rendererFor(ctx, lv)
	areas := area.Clone(sess.State.Areas)
	params := render.Params{
		Progress:  progress,
		Highlight: sess.State.Highlighted,
		TurnSeed:  int64(sess.State.Turn),
	}
	lv.mu.Unlock()

	if q.Has("highlight") {
		params.Highlight = q.Get("highlight")
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RenderTimeout)
	defer cancel()
	frame, err := renderer.Render(ctx, areas, params)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = errors.Wrap(errors.ErrCodeTimeout, err, "render timed out")
		}
		s.writeError(w, r, err)
		return
	}

	base := s.base(ctx, format)
	data, err := pipeline.Encode(frame, format, base, s.cfg.Legend && format == pipeline.FormatPNG)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data)
}

func (s *Server) handleRegion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	q := r.URL.Query()

	px, errX := strconv.ParseFloat(q.Get("x"), 64)
	py, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "x and y must be numbers"))
		return
	}
	if _, err := s.load(ctx, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	lv := s.liveFor(id)
	lv.mu.Lock()
	renderer := s.rendererFor(ctx, lv)
	lv.mu.Unlock()

	cw, ch := renderer.Size()
	var x, y int
	inside := true
	if q.Has("displayWidth") || q.Has("displayHeight") {
		dw, errW := strconv.ParseFloat(q.Get("displayWidth"), 64)
		dh, errH := strconv.ParseFloat(q.Get("displayHeight"), 64)
		if errW != nil || errH != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "displayWidth and displayHeight must be numbers"))
			return
		}
		x, y, inside = render.ScreenToCanvas(px, py, dw, dh, cw, ch)
	} else {
		x, y, inside = canvasPoint(px, py, cw, ch)
	}

	resp := regionResponse{X: x, Y: y}
	if inside {
		if region, ok := renderer.RegionAt(x, y); ok {
			resp.Region = &region
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// canvasPoint maps canvas coordinates to the pixel containing them.
func canvasPoint(px, py float64, cw, ch int) (x, y int, inside bool) {
	x, y = int(math.Floor(px)), int(math.Floor(py))
	return x, y, x >= 0 && y >= 0 && x < cw && y < ch
}

// load returns session id or a SESSION_NOT_FOUND error.
func (s *Server) load(ctx context.Context, id string) (*session.Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load session")
	}
	if sess == nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	return sess, nil
}

// mutate applies fn to the session's game under its lock and saves it.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(*turn.Game) error) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	if _, err := s.load(ctx, id); err != nil {
		s.writeError(w, r, err)
		return
	}

	lv := s.liveFor(id)
	lv.mu.Lock()
	defer lv.mu.Unlock()

	sess, err := s.load(ctx, id)
	if err != nil {
		s.forget(id)
		s.writeError(w, r, err)
		return
	}
	if err := fn(turn.Resume(s.rules, sess.State)); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.Touch(s.cfg.SessionTTL)
	if err := s.store.Set(ctx, sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(sess))
}

// progress reads the animation progress from either a direct value or
// the elapsed animation time. Neither means a finished animation.
func (s *Server) progress(value, elapsedMs string) (float64, error) {
	switch {
	case value != "":
		p, err := strconv.ParseFloat(value, 64)
		if err != nil || p < 0 || p > 1 {
			return 0, errors.New(errors.ErrCodeInvalidInput, "progress must be in [0, 1], got %q", value)
		}
		return p, nil
	case elapsedMs != "":
		ms, err := strconv.Atoi(elapsedMs)
		if err != nil || ms < 0 {
			return 0, errors.New(errors.ErrCodeInvalidInput, "elapsedMs must be a non-negative integer, got %q", elapsedMs)
		}
		return s.logic.Progress(time.Duration(ms) * time.Millisecond), nil
	default:
		return 1, nil
	}
}

func (s *Server) base(ctx context.Context, format string) image.Image {
	if format != pipeline.FormatPNG {
		return nil
	}
	img, err := s.runner.LoadBase(ctx, s.cfg.BaseSource)
	if err != nil {
		s.logger.Warn("base map unavailable, using background color", "source", s.cfg.BaseSource, "error", err)
		return nil
	}
	return img
}
