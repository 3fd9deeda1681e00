package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/areamap/pkg/errors"
	"github.com/matzehuels/areamap/pkg/logic"
	"github.com/matzehuels/areamap/pkg/pipeline"
	"github.com/matzehuels/areamap/pkg/session"
	"github.com/matzehuels/areamap/pkg/turn"
)

const testLogic = `{
  "areas": [
    {"id": "A1", "start": {"x": 0.25, "y": 0.5}, "power": 2, "acc": 1, "color": "#ff0000"},
    {"id": "A2", "start": {"x": 0.75, "y": 0.5}, "power": 1, "acc": 1, "color": "#0000ff"}
  ],
  "opacityByRank": {"1": 0.8, "2": 0.6},
  "baseGrowthRadius": 10,
  "engine": {"canvasWidth": 80, "canvasHeight": 40}
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts, _, _ := newTestAPI(t)
	return ts
}

func newTestAPI(t *testing.T) (*httptest.Server, *Server, *session.MemoryStore) {
	t.Helper()
	l, err := logic.Parse([]byte(testLogic), logic.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(nil, nil, logger)
	store := session.NewMemoryStore()
	s := New(Config{Legend: true}, l, nil, runner, store, logger)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, s, store
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func createSession(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp := do(t, http.MethodPost, ts.URL+"/sessions", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	return decode[sessionResponse](t, resp).ID
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	if resp := do(t, http.MethodGet, ts.URL+"/healthz", nil); resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestCreateAndGetSession(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts)

	resp := do(t, http.MethodGet, ts.URL+"/sessions/"+id, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	got := decode[sessionResponse](t, resp)
	if got.State.Turn != 1 || got.State.Phase != turn.PhaseIntro || len(got.State.Areas) != 2 {
		t.Errorf("state = %+v", got.State)
	}
}

func TestUnknownSession(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/sessions/6ba7b810-9dad-11d1-80b4-00c04fd430c8", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if e := decode[errorResponse](t, resp); e.Code != errors.ErrCodeSessionNotFound {
		t.Errorf("code = %s", e.Code)
	}
}

func TestTurnFlow(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts)
	base := ts.URL + "/sessions/" + id

	resp := do(t, http.MethodPost, base+"/select", areaRequest{Area: "A2"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("select status = %d", resp.StatusCode)
	}
	st := decode[sessionResponse](t, resp).State
	if st.Selected != "A2" || st.Phase != turn.PhaseOutcome || st.ChoiceCounts["A2"] != 1 {
		t.Errorf("after select: %+v", st)
	}

	resp = do(t, http.MethodPost, base+"/select", areaRequest{Area: "Z9"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown area status = %d", resp.StatusCode)
	}

	resp = do(t, http.MethodPost, base+"/highlight", areaRequest{Area: "A1"})
	if st := decode[sessionResponse](t, resp).State; st.Highlighted != "A1" {
		t.Errorf("highlighted = %q", st.Highlighted)
	}

	resp = do(t, http.MethodPost, base+"/next", nil)
	st = decode[sessionResponse](t, resp).State
	if st.Turn != 2 || st.Phase != turn.PhaseIntro || len(st.History) != 2 {
		t.Errorf("after next: turn %d phase %s history %d", st.Turn, st.Phase, len(st.History))
	}
}

func TestBadBody(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts)
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/sessions/"+id+"/select", bytes.NewBufferString("{"))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestMapAndRegion(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts)
	base := ts.URL + "/sessions/" + id

	// No frame yet: nothing to hit.
	r := decode[regionResponse](t, do(t, http.MethodGet, base+"/region?x=20&y=20", nil))
	if r.Region != nil {
		t.Errorf("region before render = %q", *r.Region)
	}

	for _, layer := range []string{"", "overlay"} {
		resp := do(t, http.MethodGet, base+"/map.png?layer="+layer, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("layer %q status = %d", layer, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("content type = %s", ct)
		}
		img, err := png.Decode(resp.Body)
		if err != nil {
			t.Fatal(err)
		}
		if b := img.Bounds(); b.Dx() != 80 || b.Dy() != 40 {
			t.Errorf("size = %v", b)
		}
	}

	tests := []struct {
		query string
		want  string
	}{
		{"x=20&y=20", "A1"},
		{"x=60&y=20", "A2"},
		{"x=40&y=40&displayWidth=160&displayHeight=80", "A1"},
		{"x=0&y=0", ""},
		{"x=-0.5&y=20", ""},
		{"x=79.9&y=39.9", ""},
		{"x=500&y=5&displayWidth=160&displayHeight=80", ""},
	}
	for _, tt := range tests {
		r := decode[regionResponse](t, do(t, http.MethodGet, base+"/region?"+tt.query, nil))
		got := ""
		if r.Region != nil {
			got = *r.Region
		}
		if got != tt.want {
			t.Errorf("region?%s = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestMapErrors(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts)
	base := ts.URL + "/sessions/" + id

	tests := []struct {
		query string
		code  errors.Code
	}{
		{"layer=svg", errors.ErrCodeInvalidFormat},
		{"progress=2", errors.ErrCodeInvalidInput},
		{"elapsedMs=-1", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		resp := do(t, http.MethodGet, base+"/map.png?"+tt.query, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d", tt.query, resp.StatusCode)
			continue
		}
		if e := decode[errorResponse](t, resp); e.Code != tt.code {
			t.Errorf("%s: code = %s, want %s", tt.query, e.Code, tt.code)
		}
	}

	if resp := do(t, http.MethodGet, base+"/region?x=a&y=1", nil); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad region query status = %d", resp.StatusCode)
	}
}

func TestCanvasPoint(t *testing.T) {
	tests := []struct {
		px, py     float64
		x, y       int
		wantInside bool
	}{
		{20.7, 10.2, 20, 10, true},
		{0, 0, 0, 0, true},
		{-0.5, 5, -1, 5, false},
		{5, -0.01, 5, -1, false},
		{79.99, 39.99, 79, 39, true},
		{80, 10, 80, 10, false},
	}
	for _, tt := range tests {
		x, y, inside := canvasPoint(tt.px, tt.py, 80, 40)
		if x != tt.x || y != tt.y || inside != tt.wantInside {
			t.Errorf("canvasPoint(%v, %v) = %d, %d, %v; want %d, %d, %v",
				tt.px, tt.py, x, y, inside, tt.x, tt.y, tt.wantInside)
		}
	}
}

func TestPruneDropsExpiredRenderers(t *testing.T) {
	ts, s, store := newTestAPI(t)
	ctx := t.Context()
	gone := createSession(t, ts)
	kept := createSession(t, ts)
	for _, id := range []string{gone, kept} {
		if resp := do(t, http.MethodGet, ts.URL+"/sessions/"+id+"/map.png", nil); resp.StatusCode != http.StatusOK {
			t.Fatalf("map status = %d", resp.StatusCode)
		}
	}
	if len(s.live) != 2 {
		t.Fatalf("live renderers = %d, want 2", len(s.live))
	}

	sess, err := store.Get(ctx, gone)
	if err != nil || sess == nil {
		t.Fatalf("Get(%s) = %v, %v", gone, sess, err)
	}
	sess.ExpiresAt = time.Now().Add(-time.Second)
	store.Set(ctx, sess)

	s.prune(ctx)
	s.mu.Lock()
	_, goneLive := s.live[gone]
	_, keptLive := s.live[kept]
	n := len(s.live)
	s.mu.Unlock()
	if goneLive || n != 1 {
		t.Errorf("expired session still has a renderer (live=%d)", n)
	}
	if !keptLive {
		t.Error("active session lost its renderer")
	}
}
