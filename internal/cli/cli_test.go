package cli

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/areamap/pkg/errors"
	"github.com/matzehuels/areamap/pkg/logic"
	"github.com/matzehuels/areamap/pkg/render"
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

func writeLogic(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logic.json")
	if err := os.WriteFile(path, []byte(testLogic), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeMask writes a PNG whose left half is land.
func writeMask(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "mask.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestCLI(out io.Writer) *CLI {
	c := New(io.Discard, LogInfo)
	c.Out = out
	return c
}

func execute(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(t.Context())
}

func TestRenderCommandWritesArtifacts(t *testing.T) {
	logicPath := writeLogic(t)
	mask := writeMask(t, 80, 40)
	out := filepath.Join(t.TempDir(), "frame")

	c := newTestCLI(io.Discard)
	if err := execute(t, c, "render", logicPath, "-f", "png,overlay,json", "--mask", mask, "--no-cache", "-o", out); err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, path := range []string{out + ".png", out + ".overlay.png", out + ".json"} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing %s: %v", path, err)
		}
	}

	data, err := os.ReadFile(out + ".json")
	if err != nil {
		t.Fatal(err)
	}
	var summary render.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Width != 80 || summary.Height != 40 {
		t.Errorf("canvas = %dx%d, want 80x40", summary.Width, summary.Height)
	}
	if len(summary.Regions) != 2 {
		t.Errorf("regions = %d, want 2", len(summary.Regions))
	}
}

func TestRenderCommandErrors(t *testing.T) {
	logicPath := writeLogic(t)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"bad format", []string{"render", logicPath, "-f", "svg", "--no-cache"}, errors.ErrCodeInvalidFormat},
		{"bad progress", []string{"render", logicPath, "--progress", "2", "--no-cache"}, errors.ErrCodeInvalidInput},
		{"missing logic", []string{"render", filepath.Join(t.TempDir(), "nope.json"), "--no-cache"}, errors.ErrCodeFileNotFound},
		{"missing session", []string{"render", logicPath, "--session", "0b4c2a56-1111-4222-8333-944455556666", "--no-cache"}, errors.ErrCodeSessionNotFound},
	}
	t.Setenv("HOME", t.TempDir())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, newTestCLI(io.Discard), tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestInspectJSON(t *testing.T) {
	mask := writeMask(t, 80, 40)

	var buf bytes.Buffer
	c := newTestCLI(&buf)
	if err := execute(t, c, "inspect", mask, "--width", "80", "--height", "40", "--major", "100", "--json"); err != nil {
		t.Fatalf("inspect: %v", err)
	}

	var infos []landmassInfo
	if err := json.Unmarshal(buf.Bytes(), &infos); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if len(infos) != 1 {
		t.Fatalf("landmasses = %d, want 1", len(infos))
	}
	if infos[0].Size != 40*40 {
		t.Errorf("size = %d, want %d", infos[0].Size, 40*40)
	}
	if !infos[0].Major {
		t.Error("landmass should be major")
	}
}

func TestInspectMissingMask(t *testing.T) {
	err := execute(t, newTestCLI(io.Discard), "inspect", filepath.Join(t.TempDir(), "none.png"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestProbeOutsideCanvas(t *testing.T) {
	logicPath := writeLogic(t)

	tests := []struct {
		name string
		args []string
	}{
		{"canvas", []string{"probe", logicPath, "80", "10"}},
		{"display", []string{"probe", logicPath, "500", "10", "--display", "400x200"}},
		{"not a number", []string{"probe", logicPath, "x", "10"}},
		{"bad display", []string{"probe", logicPath, "1", "1", "--display", "400"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, newTestCLI(io.Discard), tt.args...)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestProbeInside(t *testing.T) {
	logicPath := writeLogic(t)
	if err := execute(t, newTestCLI(io.Discard), "probe", logicPath, "20", "20"); err != nil {
		t.Fatalf("probe: %v", err)
	}
	if err := execute(t, newTestCLI(io.Discard), "probe", logicPath, "100", "100", "--display", "400x200"); err != nil {
		t.Fatalf("probe display: %v", err)
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		w, h    float64
		wantErr bool
	}{
		{"800x533", 800, 533, false},
		{"1024X768", 1024, 768, false},
		{"800", 0, 0, true},
		{"0x10", 0, 0, true},
		{"axb", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			w, h, err := parseSize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSize(%q) error = %v", tt.in, err)
			}
			if w != tt.w || h != tt.h {
				t.Errorf("parseSize(%q) = %v, %v", tt.in, w, h)
			}
		})
	}
}

func testRules(t *testing.T) turn.Rules {
	t.Helper()
	l, err := logic.Parse([]byte(testLogic), logic.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	return turn.RulesFromLogic(l, nil)
}

func TestPlayTurns(t *testing.T) {
	c := newTestCLI(io.Discard)

	t.Run("partial", func(t *testing.T) {
		g := turn.New(testRules(t))
		played, err := c.playTurns(t.Context(), g, []string{"A1", "A2"}, false)
		if err != nil {
			t.Fatal(err)
		}
		if played != 2 || g.State().Turn != 3 {
			t.Errorf("played %d, turn %d; want 2, 3", played, g.State().Turn)
		}
		if g.State().ChoiceCounts["A1"] != 1 || g.State().ChoiceCounts["A2"] != 1 {
			t.Errorf("choice counts = %v", g.State().ChoiceCounts)
		}
	})

	t.Run("complete", func(t *testing.T) {
		g := turn.New(testRules(t))
		choices := strings.Split("A1,A1,A1,A1,A1,A1,A1,A1,A2", ",")
		played, err := c.playTurns(t.Context(), g, choices, false)
		if err != nil {
			t.Fatal(err)
		}
		if played != turn.DefaultMaxTurns {
			t.Errorf("played %d, want %d", played, turn.DefaultMaxTurns)
		}
		if !g.State().Phase.Finished() {
			t.Errorf("phase = %s, want finished", g.State().Phase)
		}
	})

	t.Run("unknown area", func(t *testing.T) {
		g := turn.New(testRules(t))
		_, err := c.playTurns(t.Context(), g, []string{"A9"}, false)
		if !errors.Is(err, errors.ErrCodeInvalidRegion) {
			t.Errorf("error = %v, want INVALID_REGION", err)
		}
	})
}

func TestPlaySaveAndResume(t *testing.T) {
	logicPath := writeLogic(t)
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "final.png")

	c := newTestCLI(io.Discard)
	if err := execute(t, c, "play", logicPath, "--choose", "A1,A2", "--save", "--session-dir", dir); err != nil {
		t.Fatalf("play: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("saved sessions = %v, %v; want 1", entries, err)
	}
	id := strings.TrimSuffix(entries[0].Name(), ".json")

	if err := execute(t, newTestCLI(io.Discard), "play", logicPath, "--resume", id, "--choose", "A2",
		"--session-dir", dir, "--render", out, "--no-cache"); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("final map not written: %v", err)
	}

	store, err := session.NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	sess, err := store.Get(t.Context(), id)
	if err != nil || sess == nil {
		t.Fatalf("get session: %v, %v", sess, err)
	}
	if sess.State.Turn != 4 {
		t.Errorf("turn = %d, want 4", sess.State.Turn)
	}
	if sess.State.ChoiceCounts["A2"] != 2 {
		t.Errorf("A2 picks = %d, want 2", sess.State.ChoiceCounts["A2"])
	}
}

func TestPlayResumeUnknown(t *testing.T) {
	logicPath := writeLogic(t)
	err := execute(t, newTestCLI(io.Discard), "play", logicPath, "--resume", "0b4c2a56-1111-4222-8333-944455556666",
		"--session-dir", t.TempDir())
	if !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("error = %v, want SESSION_NOT_FOUND", err)
	}
}

func TestAreaPickerModel(t *testing.T) {
	g := turn.New(testRules(t))
	m := NewAreaPickerModel(g.State())
	if m.Turn != 1 || len(m.Areas) != 2 || m.Areas[0].ID != "A1" {
		t.Fatalf("picker = %+v", m)
	}

	press := func(m AreaPickerModel, msg tea.KeyMsg) AreaPickerModel {
		next, _ := m.Update(msg)
		return next.(AreaPickerModel)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.Cursor != 1 {
		t.Errorf("cursor = %d, want 1 (clamped)", m.Cursor)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.Cursor)
	}
	if !strings.Contains(m.View(), "A2") {
		t.Error("view should list every area")
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected != "A1" {
		t.Errorf("selected = %q, want A1", m.Selected)
	}

	quit := press(NewAreaPickerModel(g.State()), tea.KeyMsg{Type: tea.KeyEsc})
	if quit.Selected != "" {
		t.Errorf("quit selected %q", quit.Selected)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "maps/logic.json", "maps/logic"},
		{"out.png", "logic.json", "out"},
		{"out.overlay.png", "logic.json", "out"},
		{"out.json", "logic.json", "out"},
		{"out", "logic.json", "out"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestParseIDs(t *testing.T) {
	got := parseIDs(" A1, ,A2,")
	if len(got) != 2 || got[0] != "A1" || got[1] != "A2" {
		t.Errorf("parseIDs = %v", got)
	}
	if parseIDs("") != nil {
		t.Error("empty list should be nil")
	}
}

func TestTables(t *testing.T) {
	g := turn.New(testRules(t))
	g.Select("A2")
	g.Next()

	standings := standingsTable(g.State()).Render()
	for _, want := range []string{"Rank", "A1", "A2"} {
		if !strings.Contains(standings, want) {
			t.Errorf("standings missing %q:\n%s", want, standings)
		}
	}
	history := historyTable(g.State()).Render()
	if !strings.Contains(history, "Round") {
		t.Errorf("history missing header:\n%s", history)
	}
}
