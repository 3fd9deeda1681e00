package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/areamap/pkg/turn"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		log   func(*log.Logger)
		want  bool
	}{
		{"render summary at info", log.InfoLevel, func(l *log.Logger) { l.Info("rendered map", "regions", 4) }, true},
		{"artifact write hidden at info", log.InfoLevel, func(l *log.Logger) { l.Debug("wrote artifact", "format", "png") }, false},
		{"artifact write at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("wrote artifact", "format", "png") }, true},
		{"fallback warning at info", log.InfoLevel, func(l *log.Logger) { l.Warn("land mask unavailable") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("logged = %v, want %v (%q)", got, tt.want, buf.String())
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	prog.done("Rendered %d regions over %d landmasses", 4, 3)

	out := buf.String()
	if !strings.Contains(out, "Rendered 4 regions over 3 landmasses (") {
		t.Errorf("done output = %q", out)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "s)") {
		t.Errorf("done output should end with the elapsed time: %q", out)
	}
}

func TestProgressStep(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.DebugLevel))
	prog.step("inputs", "areas", 4)
	prog.step("pipeline", "cached", true)

	out := buf.String()
	for _, want := range []string{"stage=inputs", "areas=4", "stage=pipeline", "cached=true", "took="} {
		if !strings.Contains(out, want) {
			t.Errorf("step output missing %q: %q", want, out)
		}
	}

	buf.Reset()
	quiet := newProgress(newLogger(&buf, log.InfoLevel))
	quiet.step("inputs")
	if buf.Len() != 0 {
		t.Errorf("steps should be debug only, got %q", buf.String())
	}
}

func TestLoggerContext(t *testing.T) {
	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)

	tests := []struct {
		name string
		ctx  context.Context
		want *log.Logger
	}{
		{"attached", withLogger(context.Background(), custom), custom},
		{"none attached", context.Background(), log.Default()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := loggerFromContext(tt.ctx); got != tt.want {
				t.Errorf("loggerFromContext = %p, want %p", got, tt.want)
			}
		})
	}
}

func TestPlayTurnsLogsThroughContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := withLogger(context.Background(), newLogger(&buf, log.DebugLevel))

	c := newTestCLI(io.Discard)
	g := turn.New(testRules(t))
	if _, err := c.playTurns(ctx, g, []string{"A1"}, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "turn played") {
		t.Errorf("context logger got %q", buf.String())
	}
}
