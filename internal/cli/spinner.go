package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/areamap/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// renderSpinner draws a status line while a render runs. Once started it
// is also the active render hook set, so the line follows the pipeline
// from mask loading through growth to encoding. Events are forwarded to
// the hooks it replaced, which are restored on Stop.
type renderSpinner struct {
	w      io.Writer
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	message string
	drawn   int // width of the last line drawn

	prev     observability.RenderHooks
	started  bool
	stopOnce sync.Once
	stopped  chan struct{}
}

// newRenderSpinner creates a spinner that stops when ctx is cancelled.
func newRenderSpinner(ctx context.Context, w io.Writer, message string) *renderSpinner {
	spinCtx, cancel := context.WithCancel(ctx)
	return &renderSpinner{
		w:       w,
		parent:  ctx,
		ctx:     spinCtx,
		cancel:  cancel,
		message: message,
		stopped: make(chan struct{}),
	}
}

// Start registers the spinner as the render hooks and begins drawing.
func (s *renderSpinner) Start() {
	s.prev = observability.Render()
	observability.SetRenderHooks(s)
	s.started = true

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// Stop clears the line and restores the previous render hooks. It is safe
// to call more than once.
func (s *renderSpinner) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		if s.started {
			<-s.stopped
			observability.SetRenderHooks(s.prev)
		}
		s.clearLine()
	})
}

// StopWithError stops the spinner and prints msg as a failure.
func (s *renderSpinner) StopWithError(msg string) {
	s.Stop()
	printError("%s", msg)
}

// Cancelled reports whether the command context ended, as opposed to the
// spinner being stopped.
func (s *renderSpinner) Cancelled() bool {
	return s.parent.Err() != nil
}

// Message returns the current status text.
func (s *renderSpinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

func (s *renderSpinner) setMessage(format string, args ...any) {
	s.mu.Lock()
	s.message = fmt.Sprintf(format, args...)
	s.mu.Unlock()
}

func (s *renderSpinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.message)
	pad := ""
	if n := len(s.message) + 2; n < s.drawn {
		pad = strings.Repeat(" ", s.drawn-n)
	}
	fmt.Fprintf(s.w, "\r%s%s", line, pad)
	s.drawn = max(s.drawn, len(s.message)+2)
}

func (s *renderSpinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drawn == 0 {
		return
	}
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.drawn+2))
	s.drawn = 0
}

func (s *renderSpinner) OnMaskLoad(ctx context.Context, source string, landmasses int, d time.Duration, err error) {
	if err != nil {
		s.setMessage("Mask unavailable, growing on open land...")
	} else {
		s.setMessage("Labelled %d landmasses...", landmasses)
	}
	s.prev.OnMaskLoad(ctx, source, landmasses, d, err)
}

func (s *renderSpinner) OnRenderStart(ctx context.Context, areas int) {
	s.setMessage("Growing %d areas...", areas)
	s.prev.OnRenderStart(ctx, areas)
}

func (s *renderSpinner) OnRenderComplete(ctx context.Context, areas int, d time.Duration, err error) {
	if err == nil {
		s.setMessage("Encoding %d areas...", areas)
	}
	s.prev.OnRenderComplete(ctx, areas, d, err)
}
