package cli

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/areamap/pkg/observability"
)

var hooksOnce sync.Once

// registerLogHooks routes the global observability hooks to l. Only the
// first call takes effect.
func registerLogHooks(l *log.Logger) {
	hooksOnce.Do(func() {
		h := logHooks{l}
		observability.SetRenderHooks(h)
		observability.SetCacheHooks(h)
		observability.SetHTTPHooks(h)
	})
}

// logHooks implements every hook interface at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnMaskLoad(_ context.Context, source string, landmasses int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("mask load failed", "source", source, "duration", d, "error", err)
		return
	}
	h.logger.Debug("mask loaded", "source", source, "landmasses", landmasses, "duration", d)
}

func (h logHooks) OnRenderStart(_ context.Context, areas int) {
	h.logger.Debug("render start", "areas", areas)
}

func (h logHooks) OnRenderComplete(_ context.Context, areas int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "areas", areas, "duration", d, "error", err)
		return
	}
	h.logger.Debug("render complete", "areas", areas, "duration", d)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("request failed", "method", method, "host", host, "path", path, "error", err)
}
