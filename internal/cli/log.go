// Package cli implements the globecover command-line interface.
//
// The commands mirror the pipeline stages: cover writes the point covering,
// classify colours it against a terrain texture, build produces the globe
// payload. Every stage caches its artifact, so re-running build after
// changing only the places file reuses the covering and the terrain.
//
// # Commands
//
//   - cover: Write the covering as a lat,lon CSV
//   - classify: Write the terrain CSV for a covering and a texture
//   - build: Write the globe payload and the places file
//   - stats: Measure covering uniformity over HEALPix pixels
//   - rungs: Show the latitude rung schedule, optionally as a browser
//   - serve: Run the HTTP API
//   - cache: Clear the artifact cache or print its location
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// registers observability hooks that log stage timings and cache traffic.
// Loggers are passed through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/globecover/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Built globe (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Verbose hooks
// =============================================================================

// logHooks reports pipeline and cache events at debug level.
type logHooks struct {
	logger *log.Logger
}

func registerLogHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
}

func (h *logHooks) OnCoverStart(_ context.Context, n int) {
	h.logger.Debug("cover start", "n", n)
}

func (h *logHooks) OnCoverComplete(_ context.Context, n, points int, d time.Duration, err error) {
	h.stageDone("cover", d, err, "n", n, "points", points)
}

func (h *logHooks) OnClassifyStart(_ context.Context, texture string, points int) {
	h.logger.Debug("classify start", "texture", texture, "points", points)
}

func (h *logHooks) OnClassifyComplete(_ context.Context, texture string, samples int, d time.Duration, err error) {
	h.stageDone("classify", d, err, "texture", texture, "samples", samples)
}

func (h *logHooks) OnBuildStart(_ context.Context, samples int) {
	h.logger.Debug("build start", "samples", samples)
}

func (h *logHooks) OnBuildComplete(_ context.Context, points int, d time.Duration, err error) {
	h.stageDone("build", d, err, "points", points)
}

func (h *logHooks) OnCacheHit(_ context.Context, kind string) {
	h.logger.Debug("cache", "kind", kind, "result", "hit")
}

func (h *logHooks) OnCacheMiss(_ context.Context, kind string) {
	h.logger.Debug("cache", "kind", kind, "result", "miss")
}

func (h *logHooks) OnCacheSet(_ context.Context, kind string, size int) {
	h.logger.Debug("cache store", "kind", kind, "bytes", size)
}

func (h *logHooks) stageDone(stage string, d time.Duration, err error, kv ...any) {
	kv = append(kv, "took", d.Round(time.Microsecond))
	if err != nil {
		h.logger.Debug(stage+" failed", append(kv, "err", err)...)
		return
	}
	h.logger.Debug(stage+" done", kv...)
}

var (
	_ observability.PipelineHooks = (*logHooks)(nil)
	_ observability.CacheHooks    = (*logHooks)(nil)
)
