package obs

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

type correlationContextKey struct{}

// Correlation carries per-probe correlation identifiers so that every log line
// emitted while a scenario runs can be tied back to the run and request.
type Correlation struct {
	RunID     string
	Scenario  string
	RequestID string
}

var (
	loggerMu sync.RWMutex
	logger   *slog.Logger
)

// Init configures the global structured logger.
func Init() {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger != nil {
		return
	}
	logger = newLogger(os.Stderr)
	slog.SetDefault(logger)
}

// SetOutputForTests overrides the global logger output for tests.
func SetOutputForTests(w io.Writer) func() {
	loggerMu.Lock()
	prev := logger
	logger = newLogger(w)
	slog.SetDefault(logger)
	loggerMu.Unlock()

	return func() {
		loggerMu.Lock()
		defer loggerMu.Unlock()
		if prev != nil {
			logger = prev
		} else {
			logger = newLogger(os.Stderr)
		}
		slog.SetDefault(logger)
	}
}

func newLogger(w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.TimeKey {
				t, ok := attr.Value.Any().(time.Time)
				if ok {
					return slog.String(slog.TimeKey, t.UTC().Format(time.RFC3339Nano))
				}
			}
			return attr
		},
	})
	return slog.New(handler)
}

func globalLogger() *slog.Logger {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	if l != nil {
		return l
	}
	Init()
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// Pkg returns a logger tagged with package name.
func Pkg(pkg string) *slog.Logger {
	return globalLogger().With("pkg", pkg)
}

// From returns a logger with correlation fields from context.
func From(ctx context.Context) *slog.Logger {
	l := globalLogger()
	corr := CorrelationFromContext(ctx)
	attrs := correlationAttrs(corr)
	if len(attrs) == 0 {
		return l
	}
	return l.With(attrs...)
}

// WithScenario stores the scenario name in context.
func WithScenario(ctx context.Context, scenario string) context.Context {
	corr := CorrelationFromContext(ctx)
	corr.Scenario = strings.TrimSpace(scenario)
	return context.WithValue(ctx, correlationContextKey{}, corr)
}

// WithCorrelation stores probe correlation fields in context. Empty fields
// leave any existing value in place.
func WithCorrelation(ctx context.Context, corr Correlation) context.Context {
	existing := CorrelationFromContext(ctx)
	if corr.RunID != "" {
		existing.RunID = corr.RunID
	}
	if corr.Scenario != "" {
		existing.Scenario = corr.Scenario
	}
	if corr.RequestID != "" {
		existing.RequestID = corr.RequestID
	}
	return context.WithValue(ctx, correlationContextKey{}, existing)
}

// CorrelationFromContext returns probe correlation fields from context.
func CorrelationFromContext(ctx context.Context) Correlation {
	if ctx == nil {
		return Correlation{}
	}
	corr, ok := ctx.Value(correlationContextKey{}).(Correlation)
	if !ok {
		return Correlation{}
	}
	return corr
}

func correlationAttrs(corr Correlation) []any {
	attrs := make([]any, 0, 6)
	if corr.RunID != "" {
		attrs = append(attrs, "run_id", corr.RunID)
	}
	if corr.Scenario != "" {
		attrs = append(attrs, "scenario", corr.Scenario)
	}
	if corr.RequestID != "" {
		attrs = append(attrs, "request_id", corr.RequestID)
	}
	return attrs
}

// NewRequestID returns a random identifier for one probe request.
func NewRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "req-fallback"
	}
	return "req-" + hex.EncodeToString(buf)
}
