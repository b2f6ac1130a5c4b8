package logger_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/phrazzld/curator-api/internal/platform/logger"
)

func TestWithLoggerRoundTrip(t *testing.T) {
	custom := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx := logger.WithLogger(context.Background(), custom)
	if got := logger.FromContext(ctx); got != custom {
		t.Errorf("FromContext returned %v, want the stored logger", got)
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	if got := logger.FromContext(context.Background()); got != slog.Default() {
		t.Errorf("FromContext on empty context returned %v, want slog.Default", got)
	}
}

func TestFromContextOrDefault(t *testing.T) {
	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx := logger.WithLogger(context.Background(), custom)
	if got := logger.FromContextOrDefault(ctx, fallback); got != custom {
		t.Errorf("stored logger should win over the fallback")
	}
	if got := logger.FromContextOrDefault(context.Background(), fallback); got != fallback {
		t.Errorf("fallback should be used when the context has no logger")
	}
	if got := logger.FromContextOrDefault(context.Background(), nil); got != slog.Default() {
		t.Errorf("nil fallback should degrade to slog.Default, got %v", got)
	}
}

func TestWithLoggerNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for nil logger")
		}
	}()
	logger.WithLogger(context.Background(), nil)
}
