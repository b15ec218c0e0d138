package logger

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/DusanM998/ToDoApplication/internal/config"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"mixed case", "DeBuG"},
		{"invalid falls back to info", "verbose"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			log, err := Setup(config.ServerConfig{LogLevel: tc.logLevel})
			if err != nil {
				t.Fatalf("Setup returned error: %v", err)
			}
			if log == nil {
				t.Fatal("Setup returned nil logger")
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	ctx := context.Background()

	// Without a logger in context, the default is returned.
	if got := FromContext(ctx); got == nil {
		t.Fatal("FromContext returned nil")
	}

	custom := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("component", "test")
	ctx = WithLogger(ctx, custom)

	if got := FromContext(ctx); got != custom {
		t.Error("FromContext did not return the logger stored in context")
	}
}

func TestFromContextOrDefault(t *testing.T) {
	fallback := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if got := FromContextOrDefault(context.Background(), fallback); got != fallback {
		t.Error("expected fallback logger when context carries none")
	}

	stored := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := WithLogger(context.Background(), stored)
	if got := FromContextOrDefault(ctx, fallback); got != stored {
		t.Error("expected context logger to take precedence over fallback")
	}
}
