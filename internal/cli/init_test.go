package cli

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := SetupLogger("debug", &buf)
	logger.Debug("hello")
	if !strings.Contains(buf.String(), "msg=hello") || !strings.Contains(buf.String(), "component=app") {
		t.Fatalf("unexpected log output: %q", buf.String())
	}
}

func TestSetupLogger_InvalidLevelFallsBack(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := SetupLogger("loud", &buf)
	if !strings.Contains(buf.String(), "Ignoring invalid log level") {
		t.Fatalf("expected a warning about the level, got %q", buf.String())
	}

	buf.Reset()
	logger.Warn("shown")
	logger.Info("hidden")
	if !strings.Contains(buf.String(), "shown") || strings.Contains(buf.String(), "hidden") {
		t.Fatalf("expected warn level output only, got %q", buf.String())
	}
}

func TestSignalContext_ParentCancel(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := SignalContext(parent, SetupLogger("error", &bytes.Buffer{}))
	defer cancel()

	cancelParent()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context should follow its parent")
	}
}
