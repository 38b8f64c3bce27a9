package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/corriander/eve-telemetrics/internal/config"
)

func newTestLogger(t *testing.T, level string) (*slog.Logger, string, *bytes.Buffer) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "logs", "main.log")
	var console bytes.Buffer
	logger, closer, err := New(config.LoggingConfig{Level: level, File: path, MaxSizeMB: 1}, &console)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { closer.Close() })
	return logger, path, &console
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return string(data)
}

func TestNew_Levels(t *testing.T) {
	t.Setenv(EnvLevel, "")
	logger, path, console := newTestLogger(t, "info")

	logger.Debug("hidden detail")
	logger.Info("market updated", "region_id", 10000002)
	logger.Warn("failed to update region", "region_id", 10000043)

	file := readFile(t, path)
	if strings.Contains(file, "hidden detail") {
		t.Error("debug record written at info level")
	}
	if !strings.Contains(file, "market updated") || !strings.Contains(file, "region_id=10000002") {
		t.Errorf("file missing info record:\n%s", file)
	}
	if !strings.Contains(file, "failed to update region") {
		t.Errorf("file missing warn record:\n%s", file)
	}

	if strings.Contains(console.String(), "market updated") {
		t.Error("info record reached the console")
	}
	if !strings.Contains(console.String(), "failed to update region") {
		t.Errorf("console missing warn record: %q", console.String())
	}
}

func TestNew_EnvOverride(t *testing.T) {
	t.Setenv(EnvLevel, "DEBUG")
	logger, path, _ := newTestLogger(t, "error")

	logger.Debug("page fetched", "page", 2)

	if file := readFile(t, path); !strings.Contains(file, "page fetched") {
		t.Errorf("debug record missing with %s=DEBUG:\n%s", EnvLevel, file)
	}
}

func TestTee_WithAttrs(t *testing.T) {
	t.Setenv(EnvLevel, "")
	logger, path, console := newTestLogger(t, "info")

	logger.With("component", "poller").WithGroup("cycle").Error("poll failed", "regions", 3)

	for name, out := range map[string]string{"file": readFile(t, path), "console": console.String()} {
		if !strings.Contains(out, "component=poller") || !strings.Contains(out, "cycle.regions=3") {
			t.Errorf("%s output = %q", name, out)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
