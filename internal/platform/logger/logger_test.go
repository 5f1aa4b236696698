package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/ogurasousui/health-office-scheduler/internal/platform/config"
)

func TestNew_ParsesLevel(t *testing.T) {
	t.Parallel()

	l, err := New(config.LogConfig{Level: "warn", Format: "json"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Errorf("info must be disabled at warn level")
	}
	if !l.Core().Enabled(zapcore.WarnLevel) {
		t.Errorf("warn must be enabled at warn level")
	}
}

func TestNew_ConsoleFormat(t *testing.T) {
	t.Parallel()

	l, err := New(config.LogConfig{Level: "debug", Format: "console"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Errorf("debug must be enabled")
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	t.Parallel()

	if _, err := New(config.LogConfig{Level: "chatty"}); err == nil {
		t.Fatal("expected error for invalid level")
	}
}
