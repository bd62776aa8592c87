package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"loud", zapcore.InfoLevel},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", &buf, FileConfig{})
	log.Debug("hidden")
	log.Info("spawned entity", zap.String("name", "cube"))
	_ = log.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug entry written at info level")
	}
	if !strings.Contains(out, "spawned entity") || !strings.Contains(out, "cube") {
		t.Errorf("missing entry in %q", out)
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cubist.log")
	cfg := DefaultFileConfig(path)
	cfg.Compress = false

	log := New("debug", nil, cfg)
	log.Debug("frame composited", zap.Int("triangles", 12))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "frame composited") || !strings.Contains(string(data), "DEBUG") {
		t.Errorf("log file = %q", data)
	}
}

func TestNopWithoutOutputs(t *testing.T) {
	log := New("debug", nil, FileConfig{})
	if log.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger without outputs is enabled")
	}
}
