package main

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/taigrr/cubist/internal/config"
	"github.com/taigrr/cubist/pkg/engine"
)

func newEngine(cfg *config.Config, log *zap.Logger) (*engine.Engine, error) {
	opts, err := cfg.EngineOptions()
	if err != nil {
		return nil, err
	}
	return engine.New(opts, log)
}

// renderHeadless simulates frames at the configured rate and writes the
// last one, or every one when out holds a format verb.
func renderHeadless(e *engine.Engine, cfg *config.Config, out string, frames int) error {
	if frames < 1 {
		return fmt.Errorf("render: --frames must be at least 1, got %d", frames)
	}
	e.Clock = engine.FixedClock(1 / float64(cfg.Display.FPS))
	perFrame := strings.Contains(out, "%")

	for i := range frames {
		fb := e.Frame()
		if !perFrame && i < frames-1 {
			continue
		}
		path := out
		if perFrame {
			path = fmt.Sprintf(out, i)
		}
		if err := fb.SavePNG(path); err != nil {
			return fmt.Errorf("save frame %d: %w", i, err)
		}
		e.Logger().Debug("frame saved", zap.String("path", path), zap.Int("frame", i))
	}

	stats := e.Compositor.Stats()
	e.Logger().Info("render finished",
		zap.Int("frames", frames),
		zap.String("output", out),
		zap.Int("triangles", stats.Triangles),
		zap.Int("pixels", stats.Pixels),
	)
	return nil
}
