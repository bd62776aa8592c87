package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"github.com/taigrr/cubist/internal/config"
	"github.com/taigrr/cubist/pkg/engine"
	"github.com/taigrr/cubist/pkg/render"
)

// terminalOptions customise runTerminal for a command.
type terminalOptions struct {
	title string
	// fit renders at the terminal's own resolution.
	fit bool
	// keys receives key presses the loop does not handle itself. It runs
	// on the frame loop.
	keys func(ev uv.KeyPressEvent)
	// wheel receives +1 for wheel up and -1 for wheel down.
	wheel func(dir float64)
}

const (
	enableMouse  = "\x1b[?1003h\x1b[?1006h" // any-event tracking, SGR encoding
	disableMouse = "\x1b[?1003l\x1b[?1006l"
)

// runTerminal shows the engine's frames in the terminal until Esc, ctrl+c
// or a signal. Input events are read on their own goroutine; anything that
// touches the engine is handed to the frame loop through actions.
func runTerminal(ctx context.Context, e *engine.Engine, cfg *config.Config, opts terminalOptions) error {
	log := e.Logger()
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	if err := term.Resize(width, height); err != nil {
		return fmt.Errorf("resize terminal: %w", err)
	}
	fmt.Fprint(os.Stdout, enableMouse)

	cleanup := func() {
		fmt.Fprint(os.Stdout, disableMouse)
		term.ExitAltScreen()
		term.ShowCursor()
		if err := term.Shutdown(context.Background()); err != nil {
			log.Warn("terminal shutdown", zap.Error(err))
		}
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	hud := NewHUD(opts.title)
	if !cfg.Display.ShowHUD {
		hud.Toggle()
	}

	var display *render.Framebuffer
	resize := func(cols, rows int) {
		cols, rows = max(cols, 1), max(rows, 1)
		term.Erase()
		if err := term.Resize(cols, rows); err != nil {
			log.Warn("terminal resize", zap.Error(err))
		}
		if opts.fit {
			if err := e.Resize(cols, rows*2); err != nil {
				log.Warn("engine resize", zap.Error(err))
			}
			display = nil
			return
		}
		display = render.NewFramebuffer(cols, rows*2)
	}
	resize(width, height)

	actions := make(chan func(), 16)
	send := func(fn func()) {
		select {
		case actions <- fn:
		case <-ctx.Done():
		}
	}

	go func() {
		var (
			dragging     bool
			lastX, lastY int
		)
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				cols, rows := ev.Width, ev.Height
				send(func() { resize(cols, rows) })

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape", "ctrl+c"):
					cancel()
					return
				case ev.MatchString("m"):
					send(func() {
						r := e.Compositor.Rasterizer()
						r.Options.Mode = (r.Options.Mode + 1) % (render.ModeStates + 1)
						hud.Flash("mode: " + r.Options.Mode.String())
					})
				case ev.MatchString("c"):
					send(func() { e.Compositor.ShowColliders = !e.Compositor.ShowColliders })
				case ev.MatchString("n"):
					send(func() { e.World.SwitchToNextLevel() })
				case ev.MatchString("p"):
					send(func() { screenshot(e, hud) })
				case ev.MatchString("?", "shift+/"):
					send(hud.Toggle)
				default:
					if opts.keys != nil {
						send(func() { opts.keys(ev) })
					}
				}
				for _, k := range engine.MovementKeys {
					if ev.MatchString(k) {
						e.Input.Press(k)
					}
				}

			case uv.KeyReleaseEvent:
				for _, k := range engine.MovementKeys {
					if ev.MatchString(k) {
						e.Input.Release(k)
					}
				}

			case uv.MouseClickEvent:
				if ev.Button == uv.MouseLeft {
					dragging = true
					lastX, lastY = ev.X, ev.Y
				}

			case uv.MouseReleaseEvent:
				dragging = false

			case uv.MouseMotionEvent:
				if dragging {
					e.Input.MoveMouse(float64(ev.X-lastX), float64(ev.Y-lastY))
					lastX, lastY = ev.X, ev.Y
				}

			case uv.MouseWheelEvent:
				if opts.wheel == nil {
					continue
				}
				switch ev.Button {
				case uv.MouseWheelUp:
					send(func() { opts.wheel(1) })
				case uv.MouseWheelDown:
					send(func() { opts.wheel(-1) })
				}
			}
		}
	}()

	targetDuration := time.Second / time.Duration(cfg.Display.FPS)
	log.Info("terminal started",
		zap.String("title", opts.title),
		zap.Int("cols", width),
		zap.Int("rows", height),
		zap.Bool("fit", opts.fit),
	)

	for {
		start := time.Now()
	drain:
		for {
			select {
			case <-ctx.Done():
				log.Info("terminal stopped", zap.Int("frames", e.Frames()))
				return nil
			case fn := <-actions:
				fn()
			default:
				break drain
			}
		}

		fb := e.Frame()
		if display != nil {
			fb.ScaleInto(display)
			fb = display
		}
		fb.Draw(term, term.Bounds())

		hud.UpdateFPS()
		hud.Draw(term, e)

		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		if elapsed := time.Since(start); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

// screenshot saves the last rendered frame at its render resolution.
func screenshot(e *engine.Engine, hud *HUD) {
	path := fmt.Sprintf("cubist-%s.png", time.Now().Format("20060102-150405"))
	if err := e.Compositor.Framebuffer().SavePNG(path); err != nil {
		e.Logger().Error("screenshot", zap.Error(err))
		hud.Flash("screenshot failed")
		return
	}
	e.Logger().Info("screenshot saved", zap.String("path", path))
	hud.Flash("saved " + path)
}
