package main

import (
	"fmt"
	"time"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/cubist/pkg/engine"
)

var (
	hudBase  = lipgloss.NewStyle().Background(lipgloss.Color("#1a1a24")).Padding(0, 1)
	hudFPS   = hudBase.Foreground(lipgloss.Color("#5fff87"))
	hudTitle = hudBase.Foreground(lipgloss.Color("#ffffff")).Bold(true)
	hudStats = hudBase.Foreground(lipgloss.Color("#5fd7ff")).Bold(true)
	hudMode  = hudBase.Foreground(lipgloss.Color("#ffffff"))
	hudHint  = hudBase.Foreground(lipgloss.Color("#d7d75f")).Faint(true)
	hudAlert = hudBase.Foreground(lipgloss.Color("#ffd75f")).Bold(true)
)

const hudHelp = "M mode  C colliders  N level  P shot  ? hud"

// HUD is the overlay on the top and bottom rows of the terminal.
type HUD struct {
	title   string
	visible bool

	fps       float64
	fpsFrames int
	fpsTime   time.Time

	message     string
	messageTill time.Time
}

func NewHUD(title string) *HUD {
	return &HUD{title: title, visible: true, fpsTime: time.Now()}
}

// UpdateFPS counts a frame; the rate is refreshed once a second.
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

func (h *HUD) Toggle() { h.visible = !h.visible }

// Flash shows msg on the bottom row for a couple of seconds, even with
// the HUD hidden.
func (h *HUD) Flash(msg string) {
	h.message = msg
	h.messageTill = time.Now().Add(2 * time.Second)
}

// Draw renders the overlay onto scr. It is drawn after the frame so it
// covers the top and bottom rows.
func (h *HUD) Draw(scr uv.Screen, e *engine.Engine) {
	area := scr.Bounds()
	width, height := area.Dx(), area.Dy()
	if width < 1 || height < 2 {
		return
	}
	bottom := area.Max.Y - 1

	if h.message != "" && time.Now().Before(h.messageTill) {
		msg := hudAlert.Render(h.message)
		col := max((width-lipgloss.Width(msg))/2, 0)
		drawText(scr, msg, area.Min.X+col, bottom, width-col)
	}
	if !h.visible {
		return
	}

	fps := hudFPS.Render(fmt.Sprintf("%.0f FPS", h.fps))
	drawText(scr, fps, area.Min.X, area.Min.Y, width)

	title := hudTitle.Render(h.title)
	titleCol := max((width-lipgloss.Width(title))/2, lipgloss.Width(fps))
	drawText(scr, title, area.Min.X+titleCol, area.Min.Y, width-titleCol)

	raster := e.Compositor.Stats()
	culling := e.Compositor.Culling
	stats := hudStats.Render(fmt.Sprintf("%d tris  %d culled", raster.Triangles, culling.Culled))
	statsCol := max(width-lipgloss.Width(stats), 0)
	drawText(scr, stats, area.Min.X+statsCol, area.Min.Y, width-statsCol)

	opts := e.Compositor.Rasterizer().Options
	status := lipgloss.JoinHorizontal(lipgloss.Top,
		hudMode.Render(fmt.Sprintf("%s  %s", opts.Mode, e.Compositor.Background().Mode)),
		hudMode.Render(check(e.Compositor.ShowColliders)+" colliders"),
		hudMode.Render(check(opts.BackfaceCulling)+" backface"),
	)
	if h.message == "" || time.Now().After(h.messageTill) {
		drawText(scr, status, area.Min.X, bottom, width)
		hint := hudHint.Render(hudHelp)
		if hintCol := width - lipgloss.Width(hint); hintCol > lipgloss.Width(status) {
			drawText(scr, hint, area.Min.X+hintCol, bottom, width-hintCol)
		}
	}
}

func check(on bool) string {
	if on {
		return "[✓]"
	}
	return "[ ]"
}

func drawText(scr uv.Screen, s string, x, y, w int) {
	if w <= 0 {
		return
	}
	uv.NewStyledString(s).Draw(scr, uv.Rect(x, y, w, 1))
}
