// Package render provides software rasterization for the cubist engine.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// Framebuffer is a 2D array of pixels, one per rendered sample. The
// terminal presenter packs two rows into each character cell.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA // Row-major pixel data
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	if len(fb.Pixels) == 0 {
		return
	}
	fb.Pixels[0] = c
	for i := 1; i < len(fb.Pixels); i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// CopyRows fills the framebuffer with Height rows of src starting at row
// startY. Both must have the same width; startY is clamped so the copy
// stays inside src.
func (fb *Framebuffer) CopyRows(src *Texture, startY int) {
	if src.Width != fb.Width || src.Height < fb.Height {
		return
	}
	startY = max(0, min(startY, src.Height-fb.Height))
	off := startY * src.Width
	copy(fb.Pixels, src.Pixels[off:off+len(fb.Pixels)])
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawRect draws a filled w×h rectangle centred on (cx, cy).
func (fb *Framebuffer) DrawRect(cx, cy, w, h int, c color.RGBA) {
	x0, y0 := cx-w/2, cy-h/2
	for py := max(0, y0); py < min(fb.Height, y0+h); py++ {
		for px := max(0, x0); px < min(fb.Width, x0+w); px++ {
			fb.Pixels[py*fb.Width+px] = c
		}
	}
}

// DrawRectOutline draws a rectangle outline with its top-left corner at (x, y).
func (fb *Framebuffer) DrawRectOutline(x, y, w, h int, c color.RGBA) {
	// Top and bottom
	for px := x; px < x+w; px++ {
		fb.SetPixel(px, y, c)
		fb.SetPixel(px, y+h-1, c)
	}
	// Left and right
	for py := y; py < y+h; py++ {
		fb.SetPixel(x, py, c)
		fb.SetPixel(x+w-1, py, c)
	}
}

// DrawCircle draws a filled circle of radius r centred on (cx, cy).
func (fb *Framebuffer) DrawCircle(cx, cy, r int, c color.RGBA) {
	for py := max(0, cy-r); py <= min(fb.Height-1, cy+r); py++ {
		for px := max(0, cx-r); px <= min(fb.Width-1, cx+r); px++ {
			dx, dy := px-cx, py-cy
			if dx*dx+dy*dy < r*r {
				fb.Pixels[py*fb.Width+px] = c
			}
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := range fb.Height {
		for x := range fb.Width {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
