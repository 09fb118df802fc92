// Package render rasterizes scenes into half-block terminal output.
package render

import (
	"image"
	"image/color"
	"math"
)

// Framebuffer holds the color and depth buffers for one frame.
// The pixel alpha channel doubles as a written flag: cleared pixels
// carry alpha 0, rasterized pixels alpha 255. Height is twice the
// terminal row count since each character cell packs two pixels.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA
	Depth  []float64
}

// NewFramebuffer allocates cleared buffers of the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
		Depth:  make([]float64, width*height),
	}
	fb.Clear(color.RGBA{})
	return fb
}

// Clear resets every pixel to the clear color with alpha 0 and every
// depth entry to +Inf. Fills by copy doubling.
func (fb *Framebuffer) Clear(c color.RGBA) {
	if len(fb.Pixels) == 0 {
		return
	}
	fb.Pixels[0] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 0}
	for i := 1; i < len(fb.Pixels); i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
	fb.Depth[0] = math.Inf(1)
	for i := 1; i < len(fb.Depth); i *= 2 {
		copy(fb.Depth[i:], fb.Depth[:i])
	}
}

// SetPixel writes a color at (x, y) with bounds checking.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y), or transparent black if out of
// bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DepthAt returns the depth at (x, y), or +Inf if out of bounds.
func (fb *Framebuffer) DepthAt(x, y int) float64 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return math.Inf(1)
	}
	return fb.Depth[y*fb.Width+x]
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
// Unwritten pixels come out opaque in the clear color.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			p := fb.Pixels[y*fb.Width+x]
			p.A = 255
			img.SetRGBA(x, y, p)
		}
	}
	return img
}
