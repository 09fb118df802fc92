package render

import (
	"image/png"
	"os"

	"github.com/HugoSmits86/nativewebp"
)

// SavePNG writes the current framebuffer to a PNG file.
func (fb *Framebuffer) SavePNG(file string) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, fb.ToImage())
}

// SaveWebP writes the current framebuffer to a lossless WebP file.
func (fb *Framebuffer) SaveWebP(file string) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()
	return nativewebp.Encode(f, fb.ToImage(), nil)
}
