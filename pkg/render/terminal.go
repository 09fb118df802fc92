package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw composes the frame buffers straight into terminal cells on an
// ultraviolet screen, averaging sub-pixels the same way ComposeLines
// does. Cells outside the character grid are left untouched.
func (r *Renderer) Draw(scr uv.Screen, area uv.Rectangle) {
	fb := r.fb
	factor := r.factor

	samples := int(factor)
	if samples < 1 {
		samples = 1
	}
	subPixels := samples * samples

	for row := area.Min.Y; row < area.Max.Y && row < r.charH; row++ {
		topBase := int(float64(row*2) * factor)
		botBase := int(float64(row*2+1) * factor)

		for col := area.Min.X; col < area.Max.X && col < r.charW; col++ {
			colBase := int(float64(col) * factor)

			var tr, tg, tb, br, bg, bb int
			for sy := 0; sy < samples; sy++ {
				ty := min(topBase+sy, fb.Height-1)
				by := min(botBase+sy, fb.Height-1)
				topRow := ty * fb.Width
				botRow := by * fb.Width

				for sx := 0; sx < samples; sx++ {
					px := min(colBase+sx, fb.Width-1)

					top := fb.Pixels[topRow+px]
					bot := fb.Pixels[botRow+px]
					tr += int(top.R)
					tg += int(top.G)
					tb += int(top.B)
					br += int(bot.R)
					bg += int(bot.G)
					bb += int(bot.B)
				}
			}

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: RGB(uint8(tr/subPixels), uint8(tg/subPixels), uint8(tb/subPixels)),
					Bg: RGB(uint8(br/subPixels), uint8(bg/subPixels), uint8(bb/subPixels)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// RGBA creates a color from RGBA values.
func RGBA(r, g, b, a uint8) color.RGBA {
	return color.RGBA{r, g, b, a}
}
