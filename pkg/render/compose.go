package render

import (
	"strconv"
	"strings"
)

const (
	csi      = "\x1b["
	sgrReset = csi + "0m"
)

// ComposeLines downsamples the pixel buffer into one string per
// character row. Each cell averages its top and bottom pixel
// sub-rectangles independently and emits an upper half block with the
// top average as foreground and the bottom average as background.
func (r *Renderer) ComposeLines() []string {
	fb := r.fb
	factor := r.factor

	// At factors below 1 a cell still needs at least one sample per
	// axis.
	samples := int(factor)
	if samples < 1 {
		samples = 1
	}
	subPixels := samples * samples

	lines := make([]string, r.charH)
	var sb strings.Builder

	for cy := 0; cy < r.charH; cy++ {
		sb.Reset()
		sb.Grow(r.charW * 40)

		topBase := int(float64(cy*2) * factor)
		botBase := int(float64(cy*2+1) * factor)

		for cx := 0; cx < r.charW; cx++ {
			colBase := int(float64(cx) * factor)

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

			writeSGR(&sb, "38", tr/subPixels, tg/subPixels, tb/subPixels)
			writeSGR(&sb, "48", br/subPixels, bg/subPixels, bb/subPixels)
			sb.WriteString("▀")
			sb.WriteString(sgrReset)
		}
		lines[cy] = sb.String()
	}
	return lines
}

// writeSGR appends a truecolor SGR sequence: plane is "38" for
// foreground, "48" for background.
func writeSGR(sb *strings.Builder, plane string, r, g, b int) {
	sb.WriteString(csi)
	sb.WriteString(plane)
	sb.WriteString(";2;")
	sb.WriteString(strconv.Itoa(r))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(g))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(b))
	sb.WriteByte('m')
}
