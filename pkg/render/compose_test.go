package render

import (
	"strings"
	"testing"

	"github.com/soralume/halfblock/pkg/scene"
)

func TestComposeLineCount(t *testing.T) {
	r := NewRenderer(40, 20)
	r.RenderInto(scene.New(), scene.NewCamera())

	lines := r.ComposeLines()
	if len(lines) != 20 {
		t.Fatalf("got %d lines, want 20", len(lines))
	}
}

func TestComposeCellFormat(t *testing.T) {
	r := NewRenderer(40, 20)
	r.SetClearColor(RGB(12, 12, 20))
	r.RenderInto(scene.New(), scene.NewCamera())

	line := r.ComposeLines()[0]
	if !strings.Contains(line, "\x1b[38;2;12;12;20m") {
		t.Errorf("line missing foreground sequence: %q", line[:40])
	}
	if !strings.Contains(line, "\x1b[48;2;12;12;20m") {
		t.Errorf("line missing background sequence: %q", line[:40])
	}
	if strings.Count(line, "▀") != 40 {
		t.Errorf("got %d half blocks, want 40", strings.Count(line, "▀"))
	}
	if !strings.HasSuffix(line, "\x1b[0m") {
		t.Errorf("line does not end with reset")
	}
}

func TestComposeSubUnitFactor(t *testing.T) {
	r := NewRenderer(40, 20)
	if err := r.SetResolutionFactor(0.5); err != nil {
		t.Fatalf("SetResolutionFactor: %v", err)
	}
	r.RenderInto(scene.New(), scene.NewCamera())

	// A sub-unit factor samples the same buffer pixel for adjacent
	// cells; composing must still produce a full character grid.
	lines := r.ComposeLines()
	if len(lines) != 20 {
		t.Fatalf("got %d lines, want 20", len(lines))
	}
	for i, line := range lines {
		if strings.Count(line, "▀") != 40 {
			t.Fatalf("line %d has %d half blocks, want 40", i, strings.Count(line, "▀"))
		}
	}
}

func TestComposeSupersampledFactor(t *testing.T) {
	r := NewRenderer(40, 20)
	if err := r.SetResolutionFactor(2.0); err != nil {
		t.Fatalf("SetResolutionFactor: %v", err)
	}
	fb := r.Framebuffer()

	// Checkerboard of black and white buffer pixels averages to gray.
	for y := range fb.Height {
		for x := range fb.Width {
			if (x+y)%2 == 0 {
				fb.SetPixel(x, y, RGB(255, 255, 255))
			} else {
				fb.SetPixel(x, y, RGB(0, 0, 0))
			}
		}
	}

	line := r.ComposeLines()[5]
	if !strings.Contains(line, ";127;") && !strings.Contains(line, ";127m") {
		t.Errorf("supersampled cell not averaged to gray: %q", line[:48])
	}
}

func TestRenderFrameReturnsLines(t *testing.T) {
	r := NewRenderer(40, 20)
	lines := r.RenderFrame(scene.New(), scene.NewCamera())
	if len(lines) != 20 {
		t.Fatalf("got %d lines, want 20", len(lines))
	}
}
