package render

import (
	"image/color"
	"math"
	"testing"

	"github.com/soralume/halfblock/pkg/math3d"
	"github.com/soralume/halfblock/pkg/scene"
	"github.com/soralume/halfblock/pkg/shapes"
)

// bigTriangle builds a single uniformly colored triangle at world
// depth z, wide enough to cover the screen center from the origin.
func bigTriangle(t *testing.T, c color.RGBA, z float64, material scene.Material) *scene.Mesh {
	t.Helper()
	verts := []math3d.Vec3{
		math3d.V3(-10, -10, z),
		math3d.V3(10, -10, z),
		math3d.V3(0, 10, z),
	}
	colors := []color.RGBA{c, c, c}
	m, err := scene.NewMesh(verts, [][3]int{{0, 1, 2}}, colors, material)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}
	return m
}

func sceneWith(meshes ...*scene.Mesh) *scene.Scene {
	s := scene.New()
	for _, m := range meshes {
		n := scene.NewNode("mesh")
		n.Mesh = m
		s.Attach(nil, n)
	}
	return s
}

func writtenPixels(fb *Framebuffer) int {
	count := 0
	for _, p := range fb.Pixels {
		if p.A != 0 {
			count++
		}
	}
	return count
}

func TestBufferDimensions(t *testing.T) {
	tests := []struct {
		name         string
		charW, charH int
		factor       float64
		wantW, wantH int
	}{
		{"unity", 40, 20, 1.0, 40, 40},
		{"double", 40, 20, 2.0, 80, 80},
		{"half", 40, 20, 0.5, 20, 20},
		{"fractional", 40, 20, 1.5, 60, 60},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRenderer(tc.charW, tc.charH)
			if err := r.SetResolutionFactor(tc.factor); err != nil {
				t.Fatalf("SetResolutionFactor(%v): %v", tc.factor, err)
			}
			fb := r.Framebuffer()
			if fb.Width != tc.wantW || fb.Height != tc.wantH {
				t.Errorf("buffer = %dx%d, want %dx%d", fb.Width, fb.Height, tc.wantW, tc.wantH)
			}
		})
	}
}

func TestInvalidResolutionFactor(t *testing.T) {
	r := NewRenderer(40, 20)

	for _, f := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := r.SetResolutionFactor(f); err == nil {
			t.Errorf("SetResolutionFactor(%v) accepted", f)
		}
		if r.ResolutionFactor() != 1.0 {
			t.Errorf("fallback factor = %v, want 1.0", r.ResolutionFactor())
		}
	}
}

func TestRenderQualityLevels(t *testing.T) {
	r := NewRenderer(40, 20)

	if err := r.SetRenderQuality(5); err != nil {
		t.Fatalf("SetRenderQuality(5): %v", err)
	}
	if r.ResolutionFactor() != 2.0 {
		t.Errorf("quality 5 factor = %v, want 2.0", r.ResolutionFactor())
	}
	if r.Quality() != 5 {
		t.Errorf("Quality = %d, want 5", r.Quality())
	}

	// Invalid level errors and falls back to medium.
	err := r.SetRenderQuality(42)
	if err == nil {
		t.Errorf("SetRenderQuality(42) accepted")
	}
	if r.Quality() != QualityMedium {
		t.Errorf("fallback quality = %d, want %d", r.Quality(), QualityMedium)
	}
	if r.ResolutionFactor() != 0.75 {
		t.Errorf("fallback factor = %v, want 0.75", r.ResolutionFactor())
	}
}

func TestResizeIdempotence(t *testing.T) {
	r := NewRenderer(40, 20)

	for range 2 {
		if err := r.SetResolutionFactor(2.0); err != nil {
			t.Fatalf("SetResolutionFactor: %v", err)
		}
		fb := r.Framebuffer()
		if fb.Width != 80 || fb.Height != 80 {
			t.Fatalf("buffer = %dx%d, want 80x80", fb.Width, fb.Height)
		}
		for i, p := range fb.Pixels {
			if p.A != 0 {
				t.Fatalf("pixel %d not cleared: %v", i, p)
			}
		}
		for i, d := range fb.Depth {
			if !math.IsInf(d, 1) {
				t.Fatalf("depth %d not cleared: %v", i, d)
			}
		}
	}
}

func TestClearUsesClearColor(t *testing.T) {
	r := NewRenderer(40, 20)
	r.SetClearColor(RGB(30, 40, 50))
	r.RenderInto(scene.New(), scene.NewCamera())

	p := r.Framebuffer().GetPixel(5, 5)
	if p.R != 30 || p.G != 40 || p.B != 50 {
		t.Errorf("cleared pixel = %v, want (30, 40, 50)", p)
	}
	if p.A != 0 {
		t.Errorf("cleared pixel alpha = %d, want 0 (unwritten)", p.A)
	}
}

func TestRenderTriangleWritesPixels(t *testing.T) {
	r := NewRenderer(60, 30)
	r.SetAmbientLight(RGB(255, 255, 255))

	s := sceneWith(bigTriangle(t, RGB(200, 50, 50), 5, scene.MaterialFlat))
	r.RenderInto(s, scene.NewCamera())

	if writtenPixels(r.Framebuffer()) == 0 {
		t.Fatalf("no pixels written for an on-screen triangle")
	}

	st := r.Stats()
	if st.Meshes != 1 || st.Culled != 0 || st.Triangles != 1 {
		t.Errorf("stats = %+v, want 1 mesh, 0 culled, 1 triangle", st)
	}

	// With full white ambient and no lights the shaded color is the
	// base color.
	fb := r.Framebuffer()
	center := fb.GetPixel(fb.Width/2, fb.Height/2)
	if center.R != 200 || center.G != 50 || center.B != 50 {
		t.Errorf("center pixel = %v, want base color (200, 50, 50)", center)
	}
}

func TestDepthOrderIndependence(t *testing.T) {
	near := bigTriangle(t, RGB(255, 0, 0), 5, scene.MaterialFlat)
	far := bigTriangle(t, RGB(0, 255, 0), 6, scene.MaterialFlat)

	for _, order := range []string{"near-first", "far-first"} {
		t.Run(order, func(t *testing.T) {
			r := NewRenderer(60, 30)
			r.SetAmbientLight(RGB(255, 255, 255))

			var s *scene.Scene
			if order == "near-first" {
				s = sceneWith(near.Clone(), far.Clone())
			} else {
				s = sceneWith(far.Clone(), near.Clone())
			}
			r.RenderInto(s, scene.NewCamera())

			fb := r.Framebuffer()
			center := fb.GetPixel(fb.Width/2, fb.Height/2)
			if center.R != 255 || center.G != 0 {
				t.Errorf("center pixel = %v, want the nearer red triangle", center)
			}
		})
	}
}

func TestFrustumCullOffscreenMesh(t *testing.T) {
	r := NewRenderer(60, 30)

	m := bigTriangle(t, RGB(255, 255, 255), 5, scene.MaterialFlat)
	n := scene.NewNode("offscreen")
	n.Mesh = m
	n.Transform.Pos = math3d.V3(1000, 0, 0)
	s := scene.New()
	s.Attach(nil, n)

	r.RenderInto(s, scene.NewCamera())

	if got := r.Stats().Culled; got != 1 {
		t.Errorf("culled = %d, want 1", got)
	}
	if writtenPixels(r.Framebuffer()) != 0 {
		t.Errorf("culled mesh wrote pixels")
	}
}

func TestFrustumKeepsStraddlingMesh(t *testing.T) {
	r := NewRenderer(60, 30)
	r.SetAmbientLight(RGB(255, 255, 255))

	// Shift the triangle so it straddles the right clip boundary.
	m := bigTriangle(t, RGB(255, 255, 255), 5, scene.MaterialFlat)
	n := scene.NewNode("straddling")
	n.Mesh = m
	n.Transform.Pos = math3d.V3(9, 0, 0)
	s := scene.New()
	s.Attach(nil, n)

	r.RenderInto(s, scene.NewCamera())

	if got := r.Stats().Culled; got != 0 {
		t.Errorf("straddling mesh was culled")
	}
	if writtenPixels(r.Framebuffer()) == 0 {
		t.Errorf("straddling mesh wrote no pixels")
	}
}

func TestBehindCameraVerticesSkipped(t *testing.T) {
	r := NewRenderer(60, 30)

	// Triangle behind the near plane projects as invalid.
	s := sceneWith(bigTriangle(t, RGB(255, 255, 255), -5, scene.MaterialFlat))
	r.RenderInto(s, scene.NewCamera())

	if writtenPixels(r.Framebuffer()) != 0 {
		t.Errorf("behind-camera triangle wrote pixels")
	}
}

func TestCubeFrontFaceDepth(t *testing.T) {
	r := NewRenderer(60, 30)

	cube := shapes.Cube(1.0)
	s := sceneWith(cube)

	cam := scene.NewCamera()
	cam.Pos = math3d.V3(0, 0, -5)
	light := scene.NewDirectionalLight(math3d.V3(0, 0, -1), RGB(255, 255, 255), 1)
	ln := scene.NewNode("sun")
	ln.Light = light
	s.Attach(nil, ln)

	r.RenderInto(s, cam)

	fb := r.Framebuffer()
	center := fb.GetPixel(fb.Width/2, fb.Height/2)
	if center.A == 0 {
		t.Fatalf("cube center pixel is background")
	}

	// The front face sits at world z=-0.5, view depth 4.5 plus the
	// default zoom of 1. The back face would land at 6.5.
	depth := fb.DepthAt(fb.Width/2, fb.Height/2)
	if math.Abs(depth-5.5) > 0.01 {
		t.Errorf("center depth = %v, want 5.5 (front face)", depth)
	}
}

func TestWireframeDrawsEdgesOnly(t *testing.T) {
	filled := NewRenderer(60, 30)
	filled.SetAmbientLight(RGB(255, 255, 255))
	filled.RenderInto(sceneWith(bigTriangle(t, RGB(255, 255, 255), 5, scene.MaterialFlat)), scene.NewCamera())

	wire := NewRenderer(60, 30)
	wire.RenderInto(sceneWith(bigTriangle(t, RGB(255, 255, 255), 5, scene.MaterialWireframe)), scene.NewCamera())

	filledCount := writtenPixels(filled.Framebuffer())
	wireCount := writtenPixels(wire.Framebuffer())
	if wireCount == 0 {
		t.Fatalf("wireframe wrote no pixels")
	}
	if wireCount >= filledCount {
		t.Errorf("wireframe wrote %d pixels, filled wrote %d; expected fewer", wireCount, filledCount)
	}

	// Wireframe pixels use the fixed wire color.
	fb := wire.Framebuffer()
	for _, p := range fb.Pixels {
		if p.A != 0 && (p.R != 255 || p.G != 255 || p.B != 255) {
			t.Fatalf("wireframe pixel color = %v, want white", p)
		}
	}
}

func TestDegenerateTriangleSkipped(t *testing.T) {
	r := NewRenderer(60, 30)

	// All three vertices on one line: zero screen-space area.
	verts := []math3d.Vec3{
		math3d.V3(-1, 0, 5),
		math3d.V3(0, 0, 5),
		math3d.V3(1, 0, 5),
	}
	colors := make([]color.RGBA, 3)
	m, err := scene.NewMesh(verts, [][3]int{{0, 1, 2}}, colors, scene.MaterialFlat)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}

	r.RenderInto(sceneWith(m), scene.NewCamera())
	if writtenPixels(r.Framebuffer()) != 0 {
		t.Errorf("degenerate triangle wrote pixels")
	}
}

func TestHiddenNodeNotRendered(t *testing.T) {
	r := NewRenderer(60, 30)

	m := bigTriangle(t, RGB(255, 255, 255), 5, scene.MaterialFlat)
	n := scene.NewNode("hidden")
	n.Mesh = m
	n.Visible = false
	s := scene.New()
	s.Attach(nil, n)

	r.RenderInto(s, scene.NewCamera())
	if got := r.Stats().Meshes; got != 0 {
		t.Errorf("hidden mesh rendered: %d meshes", got)
	}
}
