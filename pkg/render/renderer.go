package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/soralume/halfblock/pkg/math3d"
	"github.com/soralume/halfblock/pkg/scene"
)

// Frustum cull margin in clip units. Keeps meshes from popping at the
// exact clip boundary.
const cullMargin = 0.2

// Minimum character grid accepted by Resize.
const (
	minCharWidth  = 30
	minCharHeight = 12
)

// qualityFactors maps a quality level to a resolution factor.
var qualityFactors = map[int]float64{
	0: 1.0 / 2.0,
	1: 2.0 / 3.0,
	2: 3.0 / 4.0,
	3: 1.0,
	4: 3.0 / 2.0,
	5: 2.0,
	6: 3.0,
	7: 5.0,
}

// QualityMedium is the fallback level applied when an invalid quality
// is requested.
const QualityMedium = 2

// FrameStats summarizes the work done by the last frame.
type FrameStats struct {
	Meshes    int
	Culled    int
	Triangles int
	Vertices  int
	Lights    int
	PixelW    int
	PixelH    int
	Factor    float64
}

// Renderer owns the frame buffers and runs the full pipeline: clear,
// transform, cull, rasterize, compose. It is single threaded; the
// buffers are only touched inside RenderFrame and the resize paths, so
// a resize can never interleave with a frame.
type Renderer struct {
	charW, charH int
	factor       float64
	quality      int

	clearColor color.RGBA
	ambient    color.RGBA
	wireColor  color.RGBA

	fb    *Framebuffer
	stats FrameStats
}

// NewRenderer creates a renderer for the given character grid at the
// default resolution factor of 1.
func NewRenderer(charW, charH int) *Renderer {
	r := &Renderer{
		charW:      max(charW, 1),
		charH:      max(charH, 1),
		quality:    3,
		clearColor: color.RGBA{12, 12, 20, 255},
		ambient:    color.RGBA{50, 50, 60, 255},
		wireColor:  color.RGBA{255, 255, 255, 255},
	}
	r.applyFactor(1.0)
	return r
}

// Framebuffer exposes the current pixel buffers for snapshots and tests.
func (r *Renderer) Framebuffer() *Framebuffer {
	return r.fb
}

// Stats returns the statistics of the last rendered frame.
func (r *Renderer) Stats() FrameStats {
	return r.stats
}

// Quality returns the current quality level, or -1 after a manual
// SetResolutionFactor call.
func (r *Renderer) Quality() int {
	return r.quality
}

// ResolutionFactor returns the current supersampling factor.
func (r *Renderer) ResolutionFactor() float64 {
	return r.factor
}

// SetClearColor sets the background color used when clearing.
func (r *Renderer) SetClearColor(c color.RGBA) {
	r.clearColor = c
}

// SetAmbientLight sets the ambient light color.
func (r *Renderer) SetAmbientLight(c color.RGBA) {
	r.ambient = c
}

// SetWireframeColor sets the fixed color used by wireframe materials.
func (r *Renderer) SetWireframeColor(c color.RGBA) {
	r.wireColor = c
}

// SetResolutionFactor resizes the buffers for the given supersampling
// factor. An invalid factor falls back to 1.0 and returns an error; the
// renderer stays usable either way.
func (r *Renderer) SetResolutionFactor(f float64) error {
	r.quality = -1
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		r.applyFactor(1.0)
		return fmt.Errorf("render: invalid resolution factor %v, using 1.0", f)
	}
	r.applyFactor(f)
	return nil
}

// SetRenderQuality selects a preset quality level 0 (lowest) through
// 7 (highest). An unknown level falls back to medium and returns an
// error.
func (r *Renderer) SetRenderQuality(level int) error {
	f, ok := qualityFactors[level]
	if !ok {
		r.quality = QualityMedium
		r.applyFactor(qualityFactors[QualityMedium])
		return fmt.Errorf("render: invalid quality level %d, using medium", level)
	}
	r.quality = level
	r.applyFactor(f)
	return nil
}

// Resize changes the character grid and reallocates the buffers at the
// current resolution factor. Dimensions are clamped to a usable minimum.
func (r *Renderer) Resize(charW, charH int) {
	r.charW = max(charW, minCharWidth)
	r.charH = max(charH, minCharHeight)
	r.applyFactor(r.factor)
}

// applyFactor is the single buffer (re)allocation path.
func (r *Renderer) applyFactor(f float64) {
	r.factor = f
	pw := int(float64(r.charW) * f)
	ph := int(float64(r.charH)*f) * 2
	if pw < 1 {
		pw = 1
	}
	if ph < 2 {
		ph = 2
	}
	r.fb = NewFramebuffer(pw, ph)
	r.fb.Clear(r.clearColor)
}

// RenderFrame runs the full pipeline over the scene's visible mesh
// nodes and returns the composed terminal lines.
func (r *Renderer) RenderFrame(sc *scene.Scene, cam *scene.Camera) []string {
	r.RenderInto(sc, cam)
	return r.ComposeLines()
}

// RenderInto rasterizes the scene into the frame buffers without
// composing output lines. Use Framebuffer or Draw afterwards.
func (r *Renderer) RenderInto(sc *scene.Scene, cam *scene.Camera) {
	r.fb.Clear(r.clearColor)
	r.stats = FrameStats{
		PixelW: r.fb.Width,
		PixelH: r.fb.Height,
		Factor: r.factor,
	}

	view := cam.ViewMatrix()
	aspect := float64(r.fb.Width) / float64(r.fb.Height)
	proj := math3d.Perspective(cam.FOV, aspect, cam.Near, cam.Far)
	viewProj := proj.Mul(view)

	lights := prepareLights(sc.Lights())
	ambient := scaleRGB(r.ambient)
	r.stats.Lights = len(lights)

	for _, node := range sc.MeshNodes() {
		mesh := node.Mesh
		world := node.WorldMatrix()

		if !r.meshVisible(mesh, world, viewProj, cam) {
			r.stats.Culled++
			continue
		}

		worldVerts := transformVerts(mesh.Verts, world)
		projVerts := r.projectVerts(worldVerts, view, proj, cam)
		r.drawMesh(mesh, worldVerts, projVerts, lights, ambient)

		r.stats.Meshes++
		r.stats.Vertices += len(worldVerts)
		r.stats.Triangles += len(mesh.Faces)
	}
}

// meshVisible tests the mesh's bounding box against the view frustum.
// The eight box corners are projected to clip space and their extent is
// compared against the clip cube with a margin. Conservative: it may
// keep an invisible mesh, it never culls a visible one.
func (r *Renderer) meshVisible(mesh *scene.Mesh, world, viewProj math3d.Mat4, cam *scene.Camera) bool {
	bmin, bmax := mesh.Bounds()
	corners := [8]math3d.Vec3{
		math3d.V3(bmin.X, bmin.Y, bmin.Z),
		math3d.V3(bmax.X, bmin.Y, bmin.Z),
		math3d.V3(bmin.X, bmax.Y, bmin.Z),
		math3d.V3(bmax.X, bmax.Y, bmin.Z),
		math3d.V3(bmin.X, bmin.Y, bmax.Z),
		math3d.V3(bmax.X, bmin.Y, bmax.Z),
		math3d.V3(bmin.X, bmax.Y, bmax.Z),
		math3d.V3(bmax.X, bmax.Y, bmax.Z),
	}

	minC := math3d.V3(math.Inf(1), math.Inf(1), math.Inf(1))
	maxC := math3d.V3(math.Inf(-1), math.Inf(-1), math.Inf(-1))
	for _, c := range corners {
		p := viewProj.MulVec3(world.MulVec3(c))
		minC = minC.Min(p)
		maxC = maxC.Max(p)
	}

	if maxC.X < -1-cullMargin || minC.X > 1+cullMargin ||
		maxC.Y < -1-cullMargin || minC.Y > 1+cullMargin ||
		maxC.Z < cam.Near-cullMargin || minC.Z > cam.Far+cullMargin {
		return false
	}
	return true
}

func transformVerts(verts []math3d.Vec3, world math3d.Mat4) []math3d.Vec3 {
	out := make([]math3d.Vec3, len(verts))
	for i, v := range verts {
		out[i] = world.MulVec3(v)
	}
	return out
}

// projVert is a projected vertex: integer pixel coordinates plus the
// zoom-adjusted view-space depth. An invalid projection (at or behind
// the near plane) carries depth +Inf.
type projVert struct {
	x, y int
	z    float64
}

func (p projVert) valid() bool {
	return !math.IsInf(p.z, 1)
}

// projectVerts maps world vertices to screen space. The camera zoom is
// added to view-space depth before projection, acting as an extra dolly
// distance.
func (r *Renderer) projectVerts(worldVerts []math3d.Vec3, view, proj math3d.Mat4, cam *scene.Camera) []projVert {
	out := make([]projVert, len(worldVerts))
	pw, ph := r.fb.Width, r.fb.Height

	for i, w := range worldVerts {
		v := view.MulVec3(w)
		z := v.Z + cam.Zoom

		if z <= cam.Near {
			out[i] = projVert{z: math.Inf(1)}
			continue
		}

		ndc := proj.MulVec3(math3d.V3(v.X, v.Y, z))
		out[i] = projVert{
			x: int((ndc.X*0.5 + 0.5) * float64(pw-1)),
			y: int((-ndc.Y*0.5 + 0.5) * float64(ph-1)),
			z: z,
		}
	}
	return out
}
