package render

import (
	"image/color"

	"github.com/soralume/halfblock/pkg/math3d"
	"github.com/soralume/halfblock/pkg/scene"
)

// edgeCoeffs returns the coefficients (A, B, C) of the 2D line through
// (x0, y0) and (x1, y1) such that A*x + B*y + C is proportional to the
// signed distance from the line. Integer inputs keep the edge test
// exact.
func edgeCoeffs(x0, y0, x1, y1 int) (a, b, c int) {
	return y0 - y1, x1 - x0, x0*y1 - y0*x1
}

// drawMesh rasterizes a mesh's triangles into the buffers. Wireframe
// meshes draw edges only; flat and phong meshes get filled triangles
// with one shading evaluation per triangle.
func (r *Renderer) drawMesh(mesh *scene.Mesh, worldVerts []math3d.Vec3, projVerts []projVert, lights []shadingLight, ambient [3]float64) {
	if mesh.Material == scene.MaterialWireframe {
		r.drawWireframe(mesh, projVerts)
		return
	}

	fb := r.fb
	pw, ph := fb.Width, fb.Height

	for _, face := range mesh.Faces {
		i0, i1, i2 := face[0], face[1], face[2]
		p0, p1, p2 := projVerts[i0], projVerts[i1], projVerts[i2]

		if !p0.valid() || !p1.valid() || !p2.valid() {
			continue
		}

		// Signed area doubles as the front/back discriminant.
		area := (p1.x-p0.x)*(p2.y-p0.y) - (p1.y-p0.y)*(p2.x-p0.x)
		if area == 0 {
			continue
		}
		invArea := 1.0 / float64(area)

		minX := max(0, min3(p0.x, p1.x, p2.x))
		maxX := min(pw-1, max3(p0.x, p1.x, p2.x))
		minY := max(0, min3(p0.y, p1.y, p2.y))
		maxY := min(ph-1, max3(p0.y, p1.y, p2.y))
		if minX > maxX || minY > maxY {
			continue
		}

		w0, w1, w2 := worldVerts[i0], worldVerts[i1], worldVerts[i2]
		normal := w1.Sub(w0).Cross(w2.Sub(w0)).Normalize()
		if area <= 0 {
			// Back face: flip the normal for two-sided shading.
			normal = normal.Negate()
		}

		base := [3]float64{
			(float64(mesh.Colors[i0].R) + float64(mesh.Colors[i1].R) + float64(mesh.Colors[i2].R)) / 3,
			(float64(mesh.Colors[i0].G) + float64(mesh.Colors[i1].G) + float64(mesh.Colors[i2].G)) / 3,
			(float64(mesh.Colors[i0].B) + float64(mesh.Colors[i1].B) + float64(mesh.Colors[i2].B)) / 3,
		}
		centroid := w0.Add(w1).Add(w2).Scale(1.0 / 3.0)

		var shaded color.RGBA
		if mesh.Material == scene.MaterialPhong {
			viewDir := centroid.Negate().Normalize()
			shaded = phongShade(base, normal, viewDir, centroid, lights, ambient)
		} else {
			shaded = flatShade(base, normal, centroid, lights, ambient)
		}

		a0, b0, c0 := edgeCoeffs(p1.x, p1.y, p2.x, p2.y)
		a1, b1, c1 := edgeCoeffs(p2.x, p2.y, p0.x, p0.y)
		a2, b2, c2 := edgeCoeffs(p0.x, p0.y, p1.x, p1.y)

		e0row := a0*minX + b0*minY + c0
		e1row := a1*minX + b1*minY + c1
		e2row := a2*minX + b2*minY + c2

		for py := minY; py <= maxY; py++ {
			e0, e1, e2 := e0row, e1row, e2row
			idx := py*pw + minX

			for px := minX; px <= maxX; px++ {
				// Same-sign test accepts both winding orders.
				if (e0 >= 0 && e1 >= 0 && e2 >= 0) || (e0 <= 0 && e1 <= 0 && e2 <= 0) {
					z := (float64(e0)*p0.z + float64(e1)*p1.z + float64(e2)*p2.z) * invArea
					if z < fb.Depth[idx] {
						fb.Depth[idx] = z
						fb.Pixels[idx] = shaded
					}
				}
				e0 += a0
				e1 += a1
				e2 += a2
				idx++
			}

			e0row += b0
			e1row += b1
			e2row += b2
		}
	}
}

// drawWireframe draws each triangle's edges with Bresenham lines,
// linearly interpolating depth along the edge and depth-testing every
// pixel against the shared depth buffer.
func (r *Renderer) drawWireframe(mesh *scene.Mesh, projVerts []projVert) {
	c := r.wireColor
	c.A = 255

	for _, face := range mesh.Faces {
		edges := [3][2]int{
			{face[0], face[1]},
			{face[1], face[2]},
			{face[2], face[0]},
		}
		for _, e := range edges {
			pa, pb := projVerts[e[0]], projVerts[e[1]]
			if !pa.valid() || !pb.valid() {
				continue
			}
			r.drawDepthLine(pa, pb, c)
		}
	}
}

func (r *Renderer) drawDepthLine(pa, pb projVert, c color.RGBA) {
	fb := r.fb
	x0, y0, x1, y1 := pa.x, pa.y, pb.x, pb.y

	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy
	steps := max(max(dx, dy), 1)

	x, y := x0, y0
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		z := pa.z*(1-t) + pb.z*t

		if x >= 0 && x < fb.Width && y >= 0 && y < fb.Height {
			idx := y*fb.Width + x
			if z < fb.Depth[idx] {
				fb.Depth[idx] = z
				fb.Pixels[idx] = c
			}
		}
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func min3(a, b, c int) int {
	return min(min(a, b), c)
}

func max3(a, b, c int) int {
	return max(max(a, b), c)
}
