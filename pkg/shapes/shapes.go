// Package shapes generates procedural meshes for the halfblock engine.
package shapes

import (
	"image/color"
	"math"

	"github.com/soralume/halfblock/pkg/math3d"
	"github.com/soralume/halfblock/pkg/scene"
)

// must wraps mesh construction for builders whose vertex and face data
// is correct by construction.
func must(m *scene.Mesh, err error) *scene.Mesh {
	if err != nil {
		panic(err)
	}
	return m
}

func fill(n int, tint []color.RGBA, fallback func(i int) color.RGBA) []color.RGBA {
	out := make([]color.RGBA, n)
	for i := range out {
		if len(tint) > 0 {
			out[i] = tint[0]
		} else {
			out[i] = fallback(i)
		}
	}
	return out
}

// Cube generates an axis-aligned cube centered at the origin. Without a
// tint each corner gets a distinct pastel color.
func Cube(size float64, tint ...color.RGBA) *scene.Mesh {
	s := size / 2
	verts := []math3d.Vec3{
		math3d.V3(-s, -s, -s), math3d.V3(s, -s, -s), math3d.V3(s, s, -s), math3d.V3(-s, s, -s),
		math3d.V3(-s, -s, s), math3d.V3(s, -s, s), math3d.V3(s, s, s), math3d.V3(-s, s, s),
	}
	faces := [][3]int{
		{0, 1, 2}, {0, 2, 3}, // back
		{4, 6, 5}, {4, 7, 6}, // front
		{0, 4, 5}, {0, 5, 1}, // bottom
		{3, 2, 6}, {3, 6, 7}, // top
		{1, 5, 6}, {1, 6, 2}, // right
		{0, 3, 7}, {0, 7, 4}, // left
	}
	pastel := []color.RGBA{
		{255, 179, 186, 255}, {255, 223, 186, 255}, {255, 255, 186, 255}, {186, 255, 201, 255},
		{186, 225, 255, 255}, {223, 186, 255, 255}, {255, 186, 255, 255}, {186, 255, 255, 255},
	}
	colors := fill(len(verts), tint, func(i int) color.RGBA { return pastel[i] })
	return must(scene.NewMesh(verts, faces, colors, scene.MaterialFlat))
}

// Plane generates a flat grid in the XZ plane centered at the origin.
func Plane(width, depth float64, segX, segZ int, tint ...color.RGBA) *scene.Mesh {
	if segX < 1 {
		segX = 1
	}
	if segZ < 1 {
		segZ = 1
	}

	var verts []math3d.Vec3
	for z := 0; z <= segZ; z++ {
		for x := 0; x <= segX; x++ {
			px := (float64(x)/float64(segX) - 0.5) * width
			pz := (float64(z)/float64(segZ) - 0.5) * depth
			verts = append(verts, math3d.V3(px, 0, pz))
		}
	}

	var faces [][3]int
	for z := 0; z < segZ; z++ {
		for x := 0; x < segX; x++ {
			i0 := z*(segX+1) + x
			i1 := i0 + 1
			i2 := i0 + segX + 1
			i3 := i2 + 1
			faces = append(faces, [3]int{i0, i2, i1}, [3]int{i1, i2, i3})
		}
	}

	colors := fill(len(verts), tint, func(int) color.RGBA {
		return color.RGBA{200, 200, 200, 255}
	})
	return must(scene.NewMesh(verts, faces, colors, scene.MaterialFlat))
}

// UVSphere generates a latitude/longitude sphere. Without a tint each
// vertex is colored by its position on the unit sphere.
func UVSphere(radius float64, segX, segY int, tint ...color.RGBA) *scene.Mesh {
	if segX < 3 {
		segX = 3
	}
	if segY < 2 {
		segY = 2
	}

	var verts []math3d.Vec3
	var normals []math3d.Vec3
	for y := 0; y <= segY; y++ {
		phi := float64(y) * math.Pi / float64(segY)
		for x := 0; x <= segX; x++ {
			theta := float64(x) * 2 * math.Pi / float64(segX)
			sx := math.Cos(theta) * math.Sin(phi)
			sy := math.Sin(theta) * math.Sin(phi)
			sz := math.Cos(phi)
			verts = append(verts, math3d.V3(radius*sx, radius*sy, radius*sz))
			normals = append(normals, math3d.V3(sx, sy, sz))
		}
	}

	var faces [][3]int
	for y := 0; y < segY; y++ {
		for x := 0; x < segX; x++ {
			i0 := y*(segX+1) + x
			i1 := i0 + 1
			i2 := (y+1)*(segX+1) + x
			i3 := i2 + 1
			faces = append(faces, [3]int{i0, i2, i1}, [3]int{i1, i2, i3})
		}
	}

	colors := fill(len(verts), tint, func(i int) color.RGBA {
		n := normals[i]
		return color.RGBA{
			R: uint8(255 * (n.X + 1) / 2),
			G: uint8(255 * (n.Y + 1) / 2),
			B: uint8(255 * (n.Z + 1) / 2),
			A: 255,
		}
	})
	return must(scene.NewMesh(verts, faces, colors, scene.MaterialFlat))
}

// Torus generates a torus with major radius major and minor radius
// minor, lying in the XY plane.
func Torus(major, minor float64, segMajor, segMinor int, tint ...color.RGBA) *scene.Mesh {
	if segMajor < 3 {
		segMajor = 3
	}
	if segMinor < 3 {
		segMinor = 3
	}

	var verts []math3d.Vec3
	var shade []color.RGBA
	for i := 0; i < segMajor; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segMajor)
		cosT, sinT := math.Cos(theta), math.Sin(theta)
		for j := 0; j < segMinor; j++ {
			phi := 2 * math.Pi * float64(j) / float64(segMinor)
			cosP, sinP := math.Cos(phi), math.Sin(phi)
			verts = append(verts, math3d.V3(
				(major+minor*cosP)*cosT,
				(major+minor*cosP)*sinT,
				minor*sinP,
			))
			shade = append(shade, color.RGBA{
				R: uint8(127 + 127*cosP),
				G: uint8(127 + 127*sinT),
				B: uint8(127 + 127*sinP),
				A: 255,
			})
		}
	}

	var faces [][3]int
	for i := 0; i < segMajor; i++ {
		for j := 0; j < segMinor; j++ {
			i0 := i*segMinor + j
			i1 := i*segMinor + (j+1)%segMinor
			i2 := ((i+1)%segMajor)*segMinor + j
			i3 := ((i+1)%segMajor)*segMinor + (j+1)%segMinor
			faces = append(faces, [3]int{i0, i2, i1}, [3]int{i1, i2, i3})
		}
	}

	colors := fill(len(verts), tint, func(i int) color.RGBA { return shade[i] })
	return must(scene.NewMesh(verts, faces, colors, scene.MaterialFlat))
}
