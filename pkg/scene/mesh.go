// Package scene provides the scene graph, meshes, lights, and camera
// for the halfblock renderer.
package scene

import (
	"fmt"
	"image/color"

	"github.com/soralume/halfblock/pkg/math3d"
)

// Material selects how a mesh's triangles are shaded.
type Material int

const (
	MaterialFlat Material = iota
	MaterialPhong
	MaterialWireframe
)

// String returns the material name.
func (m Material) String() string {
	switch m {
	case MaterialFlat:
		return "flat"
	case MaterialPhong:
		return "phong"
	case MaterialWireframe:
		return "wireframe"
	default:
		return "unknown"
	}
}

// Mesh is a triangle mesh with per-vertex colors.
//
// Faces index into Verts; Colors is parallel to Verts. The bounding box
// is cached and recomputed lazily after vertex edits.
type Mesh struct {
	Verts    []math3d.Vec3
	Faces    [][3]int
	Colors   []color.RGBA
	Material Material

	boundsMin   math3d.Vec3
	boundsMax   math3d.Vec3
	boundsDirty bool
}

// NewMesh builds a mesh and validates the builder contract: one color
// per vertex and every face index in range.
func NewMesh(verts []math3d.Vec3, faces [][3]int, colors []color.RGBA, material Material) (*Mesh, error) {
	if len(colors) != len(verts) {
		return nil, fmt.Errorf("mesh: %d colors for %d vertices", len(colors), len(verts))
	}
	for i, f := range faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(verts) {
				return nil, fmt.Errorf("mesh: face %d references vertex %d of %d", i, idx, len(verts))
			}
		}
	}
	return &Mesh{
		Verts:       verts,
		Faces:       faces,
		Colors:      colors,
		Material:    material,
		boundsDirty: true,
	}, nil
}

// Bounds returns the axis-aligned bounding box, recomputing it if the
// vertices changed since the last call. An empty mesh reports a zero box.
func (m *Mesh) Bounds() (min, max math3d.Vec3) {
	if m.boundsDirty {
		m.recalcBounds()
	}
	return m.boundsMin, m.boundsMax
}

// InvalidateBounds marks the cached bounding box stale. Call after
// mutating Verts in place.
func (m *Mesh) InvalidateBounds() {
	m.boundsDirty = true
}

func (m *Mesh) recalcBounds() {
	m.boundsDirty = false
	if len(m.Verts) == 0 {
		m.boundsMin = math3d.Zero3()
		m.boundsMax = math3d.Zero3()
		return
	}
	m.boundsMin = m.Verts[0]
	m.boundsMax = m.Verts[0]
	for _, v := range m.Verts[1:] {
		m.boundsMin = m.boundsMin.Min(v)
		m.boundsMax = m.boundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	min, max := m.Bounds()
	return min.Add(max).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	min, max := m.Bounds()
	return max.Sub(min)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Verts)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// SetUniformColor overwrites every vertex color.
func (m *Mesh) SetUniformColor(c color.RGBA) {
	for i := range m.Colors {
		m.Colors[i] = c
	}
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Verts:       make([]math3d.Vec3, len(m.Verts)),
		Faces:       make([][3]int, len(m.Faces)),
		Colors:      make([]color.RGBA, len(m.Colors)),
		Material:    m.Material,
		boundsMin:   m.boundsMin,
		boundsMax:   m.boundsMax,
		boundsDirty: m.boundsDirty,
	}
	copy(clone.Verts, m.Verts)
	copy(clone.Faces, m.Faces)
	copy(clone.Colors, m.Colors)
	return clone
}
