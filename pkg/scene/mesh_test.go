package scene

import (
	"image/color"
	"testing"

	"github.com/soralume/halfblock/pkg/math3d"
)

func TestNewMeshValidation(t *testing.T) {
	verts := []math3d.Vec3{
		math3d.V3(0, 0, 0),
		math3d.V3(1, 0, 0),
		math3d.V3(0, 1, 0),
	}
	colors := make([]color.RGBA, 3)

	if _, err := NewMesh(verts, [][3]int{{0, 1, 2}}, colors, MaterialFlat); err != nil {
		t.Errorf("valid mesh rejected: %v", err)
	}

	if _, err := NewMesh(verts, [][3]int{{0, 1, 3}}, colors, MaterialFlat); err == nil {
		t.Errorf("out-of-range face index accepted")
	}
	if _, err := NewMesh(verts, [][3]int{{0, 1, -1}}, colors, MaterialFlat); err == nil {
		t.Errorf("negative face index accepted")
	}
	if _, err := NewMesh(verts, [][3]int{{0, 1, 2}}, colors[:2], MaterialFlat); err == nil {
		t.Errorf("color/vertex count mismatch accepted")
	}
}

func TestMeshBounds(t *testing.T) {
	m := testTriangle(t, MaterialFlat)

	min, max := m.Bounds()
	if min != math3d.Zero3() {
		t.Errorf("bounds min = %v, want origin", min)
	}
	if max != math3d.V3(1, 1, 0) {
		t.Errorf("bounds max = %v, want (1, 1, 0)", max)
	}
}

func TestMeshBoundsInvalidation(t *testing.T) {
	m := testTriangle(t, MaterialFlat)
	m.Bounds()

	m.Verts[0] = math3d.V3(-5, 0, 0)

	// Stale until invalidated.
	min, _ := m.Bounds()
	if min.X != 0 {
		t.Errorf("bounds recomputed without invalidation: min.X = %v", min.X)
	}

	m.InvalidateBounds()
	min, _ = m.Bounds()
	if min.X != -5 {
		t.Errorf("bounds min.X after invalidation = %v, want -5", min.X)
	}
}

func TestMeshCenterSize(t *testing.T) {
	verts := []math3d.Vec3{
		math3d.V3(-1, -2, -3),
		math3d.V3(1, 2, 3),
		math3d.V3(0, 0, 0),
	}
	m, err := NewMesh(verts, [][3]int{{0, 1, 2}}, make([]color.RGBA, 3), MaterialFlat)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}

	if got := m.Center(); got != math3d.Zero3() {
		t.Errorf("Center = %v, want origin", got)
	}
	if got := m.Size(); got != math3d.V3(2, 4, 6) {
		t.Errorf("Size = %v, want (2, 4, 6)", got)
	}
}

func TestMeshClone(t *testing.T) {
	m := testTriangle(t, MaterialPhong)
	clone := m.Clone()

	clone.Verts[0] = math3d.V3(9, 9, 9)
	clone.Colors[0] = color.RGBA{1, 2, 3, 255}

	if m.Verts[0] == clone.Verts[0] {
		t.Errorf("clone shares vertex storage")
	}
	if m.Colors[0] == clone.Colors[0] {
		t.Errorf("clone shares color storage")
	}
	if clone.Material != MaterialPhong {
		t.Errorf("clone material = %v, want phong", clone.Material)
	}
}

func TestMeshSetUniformColor(t *testing.T) {
	m := testTriangle(t, MaterialFlat)
	m.SetUniformColor(color.RGBA{10, 20, 30, 255})
	for i, c := range m.Colors {
		if c != (color.RGBA{10, 20, 30, 255}) {
			t.Errorf("color %d = %v after SetUniformColor", i, c)
		}
	}
}

func TestEmptyMeshBounds(t *testing.T) {
	m, err := NewMesh(nil, nil, nil, MaterialFlat)
	if err != nil {
		t.Fatalf("empty mesh rejected: %v", err)
	}
	min, max := m.Bounds()
	if min != math3d.Zero3() || max != math3d.Zero3() {
		t.Errorf("empty mesh bounds = %v..%v, want zero box", min, max)
	}
}
