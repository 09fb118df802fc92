package scene

import (
	"fmt"
	"image/color"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/soralume/halfblock/pkg/math3d"
)

// LoadGLB loads a binary glTF (.glb) file into a single flat mesh.
// Per-vertex colors come from each primitive's material base color, or
// white when the primitive has no material. Winding is reversed from
// glTF's CCW front faces to the CW convention this engine uses.
func LoadGLB(file string, material Material) (*Mesh, error) {
	doc, err := gltf.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	var (
		verts  []math3d.Vec3
		faces  [][3]int
		colors []color.RGBA
	)

	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
				continue
			}

			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			positions, err := readVec3Accessor(doc, posIdx)
			if err != nil {
				return nil, fmt.Errorf("mesh %q: read positions: %w", m.Name, err)
			}

			base := len(verts)
			tint := primitiveColor(doc, prim)
			for _, p := range positions {
				verts = append(verts, p)
				colors = append(colors, tint)
			}

			if prim.Indices != nil {
				indices, err := readIndices(doc, *prim.Indices)
				if err != nil {
					return nil, fmt.Errorf("mesh %q: read indices: %w", m.Name, err)
				}
				for i := 0; i+2 < len(indices); i += 3 {
					faces = append(faces, [3]int{
						base + indices[i],
						base + indices[i+2],
						base + indices[i+1],
					})
				}
			} else {
				for i := 0; i+2 < len(positions); i += 3 {
					faces = append(faces, [3]int{
						base + i,
						base + i + 2,
						base + i + 1,
					})
				}
			}
		}
	}

	return NewMesh(verts, faces, colors, material)
}

// primitiveColor resolves a primitive's material base color to 8-bit RGBA.
func primitiveColor(doc *gltf.Document, prim *gltf.Primitive) color.RGBA {
	white := color.RGBA{255, 255, 255, 255}
	if prim.Material == nil {
		return white
	}
	mat := doc.Materials[*prim.Material]
	if mat.PBRMetallicRoughness == nil {
		return white
	}
	bc := mat.PBRMetallicRoughness.BaseColorFactorOrDefault()
	return color.RGBA{
		R: uint8(clamp(bc[0], 0, 1) * 255),
		G: uint8(clamp(bc[1], 0, 1) * 255),
		B: uint8(clamp(bc[2], 0, 1) * 255),
		A: 255,
	}
}

func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}
	if accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float components, got %v", accessor.ComponentType)
	}

	buf, stride, err := accessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, accessor.Count)
	for i := range accessor.Count {
		off := i * stride
		result[i] = math3d.V3(
			float64(readFloat32(buf[off:])),
			float64(readFloat32(buf[off+4:])),
			float64(readFloat32(buf[off+8:])),
		)
	}
	return result, nil
}

func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	var compSize int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		compSize = 1
	case gltf.ComponentUshort:
		compSize = 2
	case gltf.ComponentUint:
		compSize = 4
	default:
		return nil, fmt.Errorf("unexpected index component type: %v", accessor.ComponentType)
	}

	buf, stride, err := accessorBytes(doc, accessor, compSize)
	if err != nil {
		return nil, err
	}

	result := make([]int, accessor.Count)
	for i := range accessor.Count {
		off := i * stride
		switch compSize {
		case 1:
			result[i] = int(buf[off])
		case 2:
			result[i] = int(uint16(buf[off]) | uint16(buf[off+1])<<8)
		case 4:
			result[i] = int(uint32(buf[off]) |
				uint32(buf[off+1])<<8 |
				uint32(buf[off+2])<<16 |
				uint32(buf[off+3])<<24)
		}
	}
	return result, nil
}

// accessorBytes returns the accessor's backing bytes starting at its
// first element, plus the element stride. Only embedded (GLB) buffers
// are supported.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}
	view := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[view.Buffer]
	if buffer.URI != "" {
		return nil, 0, fmt.Errorf("external buffers not supported")
	}
	if buffer.Data == nil {
		return nil, 0, fmt.Errorf("buffer has no data")
	}

	stride := view.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	start := view.ByteOffset + accessor.ByteOffset
	end := start + (accessor.Count-1)*stride + elemSize
	if end > len(buffer.Data) {
		return nil, 0, fmt.Errorf("accessor exceeds buffer: %d > %d", end, len(buffer.Data))
	}
	return buffer.Data[start:end], stride, nil
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits)
}
