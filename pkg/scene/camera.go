package scene

import "github.com/soralume/halfblock/pkg/math3d"

// Field of view clamp range in degrees.
const (
	minFOV = 10.0
	maxFOV = 160.0
)

// Camera holds projection settings, position, and rotation.
// Rot is Euler pitch/yaw/roll in radians. Zoom is an additive offset
// applied to view-space depth, acting as an extra dolly distance.
type Camera struct {
	FOV  float64
	Near float64
	Far  float64
	Zoom float64
	Pos  math3d.Vec3
	Rot  math3d.Vec3
}

// NewCamera creates a camera with the default projection settings.
func NewCamera() *Camera {
	return &Camera{
		FOV:  60.0,
		Near: 0.1,
		Far:  100.0,
		Zoom: 1.0,
	}
}

// SetFOV sets the field of view in degrees, clamped to [10, 160].
func (c *Camera) SetFOV(fov float64) {
	c.FOV = clamp(fov, minFOV, maxFOV)
}

// ChangeFOV adjusts the field of view by delta degrees.
func (c *Camera) ChangeFOV(delta float64) {
	c.SetFOV(c.FOV + delta)
}

// Move translates the camera by the given offsets.
func (c *Camera) Move(x, y, z float64) {
	c.Pos = c.Pos.Add(math3d.V3(x, y, z))
}

// Rotate adjusts the camera rotation by the given radians.
func (c *Camera) Rotate(x, y, z float64) {
	c.Rot = c.Rot.Add(math3d.V3(x, y, z))
}

// ZoomBy adjusts the zoom offset by delta.
func (c *Camera) ZoomBy(delta float64) {
	c.Zoom += delta
}

// Reset restores the default projection and steps the camera back from
// the origin so it faces the scene.
func (c *Camera) Reset(stepback float64) {
	c.Pos = math3d.V3(0, 0, -stepback)
	c.Rot = math3d.Zero3()
	c.Zoom = 1.0
	c.FOV = 60.0
}

// ViewMatrix builds the inverse camera transform: rotations negated and
// applied in X, Y, Z axis order, then the negated translation.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	rx := math3d.RotateX(-c.Rot.X)
	ry := math3d.RotateY(-c.Rot.Y)
	rz := math3d.RotateZ(-c.Rot.Z)
	return rx.Mul(ry).Mul(rz).Mul(math3d.Translate(c.Pos.Negate()))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
