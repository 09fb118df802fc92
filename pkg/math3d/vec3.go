// Package math3d provides 3D math primitives for the halfblock engine.
package math3d

import "math"

// Eps is the guard threshold for near-zero divisors and lengths.
const Eps = 1e-9

// Vec3 represents a 3D vector.
type Vec3 struct {
	X, Y, Z float64
}

// V3 creates a new Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Zero3 returns the zero vector.
func Zero3() Vec3 {
	return Vec3{}
}

// Add returns the vector sum a + b.
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns the vector difference a - b.
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Mul returns the component-wise product a * b.
func (a Vec3) Mul(b Vec3) Vec3 {
	return Vec3{a.X * b.X, a.Y * b.Y, a.Z * b.Z}
}

// Scale returns the scalar product a * s.
func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}

// Div returns the scalar division a / s.
// A near-zero divisor is substituted with Eps instead of faulting.
func (a Vec3) Div(s float64) Vec3 {
	s = guard(s)
	return Vec3{a.X / s, a.Y / s, a.Z / s}
}

// DivComp returns the component-wise division a / b with each near-zero
// component of b substituted by Eps.
func (a Vec3) DivComp(b Vec3) Vec3 {
	return Vec3{a.X / guard(b.X), a.Y / guard(b.Y), a.Z / guard(b.Z)}
}

// Dot returns the dot product a · b.
func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the cross product a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Len returns the length (magnitude) of the vector.
func (a Vec3) Len() float64 {
	return math.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z)
}

// LenSq returns the squared length (faster, no sqrt).
func (a Vec3) LenSq() float64 {
	return a.X*a.X + a.Y*a.Y + a.Z*a.Z
}

// Normalize returns the unit vector in the same direction.
// A vector within Eps of zero normalizes to the zero vector.
func (a Vec3) Normalize() Vec3 {
	lsq := a.LenSq()
	if lsq < Eps {
		return Vec3{}
	}
	inv := 1.0 / math.Sqrt(lsq)
	return Vec3{a.X * inv, a.Y * inv, a.Z * inv}
}

// Negate returns the negated vector.
func (a Vec3) Negate() Vec3 {
	return Vec3{-a.X, -a.Y, -a.Z}
}

// Lerp returns the linear interpolation between a and b by t.
func (a Vec3) Lerp(b Vec3, t float64) Vec3 {
	return Vec3{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// Distance returns the distance between two points.
func (a Vec3) Distance(b Vec3) float64 {
	return a.Sub(b).Len()
}

// AngleBetween returns the angle between a and b in radians.
// Returns 0 when either vector is near zero. The acos argument is clamped
// to [-1, 1] to absorb floating-point overshoot.
func (a Vec3) AngleBetween(b Vec3) float64 {
	denom := a.Len() * b.Len()
	if denom < Eps {
		return 0
	}
	v := a.Dot(b) / denom
	return math.Acos(math.Max(-1, math.Min(1, v)))
}

// ProjectOnto returns the projection of a onto b.
// Projecting onto a near-zero vector yields the zero vector.
func (a Vec3) ProjectOnto(b Vec3) Vec3 {
	lsq := b.LenSq()
	if lsq < Eps {
		return Vec3{}
	}
	return b.Scale(a.Dot(b) / lsq)
}

// RejectFrom returns the component of a perpendicular to b.
func (a Vec3) RejectFrom(b Vec3) Vec3 {
	return a.Sub(a.ProjectOnto(b))
}

// Reflect returns the reflection of a about normal n.
func (a Vec3) Reflect(n Vec3) Vec3 {
	return a.Sub(n.Scale(2 * a.Dot(n)))
}

// ScalarTriple returns a · (b × c).
func (a Vec3) ScalarTriple(b, c Vec3) float64 {
	return a.Dot(b.Cross(c))
}

// VectorTriple returns a × (b × c), expanded as b(a·c) - c(a·b).
func (a Vec3) VectorTriple(b, c Vec3) Vec3 {
	return b.Scale(a.Dot(c)).Sub(c.Scale(a.Dot(b)))
}

// Min returns the component-wise minimum.
func (a Vec3) Min(b Vec3) Vec3 {
	return Vec3{
		math.Min(a.X, b.X),
		math.Min(a.Y, b.Y),
		math.Min(a.Z, b.Z),
	}
}

// Max returns the component-wise maximum.
func (a Vec3) Max(b Vec3) Vec3 {
	return Vec3{
		math.Max(a.X, b.X),
		math.Max(a.Y, b.Y),
		math.Max(a.Z, b.Z),
	}
}

func guard(s float64) float64 {
	if math.Abs(s) > Eps {
		return s
	}
	if s < 0 {
		return -Eps
	}
	return Eps
}
