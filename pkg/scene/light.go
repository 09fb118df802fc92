package scene

import (
	"image/color"
	"math"

	"github.com/soralume/halfblock/pkg/math3d"
)

// LightKind discriminates the closed set of light variants.
type LightKind int

const (
	LightDirectional LightKind = iota
	LightPoint
	LightSpot
)

// String returns the light kind name.
func (k LightKind) String() string {
	switch k {
	case LightDirectional:
		return "directional"
	case LightPoint:
		return "point"
	case LightSpot:
		return "spot"
	default:
		return "unknown"
	}
}

// Distance falloff constants shared by point and spot lights.
const (
	attenLinear    = 0.1
	attenQuadratic = 0.02
)

// Light is a tagged light variant. Direction is used by directional and
// spot lights, Position by point and spot lights, and the cone angles
// (radians, half-angles) by spot lights only.
type Light struct {
	Kind       LightKind
	Position   math3d.Vec3
	Direction  math3d.Vec3
	Color      color.RGBA
	Intensity  float64
	InnerAngle float64
	OuterAngle float64
}

// NewDirectionalLight creates a light shining along direction.
func NewDirectionalLight(direction math3d.Vec3, c color.RGBA, intensity float64) *Light {
	return &Light{
		Kind:      LightDirectional,
		Direction: direction.Normalize(),
		Color:     c,
		Intensity: intensity,
	}
}

// NewPointLight creates an omnidirectional light at position.
func NewPointLight(position math3d.Vec3, c color.RGBA, intensity float64) *Light {
	return &Light{
		Kind:      LightPoint,
		Position:  position,
		Color:     c,
		Intensity: intensity,
	}
}

// NewSpotLight creates a cone light at position shining along direction.
// The inner and outer half-angles are given in degrees.
func NewSpotLight(position, direction math3d.Vec3, c color.RGBA, intensity, innerDeg, outerDeg float64) *Light {
	return &Light{
		Kind:       LightSpot,
		Position:   position,
		Direction:  direction.Normalize(),
		Color:      c,
		Intensity:  intensity,
		InnerAngle: innerDeg * math.Pi / 180,
		OuterAngle: outerDeg * math.Pi / 180,
	}
}

// SetDirection replaces the light direction, renormalizing.
func (l *Light) SetDirection(d math3d.Vec3) {
	l.Direction = d.Normalize()
}

// Attenuation returns the distance falloff toward fragPos for point and
// spot lights. Directional lights do not attenuate and return 1.
func (l *Light) Attenuation(fragPos math3d.Vec3) float64 {
	if l.Kind == LightDirectional {
		return 1.0
	}
	dist := fragPos.Distance(l.Position)
	return 1.0 / (1.0 + attenLinear*dist + attenQuadratic*dist*dist)
}

// ConeFactor returns the spot cone falloff for fragPos: 1 inside the
// inner cone, 0 outside the outer cone, and a linear ramp between.
// Non-spot lights return 1.
func (l *Light) ConeFactor(fragPos math3d.Vec3) float64 {
	if l.Kind != LightSpot {
		return 1.0
	}

	toFrag := fragPos.Sub(l.Position).Normalize()
	cosTheta := l.Direction.Dot(toFrag)

	cosInner := math.Cos(l.InnerAngle)
	cosOuter := math.Cos(l.OuterAngle)

	if cosTheta < cosOuter {
		return 0.0
	}
	if cosTheta > cosInner {
		return 1.0
	}
	return (cosTheta - cosOuter) / (cosInner - cosOuter)
}
