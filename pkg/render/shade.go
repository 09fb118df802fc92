package render

import (
	"image/color"
	"math"

	"github.com/soralume/halfblock/pkg/math3d"
	"github.com/soralume/halfblock/pkg/scene"
)

// Phong parameters.
const (
	specularStrength = 0.5
	shininess        = 32
)

// colorScale normalizes 8-bit light channels into [0, 1].
const colorScale = 1.0 / 255.0

// shadingLight is a light with its color channels pre-scaled for the
// per-triangle shading loop.
type shadingLight struct {
	kind      scene.LightKind
	light     *scene.Light
	r, g, b   float64
	intensity float64
}

// prepareLights scales every light color once per frame.
func prepareLights(lights []*scene.Light) []shadingLight {
	out := make([]shadingLight, len(lights))
	for i, l := range lights {
		out[i] = shadingLight{
			kind:      l.Kind,
			light:     l,
			r:         float64(l.Color.R) * colorScale,
			g:         float64(l.Color.G) * colorScale,
			b:         float64(l.Color.B) * colorScale,
			intensity: l.Intensity,
		}
	}
	return out
}

func scaleRGB(c color.RGBA) [3]float64 {
	return [3]float64{
		float64(c.R) * colorScale,
		float64(c.G) * colorScale,
		float64(c.B) * colorScale,
	}
}

// flatShade computes ambient plus Lambert diffuse for one triangle.
// The normal must already face the viewer; base is the average vertex
// color in 0..255 per channel.
func flatShade(base [3]float64, normal, fragPos math3d.Vec3, lights []shadingLight, ambient [3]float64) color.RGBA {
	totalR := base[0] * ambient[0]
	totalG := base[1] * ambient[1]
	totalB := base[2] * ambient[2]

	for i := range lights {
		l := &lights[i]
		var intensity float64

		switch l.kind {
		case scene.LightDirectional:
			intensity = math.Max(normal.Dot(l.light.Direction.Negate()), 0) * l.intensity
		case scene.LightSpot:
			toLight := l.light.Position.Sub(fragPos).Normalize()
			diff := math.Max(normal.Dot(toLight), 0)
			intensity = diff * l.intensity *
				l.light.ConeFactor(fragPos) * l.light.Attenuation(fragPos)
		case scene.LightPoint:
			toLight := l.light.Position.Sub(fragPos).Normalize()
			diff := math.Max(normal.Dot(toLight), 0)
			intensity = diff * l.intensity * l.light.Attenuation(fragPos)
		}

		totalR += base[0] * l.r * intensity
		totalG += base[1] * l.g * intensity
		totalB += base[2] * l.b * intensity
	}

	return clampRGB(totalR, totalG, totalB)
}

// phongShade adds a specular highlight on top of the flat terms. The
// view direction points from the fragment toward the view origin.
func phongShade(base [3]float64, normal, viewDir, fragPos math3d.Vec3, lights []shadingLight, ambient [3]float64) color.RGBA {
	totalR := base[0] * ambient[0]
	totalG := base[1] * ambient[1]
	totalB := base[2] * ambient[2]

	for i := range lights {
		l := &lights[i]
		var (
			lightVec   math3d.Vec3
			diff       float64
			spotFactor = 1.0
			distFactor = 1.0
		)

		switch l.kind {
		case scene.LightDirectional:
			lightVec = l.light.Direction.Negate()
			diff = math.Max(normal.Dot(lightVec), 0)
		case scene.LightSpot:
			lightVec = l.light.Position.Sub(fragPos).Normalize()
			diff = math.Max(normal.Dot(lightVec), 0)
			spotFactor = l.light.ConeFactor(fragPos)
			distFactor = l.light.Attenuation(fragPos)
		case scene.LightPoint:
			lightVec = l.light.Position.Sub(fragPos).Normalize()
			diff = math.Max(normal.Dot(lightVec), 0)
			distFactor = l.light.Attenuation(fragPos)
		}

		k := l.intensity * spotFactor * distFactor
		totalR += base[0] * l.r * diff * k
		totalG += base[1] * l.g * diff * k
		totalB += base[2] * l.b * diff * k

		reflectDir := normal.Scale(2 * normal.Dot(lightVec)).Sub(lightVec).Normalize()
		spec := math.Pow(math.Max(viewDir.Dot(reflectDir), 0), shininess)
		s := 255 * specularStrength * spec * k
		totalR += l.r * s
		totalG += l.g * s
		totalB += l.b * s
	}

	return clampRGB(totalR, totalG, totalB)
}

func clampRGB(r, g, b float64) color.RGBA {
	return color.RGBA{
		R: clampChannel(r),
		G: clampChannel(g),
		B: clampChannel(b),
		A: 255,
	}
}

func clampChannel(v float64) uint8 {
	i := int(v)
	if i < 0 {
		return 0
	}
	if i > 255 {
		return 255
	}
	return uint8(i)
}
