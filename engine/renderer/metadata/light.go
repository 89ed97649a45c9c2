package metadata

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/shoreline/engine/math"
)

type LightType int32

const (
	LightTypeAmbient LightType = iota
	LightTypeDirectional
	LightTypePoint
)

func (t LightType) String() string {
	switch t {
	case LightTypeAmbient:
		return "ambient"
	case LightTypeDirectional:
		return "directional"
	case LightTypePoint:
		return "point"
	}
	return fmt.Sprintf("LightType(%d)", int32(t))
}

func ParseLightType(s string) (LightType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ambient":
		return LightTypeAmbient, nil
	case "directional":
		return LightTypeDirectional, nil
	case "point":
		return LightTypePoint, nil
	}
	return 0, fmt.Errorf("unknown light type %q", s)
}

/**
 * @brief Brightness threshold used to size point light volumes: the sphere
 * ends where the attenuated peak color drops below 1/cutoff. Tunable.
 */
const DefaultPointLightCutoff float32 = 256.0 / 5.0

/** @brief Radius used when attenuation never reaches the cutoff. */
const MaxPointLightRadius float32 = 1000.0

/** @brief Attenuation coefficients: 1 / (Constant + Linear*d + Quadratic*d^2). */
type Attenuation struct {
	Constant  float32
	Linear    float32
	Quadratic float32
}

/**
 * @brief A light source. Color, attenuation and cutoff are only settable
 * through methods so the point sphere radius can never go stale.
 */
type Light struct {
	Type      LightType
	Direction mgl32.Vec3
	Position  mgl32.Vec3

	color       mgl32.Vec3
	attenuation Attenuation
	cutoff      float32
	radius      float32
}

func NewLight(lightType LightType, color mgl32.Vec3, attenuation Attenuation) *Light {
	l := &Light{
		Type:        lightType,
		Direction:   mgl32.Vec3{0, -1, 0},
		color:       color,
		attenuation: attenuation,
		cutoff:      DefaultPointLightCutoff,
	}
	l.updateRadius()
	return l
}

func (l *Light) Color() mgl32.Vec3 {
	return l.color
}

func (l *Light) SetColor(color mgl32.Vec3) {
	l.color = color
	l.updateRadius()
}

func (l *Light) Attenuation() Attenuation {
	return l.attenuation
}

func (l *Light) SetAttenuation(a Attenuation) {
	l.attenuation = a
	l.updateRadius()
}

func (l *Light) Cutoff() float32 {
	return l.cutoff
}

func (l *Light) SetCutoff(cutoff float32) {
	l.cutoff = cutoff
	l.updateRadius()
}

// Radius is the draw radius of the point light sphere.
func (l *Light) Radius() float32 {
	return l.radius
}

func (l *Light) updateRadius() {
	peak := math.Max(l.color.X(), l.color.Y(), l.color.Z())
	l.radius = PointLightRadius(l.attenuation, peak, l.cutoff)
}

// PointLightRadius solves Kq*r^2 + Kl*r + Kc = cutoff*peak for its positive root.
func PointLightRadius(a Attenuation, peak, cutoff float32) float32 {
	c := a.Constant - cutoff*peak
	if a.Quadratic == 0 {
		if a.Linear == 0 {
			return MaxPointLightRadius
		}
		return math.Clamp(-c/a.Linear, 0, MaxPointLightRadius)
	}
	discriminant := a.Linear*a.Linear - 4*a.Quadratic*c
	if discriminant < 0 {
		return 0
	}
	r := (-a.Linear + math.Sqrt(discriminant)) / (2 * a.Quadratic)
	return math.Clamp(r, 0, MaxPointLightRadius)
}
