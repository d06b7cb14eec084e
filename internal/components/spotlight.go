package components

import (
	"elypso/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// SpotLight is a point light limited to a cone. Angles are in degrees and
// InnerAngle is expected to be at most OuterAngle.
type SpotLight struct {
	engine.BaseComponent
	Diffuse    rl.Vector3
	Intensity  float32
	Distance   float32
	InnerAngle float32
	OuterAngle float32
}

func NewSpotLight() *SpotLight {
	return &SpotLight{
		Diffuse:    rl.Vector3{X: 1, Y: 1, Z: 1},
		Intensity:  1.0,
		Distance:   10.0,
		InnerAngle: 15.0,
		OuterAngle: 30.0,
	}
}

func (s *SpotLight) Color() rl.Color {
	return diffuseColor(s.Diffuse)
}
