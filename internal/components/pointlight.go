package components

import (
	"elypso/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type PointLight struct {
	engine.BaseComponent
	Diffuse   rl.Vector3 // linear RGB, 0..1 per channel
	Intensity float32
	Distance  float32 // falloff distance
}

func NewPointLight() *PointLight {
	return &PointLight{
		Diffuse:   rl.Vector3{X: 1, Y: 1, Z: 1},
		Intensity: 1.0,
		Distance:  10.0,
	}
}

// Color returns the diffuse color as an opaque raylib color.
func (p *PointLight) Color() rl.Color {
	return diffuseColor(p.Diffuse)
}

func diffuseColor(d rl.Vector3) rl.Color {
	return rl.NewColor(channel(d.X), channel(d.Y), channel(d.Z), 255)
}

func channel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}
