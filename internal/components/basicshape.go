package components

import "elypso/internal/engine"

// BasicShape holds the surface parameters of opaque primitives.
type BasicShape struct {
	engine.BaseComponent
	Shininess float32
}

func NewBasicShape() *BasicShape {
	return &BasicShape{Shininess: 32}
}

// Attach adds the components a freshly spawned object of the given mesh
// type needs.
func Attach(g *engine.GameObject) {
	switch g.Mesh {
	case engine.MeshCube:
		g.AddComponent(NewBasicShape())
	case engine.MeshPointLight:
		g.AddComponent(NewPointLight())
	case engine.MeshSpotLight:
		g.AddComponent(NewSpotLight())
	}
}
