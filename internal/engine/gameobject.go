package engine

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// MeshType is the kind of a scene object. It decides which extra fields a
// scene file carries for the object.
type MeshType int

const (
	MeshCube MeshType = iota
	MeshBillboard
	MeshPointLight
	MeshSpotLight
	MeshModel
	MeshBorder
)

var meshTypeNames = [...]string{
	MeshCube:       "cube",
	MeshBillboard:  "billboard",
	MeshPointLight: "point_light",
	MeshSpotLight:  "spot_light",
	MeshModel:      "model",
	MeshBorder:     "border",
}

func (m MeshType) String() string {
	if m < 0 || int(m) >= len(meshTypeNames) {
		return fmt.Sprintf("MeshType(%d)", int(m))
	}
	return meshTypeNames[m]
}

// ParseMeshType is the inverse of MeshType.String.
func ParseMeshType(s string) (MeshType, error) {
	for i, name := range meshTypeNames {
		if name == s {
			return MeshType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown mesh type %q", s)
}

type Transform struct {
	Position rl.Vector3
	Rotation rl.Vector3 // Euler angles in degrees
	Scale    rl.Vector3
}

// Material references the shader pair and textures an object is drawn with.
// Cubes use two textures (diffuse, specular), billboards one, lights none.
type Material struct {
	Shaders  [2]string // vertex, fragment
	Textures []string
}

// TextureName returns the texture in slot i, or "" if the slot is empty.
func (m Material) TextureName(i int) string {
	if i < 0 || i >= len(m.Textures) {
		return ""
	}
	return m.Textures[i]
}

type GameObject struct {
	ID         int
	Name       string
	Mesh       MeshType
	Transform  Transform
	Material   Material
	Scene      *Scene
	components []Component
}

func NewGameObject(name string, mesh MeshType) *GameObject {
	return &GameObject{
		Name: name,
		Mesh: mesh,
		Transform: Transform{
			Position: rl.Vector3{},
			Rotation: rl.Vector3{},
			Scale:    rl.Vector3{X: 1, Y: 1, Z: 1},
		},
		components: make([]Component, 0),
	}
}

func (g *GameObject) AddComponent(c Component) {
	c.SetGameObject(g)
	g.components = append(g.components, c)
}

// GetComponent returns the first component of type T, or the zero value.
func GetComponent[T Component](g *GameObject) T {
	var zero T
	for _, c := range g.components {
		if typed, ok := c.(T); ok {
			return typed
		}
	}
	return zero
}

func (g *GameObject) Components() []Component {
	return g.components
}

// IsBorder reports whether g is the selection border helper.
func (g *GameObject) IsBorder() bool {
	return g.ID == BorderID
}
