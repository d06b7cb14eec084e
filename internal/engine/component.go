package engine

// Component is extra per-object data that depends on the mesh type,
// such as light parameters or surface shininess.
type Component interface {
	SetGameObject(g *GameObject)
	GetGameObject() *GameObject
}

// BaseComponent provides default implementation for Component interface
type BaseComponent struct {
	gameObject *GameObject
}

func (b *BaseComponent) SetGameObject(g *GameObject) {
	b.gameObject = g
}

func (b *BaseComponent) GetGameObject() *GameObject {
	return b.gameObject
}
