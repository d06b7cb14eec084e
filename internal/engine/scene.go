package engine

// BorderID is the reserved id of the selection border helper. The border is
// owned by the scene and never written to a scene file.
const BorderID = -1

type Scene struct {
	Name        string
	GameObjects []*GameObject
	selected    *GameObject
	byID        map[int]*GameObject
	nextID      int
}

// NewScene returns a scene holding only the border helper.
func NewScene(name string) *Scene {
	s := &Scene{
		Name:        name,
		GameObjects: make([]*GameObject, 0),
		byID:        make(map[int]*GameObject),
		nextID:      1,
	}
	border := NewGameObject("border", MeshBorder)
	border.ID = BorderID
	border.Scene = s
	s.GameObjects = append(s.GameObjects, border)
	s.byID[BorderID] = border
	return s
}

// Objects returns the live objects in enumeration order, the border included.
func (s *Scene) Objects() []*GameObject {
	return s.GameObjects
}

// Add inserts g at the end of the scene. A positive, unused ID is kept so
// loaded objects retain their identity; anything else gets the next free ID.
func (s *Scene) Add(g *GameObject) {
	if s.byID == nil {
		s.byID = make(map[int]*GameObject)
	}
	if s.nextID < 1 {
		s.nextID = 1
	}
	if _, taken := s.byID[g.ID]; g.ID <= 0 || taken {
		g.ID = s.nextID
	}
	if g.ID >= s.nextID {
		s.nextID = g.ID + 1
	}
	g.Scene = s
	s.GameObjects = append(s.GameObjects, g)
	s.byID[g.ID] = g
}

// Destroy removes g from the scene. The border helper is kept.
func (s *Scene) Destroy(g *GameObject) {
	if g == nil || g.IsBorder() {
		return
	}
	for i, obj := range s.GameObjects {
		if obj == g {
			s.GameObjects = append(s.GameObjects[:i], s.GameObjects[i+1:]...)
			delete(s.byID, g.ID)
			if s.selected == g {
				s.selected = nil
			}
			g.Scene = nil
			return
		}
	}
}

func (s *Scene) FindByID(id int) *GameObject {
	return s.byID[id]
}

func (s *Scene) FindByName(name string) *GameObject {
	for _, g := range s.GameObjects {
		if g.Name == name {
			return g
		}
	}
	return nil
}

func (s *Scene) Select(g *GameObject) {
	if g != nil && g.IsBorder() {
		return
	}
	s.selected = g
}

func (s *Scene) Deselect() {
	s.selected = nil
}

func (s *Scene) Selected() *GameObject {
	return s.selected
}
