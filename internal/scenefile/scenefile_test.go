package scenefile

import (
	"elypso/internal/components"
	"elypso/internal/engine"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type fakeGraph struct {
	objects    []*engine.GameObject
	destroyed  int
	deselected int
}

func newFakeGraph() *fakeGraph {
	border := engine.NewGameObject("border", engine.MeshBorder)
	border.ID = engine.BorderID
	return &fakeGraph{objects: []*engine.GameObject{border}}
}

func (f *fakeGraph) Objects() []*engine.GameObject { return f.objects }
func (f *fakeGraph) Add(g *engine.GameObject) { f.objects = append(f.objects, g) }
func (f *fakeGraph) Deselect() { f.deselected++ }

func (f *fakeGraph) Destroy(g *engine.GameObject) {
	f.destroyed++
	for i, obj := range f.objects {
		if obj == g {
			f.objects = append(f.objects[:i], f.objects[i+1:]...)
			return
		}
	}
}

func spawn(s *engine.Scene, name string, mesh engine.MeshType) *engine.GameObject {
	g := engine.NewGameObject(name, mesh)
	components.Attach(g)
	s.Add(g)
	return g
}

func TestClearEmptySceneDestroysNothing(t *testing.T) {
	graph := newFakeGraph()
	store := New(filepath.Join(t.TempDir(), "scene.txt"), graph)

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if graph.destroyed != 0 || graph.deselected != 0 {
		t.Errorf("Expected no calls, got %d destroys and %d deselects", graph.destroyed, graph.deselected)
	}
	if len(graph.objects) != 1 {
		t.Error("Border should remain")
	}
}

func TestClearKeepsBorder(t *testing.T) {
	graph := newFakeGraph()
	graph.Add(engine.NewGameObject("a", engine.MeshCube))
	graph.Add(engine.NewGameObject("b", engine.MeshPointLight))
	store := New(filepath.Join(t.TempDir(), "scene.txt"), graph)

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if graph.destroyed != 2 {
		t.Errorf("Expected 2 destroys, got %d", graph.destroyed)
	}
	if graph.deselected != 1 {
		t.Errorf("Expected selection cleared once, got %d", graph.deselected)
	}
	if len(graph.objects) != 1 || !graph.objects[0].IsBorder() {
		t.Errorf("Only the border should remain, got %d objects", len(graph.objects))
	}
}

func TestSaveNothingWritesNothing(t *testing.T) {
	dir := t.TempDir()
	store := New(filepath.Join(dir, "scene.txt"), newFakeGraph())

	path, err := store.Save()
	if !errors.Is(err, ErrNothingToSave) {
		t.Fatalf("Expected ErrNothingToSave, got %v", err)
	}
	if path != "" {
		t.Errorf("Expected no path, got %s", path)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty directory, found %d entries", len(entries))
	}
}

func TestSaveBlockFormat(t *testing.T) {
	scene := engine.NewScene("test")
	cube := spawn(scene, "Cube", engine.MeshCube)
	cube.Transform.Position = rl.Vector3{X: 1, Y: 2, Z: 3}
	cube.Transform.Rotation = rl.Vector3{X: 0, Y: 45, Z: 0}
	cube.Material = engine.Material{
		Shaders:  [2]string{"GameObject.vert", "GameObject.frag"},
		Textures: []string{"crate.png", "crate_specular.png"},
	}
	engine.GetComponent[*components.BasicShape](cube).Shininess = 64

	billboard := spawn(scene, "Sun", engine.MeshBillboard)
	billboard.Material = engine.Material{
		Shaders:  [2]string{"Basic_texture.vert", "Basic_texture.frag"},
		Textures: []string{"sun.png", "ignored.png"},
	}

	spot := spawn(scene, "Spot", engine.MeshSpotLight)
	sl := engine.GetComponent[*components.SpotLight](spot)
	sl.Diffuse = rl.Vector3{X: 1, Y: 0.5, Z: 0.25}
	sl.InnerAngle = 12.5
	sl.OuterAngle = 17.5

	path := filepath.Join(t.TempDir(), "scene.txt")
	store := New(path, scene)

	got, err := store.Save()
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got != path {
		t.Errorf("Expected path %s, got %s", path, got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"id: 1",
		"  name: Cube",
		"  type: cube",
		"  position: 1, 2, 3",
		"  rotation: 0, 45, 0",
		"  scale: 1, 1, 1",
		"  textures: crate.png, crate_specular.png",
		"  shaders: GameObject.vert, GameObject.frag",
		"  shininess: 64",
		"id: 2",
		"  name: Sun",
		"  type: billboard",
		"  position: 0, 0, 0",
		"  rotation: 0, 0, 0",
		"  scale: 1, 1, 1",
		"  textures: sun.png",
		"  shaders: Basic_texture.vert, Basic_texture.frag",
		"id: 3",
		"  name: Spot",
		"  type: spot_light",
		"  position: 0, 0, 0",
		"  rotation: 0, 0, 0",
		"  scale: 1, 1, 1",
		"  shaders: , ",
		"  diffuse: 1, 0.5, 0.25",
		"  intensity: 1",
		"  distance: 10",
		"  inner angle: 12.5",
		"  outer angle: 17.5",
	}, "\n") + "\n"
	if string(data) != want {
		t.Errorf("Unexpected scene file:\n%s\nexpected:\n%s", data, want)
	}

	if strings.Contains(string(data), "border") || strings.Contains(string(data), "id: -1") {
		t.Error("Border must not be serialized")
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(path), "scene_TEMP.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Error("Temp file should not be left behind")
	}
}

func TestSaveMissingDir(t *testing.T) {
	scene := engine.NewScene("test")
	spawn(scene, "Cube", engine.MeshCube)
	store := New(filepath.Join(t.TempDir(), "scenes", "scene.txt"), scene)

	if _, err := store.Save(); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	scene := engine.NewScene("test")
	cube := spawn(scene, "Crate", engine.MeshCube)
	cube.Transform.Position = rl.Vector3{X: -1.5, Y: 0.25, Z: 8}
	cube.Transform.Scale = rl.Vector3{X: 2, Y: 2, Z: 2}
	cube.Material.Textures = []string{"crate.png", "crate_specular.png"}
	point := spawn(scene, "Lamp", engine.MeshPointLight)
	pl := engine.GetComponent[*components.PointLight](point)
	pl.Intensity = 2.5
	pl.Distance = 4
	spawn(scene, "Spot", engine.MeshSpotLight)
	scene.Select(cube)

	path := filepath.Join(t.TempDir(), "scene.txt")
	store := New(path, scene)
	if _, err := store.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	first, _ := os.ReadFile(path)

	if err := store.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if scene.Selected() != nil {
		t.Error("Load should clear the selection")
	}
	if got := len(scene.Objects()); got != 4 {
		t.Fatalf("Expected border plus 3 objects, got %d", got)
	}

	loaded := scene.FindByID(1)
	if loaded == nil || loaded == cube {
		t.Fatal("Expected a freshly loaded object with id 1")
	}
	if loaded.Name != "Crate" || loaded.Transform.Position != cube.Transform.Position || loaded.Transform.Scale != cube.Transform.Scale {
		t.Errorf("Cube not restored: %+v", loaded.Transform)
	}
	if loaded.Material.TextureName(1) != "crate_specular.png" {
		t.Errorf("Expected specular texture, got '%s'", loaded.Material.TextureName(1))
	}

	lamp := engine.GetComponent[*components.PointLight](scene.FindByName("Lamp"))
	if lamp == nil || lamp.Intensity != 2.5 || lamp.Distance != 4 {
		t.Errorf("Point light not restored: %+v", lamp)
	}
	if engine.GetComponent[*components.SpotLight](scene.FindByName("Spot")) == nil {
		t.Error("Spot light component missing")
	}

	if _, err := store.Save(); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}
	second, _ := os.ReadFile(path)
	if string(first) != string(second) {
		t.Errorf("Save is not idempotent:\n%s\n---\n%s", first, second)
	}
}

func TestLoadMissingFileKeepsScene(t *testing.T) {
	scene := engine.NewScene("test")
	spawn(scene, "Cube", engine.MeshCube)
	store := New(filepath.Join(t.TempDir(), "scene.txt"), scene)

	if err := store.Load(store.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Expected os.ErrNotExist, got %v", err)
	}
	if len(scene.Objects()) != 2 {
		t.Error("A failed load should not clear the scene")
	}
}

func TestDecodeDefaultsBadFields(t *testing.T) {
	input := strings.Join([]string{
		"id: 7",
		"  name: Lamp",
		"  type: point_light",
		"  position: 1, two, 3",
		"  scale: 1, 1",
		"  intensity: bright",
		"  distance: 3",
		"  colour: red",
		"id: 8",
		"  name: Teapot",
		"  type: teapot",
		"  position: 0, 0, 0",
		"id: nine",
		"  name: Box",
		"  type: cube",
		"  textures: a.png",
	}, "\n")

	records, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	lamp := records[0]
	if lamp.ID != 7 || lamp.Name != "Lamp" || lamp.Mesh != engine.MeshPointLight {
		t.Errorf("Unexpected header fields %+v", lamp)
	}
	if lamp.Position != (rl.Vector3{}) {
		t.Errorf("Malformed position should default, got %+v", lamp.Position)
	}
	if lamp.Scale != (rl.Vector3{X: 1, Y: 1, Z: 1}) {
		t.Errorf("Short scale should default, got %+v", lamp.Scale)
	}
	if lamp.Intensity != 1 || lamp.Distance != 3 {
		t.Errorf("Expected intensity 1 and distance 3, got %v and %v", lamp.Intensity, lamp.Distance)
	}

	box := records[1]
	if box.ID != 0 {
		t.Errorf("Invalid id should be left for the graph to assign, got %d", box.ID)
	}
	if box.Mesh != engine.MeshCube || len(box.Textures) != 2 || box.Textures[0] != "" {
		t.Errorf("Wrong texture count should keep empty slots, got %q", box.Textures)
	}
	if box.Shininess != 32 {
		t.Errorf("Expected default shininess, got %v", box.Shininess)
	}
}

func TestEncodeKeepsNamesOnOneLine(t *testing.T) {
	var b strings.Builder
	records := []Record{{ID: 1, Name: "  Two\nlines\r ", Mesh: engine.MeshModel, Scale: rl.Vector3{X: 1, Y: 1, Z: 1}}}
	if err := Encode(&b, records); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.Contains(b.String(), "  name: Two lines\n") {
		t.Errorf("Unexpected name line in:\n%s", b.String())
	}

	decoded, err := Decode(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Name != "Two lines" {
		t.Errorf("Expected one record named 'Two lines', got %+v", decoded)
	}
}

func TestLoadAssignsIDsToDuplicates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.txt")
	content := "id: 5\n  name: A\n  type: cube\nid: 5\n  name: B\n  type: model\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	scene := engine.NewScene("test")
	store := New(filepath.Join(dir, "out.txt"), scene)
	if err := store.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	a, b := scene.FindByName("A"), scene.FindByName("B")
	if a == nil || b == nil {
		t.Fatal("Both objects should load")
	}
	if a.ID != 5 || b.ID == 5 {
		t.Errorf("Expected A to keep id 5 and B to get a new one, got %d and %d", a.ID, b.ID)
	}
}
