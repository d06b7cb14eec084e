package editor

import (
	"elypso/internal/assets"
	"elypso/internal/components"
	"elypso/internal/config"
	"elypso/internal/console"
	"elypso/internal/engine"
	"elypso/internal/fileutil"
	"elypso/internal/scenefile"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	windowTitle      = "Elypso Level Editor"
	textureCacheSize = 64
	statusDuration   = 2.0
)

// Options locates the editor's files. Docs holds the config file, Files the
// project (scenes, textures).
type Options struct {
	DocsPath  string
	FilesPath string
	Popup     config.Popup
	Console   *console.Buffer
}

type Editor struct {
	state    *engine.State
	scene    *engine.Scene
	configs  *config.Store
	scenes   *scenefile.Store
	textures *assets.Cache[rl.Texture2D]
	console  *console.Buffer

	filesPath string
	moveSpeed float32

	showSettings bool
	showConsole  bool
	settings     settingsPanel

	statusMsg   string
	statusColor rl.Color
	statusTime  float64
}

func New(opts Options) *Editor {
	st := &engine.State{Title: windowTitle}
	scene := engine.NewScene("scene")
	return &Editor{
		state:     st,
		scene:     scene,
		configs:   config.New(filepath.Join(opts.DocsPath, "config.txt"), st, opts.Popup),
		scenes:    scenefile.New(filepath.Join(opts.FilesPath, "scenes", "scene.txt"), scene),
		console:   opts.Console,
		filesPath: opts.FilesPath,
		moveSpeed: 10,
		settings:  newSettingsPanel(),
	}
}

func logger() *slog.Logger {
	return console.For(console.Engine)
}

// Run opens the window and blocks until it is closed.
func (e *Editor) Run() error {
	if err := e.ensureProjectFolders(); err != nil {
		return err
	}

	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagVsyncHint)
	rl.InitWindow(1280, 720, windowTitle)
	defer rl.CloseWindow()
	rl.SetTargetFPS(120)
	rl.SetExitKey(0)

	e.state.Window = raylibWindow{}
	if err := e.configs.Init(); err != nil {
		logger().Warn("Continuing with default settings", slog.Any("err", err))
	}

	textures, err := assets.NewTextureCache(filepath.Join(e.filesPath, "textures"), textureCacheSize)
	if err != nil {
		return err
	}
	e.textures = textures
	defer e.textures.Purge()

	if _, err := os.Stat(e.scenes.Path()); err == nil {
		e.loadScene(e.scenes.Path())
	}
	e.state.SetUnsaved(false)

	initRayguiStyle()
	logger().Info("Editor initialized")

	for !rl.WindowShouldClose() {
		e.Update(rl.GetFrameTime())
		e.Draw()
	}

	e.shutdown()
	return nil
}

func (e *Editor) shutdown() {
	log := console.For(console.Shutdown)
	log.Info("Shutting down editor")
	if err := e.configs.Save(e.configs.Path()); err != nil {
		log.Error("Couldn't save settings on exit", slog.Any("err", err))
	}
	if e.state.UnsavedChanges {
		log.Warn("Exiting with unsaved scene changes")
	}
}

// ensureProjectFolders creates the files folder and its scenes and
// textures subfolders when they are missing.
func (e *Editor) ensureProjectFolders() error {
	if err := os.MkdirAll(e.filesPath, 0o755); err != nil {
		return fmt.Errorf("create files folder: %w", err)
	}
	for _, name := range []string{"scenes", "textures"} {
		dir := filepath.Join(e.filesPath, name)
		if _, err := os.Stat(dir); err == nil {
			continue
		}
		if err := fileutil.CreateNewFolder(dir); err != nil && !errors.Is(err, fs.ErrExist) {
			return err
		}
	}
	return nil
}

func ctrlDown() bool {
	return rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) || rl.IsKeyDown(rl.KeyLeftSuper)
}

func (e *Editor) Update(deltaTime float32) {
	in, looking := readFlyInput()
	e.moveSpeed = fly(&e.state.Camera, in, e.moveSpeed, deltaTime)
	if looking {
		return
	}

	if ctrlDown() {
		switch {
		case rl.IsKeyPressed(rl.KeyS):
			e.save()
		case rl.IsKeyPressed(rl.KeyN):
			e.newScene()
		case rl.IsKeyPressed(rl.KeyB):
			e.backupScene()
		}
		return
	}

	switch {
	case rl.IsKeyPressed(rl.KeyOne):
		e.spawn(engine.MeshCube)
	case rl.IsKeyPressed(rl.KeyTwo):
		e.spawn(engine.MeshPointLight)
	case rl.IsKeyPressed(rl.KeyThree):
		e.spawn(engine.MeshSpotLight)
	case rl.IsKeyPressed(rl.KeyFour):
		e.spawn(engine.MeshBillboard)
	case rl.IsKeyPressed(rl.KeyDelete):
		e.deleteSelected()
	case rl.IsKeyPressed(rl.KeyF2):
		e.showSettings = !e.showSettings
	case rl.IsKeyPressed(rl.KeyGrave):
		e.showConsole = !e.showConsole
	case rl.IsKeyPressed(rl.KeyEscape):
		e.scene.Deselect()
	}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) && !e.mouseInPanel() {
		ray := rl.GetScreenToWorldRay(rl.GetMousePosition(), raylibCamera(e.state))
		e.scene.Select(pick(e.scene, ray))
	}
}

// Default materials for spawned objects.
var spawnMaterials = map[engine.MeshType]engine.Material{
	engine.MeshCube: {
		Shaders:  [2]string{"GameObject.vert", "GameObject.frag"},
		Textures: []string{"diff_default.png", "spec_default.png"},
	},
	engine.MeshBillboard: {
		Shaders:  [2]string{"Basic_texture.vert", "Basic_texture.frag"},
		Textures: []string{"icon_billboard.png"},
	},
	engine.MeshPointLight: {Shaders: [2]string{"Basic_model.vert", "Basic.frag"}},
	engine.MeshSpotLight:  {Shaders: [2]string{"Basic_model.vert", "Basic.frag"}},
}

var spawnNames = map[engine.MeshType]string{
	engine.MeshCube:       "Cube",
	engine.MeshBillboard:  "Billboard",
	engine.MeshPointLight: "Point light",
	engine.MeshSpotLight:  "Spot light",
}

// spawn adds a new object of the given type in front of the camera and
// selects it.
func (e *Editor) spawn(mesh engine.MeshType) *engine.GameObject {
	g := engine.NewGameObject(spawnNames[mesh], mesh)
	g.Transform.Position = spawnPoint(e.state.Camera)
	mat := spawnMaterials[mesh]
	g.Material.Shaders = mat.Shaders
	g.Material.Textures = append([]string(nil), mat.Textures...)
	components.Attach(g)

	e.scene.Add(g)
	g.Name = fmt.Sprintf("%s %d", g.Name, g.ID)
	e.scene.Select(g)
	e.state.SetUnsaved(true)

	console.For(console.Input).Debug("Spawned object", slog.String("name", g.Name), slog.String("type", mesh.String()))
	return g
}

func (e *Editor) deleteSelected() {
	g := e.scene.Selected()
	if g == nil {
		return
	}
	e.scene.Destroy(g)
	e.state.SetUnsaved(true)
	console.For(console.Input).Debug("Deleted object", slog.String("name", g.Name))
}

// save writes the scene and the settings.
func (e *Editor) save() {
	_, err := e.scenes.Save()
	switch {
	case errors.Is(err, scenefile.ErrNothingToSave):
		e.setStatus("Nothing to save", colorWarn)
	case err != nil:
		e.setStatus("Save failed: "+err.Error(), colorError)
		return
	default:
		e.setStatus("Scene saved!", colorOK)
	}

	if err := e.configs.Save(e.configs.Path()); err != nil {
		e.setStatus("Settings save failed: "+err.Error(), colorError)
		return
	}
	e.state.SetUnsaved(false)
}

// loadScene replaces the scene with the one at path and lets textures that
// failed before be loaded again.
func (e *Editor) loadScene(path string) {
	if err := e.scenes.Load(path); err != nil {
		e.setStatus("Load failed", colorError)
		return
	}
	if e.textures != nil {
		e.textures.ClearFailures()
	}
}

func (e *Editor) newScene() {
	if err := e.scenes.Clear(); err != nil {
		e.setStatus("Clear failed: "+err.Error(), colorError)
		return
	}
	e.state.SetUnsaved(true)
	e.setStatus("New scene", colorOK)
}

// backupScene copies the saved scene next to itself under the next free
// "scene (n).txt" name.
func (e *Editor) backupScene() {
	src := e.scenes.Path()
	dst := fileutil.AddIndex(filepath.Dir(src), "scene", filepath.Ext(src))
	if err := fileutil.CopyFileOrFolder(src, dst); err != nil {
		e.setStatus("Backup failed", colorError)
		return
	}
	e.setStatus("Backed up to "+filepath.Base(dst), colorOK)
}

func (e *Editor) setStatus(msg string, color rl.Color) {
	e.statusMsg = msg
	e.statusColor = color
	e.statusTime = rl.GetTime()
}

// pick returns the object nearest to the ray origin whose bounds the ray
// hits, or nil.
func pick(scene *engine.Scene, ray rl.Ray) *engine.GameObject {
	var (
		best     *engine.GameObject
		bestDist float32
	)
	for _, g := range scene.Objects() {
		if g.IsBorder() {
			continue
		}
		hit := rl.GetRayCollisionBox(ray, bounds(g))
		if hit.Hit && (best == nil || hit.Distance < bestDist) {
			best = g
			bestDist = hit.Distance
		}
	}
	return best
}

// bounds is the pick box of g. Lights and billboards get a fixed size box.
func bounds(g *engine.GameObject) rl.BoundingBox {
	half := rl.Vector3{X: 0.25, Y: 0.25, Z: 0.25}
	if g.Mesh == engine.MeshCube || g.Mesh == engine.MeshModel {
		half = rl.Vector3Scale(g.Transform.Scale, 0.5)
	}
	return rl.BoundingBox{
		Min: rl.Vector3Subtract(g.Transform.Position, half),
		Max: rl.Vector3Add(g.Transform.Position, half),
	}
}
