package editor

import (
	"elypso/internal/components"
	"elypso/internal/config"
	"elypso/internal/console"
	"elypso/internal/engine"
	"elypso/internal/popup"
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func newTestEditor(t *testing.T) *Editor {
	t.Helper()
	dir := t.TempDir()
	e := New(Options{
		DocsPath:  filepath.Join(dir, "docs"),
		FilesPath: filepath.Join(dir, "files"),
		Popup:     popup.Log{},
	})
	e.configs.ResetToDefaults()
	return e
}

func TestDirections(t *testing.T) {
	forward, right := directions(rl.Vector3{})
	if !approx(forward.X, 1) || !approx(forward.Y, 0) || !approx(forward.Z, 0) {
		t.Errorf("Expected forward along +X, got %+v", forward)
	}
	if !approx(right.Z, -1) {
		t.Errorf("Expected right along -Z, got %+v", right)
	}

	forward, _ = directions(rl.Vector3{X: 90})
	if !approx(forward.Y, 1) {
		t.Errorf("Expected forward straight up at pitch 90, got %+v", forward)
	}
}

func TestFlyClampsRotation(t *testing.T) {
	cam := engine.Camera{}

	fly(&cam, flyInput{Look: rl.Vector2{X: 0, Y: -5000}}, 10, 0.016)
	if cam.Rotation.X != maxPitch {
		t.Errorf("Expected pitch clamped to %v, got %v", maxPitch, cam.Rotation.X)
	}

	fly(&cam, flyInput{Look: rl.Vector2{X: 3650}}, 10, 0.016)
	if cam.Rotation.Y > yawLimit || cam.Rotation.Y < -yawLimit {
		t.Errorf("Yaw %v escaped the camRot bounds", cam.Rotation.Y)
	}
	if !approx(cam.Rotation.Y, 5) {
		t.Errorf("Expected yaw 365 wrapped to 5, got %v", cam.Rotation.Y)
	}
	if !config.IsValueInRange("camRot", formatCamRot(cam.Rotation)) {
		t.Errorf("Rotation %+v should be saveable", cam.Rotation)
	}
}

func formatCamRot(v rl.Vector3) string {
	f := func(x float32) string { return strconv.FormatFloat(float64(x), 'f', -1, 32) }
	return f(v.X) + ", " + f(v.Y) + ", " + f(v.Z)
}

func TestWrapYaw(t *testing.T) {
	cases := map[float32]float32{
		0:       0,
		359.5:   359.5,
		360:     0,
		-360:    0,
		725:     5,
		-365:    -5,
		359.995: -0.005,
	}
	for in, want := range cases {
		if got := wrapYaw(in); !approx(got, want) {
			t.Errorf("wrapYaw(%v) = %v, expected %v", in, got, want)
		}
	}
}

func TestFlyMovesAndAdjustsSpeed(t *testing.T) {
	cam := engine.Camera{}

	speed := fly(&cam, flyInput{Forward: true, Up: true}, 10, 0.5)
	if speed != 10 {
		t.Errorf("Speed should not change without scroll, got %v", speed)
	}
	if !approx(cam.Position.X, 5) || !approx(cam.Position.Y, 5) {
		t.Errorf("Expected (5, 5, 0), got %+v", cam.Position)
	}

	if speed := fly(&cam, flyInput{Scroll: 100}, 10, 0); speed != maxMoveSpeed {
		t.Errorf("Expected speed capped at %v, got %v", maxMoveSpeed, speed)
	}
	if speed := fly(&cam, flyInput{Scroll: -100}, 10, 0); speed != minMoveSpeed {
		t.Errorf("Expected speed floored at %v, got %v", minMoveSpeed, speed)
	}
}

func TestSpawnPointInFrontOfCamera(t *testing.T) {
	cam := engine.Camera{Position: rl.Vector3{X: 0, Y: 1, Z: 0}, Rotation: rl.Vector3{Y: 90}}
	p := spawnPoint(cam)
	if !approx(p.X, 0) || !approx(p.Y, 1) || !approx(p.Z, 5) {
		t.Errorf("Expected (0, 1, 5), got %+v", p)
	}
}

func TestSpawnAddsSelectsAndMarksUnsaved(t *testing.T) {
	e := newTestEditor(t)

	g := e.spawn(engine.MeshSpotLight)
	if g.ID != 1 || g.Name != "Spot light 1" {
		t.Errorf("Unexpected spawn %d %q", g.ID, g.Name)
	}
	if e.scene.Selected() != g {
		t.Error("Spawned object should be selected")
	}
	if engine.GetComponent[*components.SpotLight](g) == nil {
		t.Error("Spot light component missing")
	}
	if !e.state.UnsavedChanges {
		t.Error("Spawning should mark unsaved changes")
	}

	cube := e.spawn(engine.MeshCube)
	if len(cube.Material.Textures) != 2 {
		t.Errorf("Cube should get 2 textures, got %d", len(cube.Material.Textures))
	}
	cube.Material.Textures[0] = "changed.png"
	if spawnMaterials[engine.MeshCube].Textures[0] == "changed.png" {
		t.Error("Spawned objects must not share the default texture slice")
	}
}

func TestDeleteSelected(t *testing.T) {
	e := newTestEditor(t)
	g := e.spawn(engine.MeshCube)
	e.state.SetUnsaved(false)

	e.deleteSelected()

	if e.scene.FindByID(g.ID) != nil {
		t.Error("Selected object should be destroyed")
	}
	if e.scene.Selected() != nil {
		t.Error("Selection should be cleared")
	}
	if !e.state.UnsavedChanges {
		t.Error("Deleting should mark unsaved changes")
	}

	e.state.SetUnsaved(false)
	e.deleteSelected()
	if e.state.UnsavedChanges {
		t.Error("Deleting with nothing selected should be a no-op")
	}
	if len(e.scene.Objects()) != 1 {
		t.Error("Border should remain")
	}
}

func TestPickNearest(t *testing.T) {
	e := newTestEditor(t)
	far := e.spawn(engine.MeshCube)
	far.Transform.Position = rl.Vector3{X: 10}
	near := e.spawn(engine.MeshCube)
	near.Transform.Position = rl.Vector3{X: 4}
	off := e.spawn(engine.MeshPointLight)
	off.Transform.Position = rl.Vector3{Y: 10}

	ray := rl.Ray{Position: rl.Vector3{}, Direction: rl.Vector3{X: 1}}
	if got := pick(e.scene, ray); got != near {
		t.Errorf("Expected nearest cube, got %v", got)
	}

	ray.Direction = rl.Vector3{Z: 1}
	if got := pick(e.scene, ray); got != nil {
		t.Errorf("Expected no hit, got %s", got.Name)
	}
}

func TestEnsureProjectFolders(t *testing.T) {
	e := newTestEditor(t)

	if err := e.ensureProjectFolders(); err != nil {
		t.Fatalf("ensureProjectFolders failed: %v", err)
	}
	if err := e.ensureProjectFolders(); err != nil {
		t.Fatalf("Second call should be a no-op, got %v", err)
	}
	for _, sub := range []string{"scenes", "textures"} {
		info, err := os.Stat(filepath.Join(e.filesPath, sub))
		if err != nil || !info.IsDir() {
			t.Errorf("Missing %s folder", sub)
		}
	}
}

func TestSettingsPanelCommitsOnce(t *testing.T) {
	e := newTestEditor(t)
	p := newSettingsPanel()

	p.stage("fov", 95.4)
	p.stage("fov", 100.2)
	p.stage("camNearClip", 0.0504)
	if got := p.value("fov", 90); got != 100.2 {
		t.Errorf("Expected pending value 100.2, got %v", got)
	}

	var calls []string
	err := p.commit(func(key, text string) error {
		calls = append(calls, key+"="+text)
		return e.configs.Set(key, text)
	})
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if len(calls) != 2 || calls[0] != "fov=100" || calls[1] != "camNearClip=0.050" {
		t.Errorf("Unexpected calls %v", calls)
	}
	if e.state.FOV != 100 || !approx(e.state.NearClip, 0.05) {
		t.Errorf("Settings not applied: fov %v near %v", e.state.FOV, e.state.NearClip)
	}
	if len(p.pending) != 0 {
		t.Error("Pending values should be cleared")
	}
	if got := p.value("fov", 90); got != 90 {
		t.Errorf("Expected current value after commit, got %v", got)
	}
}

func TestSettingsPanelReportsRejection(t *testing.T) {
	p := newSettingsPanel()
	p.stage("fontScale", 1.5)
	boom := errors.New("boom")

	if err := p.commit(func(key, text string) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("Expected boom, got %v", err)
	}
}

func TestConsoleLineAndColor(t *testing.T) {
	m := console.Message{
		Time:   time.Date(2024, 1, 2, 13, 4, 5, 0, time.UTC),
		Level:  slog.LevelWarn,
		Caller: "file",
		Text:   "Couldn't rename",
	}
	if got := consoleLine(m); got != "13:04:05 [file] WARN: Couldn't rename" {
		t.Errorf("Unexpected line %q", got)
	}
	if levelColor(slog.LevelError) != colorError || levelColor(slog.LevelDebug) != colorTextMuted {
		t.Error("Unexpected level colors")
	}
}
