package editor

import (
	"elypso/internal/components"
	"elypso/internal/engine"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func (e *Editor) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(30, 30, 36, 255))

	cam := raylibCamera(e.state)
	rl.BeginMode3D(cam)
	rl.DrawGrid(40, 1)
	for _, g := range e.scene.Objects() {
		if g.IsBorder() {
			continue
		}
		e.drawObject(cam, g)
	}
	if sel := e.scene.Selected(); sel != nil {
		b := bounds(sel)
		rl.DrawBoundingBox(b, colorAccentLight)
	}
	rl.EndMode3D()

	e.drawTopBar()
	if e.showSettings {
		e.drawSettings()
	}
	if e.showConsole {
		e.drawConsole()
	}

	rl.EndDrawing()
}

func (e *Editor) drawObject(cam rl.Camera3D, g *engine.GameObject) {
	pos := g.Transform.Position
	switch g.Mesh {
	case engine.MeshCube, engine.MeshModel:
		rl.DrawCubeV(pos, g.Transform.Scale, rl.LightGray)
		rl.DrawCubeWiresV(pos, g.Transform.Scale, rl.DarkGray)
	case engine.MeshPointLight:
		color := rl.White
		if light := engine.GetComponent[*components.PointLight](g); light != nil {
			color = light.Color()
		}
		rl.DrawSphere(pos, 0.2, color)
	case engine.MeshSpotLight:
		color := rl.White
		if light := engine.GetComponent[*components.SpotLight](g); light != nil {
			color = light.Color()
		}
		rl.DrawCubeV(pos, rl.Vector3{X: 0.3, Y: 0.3, Z: 0.3}, color)
	case engine.MeshBillboard:
		tex, ok := e.texture(g.Material.TextureName(0))
		if !ok {
			rl.DrawCubeWiresV(pos, rl.Vector3{X: 0.5, Y: 0.5, Z: 0.5}, rl.Yellow)
			return
		}
		rl.DrawBillboard(cam, tex, pos, 0.5, rl.White)
	}
}

// texture returns the cached texture called name. A texture that failed to
// load stays failed until the next scene load and is drawn as a placeholder.
func (e *Editor) texture(name string) (rl.Texture2D, bool) {
	if name == "" || e.textures == nil {
		return rl.Texture2D{}, false
	}
	tex, err := e.textures.Get(name)
	if err != nil {
		return rl.Texture2D{}, false
	}
	return tex, true
}

func (e *Editor) drawTopBar() {
	screenW := int32(rl.GetScreenWidth())
	rl.DrawRectangle(0, 0, screenW, topBarHeight, colorBgDark)
	rl.DrawRectangle(0, topBarHeight-1, screenW, 1, colorBorder)

	title := "EDITOR"
	if e.state.UnsavedChanges {
		title = "EDITOR*"
	}
	e.drawText(title, 12, 9, 20, colorAccent)
	e.drawText("1-4: Spawn  |  Del: Delete  |  Ctrl+S: Save  |  Ctrl+N: New  |  Ctrl+B: Backup  |  F2: Settings  |  `: Console",
		120, 11, 14, colorTextMuted)
	e.drawText(fmt.Sprintf("Speed: %.0f", e.moveSpeed), screenW-110, 11, 14, colorTextMuted)

	if sel := e.scene.Selected(); sel != nil {
		rl.DrawRectangle(6, topBarHeight+4, 420, 22, colorSelection)
		e.drawText(fmt.Sprintf("%s (%s)  pos %s", sel.Name, sel.Mesh, formatVec3(sel.Transform.Position)),
			12, topBarHeight+8, 14, colorTextSecondary)
	}

	if e.statusMsg != "" && rl.GetTime()-e.statusTime < statusDuration {
		e.drawText(e.statusMsg, screenW/2-60, topBarHeight+8, 16, e.statusColor)
	}
}

// mouseInPanel reports whether the mouse is over the top bar or an open
// panel.
func (e *Editor) mouseInPanel() bool {
	m := rl.GetMousePosition()
	if m.Y <= topBarHeight {
		return true
	}
	if e.showSettings && rl.CheckCollisionPointRec(m, e.settingsBounds()) {
		return true
	}
	if e.showConsole && rl.CheckCollisionPointRec(m, consoleBounds()) {
		return true
	}
	return false
}
