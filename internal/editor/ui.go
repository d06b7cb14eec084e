package editor

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	colorBgDark    = rl.NewColor(10, 10, 15, 255)
	colorBgPanel   = rl.NewColor(18, 18, 24, 245)
	colorBgElement = rl.NewColor(28, 28, 38, 255)
	colorBgHover   = rl.NewColor(38, 38, 52, 255)

	colorAccent      = rl.NewColor(108, 99, 255, 255)
	colorAccentLight = rl.NewColor(167, 139, 250, 255)

	colorTextPrimary   = rl.NewColor(255, 255, 255, 255)
	colorTextSecondary = rl.NewColor(200, 200, 208, 255)
	colorTextMuted     = rl.NewColor(119, 119, 119, 255)

	colorBorder    = rl.NewColor(255, 255, 255, 13)
	colorSelection = rl.NewColor(108, 99, 255, 60)

	colorOK    = rl.NewColor(100, 220, 100, 255)
	colorWarn  = rl.NewColor(255, 200, 90, 255)
	colorError = rl.NewColor(255, 120, 120, 255)
)

const topBarHeight = 36

// initRayguiStyle sets up the dark theme used by the settings panel.
func initRayguiStyle() {
	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(colorBgDark))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(colorBgElement))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_FOCUSED, gui.NewColorPropertyValue(colorBgHover))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(colorAccent))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorTextSecondary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_FOCUSED, gui.NewColorPropertyValue(colorTextPrimary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_PRESSED, gui.NewColorPropertyValue(colorTextPrimary))

	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(50, 50, 65, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(colorAccent))
	gui.SetStyle(gui.DEFAULT, gui.LINE_COLOR, gui.NewColorPropertyValue(rl.NewColor(40, 40, 55, 255)))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 15)
}

// drawText draws text scaled by the configured font scale.
func (e *Editor) drawText(text string, x, y int32, size float32, color rl.Color) {
	rl.DrawText(text, x, y, int32(size*e.fontScale()), color)
}

func (e *Editor) fontScale() float32 {
	if e.state.FontScale <= 0 {
		return 1
	}
	return e.state.FontScale / 1.5
}

// button draws a pill button and reports whether it was clicked this frame.
func (e *Editor) button(bounds rl.Rectangle, label string) bool {
	hovered := rl.CheckCollisionPointRec(rl.GetMousePosition(), bounds)

	btnColor := colorBgElement
	textColor := colorTextSecondary
	if hovered {
		btnColor = colorAccent
		textColor = colorTextPrimary
	}
	rl.DrawRectangleRounded(bounds, 0.5, 6, btnColor)
	e.drawText(label, int32(bounds.X)+8, int32(bounds.Y)+4, 14, textColor)

	return hovered && rl.IsMouseButtonPressed(rl.MouseLeftButton)
}

func formatVec3(v rl.Vector3) string {
	return fmt.Sprintf("%.2f, %.2f, %.2f", v.X, v.Y, v.Z)
}
