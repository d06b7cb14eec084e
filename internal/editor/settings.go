package editor

import (
	"elypso/internal/config"
	"fmt"
	"log/slog"
	"strconv"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

type slider struct {
	key      string
	label    string
	min, max float32
	prec     int // decimals written to the config
}

// The slider ranges stay inside each key's config bounds.
var sliders = []slider{
	{key: "fontScale", label: "Font scale", min: 1, max: 2, prec: 2},
	{key: "fov", label: "Field of view", min: 70, max: 110, prec: 0},
	{key: "camNearClip", label: "Near clip", min: 0.001, max: 10, prec: 3},
	{key: "camFarClip", label: "Far clip", min: 1, max: 10000, prec: 0},
}

var resolutions = [][2]int{{1280, 720}, {1920, 1080}, {2560, 1440}}

// settingsPanel holds slider values that are still being dragged. They are
// committed through the config store once the mouse is released, so a drag
// produces a single change.
type settingsPanel struct {
	pending map[string]float32
}

func newSettingsPanel() settingsPanel {
	return settingsPanel{pending: make(map[string]float32)}
}

func (p *settingsPanel) stage(key string, v float32) {
	p.pending[key] = v
}

func (p *settingsPanel) value(key string, current float32) float32 {
	if v, ok := p.pending[key]; ok {
		return v
	}
	return current
}

// commit hands every pending value to set, formatted with its slider's
// precision, and clears the pending set. It returns the first error.
func (p *settingsPanel) commit(set func(key, text string) error) error {
	var first error
	for _, s := range sliders {
		v, ok := p.pending[s.key]
		if !ok {
			continue
		}
		delete(p.pending, s.key)
		if err := set(s.key, strconv.FormatFloat(float64(v), 'f', s.prec, 32)); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (e *Editor) currentFloat(key string) float32 {
	v, ok := e.configs.Value(key)
	if !ok {
		return 0
	}
	if f, ok := v.Setting.(config.Float); ok {
		return f.V
	}
	return 0
}

func (e *Editor) setSetting(key, text string) {
	if err := e.configs.Set(key, text); err != nil {
		logger().Warn("Rejected setting", slog.String("key", key), slog.Any("err", err))
		e.setStatus("Invalid value for "+key, colorError)
	}
}

func (e *Editor) settingsBounds() rl.Rectangle {
	const w, h = 330, 300
	return rl.Rectangle{
		X:      float32(rl.GetScreenWidth()) - w - 10,
		Y:      topBarHeight + 10,
		Width:  w,
		Height: h,
	}
}

func (e *Editor) drawSettings() {
	b := e.settingsBounds()
	x, y := int32(b.X), int32(b.Y)
	rl.DrawRectangleRec(b, colorBgPanel)
	rl.DrawRectangleLines(x, y, int32(b.Width), int32(b.Height), colorBorder)
	e.drawText("Settings", x+12, y+8, 18, colorTextSecondary)

	y += 40
	for _, s := range sliders {
		cur := e.settings.value(s.key, e.currentFloat(s.key))
		e.drawText(s.label, x+12, y+3, 14, colorTextMuted)
		bounds := rl.Rectangle{X: float32(x + 120), Y: float32(y), Width: 140, Height: 20}
		v := gui.Slider(bounds, "", strconv.FormatFloat(float64(cur), 'f', s.prec, 32), cur, s.min, s.max)
		if v != cur {
			e.settings.stage(s.key, v)
		}
		y += 30
	}

	e.drawText("VSync", x+12, y+3, 14, colorTextMuted)
	vsync := gui.CheckBox(rl.Rectangle{X: float32(x + 120), Y: float32(y), Width: 20, Height: 20}, "", e.state.VSync)
	if vsync != e.state.VSync {
		text := "0"
		if vsync {
			text = "1"
		}
		e.setSetting("vsync", text)
	}
	y += 30

	e.drawText("Resolution", x+12, y+3, 14, colorTextMuted)
	bx := float32(x + 100)
	for _, r := range resolutions {
		label := fmt.Sprintf("%dx%d", r[0], r[1])
		if e.button(rl.Rectangle{X: bx, Y: float32(y), Width: 72, Height: 22}, label) {
			e.setSetting("resolution", fmt.Sprintf("%d, %d", r[0], r[1]))
		}
		bx += 76
	}
	y += 40

	if e.button(rl.Rectangle{X: float32(x + 12), Y: float32(y), Width: 130, Height: 24}, "Reset to defaults") {
		e.configs.ResetToDefaults()
		e.state.SetUnsaved(true)
	}
	if e.button(rl.Rectangle{X: float32(x + 160), Y: float32(y), Width: 80, Height: 24}, "Save") {
		e.save()
	}

	if !rl.IsMouseButtonDown(rl.MouseLeftButton) {
		if err := e.settings.commit(e.configs.Set); err != nil {
			logger().Warn("Rejected setting", slog.Any("err", err))
		}
	}
}
