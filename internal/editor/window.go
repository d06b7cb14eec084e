package editor

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// raylibWindow mirrors engine.State into the raylib window.
type raylibWindow struct{}

func (raylibWindow) Size() (int32, int32) {
	if !rl.IsWindowReady() {
		return 0, 0
	}
	return int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
}

func (raylibWindow) SetSize(width, height int32) {
	if rl.IsWindowReady() {
		rl.SetWindowSize(int(width), int(height))
	}
}

func (raylibWindow) SetVSync(enabled bool) {
	if !rl.IsWindowReady() {
		return
	}
	if enabled {
		rl.SetWindowState(rl.FlagVsyncHint)
	} else {
		rl.ClearWindowState(rl.FlagVsyncHint)
	}
}

func (raylibWindow) SetTitle(title string) {
	if rl.IsWindowReady() {
		rl.SetWindowTitle(title)
	}
}
