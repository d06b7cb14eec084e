package engine

import (
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Window is the live window the state is mirrored into. Size reports 0, 0
// while no window is open.
type Window interface {
	Size() (width, height int32)
	SetSize(width, height int32)
	SetVSync(enabled bool)
	SetTitle(title string)
}

type Camera struct {
	Position rl.Vector3
	Rotation rl.Vector3 // pitch, yaw, roll in degrees
}

// State is the live editor state shared by the GUI and the stores. It is
// only touched from the main loop.
type State struct {
	Title          string
	FontScale      float32
	WindowWidth    int32 // last size requested, used when no window is open
	WindowHeight   int32
	VSync          bool
	FOV            float32
	NearClip       float32
	FarClip        float32
	Camera         Camera
	UnsavedChanges bool
	Window         Window
}

// WindowSize returns the live window size, falling back to the cached one.
func (s *State) WindowSize() (int32, int32) {
	if s.Window != nil {
		if w, h := s.Window.Size(); w != 0 && h != 0 {
			return w, h
		}
	}
	return s.WindowWidth, s.WindowHeight
}

func (s *State) SetWindowSize(width, height int32) {
	s.WindowWidth = width
	s.WindowHeight = height
	if s.Window != nil {
		s.Window.SetSize(width, height)
	}
}

func (s *State) SetVSync(enabled bool) {
	s.VSync = enabled
	if s.Window != nil {
		s.Window.SetVSync(enabled)
	}
}

// SetUnsaved marks or clears the unsaved flag and reflects it in the title.
func (s *State) SetUnsaved(unsaved bool) {
	s.UnsavedChanges = unsaved
	if s.Window == nil {
		return
	}
	title := strings.TrimSuffix(s.Title, "*")
	if unsaved {
		title += "*"
	}
	s.Window.SetTitle(title)
}
