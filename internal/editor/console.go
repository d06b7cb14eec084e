package editor

import (
	"elypso/internal/console"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const consoleHeight = 200

func consoleBounds() rl.Rectangle {
	return rl.Rectangle{
		X:      0,
		Y:      float32(rl.GetScreenHeight() - consoleHeight),
		Width:  float32(rl.GetScreenWidth()),
		Height: consoleHeight,
	}
}

func levelColor(l slog.Level) rl.Color {
	switch {
	case l >= slog.LevelError:
		return colorError
	case l >= slog.LevelWarn:
		return colorWarn
	case l >= slog.LevelInfo:
		return colorTextSecondary
	}
	return colorTextMuted
}

// consoleLine formats a message the way the console shows it.
func consoleLine(m console.Message) string {
	return m.Time.Format("15:04:05") + " [" + m.Caller + "] " + m.Level.String() + ": " + m.Text
}

// drawConsole shows the newest messages that fit, newest at the bottom.
func (e *Editor) drawConsole() {
	b := consoleBounds()
	rl.DrawRectangleRec(b, colorBgPanel)
	rl.DrawRectangle(0, int32(b.Y), int32(b.Width), 1, colorBorder)

	if e.console == nil {
		e.drawText("Console unavailable", 12, int32(b.Y)+8, 14, colorTextMuted)
		return
	}
	if e.button(rl.Rectangle{X: b.Width - 70, Y: b.Y + 6, Width: 60, Height: 22}, "Clear") {
		e.console.Clear()
	}

	lineH := int32(16 * e.fontScale())
	messages := e.console.Messages()
	rows := int(consoleHeight-12) / int(lineH)
	if len(messages) > rows {
		messages = messages[len(messages)-rows:]
	}

	y := int32(b.Y) + 8
	for _, m := range messages {
		e.drawText(consoleLine(m), 12, y, 14, levelColor(m.Level))
		y += lineH
	}
}
