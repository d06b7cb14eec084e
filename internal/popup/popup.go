// Package popup shows blocking error messages to the user.
package popup

import (
	"elypso/internal/console"
	"log/slog"

	"github.com/sqweek/dialog"
)

// Dialog shows errors in a native message box. It blocks until the user
// dismisses it, so it must only be used from the main loop.
type Dialog struct{}

func (Dialog) ShowError(title, message string) {
	console.For(console.Engine).Error(message, slog.String("popup", title))
	dialog.Message("%s", message).Title(title).Error()
}

// Log only writes errors to the log. Use it where no desktop is available.
type Log struct{}

func (Log) ShowError(title, message string) {
	console.For(console.Engine).Error(message, slog.String("popup", title))
}
