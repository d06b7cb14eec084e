package main

import (
	"elypso/internal/config"
	"elypso/internal/console"
	"elypso/internal/editor"
	"elypso/internal/popup"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const consoleCapacity = 500

func defaultDocsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "docs"
	}
	return filepath.Join(home, "Documents", "Elypso engine")
}

func main() {
	docs := flag.String("docs", defaultDocsPath(), "folder holding config.txt")
	files := flag.String("files", "files", "project folder holding scenes and textures")
	verbose := flag.Bool("v", false, "log debug messages")
	headless := flag.Bool("no-popups", false, "log errors instead of showing message boxes")
	flag.Parse()

	// Change working directory to executable location for deployed builds.
	// Skip this for "go run" which puts the binary in a temp directory.
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		if !strings.Contains(execDir, "go-build") {
			os.Chdir(execDir)
		}
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	buffer := console.NewBuffer(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{AddSource: true, Level: level}), consoleCapacity)
	slog.SetDefault(slog.New(buffer))

	var p config.Popup = popup.Dialog{}
	if *headless {
		p = popup.Log{}
	}

	ed := editor.New(editor.Options{
		DocsPath:  *docs,
		FilesPath: *files,
		Popup:     p,
		Console:   buffer,
	})
	if err := ed.Run(); err != nil {
		console.For(console.Shutdown).Error("Editor failed", slog.Any("err", err))
		os.Exit(1)
	}
}
