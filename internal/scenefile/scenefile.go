// Package scenefile saves the live scene graph to the indented block format
// and clears or reloads the graph from it.
package scenefile

import (
	"elypso/internal/console"
	"elypso/internal/engine"
	"elypso/internal/fileutil"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// ErrNothingToSave is returned by Save when the graph holds nothing but the
// border helper.
var ErrNothingToSave = errors.New("there is no content to save")

// Graph is the live scene the store reads from and clears.
type Graph interface {
	Objects() []*engine.GameObject
	Add(g *engine.GameObject)
	Destroy(g *engine.GameObject)
	Deselect()
}

type Store struct {
	path  string
	graph Graph
}

func New(path string, graph Graph) *Store {
	return &Store{path: path, graph: graph}
}

// Path is where Save writes the scene.
func (s *Store) Path() string { return s.path }

func logger() *slog.Logger {
	return console.For(console.Engine)
}

// Clear deselects and destroys every object except the border helper. An
// empty scene is left alone.
func (s *Store) Clear() error {
	objects := s.graph.Objects()
	doomed := make([]*engine.GameObject, 0, len(objects))
	for _, g := range objects {
		if !g.IsBorder() {
			doomed = append(doomed, g)
		}
	}
	if len(doomed) == 0 {
		return nil
	}

	s.graph.Deselect()
	for _, g := range doomed {
		s.graph.Destroy(g)
	}
	logger().Debug("Cleared scene", slog.Int("objects", len(doomed)))
	return nil
}

// Save writes every object but the border to Path and returns the path. A
// graph with fewer than two objects is not written at all.
func (s *Store) Save() (string, error) {
	objects := s.graph.Objects()
	if len(objects) < 2 {
		logger().Info("There is no content to save...")
		return "", ErrNothingToSave
	}

	records := make([]Record, 0, len(objects))
	for _, g := range objects {
		if g.IsBorder() {
			continue
		}
		records = append(records, RecordOf(g))
	}

	err := fileutil.WriteFileAtomic(s.path, func(w io.Writer) error {
		return Encode(w, records)
	})
	if err != nil {
		logger().Error("Couldn't save scene", slog.String("path", s.path), slog.Any("err", err))
		return "", fmt.Errorf("save scene: %w", err)
	}

	logger().Info("Successfully saved " + s.path + "!")
	return s.path, nil
}

// Load replaces the graph contents with the objects in the file at path.
// The graph is only cleared once the file has been read.
func (s *Store) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		logger().Error("Couldn't open scene", slog.String("path", path), slog.Any("err", err))
		return fmt.Errorf("read scene: %w", err)
	}
	defer f.Close()

	records, err := Decode(f)
	if err != nil {
		logger().Error("Couldn't read scene", slog.String("path", path), slog.Any("err", err))
		return fmt.Errorf("parse scene: %w", err)
	}

	if err := s.Clear(); err != nil {
		return err
	}
	for _, rec := range records {
		s.graph.Add(rec.GameObject())
	}

	logger().Info("Successfully loaded "+path+"!", slog.Int("objects", len(records)))
	return nil
}
