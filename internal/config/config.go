// Package config persists the editor settings: a flat "key: value" text
// file whose values are checked against hard-coded per-key bounds. A bad
// value never fails a load; the field falls back to its default instead.
package config

import (
	"bufio"
	"elypso/internal/console"
	"elypso/internal/engine"
	"elypso/internal/fileutil"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	headerLine1 = "This is a configuration file for the Elypso level editor."
	headerLine2 = "Manually editing this file changes settings in the level editor as well."
)

// Popup shows a blocking error to the user.
type Popup interface {
	ShowError(title, message string)
}

// Value is one entry of the settings table.
type Value struct {
	Name    string
	Setting Setting
}

func (v Value) Kind() Kind { return v.Setting.Kind() }

func (v Value) Text() string { return v.Setting.String() }

// ValidationError reports a value that does not parse as its key's type or
// falls outside the key's bounds.
type ValidationError struct {
	Key  string
	Text string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: %v", e.Text, e.Key, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// field binds a key to its default and bounds and to the live state it
// mirrors.
type field struct {
	name  string
	def   Setting
	read  func(st *engine.State, def Setting) Setting
	apply func(st *engine.State, v Setting)
}

// fields is in table order, which is also save order.
var fields = []field{
	{
		name: "fontScale",
		def:  Float{V: 1.5, Min: 1.0, Max: 2.0},
		read: func(st *engine.State, def Setting) Setting {
			f := def.(Float)
			f.V = st.FontScale
			return f
		},
		apply: func(st *engine.State, v Setting) { st.FontScale = v.(Float).V },
	},
	{
		name: "resolution",
		def: Vec2{
			V:     rl.Vector2{X: 1280, Y: 720},
			Min:   rl.Vector2{X: 1280, Y: 720},
			Max:   rl.Vector2{X: 7860, Y: 3840},
			Whole: true,
		},
		read: func(st *engine.State, def Setting) Setting {
			v := def.(Vec2)
			w, h := st.WindowSize()
			v.V = rl.Vector2{X: float32(w), Y: float32(h)}
			return v
		},
		apply: func(st *engine.State, v Setting) {
			res := v.(Vec2).V
			st.SetWindowSize(int32(res.X), int32(res.Y))
		},
	},
	{
		name: "vsync",
		def:  Int{V: 1, Min: 0, Max: 1},
		read: func(st *engine.State, def Setting) Setting {
			i := def.(Int)
			i.V = 0
			if st.VSync {
				i.V = 1
			}
			return i
		},
		apply: func(st *engine.State, v Setting) { st.SetVSync(v.(Int).V != 0) },
	},
	{
		name: "fov",
		def:  Float{V: 90, Min: 70, Max: 110},
		read: func(st *engine.State, def Setting) Setting {
			f := def.(Float)
			f.V = st.FOV
			return f
		},
		apply: func(st *engine.State, v Setting) { st.FOV = v.(Float).V },
	},
	{
		name: "camNearClip",
		def:  Float{V: 0.001, Min: 0.001, Max: 10000.0},
		read: func(st *engine.State, def Setting) Setting {
			f := def.(Float)
			f.V = st.NearClip
			return f
		},
		apply: func(st *engine.State, v Setting) { st.NearClip = v.(Float).V },
	},
	{
		name: "camFarClip",
		def:  Float{V: 100.0, Min: 0.001, Max: 10000.0},
		read: func(st *engine.State, def Setting) Setting {
			f := def.(Float)
			f.V = st.FarClip
			return f
		},
		apply: func(st *engine.State, v Setting) { st.FarClip = v.(Float).V },
	},
	{
		name: "camPos",
		def: Vec3{
			V:   rl.Vector3{X: 0, Y: 1, Z: 0},
			Min: rl.Vector3{X: -1000000.0, Y: -1000000.0, Z: -1000000.0},
			Max: rl.Vector3{X: 1000000.0, Y: 1000000.0, Z: 1000000.0},
		},
		read: func(st *engine.State, def Setting) Setting {
			v := def.(Vec3)
			v.V = st.Camera.Position
			return v
		},
		apply: func(st *engine.State, v Setting) { st.Camera.Position = v.(Vec3).V },
	},
	{
		name: "camRot",
		def: Vec3{
			V:   rl.Vector3{},
			Min: rl.Vector3{X: -359.99, Y: -359.99, Z: -359.99},
			Max: rl.Vector3{X: 359.99, Y: 359.99, Z: 359.99},
		},
		read: func(st *engine.State, def Setting) Setting {
			v := def.(Vec3)
			v.V = st.Camera.Rotation
			return v
		},
		apply: func(st *engine.State, v Setting) { st.Camera.Rotation = v.(Vec3).V },
	},
}

func lookup(key string) *field {
	for i := range fields {
		if fields[i].name == key {
			return &fields[i]
		}
	}
	return nil
}

// validateOrDefault parses text for f. When the text is unusable it returns
// f's default and true.
func (f *field) validateOrDefault(text string) (Setting, bool, error) {
	v, err := f.def.Parse(text)
	if err != nil {
		return f.def, true, &ValidationError{Key: f.name, Text: text, Err: err}
	}
	return v, false, nil
}

// Keys returns the known setting keys in table order.
func Keys() []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.name
	}
	return keys
}

// Default returns the hard-coded default for key.
func Default(key string) (Value, bool) {
	f := lookup(key)
	if f == nil {
		return Value{}, false
	}
	return Value{Name: f.name, Setting: f.def}, true
}

// IsValueInRange reports whether text parses as key's type and lies within
// key's bounds. Unknown keys are never in range.
func IsValueInRange(key, text string) bool {
	f := lookup(key)
	if f == nil {
		return false
	}
	_, err := f.def.Parse(text)
	return err == nil
}

// ValidateOrDefault returns the parsed value for key, or the key's default
// with defaulted set when text is rejected. The error explains the
// rejection and is ErrUnknownKey for keys outside the table.
func ValidateOrDefault(key, text string) (v Value, defaulted bool, err error) {
	f := lookup(key)
	if f == nil {
		return Value{}, false, &ValidationError{Key: key, Text: text, Err: ErrUnknownKey}
	}
	s, defaulted, err := f.validateOrDefault(text)
	return Value{Name: f.name, Setting: s}, defaulted, err
}

// LoadReport lists which keys a load parsed and which fell back to defaults.
type LoadReport struct {
	Applied   []string
	Defaulted []string
}

// Store owns the settings table and the config file path. It is used from
// the main loop only.
type Store struct {
	path   string
	state  *engine.State
	popup  Popup
	values []Value
}

func New(path string, st *engine.State, popup Popup) *Store {
	s := &Store{path: path, state: st, popup: popup}
	s.RebuildValueTable()
	return s
}

func (s *Store) Path() string { return s.path }

func (s *Store) showError(title, message string) {
	if s.popup != nil {
		s.popup.ShowError(title, message)
	}
}

func logger() *slog.Logger {
	return console.For(console.Engine)
}

// Values returns a copy of the table in save order.
func (s *Store) Values() []Value {
	return append([]Value(nil), s.values...)
}

func (s *Store) Value(key string) (Value, bool) {
	for _, v := range s.values {
		if v.Name == key {
			return v, true
		}
	}
	return Value{}, false
}

// IsValueInRange is the package-level IsValueInRange; the bounds are the
// same for every store.
func (s *Store) IsValueInRange(key, text string) bool {
	return IsValueInRange(key, text)
}

// ResetToDefaults writes every default into the live state.
func (s *Store) ResetToDefaults() {
	for _, f := range fields {
		f.apply(s.state, f.def)
	}
	s.RebuildValueTable()
}

// RebuildValueTable reads the live state back into the table.
func (s *Store) RebuildValueTable() {
	s.values = s.values[:0]
	for _, f := range fields {
		s.values = append(s.values, Value{Name: f.name, Setting: f.read(s.state, f.def)})
	}
}

// Set validates text for key and applies it. Rejected values leave the
// live state untouched.
func (s *Store) Set(key, text string) error {
	f := lookup(key)
	if f == nil {
		return &ValidationError{Key: key, Text: text, Err: ErrUnknownKey}
	}
	v, err := f.def.Parse(text)
	if err != nil {
		return &ValidationError{Key: key, Text: text, Err: err}
	}
	f.apply(s.state, v)
	s.RebuildValueTable()
	s.state.SetUnsaved(true)
	logger().Info("Changed setting", slog.String("key", key), slog.String("value", v.String()))
	return nil
}

// Init prepares the config on startup. The defaults are put in effect
// first so keys missing from the file, or an unreadable file, leave valid
// values behind. A missing file is created from the defaults before it is
// loaded.
func (s *Store) Init() error {
	s.ResetToDefaults()
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
			s.showError("Failed to create config file", "Couldn't create config file at "+s.path+"!")
			return fmt.Errorf("create config dir: %w", err)
		}
		if err := s.Save(s.path); err != nil {
			return err
		}
	}
	_, err := s.Load(s.path)
	return err
}

// Load applies the settings in the file at path to the live state. Lines
// without ':' and unknown keys are skipped; rejected values reset just that
// field to its default.
func (s *Store) Load(path string) (LoadReport, error) {
	var report LoadReport

	f, err := os.Open(path)
	if err != nil {
		s.showError("Failed to open config file", "Couldn't open config file at "+path+"!")
		return report, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := s.parse(f, &report); err != nil {
		s.RebuildValueTable()
		return report, fmt.Errorf("read config: %w", err)
	}
	s.RebuildValueTable()

	logger().Info("Successfully loaded config file", slog.String("path", path))
	return report, nil
}

// maxLineLength bounds a single config line. Longer lines are skipped.
const maxLineLength = 1 << 20

func (s *Store) parse(r io.Reader, report *LoadReport) error {
	reader := bufio.NewReader(r)
	for {
		line, err := readLine(reader)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, errLineTooLong) {
			logger().Warn("Skipping oversized config line", slog.Int("limit", maxLineLength))
			continue
		}
		if err != nil {
			return err
		}

		key, text, ok := splitLine(line)
		if !ok {
			continue
		}
		f := lookup(key)
		if f == nil {
			continue
		}

		v, defaulted, err := f.validateOrDefault(text)
		f.apply(s.state, v)
		if defaulted {
			report.Defaulted = append(report.Defaulted, key)
			logger().Warn("Setting is out of range or malformed, resetting to default",
				slog.String("key", key),
				slog.String("value", text),
				slog.String("default", v.String()),
				slog.Any("err", err))
			continue
		}
		report.Applied = append(report.Applied, key)
		logger().Info("Set "+key, slog.String("value", v.String()))
	}
}

var errLineTooLong = errors.New("line too long")

// readLine returns the next line without its terminator. A line longer than
// maxLineLength is consumed up to its end and reported as errLineTooLong.
// io.EOF is returned only once no text is left.
func readLine(r *bufio.Reader) (string, error) {
	var b strings.Builder
	tooLong := false
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) && (b.Len() > 0 || tooLong) {
				break
			}
			return "", err
		}
		if !tooLong {
			if b.Len()+len(chunk) > maxLineLength {
				tooLong = true
				b.Reset()
			} else {
				b.Write(chunk)
			}
		}
		if !isPrefix {
			break
		}
	}
	if tooLong {
		return "", errLineTooLong
	}
	return b.String(), nil
}

// splitLine strips all whitespace from a "key: a, b, c" line and returns the
// key and the components rejoined with the canonical separator.
func splitLine(line string) (key, text string, ok bool) {
	if !strings.Contains(line, ":") {
		return "", "", false
	}
	line = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, line)
	key, rest, _ := strings.Cut(line, ":")
	return key, strings.Join(strings.Split(rest, ","), componentSep), true
}

// Save rewrites the file at path from the live state. The new content is
// staged in a temp file and renamed over the old one.
func (s *Store) Save(path string) error {
	s.RebuildValueTable()

	err := fileutil.WriteFileAtomic(path, func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "%s\n%s\n\n", headerLine1, headerLine2); err != nil {
			return err
		}
		for _, v := range s.values {
			if _, err := fmt.Fprintf(w, "%s: %s\n", v.Name, v.Text()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.showError("Failed to create config file", "Couldn't create config file at "+path+"!")
		return fmt.Errorf("save config: %w", err)
	}

	logger().Info("Successfully saved config file", slog.String("path", path))
	return nil
}
