package config

import (
	"errors"
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Kind tags the type of a setting.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindVec2
	KindVec3
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindVec2:
		return "vec2"
	case KindVec3:
		return "vec3"
	case KindString:
		return "string"
	}
	return "unknown"
}

var (
	ErrMalformed  = errors.New("malformed value")
	ErrOutOfRange = errors.New("value out of range")
	ErrUnknownKey = errors.New("unknown key")
)

// componentSep separates vector components in the config file.
const componentSep = ", "

// Setting is a typed value together with its inclusive bounds. Parse
// returns a copy holding the parsed value, keeping the bounds, or an error
// wrapping ErrMalformed or ErrOutOfRange.
type Setting interface {
	Kind() Kind
	String() string
	Parse(text string) (Setting, error)
}

type Float struct {
	V, Min, Max float32
}

func (f Float) Kind() Kind { return KindFloat }

func (f Float) String() string { return formatFloat(f.V) }

func (f Float) Parse(text string) (Setting, error) {
	v, err := parseFloat(text)
	if err != nil {
		return nil, err
	}
	if !(v >= f.Min && v <= f.Max) {
		return nil, ErrOutOfRange
	}
	f.V = v
	return f, nil
}

type Int struct {
	V, Min, Max int
}

func (i Int) Kind() Kind { return KindInt }

func (i Int) String() string { return strconv.Itoa(i.V) }

func (i Int) Parse(text string) (Setting, error) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return nil, ErrMalformed
	}
	if v < i.Min || v > i.Max {
		return nil, ErrOutOfRange
	}
	i.V = v
	return i, nil
}

// Vec2 bounds each component independently. Whole pairs such as the
// resolution reject fractional components.
type Vec2 struct {
	V, Min, Max rl.Vector2
	Whole       bool
}

func (v Vec2) Kind() Kind { return KindVec2 }

func (v Vec2) String() string {
	return formatFloat(v.V.X) + componentSep + formatFloat(v.V.Y)
}

func (v Vec2) Parse(text string) (Setting, error) {
	parse := parseFloat
	if v.Whole {
		parse = parseWhole
	}
	c, err := parseComponents(text, 2, parse)
	if err != nil {
		return nil, err
	}
	if !within(c[0], v.Min.X, v.Max.X) || !within(c[1], v.Min.Y, v.Max.Y) {
		return nil, ErrOutOfRange
	}
	v.V = rl.Vector2{X: c[0], Y: c[1]}
	return v, nil
}

type Vec3 struct {
	V, Min, Max rl.Vector3
}

func (v Vec3) Kind() Kind { return KindVec3 }

func (v Vec3) String() string {
	return formatFloat(v.V.X) + componentSep + formatFloat(v.V.Y) + componentSep + formatFloat(v.V.Z)
}

func (v Vec3) Parse(text string) (Setting, error) {
	c, err := parseComponents(text, 3, parseFloat)
	if err != nil {
		return nil, err
	}
	if !within(c[0], v.Min.X, v.Max.X) || !within(c[1], v.Min.Y, v.Max.Y) || !within(c[2], v.Min.Z, v.Max.Z) {
		return nil, ErrOutOfRange
	}
	v.V = rl.Vector3{X: c[0], Y: c[1], Z: c[2]}
	return v, nil
}

// String settings carry no bounds and accept any text.
type String struct {
	V string
}

func (s String) Kind() Kind { return KindString }

func (s String) String() string { return s.V }

func (s String) Parse(text string) (Setting, error) {
	s.V = strings.TrimSpace(text)
	return s, nil
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

func parseFloat(text string) (float32, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 32)
	if err != nil {
		return 0, ErrMalformed
	}
	return float32(v), nil
}

// parseWhole accepts only integer text.
func parseWhole(text string) (float32, error) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, ErrMalformed
	}
	return float32(v), nil
}

// within is false for NaN.
func within(v, lo, hi float32) bool {
	return v >= lo && v <= hi
}

// parseComponents splits a "x, y[, z]" value. The ", " separator is
// required, so a bare scalar is never mistaken for a vector.
func parseComponents(text string, n int, parse func(string) (float32, error)) ([]float32, error) {
	if !strings.Contains(text, componentSep) {
		return nil, ErrMalformed
	}
	parts := strings.Split(text, ",")
	if len(parts) != n {
		return nil, ErrMalformed
	}
	out := make([]float32, n)
	for i, p := range parts {
		v, err := parse(p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
