package scenefile

import (
	"bufio"
	"elypso/internal/components"
	"elypso/internal/engine"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Record is the on-disk form of one scene object. Only the fields that
// belong to Mesh are written; the rest keep their defaults.
type Record struct {
	ID       int
	Name     string
	Mesh     engine.MeshType
	Position rl.Vector3
	Rotation rl.Vector3
	Scale    rl.Vector3
	Textures []string
	Shaders  [2]string

	Shininess float32 // cube

	Diffuse   rl.Vector3 // point and spot lights
	Intensity float32
	Distance  float32

	InnerAngle float32 // spot lights
	OuterAngle float32
}

// textureSlots is the number of textures written for each mesh type.
func textureSlots(m engine.MeshType) int {
	switch m {
	case engine.MeshCube:
		return 2 // diffuse, specular
	case engine.MeshBillboard:
		return 1
	}
	return 0
}

// defaultRecord returns a record filled with the editor defaults for m.
func defaultRecord(m engine.MeshType) Record {
	point := components.NewPointLight()
	spot := components.NewSpotLight()
	r := Record{
		Mesh:      m,
		Scale:     rl.Vector3{X: 1, Y: 1, Z: 1},
		Shininess: components.NewBasicShape().Shininess,
		Diffuse:   point.Diffuse,
		Intensity: point.Intensity,
		Distance:  point.Distance,
	}
	if m == engine.MeshSpotLight {
		r.Diffuse = spot.Diffuse
		r.Intensity = spot.Intensity
		r.Distance = spot.Distance
		r.InnerAngle = spot.InnerAngle
		r.OuterAngle = spot.OuterAngle
	}
	if n := textureSlots(m); n > 0 {
		r.Textures = make([]string, n)
	}
	return r
}

// RecordOf flattens g. Light and shape parameters come from g's components,
// falling back to the defaults when a component is missing.
func RecordOf(g *engine.GameObject) Record {
	r := defaultRecord(g.Mesh)
	r.ID = g.ID
	r.Name = g.Name
	r.Position = g.Transform.Position
	r.Rotation = g.Transform.Rotation
	r.Scale = g.Transform.Scale
	r.Shaders = g.Material.Shaders
	for i := range r.Textures {
		r.Textures[i] = g.Material.TextureName(i)
	}

	switch g.Mesh {
	case engine.MeshCube:
		if shape := engine.GetComponent[*components.BasicShape](g); shape != nil {
			r.Shininess = shape.Shininess
		}
	case engine.MeshPointLight:
		if light := engine.GetComponent[*components.PointLight](g); light != nil {
			r.Diffuse = light.Diffuse
			r.Intensity = light.Intensity
			r.Distance = light.Distance
		}
	case engine.MeshSpotLight:
		if light := engine.GetComponent[*components.SpotLight](g); light != nil {
			r.Diffuse = light.Diffuse
			r.Intensity = light.Intensity
			r.Distance = light.Distance
			r.InnerAngle = light.InnerAngle
			r.OuterAngle = light.OuterAngle
		}
	}
	return r
}

// GameObject builds a live object from r, with the components its mesh
// type needs.
func (r Record) GameObject() *engine.GameObject {
	g := engine.NewGameObject(r.Name, r.Mesh)
	g.ID = r.ID
	g.Transform = engine.Transform{Position: r.Position, Rotation: r.Rotation, Scale: r.Scale}
	g.Material.Shaders = r.Shaders
	if len(r.Textures) > 0 {
		g.Material.Textures = append([]string(nil), r.Textures...)
	}

	components.Attach(g)
	switch r.Mesh {
	case engine.MeshCube:
		engine.GetComponent[*components.BasicShape](g).Shininess = r.Shininess
	case engine.MeshPointLight:
		light := engine.GetComponent[*components.PointLight](g)
		light.Diffuse = r.Diffuse
		light.Intensity = r.Intensity
		light.Distance = r.Distance
	case engine.MeshSpotLight:
		light := engine.GetComponent[*components.SpotLight](g)
		light.Diffuse = r.Diffuse
		light.Intensity = r.Intensity
		light.Distance = r.Distance
		light.InnerAngle = r.InnerAngle
		light.OuterAngle = r.OuterAngle
	}
	return g
}

// --- Encoding ---

// Encode writes one block per record, in order.
func Encode(w io.Writer, records []Record) error {
	var b strings.Builder
	for _, r := range records {
		b.Reset()
		writeRecord(&b, r)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// cleanName makes name fit on its line: line breaks become spaces and the
// ends are trimmed, matching what Decode reads back.
func cleanName(name string) string {
	name = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return ' '
		}
		return r
	}, name)
	return strings.TrimSpace(name)
}

func writeRecord(b *strings.Builder, r Record) {
	field := func(key, value string) {
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteByte('\n')
	}

	b.WriteString("id: " + strconv.Itoa(r.ID) + "\n")
	field("name", cleanName(r.Name))
	field("type", r.Mesh.String())
	field("position", formatVec3(r.Position))
	field("rotation", formatVec3(r.Rotation))
	field("scale", formatVec3(r.Scale))
	if n := textureSlots(r.Mesh); n > 0 {
		textures := make([]string, n)
		copy(textures, r.Textures)
		field("textures", strings.Join(textures, ", "))
	}
	field("shaders", r.Shaders[0]+", "+r.Shaders[1])

	switch r.Mesh {
	case engine.MeshCube:
		field("shininess", formatFloat(r.Shininess))
	case engine.MeshPointLight:
		field("diffuse", formatVec3(r.Diffuse))
		field("intensity", formatFloat(r.Intensity))
		field("distance", formatFloat(r.Distance))
	case engine.MeshSpotLight:
		field("diffuse", formatVec3(r.Diffuse))
		field("intensity", formatFloat(r.Intensity))
		field("distance", formatFloat(r.Distance))
		field("inner angle", formatFloat(r.InnerAngle))
		field("outer angle", formatFloat(r.OuterAngle))
	}
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

func formatVec3(v rl.Vector3) string {
	return formatFloat(v.X) + ", " + formatFloat(v.Y) + ", " + formatFloat(v.Z)
}

// --- Decoding ---

var errBadField = errors.New("malformed field")

type block struct {
	line   int
	id     string
	fields [][2]string
}

// Decode reads the blocks written by Encode. A field that does not parse
// keeps its default and a block with an unknown type is skipped; both are
// logged. Only read errors are returned.
func Decode(r io.Reader) ([]Record, error) {
	var (
		records []Record
		cur     *block
	)
	flush := func() {
		if cur == nil {
			return
		}
		if rec, ok := cur.record(); ok {
			records = append(records, rec)
		}
		cur = nil
	}

	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		if key == "id" {
			flush()
			cur = &block{line: n, id: value}
			continue
		}
		if cur == nil {
			logger().Warn("Ignoring scene line outside of an object block", slog.Int("line", n))
			continue
		}
		cur.fields = append(cur.fields, [2]string{strings.TrimSpace(key), value})
	}
	flush()

	if err := scanner.Err(); err != nil {
		return records, err
	}
	return records, nil
}

func (b *block) record() (Record, bool) {
	var typeName string
	for _, f := range b.fields {
		if f[0] == "type" {
			typeName = f[1]
		}
	}
	mesh, err := engine.ParseMeshType(typeName)
	if err != nil || mesh == engine.MeshBorder {
		logger().Warn("Skipping scene object with unknown type",
			slog.Int("line", b.line), slog.String("type", typeName))
		return Record{}, false
	}

	rec := defaultRecord(mesh)
	if id, err := strconv.Atoi(b.id); err == nil && id > 0 {
		rec.ID = id
	} else {
		logger().Warn("Scene object has an invalid id, a new one will be assigned",
			slog.Int("line", b.line), slog.String("id", b.id))
	}

	for _, f := range b.fields {
		if err := rec.set(f[0], f[1]); err != nil {
			logger().Warn("Scene field is malformed, using default",
				slog.Int("id", rec.ID),
				slog.String("key", f[0]),
				slog.String("value", f[1]),
				slog.Any("err", err))
		}
	}
	return rec, true
}

func (r *Record) set(key, value string) error {
	switch key {
	case "name":
		r.Name = value
	case "type":
	case "position":
		return parseVec3(value, &r.Position)
	case "rotation":
		return parseVec3(value, &r.Rotation)
	case "scale":
		return parseVec3(value, &r.Scale)
	case "textures":
		if len(r.Textures) == 0 {
			return nil
		}
		parts := splitList(value)
		if len(parts) != len(r.Textures) {
			return fmt.Errorf("%w: expected %d textures, got %d", errBadField, len(r.Textures), len(parts))
		}
		copy(r.Textures, parts)
	case "shaders":
		parts := splitList(value)
		if len(parts) != 2 {
			return fmt.Errorf("%w: expected 2 shaders, got %d", errBadField, len(parts))
		}
		r.Shaders = [2]string{parts[0], parts[1]}
	case "shininess":
		return parseFloat(value, &r.Shininess)
	case "diffuse":
		return parseVec3(value, &r.Diffuse)
	case "intensity":
		return parseFloat(value, &r.Intensity)
	case "distance":
		return parseFloat(value, &r.Distance)
	case "inner angle":
		return parseFloat(value, &r.InnerAngle)
	case "outer angle":
		return parseFloat(value, &r.OuterAngle)
	default:
		logger().Debug("Ignoring unknown scene field", slog.String("key", key))
	}
	return nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseFloat(value string, dst *float32) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 32)
	if err != nil {
		return fmt.Errorf("%w: %q is not a number", errBadField, value)
	}
	*dst = float32(v)
	return nil
}

func parseVec3(value string, dst *rl.Vector3) error {
	parts := splitList(value)
	if len(parts) != 3 {
		return fmt.Errorf("%w: expected 3 components, got %d", errBadField, len(parts))
	}
	var v [3]float32
	for i, p := range parts {
		if err := parseFloat(p, &v[i]); err != nil {
			return err
		}
	}
	*dst = rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
	return nil
}
