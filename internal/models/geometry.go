package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ShapeKind is the kind of a visual geometry.
type ShapeKind string

const (
	ShapeNone     ShapeKind = ""
	ShapeBox      ShapeKind = "box"
	ShapeCylinder ShapeKind = "cylinder"
	ShapeMesh     ShapeKind = "mesh"
)

// CylinderSize holds the dimensions of a cylinder geometry.
type CylinderSize struct {
	Radius float64 `json:"radius" yaml:"radius" msgpack:"radius"`
	Length float64 `json:"length" yaml:"length" msgpack:"length"`
}

// Geometry is a tagged variant over the supported visual shapes.
// Only the field matching Shape is meaningful.
type Geometry struct {
	Shape    ShapeKind
	Box      Vec3
	Cylinder CylinderSize
	Mesh     *string // mesh filename, nil if the attribute was absent
}

// BoxGeometry returns a box geometry with the given dimensions.
func BoxGeometry(size Vec3) Geometry {
	return Geometry{Shape: ShapeBox, Box: size}
}

// CylinderGeometry returns a cylinder geometry.
func CylinderGeometry(radius, length float64) Geometry {
	return Geometry{Shape: ShapeCylinder, Cylinder: CylinderSize{Radius: radius, Length: length}}
}

// MeshGeometry returns a mesh geometry. filename may be nil.
func MeshGeometry(filename *string) Geometry {
	return Geometry{Shape: ShapeMesh, Mesh: filename}
}

// NoGeometry returns a geometry without a recognized shape.
func NoGeometry() Geometry {
	return Geometry{}
}

// geometryWire is the serialized form shared by every output format:
// {"shape": "box"|"cylinder"|"mesh"|null, "size": ...}.
type geometryWire struct {
	Shape *string `json:"shape" yaml:"shape" msgpack:"shape"`
	Size  any     `json:"size" yaml:"size" msgpack:"size"`
}

func (g Geometry) wire() geometryWire {
	if g.Shape == ShapeNone {
		return geometryWire{}
	}
	shape := string(g.Shape)
	w := geometryWire{Shape: &shape}
	switch g.Shape {
	case ShapeBox:
		w.Size = g.Box
	case ShapeCylinder:
		w.Size = g.Cylinder
	case ShapeMesh:
		if g.Mesh != nil {
			w.Size = *g.Mesh
		}
	}
	return w
}

// MarshalJSON implements json.Marshaler. Mesh filenames are not HTML-escaped,
// matching the outer encoder.
func (g Geometry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(g.wire()); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (g *Geometry) UnmarshalJSON(data []byte) error {
	var raw struct {
		Shape *string         `json:"shape"`
		Size  json.RawMessage `json:"size"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if raw.Shape == nil {
		*g = NoGeometry()
		return nil
	}

	switch ShapeKind(*raw.Shape) {
	case ShapeBox:
		var size Vec3
		if err := json.Unmarshal(raw.Size, &size); err != nil {
			return fmt.Errorf("box size: %w", err)
		}
		*g = BoxGeometry(size)
	case ShapeCylinder:
		var size CylinderSize
		if err := json.Unmarshal(raw.Size, &size); err != nil {
			return fmt.Errorf("cylinder size: %w", err)
		}
		*g = CylinderGeometry(size.Radius, size.Length)
	case ShapeMesh:
		var filename *string
		if len(raw.Size) > 0 {
			if err := json.Unmarshal(raw.Size, &filename); err != nil {
				return fmt.Errorf("mesh filename: %w", err)
			}
		}
		*g = MeshGeometry(filename)
	default:
		return fmt.Errorf("unknown geometry shape: %q", *raw.Shape)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (g Geometry) MarshalYAML() (interface{}, error) {
	return g.wire(), nil
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (g Geometry) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(g.wire())
}
