// Package models contains domain types for the URDF converter.
package models

import (
	"sort"

	"github.com/vmihailenco/msgpack/v5"
)

// Vec3 is an ordered triple of floats (xyz position, rpy orientation, axis, box size).
type Vec3 [3]float64

// Origin is a 6-DOF spatial offset attached to a visual or a joint.
type Origin struct {
	XYZ Vec3 `json:"xyz" yaml:"xyz" msgpack:"xyz"`
	RPY Vec3 `json:"rpy" yaml:"rpy" msgpack:"rpy"`
}

// ZeroOrigin returns the origin produced by an <origin/> element with no attributes.
func ZeroOrigin() *Origin {
	return &Origin{}
}

// Visual is the visual element of a link.
type Visual struct {
	Geometry Geometry `json:"geometry" yaml:"geometry" msgpack:"geometry"`
	Origin   *Origin  `json:"origin" yaml:"origin" msgpack:"origin"` // nil when <origin> is absent
}

// Link is a rigid body segment. Only links with a visual element are kept.
type Link struct {
	Visual Visual `json:"visual" yaml:"visual" msgpack:"visual"`
}

// Joint connects a parent link to a child link.
type Joint struct {
	Type   string  `json:"type" yaml:"type" msgpack:"type"`       // revolute, prismatic, fixed, ...
	Parent string  `json:"parent" yaml:"parent" msgpack:"parent"` // link name, not validated
	Child  string  `json:"child" yaml:"child" msgpack:"child"`    // link name, not validated
	Axis   Vec3    `json:"axis" yaml:"axis" msgpack:"axis"`
	Origin *Origin `json:"origin" yaml:"origin" msgpack:"origin"`
}

// Robot is the root of a converted robot description.
type Robot struct {
	Name   string           `json:"name" yaml:"name" msgpack:"name"`
	Links  map[string]Link  `json:"links" yaml:"links" msgpack:"links"`
	Joints map[string]Joint `json:"joints" yaml:"joints" msgpack:"joints"`
}

// NewRobot creates an empty Robot with non-nil link and joint maps.
func NewRobot(name string) *Robot {
	return &Robot{
		Name:   name,
		Links:  make(map[string]Link),
		Joints: make(map[string]Joint),
	}
}

// EncodeMsgpack implements msgpack.CustomEncoder. The encoder only sorts
// untyped maps, so links and joints are written in key order here.
func (r Robot) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(3); err != nil {
		return err
	}
	if err := enc.EncodeString("name"); err != nil {
		return err
	}
	if err := enc.EncodeString(r.Name); err != nil {
		return err
	}

	if err := enc.EncodeString("links"); err != nil {
		return err
	}
	if err := enc.EncodeMapLen(len(r.Links)); err != nil {
		return err
	}
	for _, name := range sortedKeys(r.Links) {
		if err := enc.EncodeString(name); err != nil {
			return err
		}
		if err := enc.Encode(r.Links[name]); err != nil {
			return err
		}
	}

	if err := enc.EncodeString("joints"); err != nil {
		return err
	}
	if err := enc.EncodeMapLen(len(r.Joints)); err != nil {
		return err
	}
	for _, name := range sortedKeys(r.Joints) {
		if err := enc.EncodeString(name); err != nil {
			return err
		}
		if err := enc.Encode(r.Joints[name]); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
