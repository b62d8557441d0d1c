package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeometry_MarshalJSON(t *testing.T) {
	mesh := "m.stl"
	tests := []struct {
		name string
		geom Geometry
		want string
	}{
		{"box", BoxGeometry(Vec3{1, 2, 3}), `{"shape":"box","size":[1,2,3]}`},
		{"cylinder", CylinderGeometry(0.05, 0.4), `{"shape":"cylinder","size":{"radius":0.05,"length":0.4}}`},
		{"mesh", MeshGeometry(&mesh), `{"shape":"mesh","size":"m.stl"}`},
		{"mesh without filename", MeshGeometry(nil), `{"shape":"mesh","size":null}`},
		{"none", NoGeometry(), `{"shape":null,"size":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.geom)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))

			var back Geometry
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tt.geom, back)
		})
	}
}

func TestGeometry_MarshalJSONKeepsMarkup(t *testing.T) {
	mesh := "package://x&y<z.stl"
	g := MeshGeometry(&mesh)

	data, err := g.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"shape":"mesh","size":"package://x&y<z.stl"}`, string(data))

	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	require.NoError(t, enc.Encode(Visual{Geometry: g}))
	assert.Equal(t, `{"geometry":{"shape":"mesh","size":"package://x&y<z.stl"},"origin":null}`+"\n", buf.String())
}

func TestGeometry_UnmarshalUnknownShape(t *testing.T) {
	var g Geometry
	err := json.Unmarshal([]byte(`{"shape":"sphere","size":1}`), &g)
	assert.Error(t, err)
}

func TestLoadRobotJSON(t *testing.T) {
	doc := `{
  "name": "ur10e",
  "links": {
    "base_link": {"visual": {"geometry": {"shape": "mesh", "size": "package://ur/base.stl"}, "origin": {"xyz": [0, 0, 0], "rpy": [0, 0, 3.14159]}}}
  },
  "joints": {
    "shoulder_pan_joint": {"type": "revolute", "parent": "base_link", "child": "shoulder_link", "axis": [0, 0, 1], "origin": null}
  }
}`

	robot, err := LoadRobotJSON(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, "ur10e", robot.Name)
	base := robot.Links["base_link"].Visual
	assert.Equal(t, ShapeMesh, base.Geometry.Shape)
	require.NotNil(t, base.Origin)
	assert.Equal(t, Vec3{0, 0, 3.14159}, base.Origin.RPY)

	joint := robot.Joints["shoulder_pan_joint"]
	assert.Equal(t, "shoulder_link", joint.Child)
	assert.Nil(t, joint.Origin)
}

func TestLoadRobotJSON_EmptyMaps(t *testing.T) {
	robot, err := LoadRobotJSON(strings.NewReader(`{"name":"r"}`))
	require.NoError(t, err)
	assert.NotNil(t, robot.Links)
	assert.NotNil(t, robot.Joints)
}
