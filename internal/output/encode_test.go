package output

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/volttools/urdfconv/internal/models"
	"gopkg.in/yaml.v3"
)

func sampleRobot() *models.Robot {
	mesh := "package://arm/meshes/a&b.stl"
	robot := models.NewRobot("arm")
	robot.Links["base"] = models.Link{Visual: models.Visual{
		Geometry: models.BoxGeometry(models.Vec3{1, 2, 3}),
	}}
	robot.Links["tool"] = models.Link{Visual: models.Visual{
		Geometry: models.MeshGeometry(&mesh),
		Origin:   &models.Origin{XYZ: models.Vec3{0, 0, 0.5}},
	}}
	robot.Joints["j1"] = models.Joint{
		Type:   "revolute",
		Parent: "base",
		Child:  "tool",
		Axis:   models.Vec3{0, 0, 1},
	}
	return robot
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"":        FormatJSON,
		"JSON":    FormatJSON,
		"yml":     FormatYAML,
		"yaml":    FormatYAML,
		" mpk ":   FormatMsgpack,
		"msgpack": FormatMsgpack,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestDeriveOutputPath(t *testing.T) {
	assert.Equal(t, "/data/ur10e.json", DeriveOutputPath("/data/ur10e.urdf", FormatJSON))
	assert.Equal(t, "robot.yaml", DeriveOutputPath("robot.URDF", FormatYAML))
	assert.Equal(t, "robot.xml.msgpack", DeriveOutputPath("robot.xml", FormatMsgpack))
	assert.Equal(t, "robot.json", DeriveOutputPath("robot", FormatJSON))
}

func TestEncode_JSON(t *testing.T) {
	data, err := Marshal(sampleRobot(), FormatJSON, Options{})
	require.NoError(t, err)

	want := `{
  "name": "arm",
  "links": {
    "base": {
      "visual": {
        "geometry": {
          "shape": "box",
          "size": [
            1,
            2,
            3
          ]
        },
        "origin": null
      }
    },
    "tool": {
      "visual": {
        "geometry": {
          "shape": "mesh",
          "size": "package://arm/meshes/a&b.stl"
        },
        "origin": {
          "xyz": [
            0,
            0,
            0.5
          ],
          "rpy": [
            0,
            0,
            0
          ]
        }
      }
    }
  },
  "joints": {
    "j1": {
      "type": "revolute",
      "parent": "base",
      "child": "tool",
      "axis": [
        0,
        0,
        1
      ],
      "origin": null
    }
  }
}
`
	assert.Equal(t, want, string(data))
}

func TestEncode_CompactJSON(t *testing.T) {
	data, err := Marshal(models.NewRobot("r"), FormatJSON, Options{Indent: -1})
	require.NoError(t, err)
	assert.Equal(t, "{\"name\":\"r\",\"links\":{},\"joints\":{}}\n", string(data))
}

func TestEncode_YAML(t *testing.T) {
	data, err := Marshal(sampleRobot(), FormatYAML, Options{})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "arm", decoded["name"])

	links := decoded["links"].(map[string]any)
	geometry := links["base"].(map[string]any)["visual"].(map[string]any)["geometry"].(map[string]any)
	assert.Equal(t, "box", geometry["shape"])
	assert.Equal(t, []any{1, 2, 3}, geometry["size"])

	visual := links["base"].(map[string]any)["visual"].(map[string]any)
	assert.Contains(t, visual, "origin")
	assert.Nil(t, visual["origin"])
}

func TestEncode_Msgpack(t *testing.T) {
	data, err := Marshal(sampleRobot(), FormatMsgpack, Options{})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, msgpack.Unmarshal(data, &decoded))
	assert.Equal(t, "arm", decoded["name"])

	joints := decoded["joints"].(map[string]any)
	j1 := joints["j1"].(map[string]any)
	assert.Equal(t, "revolute", j1["type"])
	assert.Nil(t, j1["origin"])

	tool := decoded["links"].(map[string]any)["tool"].(map[string]any)
	geometry := tool["visual"].(map[string]any)["geometry"].(map[string]any)
	assert.Equal(t, "mesh", geometry["shape"])
	assert.Equal(t, "package://arm/meshes/a&b.stl", geometry["size"])
}

func TestEncode_Deterministic(t *testing.T) {
	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			a, err := Marshal(sampleRobot(), f, Options{})
			require.NoError(t, err)
			b, err := Marshal(sampleRobot(), f, Options{})
			require.NoError(t, err)
			assert.True(t, bytes.Equal(a, b))
		})
	}
}

func TestEncode_MsgpackSortsLinksAndJoints(t *testing.T) {
	robot := models.NewRobot("many")
	for i := 0; i < 12; i++ {
		link := fmt.Sprintf("link_%02d", i)
		robot.Links[link] = models.Link{Visual: models.Visual{
			Geometry: models.BoxGeometry(models.Vec3{float64(i), 1, 1}),
		}}
		robot.Joints[fmt.Sprintf("joint_%02d", i)] = models.Joint{Type: "fixed", Parent: "root", Child: link}
	}

	first, err := Marshal(robot, FormatMsgpack, Options{})
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		again, err := Marshal(robot, FormatMsgpack, Options{})
		require.NoError(t, err)
		require.True(t, bytes.Equal(first, again), "encoding %d differs", i)
	}

	dec := msgpack.NewDecoder(bytes.NewReader(first))
	n, err := dec.DecodeMapLen()
	require.NoError(t, err)
	require.Equal(t, 3, n)

	var keys []string
	for i := 0; i < n; i++ {
		key, err := dec.DecodeString()
		require.NoError(t, err)
		keys = append(keys, key)
		if key != "links" {
			require.NoError(t, dec.Skip())
			continue
		}
		links, err := dec.DecodeMapLen()
		require.NoError(t, err)
		require.Equal(t, 12, links)
		var names []string
		for j := 0; j < links; j++ {
			name, err := dec.DecodeString()
			require.NoError(t, err)
			names = append(names, name)
			require.NoError(t, dec.Skip())
		}
		assert.IsIncreasing(t, names)
	}
	assert.Equal(t, []string{"name", "links", "joints"}, keys)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arm.json")

	require.NoError(t, WriteFile(path, sampleRobot(), FormatJSON, Options{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "arm"`)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestEncode_UnknownFormat(t *testing.T) {
	_, err := Marshal(sampleRobot(), Format("toml"), Options{})
	assert.Error(t, err)
}
