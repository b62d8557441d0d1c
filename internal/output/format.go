// Package output serializes converted robot descriptions.
package output

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an output serialization.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatYAML, FormatMsgpack}

// ParseFormat resolves a format name. The empty string selects JSON.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack", "mpk":
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("unsupported output format: %s", name)
}

// Extension returns the file extension including the leading dot.
func (f Format) Extension() string {
	switch f {
	case FormatYAML:
		return ".yaml"
	case FormatMsgpack:
		return ".msgpack"
	default:
		return ".json"
	}
}

// ContentType returns the HTTP media type.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatMsgpack:
		return "application/msgpack"
	default:
		return "application/json"
	}
}

// DeriveOutputPath replaces a trailing .urdf extension with the format's
// extension, or appends it when the input has some other extension.
func DeriveOutputPath(input string, f Format) string {
	ext := filepath.Ext(input)
	if strings.EqualFold(ext, ".urdf") {
		return strings.TrimSuffix(input, ext) + f.Extension()
	}
	return input + f.Extension()
}
