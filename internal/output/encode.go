package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/volttools/urdfconv/internal/models"
	"gopkg.in/yaml.v3"
)

// DefaultIndent matches the two-space layout of the converted files consumers expect.
const DefaultIndent = 2

// Options tune the text encoders. Msgpack ignores them.
type Options struct {
	// Indent is the indentation width for JSON and YAML. Zero selects
	// DefaultIndent; a negative value produces compact JSON.
	Indent int
}

func (o Options) indent() int {
	if o.Indent == 0 {
		return DefaultIndent
	}
	return o.Indent
}

// Encode writes robot to w in the given format. Map keys are always sorted,
// so the same robot always encodes to the same bytes.
func Encode(w io.Writer, robot *models.Robot, f Format, opts Options) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		if n := opts.indent(); n > 0 {
			enc.SetIndent("", strings.Repeat(" ", n))
		}
		return enc.Encode(robot)

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		n := opts.indent()
		if n < 1 {
			n = DefaultIndent
		}
		enc.SetIndent(n)
		if err := enc.Encode(robot); err != nil {
			return err
		}
		return enc.Close()

	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetSortMapKeys(true)
		return enc.Encode(robot)
	}
	return fmt.Errorf("unsupported output format: %s", f)
}

// Marshal encodes robot into memory.
func Marshal(robot *models.Robot, f Format, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, robot, f, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes robot to path. The file is written to a temporary
// sibling first and renamed into place, so readers never see partial output.
func WriteFile(path string, robot *models.Robot, f Format, opts Options) error {
	data, err := Marshal(robot, f, opts)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", f, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing output: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting output permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming output: %w", err)
	}
	return nil
}
