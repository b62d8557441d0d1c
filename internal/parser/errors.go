// errors.go - Error taxonomy for robot description extraction
package parser

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every extraction error matches exactly one of these via errors.Is.
var (
	ErrMissingAttribute = errors.New("missing attribute")
	ErrMissingElement   = errors.New("missing element")
	ErrMalformedNumber  = errors.New("malformed number")
	ErrDocumentParse    = errors.New("document parse error")
)

// ExtractError describes where and why the conversion of a document failed.
type ExtractError struct {
	Kind  error  // one of the Err* sentinels
	Path  string // e.g. "robot/link[base]/visual/geometry/box"
	Name  string // attribute or element name
	Line  int    // source line of the offending element, 0 if unknown
	Value string // offending raw value (malformed numbers)
	Err   error  // underlying cause, may be nil
}

// Error implements the error interface
func (e *ExtractError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Name != "" {
		fmt.Fprintf(&b, " %q", e.Name)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " at %s", e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, ": %q", e.Value)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap exposes both the kind and the underlying cause.
func (e *ExtractError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindName returns a stable identifier for the error kind of err,
// or "" when err is not an extraction error.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrMissingAttribute):
		return "missing_attribute"
	case errors.Is(err, ErrMissingElement):
		return "missing_element"
	case errors.Is(err, ErrMalformedNumber):
		return "malformed_number"
	case errors.Is(err, ErrDocumentParse):
		return "document_parse"
	}
	return ""
}

func missingAttribute(el *Element, path, name string) error {
	return &ExtractError{Kind: ErrMissingAttribute, Path: path, Name: name, Line: el.Line}
}

func missingElement(parent *Element, path, name string) error {
	return &ExtractError{Kind: ErrMissingElement, Path: path, Name: name, Line: parent.Line}
}

func malformedNumber(el *Element, path, name, value string, cause error) error {
	return &ExtractError{Kind: ErrMalformedNumber, Path: path, Name: name, Line: el.Line, Value: value, Err: cause}
}

func documentParse(line int, cause error) error {
	return &ExtractError{Kind: ErrDocumentParse, Line: line, Err: cause}
}
