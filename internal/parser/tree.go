package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"

	"golang.org/x/net/html/charset"
)

// Element is a node of a parsed XML document. Character data is dropped;
// the robot description dialect carries everything in attributes.
type Element struct {
	Space    string // resolved namespace URL, "" for unqualified names
	Name     string
	Line     int
	Attrs    []xml.Attr
	Children []*Element
}

// DecodeTree parses a complete XML document into an element tree.
func DecodeTree(r io.Reader) (*Element, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel

	var root *Element
	var stack []*Element

	for {
		tok, err := decoder.Token()
		line, _ := decoder.InputPos()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, documentParse(line, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{
				Space: t.Name.Space,
				Name:  t.Name.Local,
				Line:  line,
				Attrs: t.Copy().Attr,
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, documentParse(line, errors.New("multiple root elements"))
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 && len(bytes.TrimSpace(t)) > 0 {
				return nil, documentParse(line, errors.New("text outside the root element"))
			}
		}
	}

	if root == nil {
		return nil, documentParse(0, errors.New("no root element"))
	}
	return root, nil
}

// Attr returns the value of an unqualified attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Find returns the first direct child with the given unqualified name, or nil.
func (e *Element) Find(tag string) *Element {
	for _, c := range e.Children {
		if c.Space == "" && c.Name == tag {
			return c
		}
	}
	return nil
}

// FindAll returns every direct child with the given unqualified name in document order.
func (e *Element) FindAll(tag string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Space == "" && c.Name == tag {
			out = append(out, c)
		}
	}
	return out
}
