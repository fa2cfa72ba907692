package xmlspec

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// node is a minimal element tree. encoding/xml cannot decode sibling order
// between heterogeneous elements into structs, and the group layout depends
// on exactly that order.
type node struct {
	name     string
	attrs    map[string]string
	flow     []any // string or *node, in document order
	children []*node
	parent   *node
}

func decodeTree(raw []byte) (*node, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.Strict = true

	var root *node
	var current *node
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name.Local, parent: current}
			if len(t.Attr) > 0 {
				n.attrs = make(map[string]string, len(t.Attr))
				for _, attr := range t.Attr {
					n.attrs[attr.Name.Local] = attr.Value
				}
			}
			if current == nil {
				if root != nil {
					return nil, errors.New("multiple root elements")
				}
				root = n
			} else {
				current.children = append(current.children, n)
				current.flow = append(current.flow, n)
			}
			current = n
		case xml.EndElement:
			if current == nil {
				return nil, fmt.Errorf("unexpected end element %q", t.Name.Local)
			}
			current = current.parent
		case xml.CharData:
			if current != nil {
				current.flow = append(current.flow, string(t))
			}
		}
	}
	if root == nil {
		return nil, errors.New("no root element")
	}
	return root, nil
}

// text returns the concatenated character data of n and all descendants.
func (n *node) text() string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	n.appendText(&b)
	return b.String()
}

func (n *node) appendText(b *strings.Builder) {
	for _, part := range n.flow {
		switch v := part.(type) {
		case string:
			b.WriteString(v)
		case *node:
			v.appendText(b)
		}
	}
}

func (n *node) attr(name string) string {
	if n == nil || n.attrs == nil {
		return ""
	}
	return n.attrs[name]
}

// child returns the first direct child called name.
func (n *node) child(name string) *node {
	if n == nil {
		return nil
	}
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// childrenNamed returns every direct child called name.
func (n *node) childrenNamed(name string) []*node {
	var out []*node
	for _, c := range n.children {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

// descendants walks the subtree in document order, excluding n itself.
func (n *node) descendants(name string, visit func(*node)) {
	for _, c := range n.children {
		if c.name == name {
			visit(c)
		}
		c.descendants(name, visit)
	}
}
