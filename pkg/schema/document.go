package schema

import (
	"bytes"
	"errors"
)

// ErrEmptyDocument is returned when a Slicer XML payload carries no content.
var ErrEmptyDocument = errors.New("schema: raw document is empty")

// Document wraps a raw Slicer XML payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, ErrEmptyDocument
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// FromString wraps inline XML text, typically a spec fetched from
// `<restPath>/xml`, using an inline source.
func FromString(name, xml string) (Document, error) {
	return NewDocument(SourceInline(name), []byte(xml))
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}
