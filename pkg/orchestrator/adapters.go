package orchestrator

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/goliatone/go-slicerform/pkg/describe"
	"github.com/goliatone/go-slicerform/pkg/schema"
)

const (
	// FormatXML names the Slicer execution model XML adapter.
	FormatXML = "xml"
	// FormatDescription names the JSON/YAML CLI description adapter.
	FormatDescription = "description"
)

// XMLAdapter passes Slicer XML documents through untouched.
type XMLAdapter struct{}

// Name implements FormatAdapter.
func (XMLAdapter) Name() string { return FormatXML }

// Detect matches .xml locations and payloads starting with a tag.
func (XMLAdapter) Detect(src schema.Source, raw []byte) bool {
	switch extension(src) {
	case ".xml":
		return true
	case ".json", ".yaml", ".yml":
		return false
	}
	return bytes.HasPrefix(bytes.TrimSpace(raw), []byte("<"))
}

// Normalize implements FormatAdapter.
func (XMLAdapter) Normalize(_ context.Context, doc schema.Document) (schema.Document, error) {
	return doc, nil
}

// DescriptionAdapter converts JSON or YAML CLI descriptions to Slicer XML.
type DescriptionAdapter struct{}

// Name implements FormatAdapter.
func (DescriptionAdapter) Name() string { return FormatDescription }

// Detect matches .json/.yaml locations and payloads declaring
// parameter_groups.
func (DescriptionAdapter) Detect(src schema.Source, raw []byte) bool {
	switch extension(src) {
	case ".json", ".yaml", ".yml":
		return true
	case ".xml":
		return false
	}
	trimmed := bytes.TrimSpace(raw)
	if bytes.HasPrefix(trimmed, []byte("<")) {
		return false
	}
	return bytes.Contains(trimmed, []byte("parameter_groups"))
}

// Normalize implements FormatAdapter.
func (DescriptionAdapter) Normalize(ctx context.Context, doc schema.Document) (schema.Document, error) {
	if err := ctx.Err(); err != nil {
		return schema.Document{}, err
	}
	out, err := describe.ToXML(doc.Raw())
	if err != nil {
		return schema.Document{}, fmt.Errorf("orchestrator: convert description: %w", err)
	}
	src := doc.Source()
	if src == nil {
		src = schema.SourceInline("description.xml")
	}
	return schema.NewDocument(src, out)
}

func extension(src schema.Source) string {
	if src == nil {
		return ""
	}
	loc := src.Location()
	if i := strings.IndexAny(loc, "?#"); i >= 0 && src.Kind() == schema.SourceKindURL {
		loc = loc[:i]
	}
	return strings.ToLower(path.Ext(loc))
}
