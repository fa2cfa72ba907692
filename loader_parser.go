package slicerform

import (
	internalLoader "github.com/goliatone/go-slicerform/internal/loader"
	"github.com/goliatone/go-slicerform/internal/xmlspec"
	"github.com/goliatone/go-slicerform/pkg/schema"
	"github.com/goliatone/go-slicerform/pkg/spec"
)

// NewLoader constructs a schema.Loader using the internal implementation.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	cfg := schema.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewParser constructs a spec.Parser using the internal XML implementation.
func NewParser(options ...spec.ParserOption) spec.Parser {
	cfg := spec.NewParserOptions(options...)
	return xmlspec.New(cfg)
}
