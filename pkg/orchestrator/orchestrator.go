package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	internalLoader "github.com/goliatone/go-slicerform/internal/loader"
	"github.com/goliatone/go-slicerform/internal/xmlspec"
	"github.com/goliatone/go-slicerform/pkg/schema"
	"github.com/goliatone/go-slicerform/pkg/spec"
	"github.com/goliatone/go-slicerform/pkg/widget"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom document loader.
func WithLoader(loader schema.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom specification parser.
func WithParser(parser spec.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithAdapterRegistry replaces the default format adapters.
func WithAdapterRegistry(registry *AdapterRegistry) Option {
	return func(o *Orchestrator) {
		o.adapters = registry
	}
}

// WithDefaultFormat names the adapter used when detection finds no match.
func WithDefaultFormat(name string) Option {
	return func(o *Orchestrator) {
		o.defaultFormat = name
	}
}

// WithLogger routes orchestrator diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator coordinates loading, format normalization and parsing. Missing
// dependencies are initialised with the built-in implementations.
type Orchestrator struct {
	loader        schema.Loader
	parser        spec.Parser
	adapters      *AdapterRegistry
	defaultFormat string
	logger        *slog.Logger
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{defaultFormat: FormatXML}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.loader == nil {
		o.loader = internalLoader.New(schema.NewLoaderOptions())
	}
	if o.parser == nil {
		o.parser = xmlspec.New(spec.NewParserOptions(spec.WithLogger(o.logger)))
	}
	if o.adapters == nil {
		o.adapters = DefaultAdapterRegistry()
	}
	return o
}

// Request describes the document to turn into a specification.
type Request struct {
	// Source identifies where the document lives. Optional when Document is
	// supplied.
	Source schema.Source

	// Document bypasses the loader when the caller already holds the payload.
	Document *schema.Document

	// Format forces an adapter by name. Empty means detect.
	Format string

	// ReturnParameterFile appends the return-parameter panel when the
	// document declares simple outputs.
	ReturnParameterFile bool
}

// Result carries the outcome of Load.
type Result struct {
	// Document is the normalized Slicer XML.
	Document      schema.Document
	Specification spec.Specification
	Outputs       spec.Outputs
}

// Collection builds a fresh widget collection for the parsed specification.
func (r Result) Collection() *widget.Collection {
	return widget.FromSpecification(r.Specification)
}

// Load executes the loader → adapter → parser sequence.
func (o *Orchestrator) Load(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return Result{}, err
	}

	adapter, err := o.resolveAdapter(req.Format, doc)
	if err != nil {
		return Result{}, err
	}
	o.logger.Debug("orchestrator: resolved format",
		slog.String("location", doc.Location()),
		slog.String("format", adapter.Name()),
	)

	normalized, err := adapter.Normalize(ctx, doc)
	if err != nil {
		return Result{}, err
	}

	var outputs spec.Outputs
	parsed, err := o.parser.Parse(ctx, normalized, &outputs)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: parse specification: %w", err)
	}
	if req.ReturnParameterFile {
		parsed = spec.WithReturnParameterPanel(parsed, &outputs)
	}

	return Result{
		Document:      normalized,
		Specification: parsed,
		Outputs:       outputs,
	}, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (schema.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return schema.Document{}, errors.New("orchestrator: source or document is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return schema.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) resolveAdapter(format string, doc schema.Document) (FormatAdapter, error) {
	if format = strings.TrimSpace(format); format != "" {
		return o.adapters.Get(format)
	}

	matches := o.adapters.Detect(doc.Source(), doc.Raw())
	switch len(matches) {
	case 0:
		if o.defaultFormat == "" {
			return nil, errors.New("orchestrator: unable to detect format")
		}
		return o.adapters.Get(o.defaultFormat)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("orchestrator: multiple adapters matched payload (%s), specify format", adapterNames(matches))
	}
}
