package spec

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/goliatone/go-slicerform/pkg/schema"
)

// ErrMalformedXML wraps decoder failures. Callers should treat it as a hard
// schema error and abort form construction.
var ErrMalformedXML = errors.New("slicer spec: malformed xml")

// Parser converts a Slicer XML document into a Specification. Excluded output
// parameters are reported through out, which may be nil.
type Parser interface {
	Parse(ctx context.Context, doc schema.Document, out *Outputs) (Specification, error)
}

// ParserOptions collects the knobs shared by parser implementations.
type ParserOptions struct {
	// Logger receives warnings about unhandled parameter tags. Defaults to a
	// discarding logger.
	Logger *slog.Logger

	// Sanitizer cleans titles, labels and descriptions. Nil keeps the text
	// as written in the XML.
	Sanitizer Sanitizer

	// Unhandled, when set, is called with the tag name of every dropped
	// unknown parameter element in addition to the warning.
	Unhandled func(tag string)
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithLogger routes parser diagnostics to logger.
func WithLogger(logger *slog.Logger) ParserOption {
	return func(opts *ParserOptions) {
		if logger != nil {
			opts.Logger = logger
		}
	}
}

// WithSanitizer installs a text sanitizer for human readable fields.
func WithSanitizer(s Sanitizer) ParserOption {
	return func(opts *ParserOptions) {
		opts.Sanitizer = s
	}
}

// WithUnhandledTags reports dropped unknown parameter tags to fn.
func WithUnhandledTags(fn func(tag string)) ParserOption {
	return func(opts *ParserOptions) {
		opts.Unhandled = fn
	}
}

// NewParserOptions applies ParserOption functions and returns the resulting
// configuration.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return cfg
}
