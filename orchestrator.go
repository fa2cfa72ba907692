package slicerform

import (
	"context"

	"github.com/goliatone/go-slicerform/pkg/orchestrator"
	"github.com/goliatone/go-slicerform/pkg/schema"
	"github.com/goliatone/go-slicerform/pkg/spec"
	"github.com/goliatone/go-slicerform/pkg/widget"
)

// Result aliases orchestrator.Result for callers using the root package.
type Result = orchestrator.Result

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Load reads a CLI description (Slicer XML or a JSON/YAML description) and
// returns the parsed specification together with excluded outputs.
func Load(ctx context.Context, source schema.Source, options ...orchestrator.Option) (Result, error) {
	return orchestrator.New(options...).Load(ctx, orchestrator.Request{Source: source})
}

// Form parses an XML payload and returns a widget collection seeded with
// defaults, with the return-parameter file appended when simple outputs exist.
func Form(ctx context.Context, name, xml string, options ...orchestrator.Option) (spec.Specification, *widget.Collection, error) {
	doc, err := schema.FromString(name, xml)
	if err != nil {
		return spec.Specification{}, nil, err
	}
	result, err := orchestrator.New(options...).Load(ctx, orchestrator.Request{
		Document:            &doc,
		Format:              orchestrator.FormatXML,
		ReturnParameterFile: true,
	})
	if err != nil {
		return spec.Specification{}, nil, err
	}
	return result.Specification, result.Collection(), nil
}
