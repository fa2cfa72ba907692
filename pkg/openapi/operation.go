package openapi

import (
	"fmt"
	"math"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-slicerform/pkg/spec"
	"github.com/goliatone/go-slicerform/pkg/widget"
)

// SlicerTypeExtension records the XML tag a query parameter came from.
const SlicerTypeExtension = "x-slicer-type"

// Options customises the generated operation.
type Options struct {
	// OperationID defaults to the executable title with spaces removed.
	OperationID string
	// Outputs adds the return-parameter file pair when Output is set.
	Outputs *spec.Outputs
}

// Operation describes the job submission call for s. Inputs become query
// parameters typed after their Slicer type. Output files add `<id>` and
// `<id>_folder` parameters.
func Operation(s spec.Specification, opts Options) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = opts.OperationID
	if op.OperationID == "" {
		op.OperationID = strings.ReplaceAll(strings.TrimSpace(s.Executable.Title), " ", "")
	}
	op.Summary = s.Executable.Title
	op.Description = s.Executable.Description
	if s.Executable.Category != "" {
		op.Tags = []string{s.Executable.Category}
	}

	s = spec.WithReturnParameterPanel(s, opts.Outputs)
	for _, param := range s.Parameters() {
		for _, p := range parameters(param) {
			op.AddParameter(p)
		}
	}

	op.AddResponse(200, openapi3.NewResponse().WithDescription("The job created for the submitted parameters."))
	op.AddResponse(400, openapi3.NewResponse().WithDescription("A parameter failed validation."))
	return op
}

// Document wraps Operation in a complete OpenAPI document serving it as
// `POST /<restPath>/run`.
func Document(s spec.Specification, restPath string, opts Options) *openapi3.T {
	version := s.Executable.Version
	if version == "" {
		version = "0.0.0"
	}
	title := s.Executable.Title
	if title == "" {
		title = "Slicer CLI"
	}

	paths := openapi3.NewPaths()
	path := "/" + strings.Trim(restPath, "/") + "/run"
	paths.Set(path, &openapi3.PathItem{Post: Operation(s, opts)})

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       title,
			Version:     version,
			Description: s.Executable.Description,
		},
		Paths: paths,
	}
}

func parameters(param spec.Parameter) []*openapi3.Parameter {
	description := param.Description
	if description == "" {
		description = param.Title
	}

	if param.Type == spec.TypeNewFile {
		name := openapi3.NewQueryParameter(param.ID).
			WithDescription(fmt.Sprintf("%s (name of the new file)", description)).
			WithRequired(param.Required).
			WithSchema(tagged(openapi3.NewStringSchema(), param))
		folder := openapi3.NewQueryParameter(param.ID + widget.FolderSuffix).
			WithDescription(fmt.Sprintf("%s (Girder ID of the destination folder)", description)).
			WithRequired(param.Required).
			WithSchema(openapi3.NewStringSchema())
		return []*openapi3.Parameter{name, folder}
	}

	if param.Type.IsFileLike() {
		return []*openapi3.Parameter{openapi3.NewQueryParameter(param.ID).
			WithDescription(fmt.Sprintf("%s (Girder ID of the %s)", description, resourceNoun(param.Type))).
			WithRequired(param.Required || param.Positional()).
			WithSchema(tagged(openapi3.NewStringSchema(), param))}
	}

	return []*openapi3.Parameter{openapi3.NewQueryParameter(param.ID).
		WithDescription(description).
		WithRequired(param.Required || param.Positional()).
		WithSchema(tagged(schemaFor(param), param))}
}

func resourceNoun(t spec.Type) string {
	switch t {
	case spec.TypeDirectory:
		return "folder"
	case spec.TypeImage, spec.TypeItem:
		return "item"
	}
	return "file"
}

func schemaFor(param spec.Parameter) *openapi3.Schema {
	var schema *openapi3.Schema
	switch param.Type {
	case spec.TypeNumber, spec.TypeRange:
		if strings.HasPrefix(param.SlicerType, "integer") {
			schema = openapi3.NewIntegerSchema()
		} else {
			schema = openapi3.NewFloat64Schema()
		}
		if param.Min != nil {
			schema = schema.WithMin(*param.Min)
		}
		if param.Max != nil {
			schema = schema.WithMax(*param.Max)
		}
		if param.Step != nil && *param.Step > 0 && param.Min == nil {
			step := *param.Step
			schema.MultipleOf = &step
		}
	case spec.TypeBoolean:
		schema = openapi3.NewBoolSchema()
	case spec.TypeNumberEnumeration:
		schema = openapi3.NewFloat64Schema().WithEnum(param.Values...)
	case spec.TypeStringEnumeration:
		schema = openapi3.NewStringSchema().WithEnum(param.Values...)
	case spec.TypeNumberVector, spec.TypeStringVector, spec.TypeRegion:
		schema = openapi3.NewStringSchema()
		schema.Description = "JSON encoded list"
	case spec.TypeColor:
		schema = openapi3.NewStringSchema()
		schema.Pattern = "^\"?#[0-9a-fA-F]{6}\"?$"
	default:
		schema = openapi3.NewStringSchema()
	}

	if param.HasDefault() {
		if def, ok := defaultValue(param); ok {
			schema = schema.WithDefault(def)
		}
	}
	return schema
}

func defaultValue(param spec.Parameter) (any, bool) {
	switch v := param.Value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false
		}
		return v, true
	case string:
		if v == "" {
			return nil, false
		}
		return v, true
	case bool:
		return v, true
	}
	m := widget.New(param)
	values := widget.NewCollection(m).Values()
	s, ok := values[param.ID]
	return s, ok
}

func tagged(schema *openapi3.Schema, param spec.Parameter) *openapi3.Schema {
	if param.SlicerType == "" {
		return schema
	}
	if schema.Extensions == nil {
		schema.Extensions = map[string]any{}
	}
	schema.Extensions[SlicerTypeExtension] = param.SlicerType
	return schema
}
