package spec

import "strings"

// Type is the closed set of widget types a Slicer parameter resolves to.
type Type string

const (
	TypeNumber            Type = "number"
	TypeNumberVector      Type = "number-vector"
	TypeString            Type = "string"
	TypeStringVector      Type = "string-vector"
	TypeBoolean           Type = "boolean"
	TypeColor             Type = "color"
	TypeStringEnumeration Type = "string-enumeration"
	TypeNumberEnumeration Type = "number-enumeration"
	TypeFile              Type = "file"
	TypeItem              Type = "item"
	TypeImage             Type = "image"
	TypeDirectory         Type = "directory"
	TypeNewFile           Type = "new-file"
	TypeRegion            Type = "region"
	// TypeRange is a numeric slider. The parser never emits it but callers
	// building models by hand may.
	TypeRange Type = "range"
)

var knownTypes = map[Type]struct{}{
	TypeNumber: {}, TypeNumberVector: {}, TypeString: {}, TypeStringVector: {},
	TypeBoolean: {}, TypeColor: {}, TypeStringEnumeration: {}, TypeNumberEnumeration: {},
	TypeFile: {}, TypeItem: {}, TypeImage: {}, TypeDirectory: {}, TypeNewFile: {},
	TypeRegion: {}, TypeRange: {},
}

// Known reports whether t belongs to the closed type set.
func (t Type) Known() bool {
	_, ok := knownTypes[t]
	return ok
}

// IsNumeric reports numeric scalars, numeric vectors and numeric enumerations.
func (t Type) IsNumeric() bool {
	switch t {
	case TypeNumber, TypeRange, TypeNumberVector, TypeNumberEnumeration:
		return true
	}
	return false
}

// IsVector reports comma separated list types.
func (t Type) IsVector() bool {
	return t == TypeNumberVector || t == TypeStringVector
}

// IsEnumeration reports types constrained to a list of choices.
func (t Type) IsEnumeration() bool {
	return t == TypeStringEnumeration || t == TypeNumberEnumeration
}

// IsFileLike reports types whose value is a reference to a Girder resource.
func (t Type) IsFileLike() bool {
	switch t {
	case TypeFile, TypeItem, TypeImage, TypeDirectory, TypeNewFile:
		return true
	}
	return false
}

// Channel tells whether a parameter feeds the job or is produced by it.
type Channel string

const (
	ChannelInput  Channel = "input"
	ChannelOutput Channel = "output"
)

var tagTypes = map[string]Type{
	"integer":             TypeNumber,
	"float":               TypeNumber,
	"double":              TypeNumber,
	"integer-vector":      TypeNumberVector,
	"float-vector":        TypeNumberVector,
	"double-vector":       TypeNumberVector,
	"point":               TypeNumberVector,
	"boolean":             TypeBoolean,
	"string":              TypeString,
	"string-vector":       TypeStringVector,
	"string-enumeration":  TypeStringEnumeration,
	"integer-enumeration": TypeNumberEnumeration,
	"float-enumeration":   TypeNumberEnumeration,
	"double-enumeration":  TypeNumberEnumeration,
	"color":               TypeColor,
	"file":                TypeFile,
	"pointfile":           TypeFile,
	"geometry":            TypeFile,
	"table":               TypeFile,
	"transform":           TypeFile,
	"measurement":         TypeFile,
	"item":                TypeItem,
	"image":               TypeImage,
	"directory":           TypeDirectory,
	"region":              TypeRegion,
}

// TypeForTag maps a Slicer XML tag name onto its widget type. The second
// return value is false for tags outside the table.
func TypeForTag(tag string) (Type, bool) {
	t, ok := tagTypes[strings.TrimSpace(tag)]
	return t, ok
}

// Parameter is the parse-time, immutable description of one form field.
type Parameter struct {
	Type        Type     `json:"type"`
	SlicerType  string   `json:"slicerType"`
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Channel     Channel  `json:"channel"`
	Value       any      `json:"value,omitempty"`
	Values      []any    `json:"values,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Step        *float64 `json:"step,omitempty"`
	Extensions  string   `json:"extensions,omitempty"`
	Required    bool     `json:"required,omitempty"`

	Flag             string `json:"flag,omitempty"`
	LongFlag         string `json:"longflag,omitempty"`
	Index            *int   `json:"index,omitempty"`
	Multiple         bool   `json:"multiple,omitempty"`
	Reference        string `json:"reference,omitempty"`
	DefaultNameMatch string `json:"defaultNameMatch,omitempty"`
	DefaultPathMatch string `json:"defaultPathMatch,omitempty"`
}

// HasDefault reports whether the XML declared a <default>.
func (p Parameter) HasDefault() bool {
	return p.Value != nil
}

// Positional reports whether the parameter is passed by <index> rather than
// by flag.
func (p Parameter) Positional() bool {
	return p.Index != nil
}

// Group is a labelled cluster of parameters inside a Panel.
type Group struct {
	Label       string      `json:"label"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
}

// Panel is one <parameters> block.
type Panel struct {
	Advanced bool    `json:"advanced"`
	Groups   []Group `json:"groups"`
}

// Executable carries the CLI-level metadata found directly under the root
// <executable> element.
type Executable struct {
	Category         string `json:"category,omitempty"`
	Title            string `json:"title,omitempty"`
	Description      string `json:"description,omitempty"`
	Version          string `json:"version,omitempty"`
	DocumentationURL string `json:"documentationUrl,omitempty"`
	License          string `json:"license,omitempty"`
	Contributor      string `json:"contributor,omitempty"`
	Acknowledgements string `json:"acknowledgements,omitempty"`
}

// Specification is the root of a parse result.
type Specification struct {
	Executable Executable `json:"executable"`
	Panels     []Panel    `json:"panels"`
}

// Parameters flattens the tree in document order.
func (s Specification) Parameters() []Parameter {
	var out []Parameter
	for _, panel := range s.Panels {
		for _, group := range panel.Groups {
			out = append(out, group.Parameters...)
		}
	}
	return out
}

// Parameter looks a parameter up by id.
func (s Specification) Parameter(id string) (Parameter, bool) {
	for _, param := range s.Parameters() {
		if param.ID == id {
			return param, true
		}
	}
	return Parameter{}, false
}

// Outputs records output-channel parameters the parser excluded from the tree
// so callers can offer a return-parameter file.
type Outputs struct {
	Output bool            `json:"output"`
	Params map[string]Type `json:"params,omitempty"`
}

// Record notes an excluded output parameter.
func (o *Outputs) Record(id string, t Type) {
	if o == nil {
		return
	}
	o.Output = true
	if o.Params == nil {
		o.Params = make(map[string]Type)
	}
	o.Params[id] = t
}
