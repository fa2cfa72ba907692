package widget

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-slicerform/pkg/spec"
	"github.com/goliatone/go-slicerform/pkg/value"
)

// FolderSuffix is appended to a new-file id to name the destination folder
// entry in Values.
const FolderSuffix = "_folder"

// Collection holds the models of one form in document order.
type Collection struct {
	models []*Model
	index  map[string]*Model
}

// NewCollection builds a collection from models. Later models with a
// duplicate id shadow earlier ones in Get but both stay in the list.
func NewCollection(models ...*Model) *Collection {
	c := &Collection{index: make(map[string]*Model, len(models))}
	for _, m := range models {
		c.Add(m)
	}
	return c
}

// FromSpecification creates one model per parameter of s.
func FromSpecification(s spec.Specification) *Collection {
	params := s.Parameters()
	models := make([]*Model, len(params))
	for i, param := range params {
		models[i] = New(param)
	}
	return NewCollection(models...)
}

// Add appends m.
func (c *Collection) Add(m *Model) {
	if m == nil {
		return
	}
	c.models = append(c.models, m)
	c.index[m.ID()] = m
}

// Models returns the models in form order.
func (c *Collection) Models() []*Model {
	return append([]*Model(nil), c.models...)
}

// Len returns the number of models.
func (c *Collection) Len() int { return len(c.models) }

// Get looks a model up by parameter id.
func (c *Collection) Get(id string) (*Model, bool) {
	m, ok := c.index[id]
	return m, ok
}

// Set assigns a value to the model with the given id.
func (c *Collection) Set(id string, v any, opts ...SetOption) error {
	m, ok := c.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, id)
	}
	m.Set(v, opts...)
	return nil
}

// SetAll assigns every entry of values. Keys ending in FolderSuffix set the
// destination folder of the matching new-file parameter.
func (c *Collection) SetAll(values map[string]any, opts ...SetOption) error {
	folders := make(map[string]string)
	for id, v := range values {
		if base, ok := strings.CutSuffix(id, FolderSuffix); ok {
			if m, exists := c.index[base]; exists && m.Type() == spec.TypeNewFile {
				folders[base] = value.ToString(v)
				continue
			}
		}
		if err := c.Set(id, v, opts...); err != nil {
			return err
		}
	}
	for id, folder := range folders {
		m := c.index[id]
		r, _ := m.Resource()
		r.FolderID = folder
		m.Set(r, opts...)
	}
	return nil
}

// Invalid returns the models that currently fail validation.
func (c *Collection) Invalid() []*Model {
	var out []*Model
	for _, m := range c.models {
		if !m.IsValid() {
			out = append(out, m)
		}
	}
	return out
}

// Validate validates every model and returns an *InvalidError listing the
// failures, or nil.
func (c *Collection) Validate() error {
	var failures []*ValidationError
	for _, m := range c.models {
		if err := m.Validate(); err != nil {
			failures = append(failures, err.(*ValidationError))
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return &InvalidError{Errors: failures}
}

// Values flattens the collection into the job submission payload. Numbers,
// vectors, colors and regions are JSON encoded. Strings and enumerations are
// passed through. File-like parameters contribute the resource id and
// new-file parameters the file name plus an `<id>_folder` entry. File-like
// parameters without a resource, and new-file parameters without a name,
// are omitted.
func (c *Collection) Values() map[string]string {
	out := make(map[string]string, len(c.models))
	for _, m := range c.models {
		id := m.ID()
		t := m.Type()
		switch {
		case t == spec.TypeNewFile:
			r, ok := m.Resource()
			if !ok || r.Name == "" {
				continue
			}
			out[id] = r.Name
			out[id+FolderSuffix] = r.FolderID
		case t.IsFileLike():
			r, ok := m.Resource()
			if !ok {
				continue
			}
			out[id] = r.ID
		case t == spec.TypeNumber, t == spec.TypeRange:
			out[id] = jsonNumber(value.ToNumber(m.raw))
		case t == spec.TypeNumberVector:
			out[id] = jsonNumbers(value.ToNumberVector(m.raw))
		case t == spec.TypeStringVector:
			out[id] = jsonString(value.ToStringVector(m.raw))
		case t == spec.TypeColor:
			out[id] = jsonString(m.Value())
		case t == spec.TypeRegion:
			if absent(m.raw) {
				continue
			}
			out[id] = jsonNumbers(value.ToNumberVector(m.raw))
		case t == spec.TypeBoolean:
			out[id] = value.ToString(value.ToBool(m.raw))
		case t.IsEnumeration(), t == spec.TypeString:
			out[id] = value.ToString(m.Value())
		}
	}
	return out
}

// ApplyDefaultOutputs completes output files with folder. Named outputs
// without a destination get folder.ID. Required outputs without a name are
// named after DefaultOutputName, keeping a destination already set. A
// parameter whose Reference names another model uses that model's resource
// name as the base.
func (c *Collection) ApplyDefaultOutputs(prefix string, folder Resource, now time.Time) {
	if prefix == "" || folder.ID == "" {
		return
	}
	for _, m := range c.models {
		p := m.Parameter()
		if p.Channel != spec.ChannelOutput || !p.Type.IsFileLike() {
			continue
		}
		r, _ := m.Resource()
		if r.Name != "" {
			if r.FolderID == "" {
				r.FolderID = folder.ID
				m.Set(r, NoRender())
			}
			continue
		}
		if !p.Required {
			continue
		}
		reference := ""
		if ref, ok := c.index[p.Reference]; ok && p.Reference != "" {
			if rr, ok := ref.Resource(); ok {
				reference = rr.Name
			}
		}
		if r.FolderID == "" {
			r.FolderID = folder.ID
		}
		m.Set(Resource{Name: DefaultOutputName(prefix, m, reference, now), FolderID: r.FolderID}, NoRender())
	}
}

func jsonNumber(f float64) string {
	if !value.Finite(f) {
		return "null"
	}
	return value.FormatNumber(f)
}

func jsonNumbers(fs []float64) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = jsonNumber(f)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func jsonString(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
