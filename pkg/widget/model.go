package widget

import (
	"fmt"
	"math"
	"strings"

	"github.com/goliatone/go-slicerform/pkg/spec"
	"github.com/goliatone/go-slicerform/pkg/value"
)

// stepTolerance is the relative tolerance used when checking that a value
// lies on the min + k*step lattice.
const stepTolerance = 1e-9

// Resource references a Girder item, file or folder picked for a file-like
// parameter. New-file parameters use Name and FolderID, every other
// file-like type uses ID.
type Resource struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	FolderID string `json:"folderId,omitempty"`
	Type     string `json:"type,omitempty"`
}

func (r *Resource) empty() bool {
	return r == nil || (r.ID == "" && r.Name == "")
}

// ChangeFunc observes Set calls. previous is the raw value before the call.
type ChangeFunc func(m *Model, previous any)

// InvalidFunc observes validations that failed.
type InvalidFunc func(m *Model, err *ValidationError)

type setOptions struct {
	noRender bool
}

// SetOption tunes a single Set call.
type SetOption func(*setOptions)

// NoRender stores the value without notifying change observers.
func NoRender() SetOption {
	return func(o *setOptions) {
		o.noRender = true
	}
}

type subscription[F any] struct {
	id int
	fn F
}

// Model is the live value of one parameter.
type Model struct {
	param    spec.Parameter
	raw      any
	resource *Resource

	nextID   int
	changes  []subscription[ChangeFunc]
	invalids []subscription[InvalidFunc]
}

// New wraps param, seeding the model with its declared default.
func New(param spec.Parameter) *Model {
	m := &Model{param: param}
	if param.Type.IsFileLike() {
		if id, ok := param.Value.(string); ok && id != "" {
			m.resource = resourceFor(param.Type, id)
		}
		return m
	}
	m.raw = param.Value
	return m
}

// Parameter returns the parse-time description backing the model.
func (m *Model) Parameter() spec.Parameter { return m.param }

// ID returns the parameter id.
func (m *Model) ID() string { return m.param.ID }

// Title returns the human readable label, falling back to the id.
func (m *Model) Title() string {
	if m.param.Title != "" {
		return m.param.Title
	}
	return m.param.ID
}

// Type returns the widget type.
func (m *Model) Type() spec.Type { return m.param.Type }

func (m *Model) IsNumeric() bool     { return m.param.Type.IsNumeric() }
func (m *Model) IsBoolean() bool     { return m.param.Type == spec.TypeBoolean }
func (m *Model) IsVector() bool      { return m.param.Type.IsVector() }
func (m *Model) IsColor() bool       { return m.param.Type == spec.TypeColor }
func (m *Model) IsEnumeration() bool { return m.param.Type.IsEnumeration() }
func (m *Model) IsItem() bool        { return m.param.Type == spec.TypeItem }

// IsFile reports file-like types other than item.
func (m *Model) IsFile() bool {
	return m.param.Type.IsFileLike() && m.param.Type != spec.TypeItem
}

// Raw returns the value as last stored, before coercion.
func (m *Model) Raw() any {
	if m.param.Type.IsFileLike() {
		if m.resource == nil {
			return nil
		}
		r := *m.resource
		return r
	}
	return m.raw
}

// Resource returns the attached resource for file-like parameters.
func (m *Model) Resource() (Resource, bool) {
	if m.resource == nil {
		return Resource{}, false
	}
	return *m.resource, true
}

// Value returns the coerced value. File-like parameters yield the attached
// resource identifier, or the name for new-file parameters.
func (m *Model) Value() any {
	if m.param.Type.IsFileLike() {
		if m.resource == nil {
			return ""
		}
		if m.param.Type == spec.TypeNewFile && m.resource.ID == "" {
			return m.resource.Name
		}
		return m.resource.ID
	}
	return value.Convert(m.param.Type, m.raw)
}

// Set stores v. File-like parameters accept a Resource, a *Resource or a
// string, read as the id (or the name for new-file). Change observers run
// before Set returns unless NoRender is given.
func (m *Model) Set(v any, opts ...SetOption) {
	cfg := setOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	previous := m.Raw()
	if m.param.Type.IsFileLike() {
		m.resource = toResource(m.param.Type, v)
	} else {
		m.raw = v
	}

	if cfg.noRender {
		return
	}
	for _, sub := range append([]subscription[ChangeFunc](nil), m.changes...) {
		sub.fn(m, previous)
	}
}

// OnChange registers fn for Set notifications and returns a function that
// removes it.
func (m *Model) OnChange(fn ChangeFunc) func() {
	m.nextID++
	id := m.nextID
	m.changes = append(m.changes, subscription[ChangeFunc]{id: id, fn: fn})
	return func() {
		m.changes = without(m.changes, id)
	}
}

// OnInvalid registers fn for failed validations and returns a function that
// removes it.
func (m *Model) OnInvalid(fn InvalidFunc) func() {
	m.nextID++
	id := m.nextID
	m.invalids = append(m.invalids, subscription[InvalidFunc]{id: id, fn: fn})
	return func() {
		m.invalids = without(m.invalids, id)
	}
}

func without[F any](subs []subscription[F], id int) []subscription[F] {
	out := subs[:0:0]
	for _, sub := range subs {
		if sub.id != id {
			out = append(out, sub)
		}
	}
	return out
}

// IsValid reports whether the current value passes validation.
func (m *Model) IsValid() bool {
	return m.Validate() == nil
}

// Validate checks the current value and notifies invalid observers when it
// fails. The returned error is a *ValidationError.
func (m *Model) Validate() error {
	reason := m.check()
	if reason == "" {
		return nil
	}
	err := &ValidationError{ID: m.param.ID, Title: m.param.Title, Reason: reason}
	for _, sub := range append([]subscription[InvalidFunc](nil), m.invalids...) {
		sub.fn(m, err)
	}
	return err
}

func (m *Model) check() string {
	t := m.param.Type
	if !t.Known() {
		return fmt.Sprintf("unknown type %q", t)
	}

	if t == spec.TypeNewFile {
		switch {
		case m.resource == nil || m.resource.Name == "":
			if m.param.Required {
				return "a value is required"
			}
		case m.resource.FolderID == "":
			return "a destination folder is required"
		}
		return ""
	}
	if t.IsFileLike() {
		if m.param.Required && m.resource.empty() {
			return "a value is required"
		}
		return ""
	}

	if m.param.Required && absent(m.raw) {
		return "a value is required"
	}

	switch t {
	case spec.TypeNumber, spec.TypeRange:
		return m.checkNumber(value.ToNumber(m.raw))
	case spec.TypeNumberEnumeration:
		n := value.ToNumber(m.raw)
		if !value.Finite(n) {
			return "invalid number"
		}
		return m.checkMembership(n)
	case spec.TypeStringEnumeration:
		return m.checkMembership(value.ToString(m.raw))
	case spec.TypeNumberVector:
		for _, n := range value.ToNumberVector(m.raw) {
			if !value.Finite(n) {
				return "invalid vector element"
			}
		}
	case spec.TypeColor:
		if absent(m.raw) {
			return ""
		}
		if _, ok := value.ToColor(m.raw); !ok {
			return "invalid color"
		}
	case spec.TypeRegion:
		if absent(m.raw) {
			return ""
		}
		region := value.ToNumberVector(m.raw)
		if len(region) != 4 && len(region) != 6 {
			return "a region needs four or six numbers"
		}
		for _, n := range region {
			if !value.Finite(n) {
				return "invalid region"
			}
		}
	}
	return ""
}

func (m *Model) checkNumber(n float64) string {
	if !value.Finite(n) {
		return "invalid number"
	}
	if step := m.param.Step; step != nil && *step > 0 {
		base := 0.0
		if m.param.Min != nil {
			base = *m.param.Min
		}
		if !onStep(n, base, *step) {
			return fmt.Sprintf("value must be a multiple of %s", value.FormatNumber(*step))
		}
	}
	if m.param.Min != nil && n < *m.param.Min {
		return fmt.Sprintf("value must be at least %s", value.FormatNumber(*m.param.Min))
	}
	if m.param.Max != nil && n > *m.param.Max {
		return fmt.Sprintf("value must be at most %s", value.FormatNumber(*m.param.Max))
	}
	return ""
}

func onStep(n, base, step float64) bool {
	q := (n - base) / step
	return math.Abs(q-math.Round(q)) <= stepTolerance*math.Max(1, math.Abs(q))
}

func (m *Model) checkMembership(v any) string {
	for _, choice := range m.param.Values {
		if value.Convert(m.param.Type, choice) == v {
			return ""
		}
	}
	return "value is not one of the allowed choices"
}

func absent(raw any) bool {
	if raw == nil {
		return true
	}
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func resourceFor(t spec.Type, text string) *Resource {
	if t == spec.TypeNewFile {
		return &Resource{Name: text}
	}
	return &Resource{ID: text}
}

func toResource(t spec.Type, v any) *Resource {
	switch r := v.(type) {
	case nil:
		return nil
	case Resource:
		return &r
	case *Resource:
		if r == nil {
			return nil
		}
		c := *r
		return &c
	case string:
		if r == "" {
			return nil
		}
		return resourceFor(t, r)
	}
	return resourceFor(t, value.ToString(v))
}
