package widget

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-slicerform/pkg/spec"
)

func ptr(f float64) *float64 { return &f }

type predicates struct {
	Numeric, Boolean, Vector, Color, Enumeration, File, Item bool
}

func predicatesOf(m *Model) predicates {
	return predicates{
		Numeric:     m.IsNumeric(),
		Boolean:     m.IsBoolean(),
		Vector:      m.IsVector(),
		Color:       m.IsColor(),
		Enumeration: m.IsEnumeration(),
		File:        m.IsFile(),
		Item:        m.IsItem(),
	}
}

func TestModel_Predicates(t *testing.T) {
	cases := map[spec.Type]predicates{
		spec.TypeRange:             {Numeric: true},
		spec.TypeNumber:            {Numeric: true},
		spec.TypeBoolean:           {Boolean: true},
		spec.TypeString:            {},
		spec.TypeColor:             {Color: true},
		spec.TypeStringVector:      {Vector: true},
		spec.TypeNumberVector:      {Numeric: true, Vector: true},
		spec.TypeStringEnumeration: {Enumeration: true},
		spec.TypeNumberEnumeration: {Numeric: true, Enumeration: true},
		spec.TypeFile:              {File: true},
		spec.TypeItem:              {Item: true},
		spec.Type("invalid type"):  {},
	}
	for typ, want := range cases {
		got := predicatesOf(New(spec.Parameter{Type: typ, Title: string(typ)}))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s predicates mismatch (-want +got):\n%s", typ, diff)
		}
	}
}

func TestModel_Range(t *testing.T) {
	m := New(spec.Parameter{Type: spec.TypeRange, Title: "Range widget", Min: ptr(-10), Max: ptr(10), Step: ptr(0.5)})

	m.Set("0.5")
	if m.Value() != 0.5 || !m.IsValid() {
		t.Fatalf("0.5 should be valid, got %v", m.Value())
	}
	for _, bad := range []any{"a number", -11, 0.75} {
		m.Set(bad)
		if m.IsValid() {
			t.Errorf("%v should be invalid", bad)
		}
	}
	m.Set(0)
	if !m.IsValid() {
		t.Fatalf("0 should be valid")
	}
}

func TestModel_Numbers(t *testing.T) {
	basic := New(spec.Parameter{Type: spec.TypeNumber, Title: "Number widget"})
	basic.Set("0.5")
	if basic.Value() != 0.5 || !basic.IsValid() {
		t.Fatalf("basic number should accept 0.5")
	}
	basic.Set("a number")
	if basic.IsValid() {
		t.Fatalf("basic number should reject text")
	}
	basic.Set("1e-10")
	if basic.Value() != 1e-10 || !basic.IsValid() {
		t.Fatalf("float number should accept 1e-10")
	}

	integer := New(spec.Parameter{Type: spec.TypeNumber, Title: "Number widget", Step: ptr(1)})
	integer.Set("0.5")
	if integer.Value() != 0.5 || integer.IsValid() {
		t.Fatalf("integer number should reject 0.5")
	}
	integer.Set("-11")
	if !integer.IsValid() {
		t.Fatalf("integer number should accept -11")
	}
}

func TestModel_StepTolerance(t *testing.T) {
	m := New(spec.Parameter{Type: spec.TypeNumber, Min: ptr(0), Max: ptr(1), Step: ptr(0.1)})
	for _, v := range []float64{0, 0.1, 0.3, 0.7, 1} {
		m.Set(0.1 * (v * 10))
		if !m.IsValid() {
			t.Errorf("%v should lie on the step lattice", v)
		}
	}
	m.Set(0.35)
	if m.IsValid() {
		t.Fatalf("0.35 should not lie on the step lattice")
	}
}

func TestModel_Example(t *testing.T) {
	m := New(spec.Parameter{Type: spec.TypeNumber, ID: "x", Value: float64(5), Min: ptr(0), Max: ptr(10), Step: ptr(1)})
	if !m.IsValid() {
		t.Fatalf("default should be valid")
	}
	m.Set(11)
	if m.IsValid() {
		t.Fatalf("11 should be out of range")
	}
	m.Set(7)
	if !m.IsValid() {
		t.Fatalf("7 should be valid")
	}
}

func TestModel_Boolean(t *testing.T) {
	m := New(spec.Parameter{Type: spec.TypeBoolean, Title: "Boolean widget"})
	if m.Value() != false || !m.IsValid() {
		t.Fatalf("unset boolean should be false and valid")
	}
	m.Set(map[string]any{})
	if m.Value() != true || !m.IsValid() {
		t.Fatalf("object should be truthy")
	}
}

func TestModel_String(t *testing.T) {
	m := New(spec.Parameter{Type: spec.TypeString, Title: "String widget", Value: "Default value"})
	if m.Value() != "Default value" || !m.IsValid() {
		t.Fatalf("unexpected default %v", m.Value())
	}
	m.Set(1)
	if m.Value() != "1" || !m.IsValid() {
		t.Fatalf("expected stringified number, got %#v", m.Value())
	}
}

func TestModel_Color(t *testing.T) {
	m := New(spec.Parameter{Type: spec.TypeColor, Title: "Color widget"})
	cases := []struct {
		in   any
		want string
	}{
		{"#ffffff", "#ffffff"},
		{"red", "#ff0000"},
		{"rgb(0, 255, 0)", "#00ff00"},
		{[]any{255, 255, 0}, "#ffff00"},
	}
	for _, tc := range cases {
		m.Set(tc.in)
		if m.Value() != tc.want || !m.IsValid() {
			t.Errorf("Set(%v): got %v valid=%v", tc.in, m.Value(), m.IsValid())
		}
	}
	m.Set("chartreuse-ish")
	if m.IsValid() {
		t.Fatalf("unparseable color should be invalid")
	}
}

func TestModel_Vectors(t *testing.T) {
	sv := New(spec.Parameter{Type: spec.TypeStringVector, Title: "String vector widget"})
	sv.Set("a,b,c")
	if diff := cmp.Diff([]string{"a", "b", "c"}, sv.Value()); diff != "" || !sv.IsValid() {
		t.Fatalf("string vector mismatch (-want +got):\n%s", diff)
	}
	sv.Set([]any{"a", 1, "2"})
	if diff := cmp.Diff([]string{"a", "1", "2"}, sv.Value()); diff != "" || !sv.IsValid() {
		t.Fatalf("mixed string vector mismatch (-want +got):\n%s", diff)
	}

	nv := New(spec.Parameter{Type: spec.TypeNumberVector, Title: "Number vector widget"})
	nv.Set("a,b,c")
	if nv.IsValid() {
		t.Fatalf("a,b,c should be invalid")
	}
	nv.Set([]any{"a", 1, "2"})
	if nv.IsValid() {
		t.Fatalf("mixed vector with text should be invalid")
	}
	nv.Set("1,2,3")
	if diff := cmp.Diff([]float64{1, 2, 3}, nv.Value()); diff != "" || !nv.IsValid() {
		t.Fatalf("number vector mismatch (-want +got):\n%s", diff)
	}
	nv.Set([]any{"0", 1, "2"})
	if diff := cmp.Diff([]float64{0, 1, 2}, nv.Value()); diff != "" || !nv.IsValid() {
		t.Fatalf("mixed number vector mismatch (-want +got):\n%s", diff)
	}
}

func TestModel_Enumerations(t *testing.T) {
	se := New(spec.Parameter{Type: spec.TypeStringEnumeration, Values: []any{"value 1", "value 2", "value 3"}})
	for in, want := range map[string]bool{"value 1": true, "value 4": false, "value 3": true} {
		se.Set(in)
		if se.IsValid() != want {
			t.Errorf("string enumeration %q: valid=%v want %v", in, se.IsValid(), want)
		}
	}

	ne := New(spec.Parameter{Type: spec.TypeNumberEnumeration, Values: []any{11, 12, "13"}})
	cases := []struct {
		in   any
		want bool
	}{{"11", true}, {0, false}, {13, true}}
	for _, tc := range cases {
		ne.Set(tc.in)
		if ne.IsValid() != tc.want {
			t.Errorf("number enumeration %v: valid=%v want %v", tc.in, ne.IsValid(), tc.want)
		}
	}
}

func TestModel_InvalidType(t *testing.T) {
	m := New(spec.Parameter{Type: spec.Type("invalid type"), Title: "Invalid widget"})
	if m.IsValid() {
		t.Fatalf("unknown type must be invalid")
	}
	m.Set("anything")
	if m.IsValid() {
		t.Fatalf("unknown type must stay invalid")
	}
}

func TestModel_RequiredFile(t *testing.T) {
	m := New(spec.Parameter{Type: spec.TypeNewFile, ID: "out", Title: "Output", Required: true})
	err := m.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.ID != "out" {
		t.Fatalf("expected ValidationError for missing output, got %v", err)
	}
	m.Set(Resource{Name: "result.csv", FolderID: "f1"})
	if !m.IsValid() || m.Value() != "result.csv" {
		t.Fatalf("expected named output to be valid, got %v", m.Value())
	}

	in := New(spec.Parameter{Type: spec.TypeImage, ID: "img", Value: "abc"})
	if in.Value() != "abc" {
		t.Fatalf("default resource id not attached: %v", in.Value())
	}
}

func TestModel_Observers(t *testing.T) {
	m := New(spec.Parameter{Type: spec.TypeNumber, ID: "n", Max: ptr(3)})

	var seen []any
	var previous []any
	unsubscribe := m.OnChange(func(model *Model, prev any) {
		seen = append(seen, model.Value())
		previous = append(previous, prev)
	})
	var invalid []string
	m.OnInvalid(func(_ *Model, err *ValidationError) {
		invalid = append(invalid, err.Reason)
	})

	m.Set(1)
	m.Set(2, NoRender())
	m.Set(5)
	if diff := cmp.Diff([]any{float64(1), float64(5)}, seen); diff != "" {
		t.Fatalf("change notifications mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{nil, 2}, previous); diff != "" {
		t.Fatalf("previous values mismatch (-want +got):\n%s", diff)
	}

	if m.IsValid() {
		t.Fatalf("5 exceeds max")
	}
	if len(invalid) != 1 {
		t.Fatalf("expected one invalid notification, got %v", invalid)
	}

	unsubscribe()
	m.Set(3)
	if len(seen) != 2 {
		t.Fatalf("unsubscribed observer should not run")
	}
}
