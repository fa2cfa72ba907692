package widget

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-slicerform/pkg/spec"
)

func TestCollection_Values(t *testing.T) {
	c := NewCollection(
		New(spec.Parameter{Type: spec.TypeRange, ID: "range", Value: 0}),
		New(spec.Parameter{Type: spec.TypeNumber, ID: "number", Value: "1"}),
		New(spec.Parameter{Type: spec.TypeBoolean, ID: "boolean", Value: "yes"}),
		New(spec.Parameter{Type: spec.TypeString, ID: "string", Value: 0}),
		New(spec.Parameter{Type: spec.TypeColor, ID: "color", Value: "red"}),
		New(spec.Parameter{Type: spec.TypeStringVector, ID: "string-vector", Value: "a,b,c"}),
		New(spec.Parameter{Type: spec.TypeNumberVector, ID: "number-vector", Value: "1,2,3"}),
		New(spec.Parameter{Type: spec.TypeStringEnumeration, ID: "string-enumeration", Values: []any{"a"}, Value: "a"}),
		New(spec.Parameter{Type: spec.TypeNumberEnumeration, ID: "number-enumeration", Values: []any{1}, Value: "1"}),
		New(spec.Parameter{Type: spec.TypeFile, ID: "file"}),
		New(spec.Parameter{Type: spec.TypeNewFile, ID: "new-file"}),
		New(spec.Parameter{Type: spec.TypeItem, ID: "item"}),
		New(spec.Parameter{Type: spec.TypeImage, ID: "image"}),
		New(spec.Parameter{Type: spec.TypeRegion, ID: "region", Value: "-1,-1,-1,-1"}),
	)
	mustSet(t, c, "file", Resource{ID: "a"})
	mustSet(t, c, "new-file", Resource{Name: "a", FolderID: "b"})
	mustSet(t, c, "item", Resource{ID: "c"})
	mustSet(t, c, "image", &Resource{ID: "d"})

	want := map[string]string{
		"range":              "0",
		"number":             "1",
		"boolean":            "true",
		"string":             "0",
		"color":              `"#ff0000"`,
		"string-vector":      `["a","b","c"]`,
		"number-vector":      "[1,2,3]",
		"string-enumeration": "a",
		"number-enumeration": "1",
		"file":               "a",
		"new-file_folder":    "b",
		"new-file":           "a",
		"item":               "c",
		"image":              "d",
		"region":             "[-1,-1,-1,-1]",
	}
	if diff := cmp.Diff(want, c.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func mustSet(t *testing.T, c *Collection, id string, v any) {
	t.Helper()
	if err := c.Set(id, v); err != nil {
		t.Fatalf("set %s: %v", id, err)
	}
}

func TestCollection_ValidateAggregates(t *testing.T) {
	c := FromSpecification(spec.Specification{Panels: []spec.Panel{{
		Groups: []spec.Group{{
			Label: "G",
			Parameters: []spec.Parameter{
				{Type: spec.TypeNumber, ID: "a", Title: "Alpha", Value: "x"},
				{Type: spec.TypeString, ID: "b", Title: "Beta", Value: "ok"},
				{Type: spec.TypeNumber, ID: "c", Title: "Gamma", Value: 3, Max: ptr(2)},
			},
		}},
	}}})

	if got := len(c.Invalid()); got != 2 {
		t.Fatalf("expected 2 invalid models, got %d", got)
	}

	err := c.Validate()
	var invalid *InvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidError, got %v", err)
	}
	if !strings.Contains(err.Error(), "Alpha, Gamma") {
		t.Fatalf("error should name titles, got %q", err.Error())
	}
	if _, ok := invalid.ByID()["c"]; !ok {
		t.Fatalf("expected failure for c")
	}
	var single *ValidationError
	if !errors.As(err, &single) || single.ID != "a" {
		t.Fatalf("expected first ValidationError to unwrap, got %v", single)
	}

	mustSet(t, c, "a", 1)
	mustSet(t, c, "c", 2)
	if err := c.Validate(); err != nil {
		t.Fatalf("expected valid collection, got %v", err)
	}
}

func TestCollection_SetAll(t *testing.T) {
	c := NewCollection(
		New(spec.Parameter{Type: spec.TypeNewFile, ID: "out"}),
		New(spec.Parameter{Type: spec.TypeNumber, ID: "n"}),
	)
	err := c.SetAll(map[string]any{"out": "result.csv", "out_folder": "f9", "n": "4"})
	if err != nil {
		t.Fatalf("set all: %v", err)
	}
	want := map[string]string{"out": "result.csv", "out_folder": "f9", "n": "4"}
	if diff := cmp.Diff(want, c.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	if err := c.SetAll(map[string]any{"missing": 1}); !errors.Is(err, ErrUnknownParameter) {
		t.Fatalf("expected ErrUnknownParameter, got %v", err)
	}
}

func TestDefaultOutputName(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 30, 0, 0, time.FixedZone("", -5*3600))
	m := New(spec.Parameter{ID: "annotation", Title: "Annotation", Type: spec.TypeNewFile, Extensions: ".anot|.json"})

	if got := DefaultOutputName("NucleiDetection", m, "slide.svs", now); got != "slide-NucleiDetection-Annotation-2024-03-05T14:30:00-05:00.anot" {
		t.Fatalf("unexpected name with reference: %q", got)
	}
	if got := DefaultOutputName("NucleiDetection", m, "", now); got != "NucleiDetection-Annotation-2024-03-05T14:30:00-05:00.anot" {
		t.Fatalf("unexpected name without reference: %q", got)
	}

	ret := New(spec.ReturnParameterPanel().Groups[0].Parameters[0])
	if got := DefaultOutputName("Task", ret, "", now); got != "Task-2024-03-05T14:30:00-05:00.params" {
		t.Fatalf("unexpected return parameter name: %q", got)
	}
}

func TestCollection_ApplyDefaultOutputs(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	c := NewCollection(
		New(spec.Parameter{ID: "in", Type: spec.TypeImage, Channel: spec.ChannelInput}),
		New(spec.Parameter{ID: "out", Title: "Mask", Type: spec.TypeNewFile, Channel: spec.ChannelOutput, Required: true, Reference: "in", Extensions: ".tiff"}),
		New(spec.Parameter{ID: "optional", Type: spec.TypeNewFile, Channel: spec.ChannelOutput}),
	)
	mustSet(t, c, "in", Resource{ID: "i1", Name: "case.ndpi"})

	c.ApplyDefaultOutputs("Seg", Resource{ID: "folder"}, now)

	out, _ := c.Get("out")
	r, ok := out.Resource()
	if !ok {
		t.Fatalf("expected output to be named")
	}
	want := Resource{Name: "case-Seg-Mask-2024-01-02T03:04:05+00:00.tiff", FolderID: "folder"}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Fatalf("resource mismatch (-want +got):\n%s", diff)
	}
	if opt, _ := c.Get("optional"); opt.Value() != "" {
		t.Fatalf("optional output should stay empty")
	}
}

func TestCollection_OutputFolders(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	newColl := func() *Collection {
		return NewCollection(
			New(spec.Parameter{ID: "out", Title: "Mask", Type: spec.TypeNewFile, Channel: spec.ChannelOutput, Required: true, Extensions: ".tif"}),
		)
	}

	t.Run("named without folder", func(t *testing.T) {
		c := newColl()
		if err := c.SetAll(map[string]any{"out": "mask.tif"}); err != nil {
			t.Fatalf("set all: %v", err)
		}
		out, _ := c.Get("out")
		if out.IsValid() {
			t.Fatalf("output without a destination folder must be invalid")
		}

		c.ApplyDefaultOutputs("CLI", Resource{ID: "folder1"}, now)
		if err := c.Validate(); err != nil {
			t.Fatalf("validate: %v", err)
		}
		want := map[string]string{"out": "mask.tif", "out_folder": "folder1"}
		if diff := cmp.Diff(want, c.Values()); diff != "" {
			t.Fatalf("values mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("folder without name", func(t *testing.T) {
		c := newColl()
		if err := c.SetAll(map[string]any{"out_folder": "f2"}); err != nil {
			t.Fatalf("set all: %v", err)
		}
		if err := c.Validate(); err == nil {
			t.Fatalf("output without a name must be invalid")
		}
		if diff := cmp.Diff(map[string]string{}, c.Values()); diff != "" {
			t.Fatalf("values mismatch (-want +got):\n%s", diff)
		}

		c.ApplyDefaultOutputs("CLI", Resource{ID: "folder1"}, now)
		want := map[string]string{"out": "CLI-Mask-2024-01-02T03:04:05+00:00.tif", "out_folder": "f2"}
		if diff := cmp.Diff(want, c.Values()); diff != "" {
			t.Fatalf("values mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("optional named without folder", func(t *testing.T) {
		c := NewCollection(New(spec.Parameter{ID: "extra", Type: spec.TypeNewFile, Channel: spec.ChannelOutput}))
		mustSet(t, c, "extra", "extra.csv")
		if err := c.Validate(); err == nil {
			t.Fatalf("optional output without a destination folder must be invalid")
		}
		c.ApplyDefaultOutputs("CLI", Resource{ID: "folder1"}, now)
		if err := c.Validate(); err != nil {
			t.Fatalf("validate: %v", err)
		}
	})
}
