package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-slicerform/pkg/schema"
	"github.com/goliatone/go-slicerform/pkg/spec"
)

// LoadDocument reads an XML fixture and builds a schema.Document using a file
// source. It fails the test on error to keep contract tests concise.
func LoadDocument(t *testing.T, path string) schema.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T, so
// fixtures can be wired in setup functions.
func LoadDocumentFromPath(path string) (schema.Document, error) {
	if path == "" {
		return schema.Document{}, errors.New("testsupport: document path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := schema.NewDocument(schema.SourceFromFile(path), data)
	if err != nil {
		return schema.Document{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc, nil
}

// MustLoadSpecification loads a JSON golden file into a Specification.
func MustLoadSpecification(t *testing.T, path string) spec.Specification {
	t.Helper()

	s, err := LoadSpecification(path)
	if err != nil {
		t.Fatalf("load specification: %v", err)
	}
	return s
}

// LoadSpecification reads a JSON fixture into a Specification, returning an
// error for callers managing setup outside of *testing.T.
func LoadSpecification(path string) (spec.Specification, error) {
	if path == "" {
		return spec.Specification{}, errors.New("testsupport: specification path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return spec.Specification{}, fmt.Errorf("testsupport: read specification: %w", err)
	}
	var out spec.Specification
	if err := json.Unmarshal(data, &out); err != nil {
		return spec.Specification{}, fmt.Errorf("testsupport: unmarshal specification: %w", err)
	}
	return out, nil
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any, opts ...cmp.Option) string {
	return cmp.Diff(want, got, opts...)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
