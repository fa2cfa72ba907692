package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-slicerform/pkg/schema"
)

const sampleXML = `<executable><parameters><label>L</label></parameters></executable>`

func TestLoaderLoadsFromFS(t *testing.T) {
	files := fstest.MapFS{
		"cli/spec.xml": {Data: []byte(sampleXML)},
	}
	l := New(schema.NewLoaderOptions(schema.WithFileSystem(files)))

	doc, err := l.Load(context.Background(), schema.SourceFromFS("cli/spec.xml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != sampleXML {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}
	if doc.Location() != "cli/spec.xml" {
		t.Fatalf("unexpected location %q", doc.Location())
	}
}

func TestLoaderRejectsHTTPWhenDisabled(t *testing.T) {
	l := New(schema.NewLoaderOptions())
	_, err := l.Load(context.Background(), schema.SourceFromURL("http://example.test/spec.xml"))
	if err == nil || !strings.Contains(err.Error(), "http support disabled") {
		t.Fatalf("expected http disabled error, got %v", err)
	}
}

func TestLoaderFetchesOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(sampleXML))
	}))
	defer srv.Close()

	l := New(schema.NewLoaderOptions(schema.WithHTTPClient(srv.Client())))
	doc, err := l.Load(context.Background(), schema.SourceFromURL(srv.URL+"/xml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !strings.Contains(string(doc.Raw()), "<parameters>") {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}
}

func TestLoaderSurfacesHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	l := New(schema.NewLoaderOptions(schema.WithHTTPClient(srv.Client())))
	if _, err := l.Load(context.Background(), schema.SourceFromURL(srv.URL)); err == nil {
		t.Fatal("expected status error")
	}
}

func TestLoaderRejectsEmptyPayload(t *testing.T) {
	files := fstest.MapFS{"empty.xml": {Data: []byte("  \n")}}
	l := New(schema.NewLoaderOptions(schema.WithFileSystem(files)))
	if _, err := l.Load(context.Background(), schema.SourceFromFS("empty.xml")); err != schema.ErrEmptyDocument {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}
