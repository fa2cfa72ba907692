// Package describe produces human and machine descriptions of a Slicer CLI:
// the HTML notes shown next to its REST endpoint and Slicer XML generated
// from JSON or YAML CLI descriptions.
package describe

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-slicerform/pkg/spec"
)

//go:embed templates/*.tpl
var templatesFS embed.FS

var (
	setOnce sync.Once
	set     *pongo2.TemplateSet
)

func templates() *pongo2.TemplateSet {
	setOnce.Do(func() {
		set = pongo2.NewSet("describe", pongo2.NewFSLoader(templatesFS))
	})
	return set
}

// Notes renders the endpoint notes for exe: the description followed by the
// version, license, authors and acknowledgements when present, separated by
// HTML line breaks.
func Notes(exe spec.Executable) (string, error) {
	tmpl, err := templates().FromCache("templates/notes.tpl")
	if err != nil {
		return "", fmt.Errorf("describe: load notes template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.ExecuteWriter(pongo2.Context{
		"description":      exe.Description,
		"version":          exe.Version,
		"license":          exe.License,
		"contributor":      exe.Contributor,
		"acknowledgements": exe.Acknowledgements,
	}, &buf)
	if err != nil {
		return "", fmt.Errorf("describe: render notes: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
