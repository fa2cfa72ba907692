// Package validation lints CLI descriptions for problems the parser
// tolerates but a form cannot recover from, such as duplicate ids or
// defaults outside their constraints.
package validation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-slicerform/internal/xmlspec"
	"github.com/goliatone/go-slicerform/pkg/orchestrator"
	"github.com/goliatone/go-slicerform/pkg/schema"
	"github.com/goliatone/go-slicerform/pkg/spec"
	"github.com/goliatone/go-slicerform/pkg/widget"
)

// Severity grades an Issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding with an optional location in the parameter tree.
type Issue struct {
	Severity Severity `json:"severity"`
	Path     string   `json:"path,omitempty"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	var b strings.Builder
	b.WriteString(string(i.Severity))
	if i.Path != "" {
		b.WriteString(" " + i.Path)
	}
	if i.Field != "" {
		b.WriteString(" (" + i.Field + ")")
	}
	b.WriteString(": " + i.Message)
	return b.String()
}

// Result captures lint outcomes. Valid is false when any issue is an error.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

func (r *Result) add(sev Severity, path, field, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Severity: sev,
		Path:     path,
		Field:    field,
		Message:  fmt.Sprintf(format, args...),
	})
	if sev == SeverityError {
		r.Valid = false
	}
}

// Options configures ValidateDocument.
type Options struct {
	// Format forces an input adapter; empty means detect.
	Format string
	Logger *slog.Logger
}

// ValidateDocument parses doc and reports structural and semantic issues.
// Parse failures are reported as a single error issue.
func ValidateDocument(ctx context.Context, doc schema.Document, opts Options) Result {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var unhandled []string
	parser := xmlspec.New(spec.NewParserOptions(
		spec.WithLogger(logger),
		spec.WithUnhandledTags(func(tag string) {
			unhandled = append(unhandled, tag)
		}),
	))
	loaded, err := orchestrator.New(
		orchestrator.WithParser(parser),
		orchestrator.WithLogger(logger),
	).Load(ctx, orchestrator.Request{Document: &doc, Format: opts.Format})

	result := Result{Valid: true}
	if err != nil {
		result.add(SeverityError, "", "", "%s", strings.TrimPrefix(err.Error(), "orchestrator: "))
		return result
	}
	for _, tag := range unhandled {
		result.add(SeverityWarning, "", "", "unhandled parameter type <%s> was dropped", tag)
	}
	check(&result, loaded.Specification)
	return result
}

// Check reports semantic issues in an already parsed specification.
func Check(s spec.Specification) Result {
	result := Result{Valid: true}
	check(&result, s)
	return result
}

func check(r *Result, s spec.Specification) {
	if strings.TrimSpace(s.Executable.Title) == "" {
		r.add(SeverityWarning, "executable", "title", "executable has no title")
	}
	if len(s.Panels) == 0 {
		r.add(SeverityWarning, "executable", "", "no parameters")
	}

	seen := map[string]string{}
	for i, panel := range s.Panels {
		for j, group := range panel.Groups {
			for k, p := range group.Parameters {
				path := fmt.Sprintf("panels[%d].groups[%d].parameters[%d]", i, j, k)
				checkParameter(r, path, p)
				if p.ID == "" {
					continue
				}
				if first, dup := seen[p.ID]; dup {
					r.add(SeverityError, path, p.ID, "duplicate parameter id, first declared at %s", first)
					continue
				}
				seen[p.ID] = path
			}
		}
	}
}

func checkParameter(r *Result, path string, p spec.Parameter) {
	if p.ID == "" {
		r.add(SeverityError, path, "", "<%s> has neither <name> nor <longflag>", p.SlicerType)
		return
	}
	if p.Channel == spec.ChannelInput && p.Flag == "" && p.LongFlag == "" && p.Index == nil {
		r.add(SeverityWarning, path, p.ID, "parameter has no flag, longflag or index")
	}
	if p.Min != nil && p.Max != nil && *p.Min > *p.Max {
		r.add(SeverityError, path, p.ID, "minimum is greater than maximum")
	}
	if p.Step != nil && *p.Step <= 0 {
		r.add(SeverityError, path, p.ID, "step must be positive")
	}
	if p.Type.IsEnumeration() && len(p.Values) == 0 {
		r.add(SeverityError, path, p.ID, "enumeration has no <element> values")
	}
	if p.HasDefault() && !p.Type.IsFileLike() {
		if err := widget.New(p).Validate(); err != nil {
			r.add(SeverityError, path, p.ID, "default is invalid: %s", validationReason(err))
		}
	}
}

func validationReason(err error) string {
	if v, ok := err.(*widget.ValidationError); ok && v.Reason != "" {
		return v.Reason
	}
	return err.Error()
}
