package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	slicerform "github.com/goliatone/go-slicerform"
	"github.com/goliatone/go-slicerform/pkg/schema"
	"github.com/goliatone/go-slicerform/pkg/validation"
)

// errLintFailed is returned when any linted file has an error issue.
var errLintFailed = errors.New("lint failed")

func newLintCmd(a *app) *cobra.Command {
	var (
		format string
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "lint <source>...",
		Short: "Report problems in CLI descriptions",
		Long:  "Lint Slicer XML (or JSON/YAML) CLI descriptions for duplicate ids, invalid defaults, empty enumerations and dropped tags. Exits non-zero when an error is found.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := slicerform.NewLoader(schema.WithHTTPFallback(a.cfg.HTTP.Timeout))
			failed := false
			for _, arg := range args {
				doc, err := a.readDocument(cmd, loader, arg)
				if err != nil {
					return fmt.Errorf("lint %s: %w", arg, err)
				}
				result := validation.ValidateDocument(contextOf(cmd), doc, validation.Options{
					Format: format,
					Logger: a.logger,
				})
				for _, issue := range result.Issues {
					location := issue.Path
					if location == "" {
						location = "document"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %s -> %s\n", arg, issue.Severity, location, issueMessage(issue))
					if strict && issue.Severity == validation.SeverityWarning {
						failed = true
					}
				}
				if !result.Valid {
					failed = true
				}
			}
			if failed {
				return errLintFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "Force the input format (xml, description)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as errors")
	return cmd
}

func issueMessage(issue validation.Issue) string {
	if issue.Field == "" {
		return issue.Message
	}
	return issue.Field + ": " + issue.Message
}

// readDocument loads arg without parsing it.
func (a *app) readDocument(cmd *cobra.Command, loader schema.Loader, arg string) (schema.Document, error) {
	if arg == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return schema.Document{}, fmt.Errorf("read stdin: %w", err)
		}
		return schema.NewDocument(schema.SourceInline("stdin"), raw)
	}
	src, err := sourceFor(arg)
	if err != nil {
		return schema.Document{}, err
	}
	return loader.Load(contextOf(cmd), src)
}
