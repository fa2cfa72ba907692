package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-slicerform/pkg/describe"
	"github.com/goliatone/go-slicerform/pkg/spec"
	"github.com/goliatone/go-slicerform/pkg/value"
)

func newDescribeCmd(a *app) *cobra.Command {
	var (
		format string
		notes  bool
	)
	cmd := &cobra.Command{
		Use:   "describe <source>",
		Short: "Summarize a CLI description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.load(cmd, args[0], format, true, true)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if notes {
				html, err := describe.Notes(result.Specification.Executable)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, html)
				return err
			}
			return printSummary(out, result.Specification)
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "Force the input format (xml, description)")
	cmd.Flags().BoolVar(&notes, "notes", false, "Print the HTML description notes instead of the parameter table")
	return cmd
}

func printSummary(w io.Writer, s spec.Specification) error {
	exe := s.Executable
	title := exe.Title
	if exe.Version != "" {
		title += " " + exe.Version
	}
	fmt.Fprintln(w, title)
	if exe.Category != "" {
		fmt.Fprintf(w, "  Category: %s\n", exe.Category)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, panel := range s.Panels {
		kind := ""
		if panel.Advanced {
			kind = " (advanced)"
		}
		fmt.Fprintf(tw, "\nPanel %d%s\n", i+1, kind)
		for _, group := range panel.Groups {
			fmt.Fprintf(tw, "  %s\n", group.Label)
			fmt.Fprintln(tw, "    ID\tTYPE\tDEFAULT\tCONSTRAINTS\t")
			for _, p := range group.Parameters {
				fmt.Fprintf(tw, "    %s\t%s\t%s\t%s\t\n", p.ID, p.Type, defaultText(p), constraintText(p))
			}
		}
	}
	return tw.Flush()
}

func defaultText(p spec.Parameter) string {
	if !p.HasDefault() {
		if p.Required {
			return "(required)"
		}
		return "-"
	}
	switch v := p.Value.(type) {
	case float64:
		return value.FormatNumber(v)
	case []float64:
		parts := make([]string, len(v))
		for i, f := range v {
			parts[i] = value.FormatNumber(f)
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(v, ",")
	}
	return value.ToString(p.Value)
}

func constraintText(p spec.Parameter) string {
	var parts []string
	if p.Min != nil {
		parts = append(parts, "min="+value.FormatNumber(*p.Min))
	}
	if p.Max != nil {
		parts = append(parts, "max="+value.FormatNumber(*p.Max))
	}
	if p.Step != nil {
		parts = append(parts, "step="+value.FormatNumber(*p.Step))
	}
	if len(p.Values) > 0 {
		vals := make([]string, len(p.Values))
		for i, v := range p.Values {
			vals[i] = value.ToString(v)
		}
		parts = append(parts, "one of "+strings.Join(vals, "|"))
	}
	if p.Extensions != "" {
		parts = append(parts, "ext "+p.Extensions)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}
