package cli

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-slicerform/pkg/spec"
)

func newParseCmd(a *app) *cobra.Command {
	var (
		format              string
		returnParameterFile bool
		sanitize            bool
	)
	cmd := &cobra.Command{
		Use:   "parse <source>",
		Short: "Parse a CLI description and print the specification as JSON",
		Long:  "Parse a Slicer XML (or JSON/YAML) CLI description from a file, URL or - for stdin, and print the panel/group/parameter tree with excluded outputs.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.load(cmd, args[0], format, returnParameterFile, sanitize)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), struct {
				Specification spec.Specification `json:"specification"`
				Outputs       spec.Outputs       `json:"outputs"`
			}{result.Specification, result.Outputs})
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "Force the input format (xml, description)")
	cmd.Flags().BoolVar(&returnParameterFile, "return-parameter-file", false, "Append the return-parameter panel when simple outputs exist")
	cmd.Flags().BoolVar(&sanitize, "sanitize", false, "Sanitize titles and descriptions as HTML")
	return cmd
}
