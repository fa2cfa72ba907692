package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-slicerform/pkg/describe"
)

func newConvertCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "convert <description.json|yaml>",
		Short: "Convert a JSON or YAML CLI description to Slicer XML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			if args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read description: %w", err)
			}

			xml, err := describe.ToXML(raw)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(xml)
				return err
			}
			if err := os.WriteFile(output, xml, 0o644); err != nil {
				return fmt.Errorf("write xml: %w", err)
			}
			a.logger.Info("xml written", "path", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")
	return cmd
}
