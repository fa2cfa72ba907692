package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-slicerform/pkg/openapi"
)

func newOpenAPICmd(a *app) *cobra.Command {
	var (
		format   string
		restPath string
		opID     string
		output   string
	)
	cmd := &cobra.Command{
		Use:   "openapi <source>",
		Short: "Describe the CLI's run endpoint as an OpenAPI 3 document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.load(cmd, args[0], format, false, true)
			if err != nil {
				return err
			}
			if restPath == "" {
				restPath = a.cfg.Girder.RestPath
			}
			if restPath = strings.Trim(restPath, "/"); restPath == "" {
				return fmt.Errorf("--rest-path is required")
			}
			outputs := result.Outputs
			doc := openapi.Document(result.Specification, restPath, openapi.Options{
				OperationID: opID,
				Outputs:     &outputs,
			})

			switch output {
			case "json":
				return writeJSON(cmd.OutOrStdout(), doc)
			case "yaml":
				raw, err := json.Marshal(doc)
				if err != nil {
					return err
				}
				var node yaml.Node
				if err := yaml.Unmarshal(raw, &node); err != nil {
					return err
				}
				blockStyle(&node)
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(&node)
			default:
				return fmt.Errorf("unknown output %q (json, yaml)", output)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "Force the input format (xml, description)")
	cmd.Flags().StringVar(&restPath, "rest-path", "", "REST path of the CLI, e.g. slicer_cli_web/<image>/<cli> (default girder.rest_path)")
	cmd.Flags().StringVar(&opID, "operation-id", "", "Operation id (default: title without spaces)")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output encoding (json, yaml)")
	return cmd
}

// blockStyle drops the flow and quoting styles a JSON payload decodes with,
// so the encoder emits block YAML and quotes only where needed.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
