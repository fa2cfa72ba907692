package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-slicerform/pkg/girder"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and write slicer_cli_web system settings",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get [key...]",
			Short: "Print system settings (default: the task folder)",
			RunE: func(cmd *cobra.Command, args []string) error {
				client, err := a.girder()
				if err != nil {
					return err
				}
				keys := args
				if len(keys) == 0 {
					keys = []string{girder.TaskFolderKey}
				}
				settings, err := client.Settings(contextOf(cmd), keys...)
				if err != nil {
					return err
				}
				names := make([]string, 0, len(settings))
				for k := range settings {
					names = append(names, k)
				}
				sort.Strings(names)
				for _, k := range names {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", k, settings[k])
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "set-task-folder <folder_id>",
			Short: "Set the folder CLI images are imported to",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				client, err := a.girder()
				if err != nil {
					return err
				}
				cache := girder.NewSettingsCache(client)
				if err := cache.SaveTaskFolder(contextOf(cmd), args[0]); err != nil {
					return err
				}
				folder, err := cache.TaskFolder(contextOf(cmd))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", girder.TaskFolderKey, folder)
				return nil
			},
		},
	)
	return cmd
}
