package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-slicerform/pkg/girder"
)

func newImageCmd(a *app) *cobra.Command {
	var (
		folder string
		pull   bool
	)
	upload := &cobra.Command{
		Use:   "upload <image[,image...]>...",
		Short: "Import CLI docker images into the task folder",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.girder()
			if err != nil {
				return err
			}
			ctx := contextOf(cmd)
			if folder == "" {
				folder, err = girder.NewSettingsCache(client).TaskFolder(ctx)
				if err != nil {
					return err
				}
			}
			if folder == "" {
				return errors.New("no task folder configured, pass --folder or run settings set-task-folder")
			}
			var opts []girder.UploadOption
			if pull {
				opts = append(opts, girder.WithPull())
			}
			job, err := client.UploadDockerImages(ctx, args, folder, opts...)
			if err != nil {
				return err
			}
			printJob(cmd.OutOrStdout(), job)
			return nil
		},
	}
	upload.Flags().StringVar(&folder, "folder", "", "Destination folder id (default: the task folder setting)")
	upload.Flags().BoolVar(&pull, "pull", false, "Pull the latest image before importing")

	cmd := &cobra.Command{
		Use:   "image",
		Short: "Manage slicer_cli_web docker images",
	}
	cmd.AddCommand(upload)
	return cmd
}
