package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-slicerform/pkg/girder"
)

func newJobCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Inspect and cancel Girder jobs",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "status <job_id>",
			Short: "Check the status of a job",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				client, err := a.girder()
				if err != nil {
					return err
				}
				job, err := client.Job(contextOf(cmd), args[0])
				if err != nil {
					return fmt.Errorf("get job: %w", err)
				}
				printJob(cmd.OutOrStdout(), job)
				return nil
			},
		},
		&cobra.Command{
			Use:   "cancel <job_id>",
			Short: "Cancel a job",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				client, err := a.girder()
				if err != nil {
					return err
				}
				ctx := contextOf(cmd)
				job, err := client.Job(ctx, args[0])
				if err != nil {
					return fmt.Errorf("get job: %w", err)
				}
				if !job.Cancelable() {
					return fmt.Errorf("job %s is %s and cannot be canceled", job.ID, job.Status)
				}
				job, err = client.CancelJob(ctx, job.ID)
				if err != nil {
					return fmt.Errorf("cancel job: %w", err)
				}
				printJob(cmd.OutOrStdout(), job)
				return nil
			},
		},
	)
	return cmd
}

func printJob(w io.Writer, job girder.Job) {
	fmt.Fprintf(w, "Job: %s\n", job.ID)
	fmt.Fprintf(w, "  Title:      %s\n", job.Title)
	fmt.Fprintf(w, "  Type:       %s\n", job.Type)
	fmt.Fprintf(w, "  Status:     %s\n", job.Status)
	fmt.Fprintf(w, "  Cancelable: %t\n", job.Cancelable())
	if job.Created != "" {
		fmt.Fprintf(w, "  Created:    %s\n", job.Created)
	}
	if job.Updated != "" {
		fmt.Fprintf(w, "  Updated:    %s\n", job.Updated)
	}
}
