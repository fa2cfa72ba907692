package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-slicerform/pkg/girder"
	"github.com/goliatone/go-slicerform/pkg/orchestrator"
	"github.com/goliatone/go-slicerform/pkg/prompt"
	"github.com/goliatone/go-slicerform/pkg/schema"
	"github.com/goliatone/go-slicerform/pkg/widget"
)

type runOptions struct {
	source      string
	restPath    string
	sets        []string
	valuesFile  string
	interactive bool
	advanced    bool
	dryRun      bool
	prefix      string
}

func newRunCmd(a *app) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run [source]",
		Short: "Fill, validate and submit a CLI job",
		Long: `Fill a CLI's parameters from --values, --set and optionally interactive
prompts, validate them and submit the job to <rest-path>/run. Without a
source the XML is fetched from <rest-path>/xml. --dry-run prints the values
that would be sent instead of submitting.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.source = args[0]
			}
			return a.run(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.restPath, "rest-path", "", "REST path of the CLI (default girder.rest_path)")
	f.StringArrayVar(&opts.sets, "set", nil, "Set a parameter, id=value (repeatable)")
	f.StringVar(&opts.valuesFile, "values", "", "YAML or JSON file of parameter values")
	f.BoolVarP(&opts.interactive, "interactive", "i", false, "Prompt for parameter values")
	f.BoolVar(&opts.advanced, "advanced", false, "Also prompt for advanced parameters")
	f.BoolVar(&opts.dryRun, "dry-run", false, "Validate and print the values without submitting")
	f.StringVar(&opts.prefix, "output-prefix", "", "Prefix for generated output names (default: CLI title)")
	return cmd
}

func (a *app) run(cmd *cobra.Command, opts *runOptions) error {
	ctx := contextOf(cmd)
	restPath := strings.Trim(opts.restPath, "/")
	if restPath == "" {
		restPath = strings.Trim(a.cfg.Girder.RestPath, "/")
	}

	var client *girder.Client
	if a.cfg.Girder.URL != "" {
		c, err := a.girder()
		if err != nil {
			return err
		}
		client = c
	}
	if client == nil && !opts.dryRun {
		return errors.New("girder url is required unless --dry-run is set")
	}
	if restPath == "" && (opts.source == "" || !opts.dryRun) {
		return errors.New("--rest-path is required")
	}

	var (
		result orchestrator.Result
		err    error
	)
	if opts.source != "" {
		result, err = a.load(cmd, opts.source, "", true, true)
	} else {
		if client == nil {
			return errors.New("a source or a girder url is required")
		}
		var doc schema.Document
		doc, err = client.XMLSpec(ctx, restPath)
		if err == nil {
			result, err = a.orchestrator(true).Load(ctx, orchestrator.Request{
				Document:            &doc,
				Format:              orchestrator.FormatXML,
				ReturnParameterFile: true,
			})
		}
	}
	if err != nil {
		return err
	}

	coll := result.Collection()
	if client != nil {
		if err := client.ApplyDefaultInputs(ctx, coll); err != nil {
			return fmt.Errorf("default inputs: %w", err)
		}
	}
	if err := applyValues(coll, opts); err != nil {
		return err
	}

	var folder widget.Resource
	if client != nil && a.cfg.Girder.Token != "" {
		folder, err = outputFolder(cmd, client)
		if err != nil {
			return err
		}
	}
	if opts.interactive {
		filler := prompt.New(
			prompt.WithPromptDriver(prompt.NewSurveyDriver(cmd.OutOrStdout())),
			prompt.WithAdvanced(opts.advanced),
			prompt.WithDefaultFolder(folder.ID),
		)
		if err := filler.Fill(ctx, result.Specification, coll); err != nil {
			return err
		}
	}

	prefix := opts.prefix
	if prefix == "" {
		prefix = strings.ReplaceAll(result.Specification.Executable.Title, " ", "")
	}
	coll.ApplyDefaultOutputs(prefix, folder, time.Now())

	if err := coll.Validate(); err != nil {
		return err
	}

	values := coll.Values()
	if opts.dryRun {
		return writeJSON(cmd.OutOrStdout(), values)
	}

	job, err := client.SubmitJob(ctx, restPath, values)
	if err != nil {
		return fmt.Errorf("submit job: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Job:    %s\n", job.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "  Title:  %s\n", job.Title)
	fmt.Fprintf(cmd.OutOrStdout(), "  Status: %s\n", job.Status)
	return nil
}

// applyValues loads --values first so --set entries override them.
func applyValues(coll *widget.Collection, opts *runOptions) error {
	if opts.valuesFile != "" {
		raw, err := os.ReadFile(opts.valuesFile)
		if err != nil {
			return fmt.Errorf("read values: %w", err)
		}
		values := map[string]any{}
		if err := yaml.Unmarshal(raw, &values); err != nil {
			return fmt.Errorf("decode values: %w", err)
		}
		if err := coll.SetAll(values, widget.NoRender()); err != nil {
			return err
		}
	}

	sets := make(map[string]any, len(opts.sets))
	for _, kv := range opts.sets {
		id, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(id) == "" {
			return fmt.Errorf("invalid --set %q, want id=value", kv)
		}
		sets[strings.TrimSpace(id)] = v
	}
	return coll.SetAll(sets, widget.NoRender())
}

// outputFolder resolves the current user's default output folder. It is
// empty for users without folders.
func outputFolder(cmd *cobra.Command, client *girder.Client) (widget.Resource, error) {
	ctx := contextOf(cmd)
	me, err := client.Me(ctx)
	if err != nil {
		return widget.Resource{}, fmt.Errorf("current user: %w", err)
	}
	folder, ok, err := client.DefaultOutputFolder(ctx, me.ID)
	if err != nil || !ok {
		return widget.Resource{}, err
	}
	return folder.Resource(), nil
}
