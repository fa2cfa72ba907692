// Package cli implements the slicerform command line.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	slicerform "github.com/goliatone/go-slicerform"
	"github.com/goliatone/go-slicerform/internal/config"
	"github.com/goliatone/go-slicerform/internal/logging"
	"github.com/goliatone/go-slicerform/pkg/girder"
	"github.com/goliatone/go-slicerform/pkg/orchestrator"
	"github.com/goliatone/go-slicerform/pkg/schema"
	"github.com/goliatone/go-slicerform/pkg/spec"
)

// app carries the state resolved in PersistentPreRunE.
type app struct {
	v          *viper.Viper
	configFile string
	debug      bool

	cfg    config.Config
	logger *slog.Logger
}

// NewRootCmd creates the root cobra command for the slicerform CLI.
func NewRootCmd() *cobra.Command {
	a := &app{v: config.New(), logger: logging.Discard()}

	root := &cobra.Command{
		Use:   "slicerform",
		Short: "Slicer CLI parameter forms for Girder",
		Long:  "slicerform parses Slicer CLI XML descriptions, validates parameter values and submits jobs to a Girder slicer_cli_web server.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.configFile)
			if err != nil {
				return err
			}
			if a.debug {
				cfg.Log.Level = "debug"
			}
			a.cfg = cfg
			a.logger = logging.NewLoggerWithWriter(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format, cmd.ErrOrStderr())
			return nil
		},
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Config file (default ./slicerform.yaml or ~/.config/slicerform/slicerform.yaml)")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text, json)")
	flags.String("girder-url", "", "Girder API root, e.g. https://girder.example.org/api/v1")
	flags.String("token", "", "Girder token (or SLICERFORM_GIRDER_TOKEN env)")
	flags.Duration("timeout", 0, "HTTP timeout for remote requests")

	for key, name := range map[string]string{
		config.KeyLogLevel:    "log-level",
		config.KeyLogFormat:   "log-format",
		config.KeyGirderURL:   "girder-url",
		config.KeyGirderToken: "token",
		config.KeyHTTPTimeout: "timeout",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(name))
	}

	root.AddCommand(
		newParseCmd(a),
		newDescribeCmd(a),
		newOpenAPICmd(a),
		newConvertCmd(a),
		newLintCmd(a),
		newRunCmd(a),
		newSettingsCmd(a),
		newJobCmd(a),
		newImageCmd(a),
		newServeCmd(a),
	)

	return root
}

// girder returns a client for the configured server.
func (a *app) girder() (*girder.Client, error) {
	if a.cfg.Girder.URL == "" {
		return nil, errors.New("girder url is required (--girder-url or girder.url)")
	}
	return girder.NewClient(a.cfg.Girder.URL,
		girder.WithToken(a.cfg.Girder.Token),
		girder.WithTimeout(a.cfg.HTTP.Timeout),
		girder.WithLogger(a.logger),
	)
}

// orchestrator builds the document pipeline with HTTP sources enabled.
func (a *app) orchestrator(sanitize bool) *orchestrator.Orchestrator {
	parserOpts := []spec.ParserOption{spec.WithLogger(a.logger)}
	if sanitize {
		parserOpts = append(parserOpts, spec.WithSanitizer(spec.HTMLSanitizer()))
	}
	return orchestrator.New(
		orchestrator.WithLoader(slicerform.NewLoader(schema.WithHTTPFallback(a.cfg.HTTP.Timeout))),
		orchestrator.WithParser(slicerform.NewParser(parserOpts...)),
		orchestrator.WithLogger(a.logger),
	)
}

// load resolves arg ("-" for stdin, a URL, or a path) and parses it.
func (a *app) load(cmd *cobra.Command, arg, format string, returnParameterFile, sanitize bool) (orchestrator.Result, error) {
	req := orchestrator.Request{Format: format, ReturnParameterFile: returnParameterFile}
	switch {
	case arg == "-":
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return orchestrator.Result{}, fmt.Errorf("read stdin: %w", err)
		}
		doc, err := schema.NewDocument(schema.SourceInline("stdin"), raw)
		if err != nil {
			return orchestrator.Result{}, err
		}
		req.Document = &doc
	default:
		src, err := sourceFor(arg)
		if err != nil {
			return orchestrator.Result{}, err
		}
		req.Source = src
	}
	return a.orchestrator(sanitize).Load(contextOf(cmd), req)
}

func sourceFor(arg string) (schema.Source, error) {
	path := strings.TrimSpace(arg)
	if path == "" {
		return nil, errors.New("source is required")
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return schema.SourceFromURL(path), nil
	}
	return schema.SourceFromFile(path), nil
}

func writeJSON(w io.Writer, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
