package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// InputConfig describes a free text question. Validate, when set, rejects an
// answer before it reaches the parameter model.
type InputConfig struct {
	Message  string
	Default  string
	Help     string
	Validate func(answer string) error
}

// ConfirmConfig describes a yes/no question for boolean parameters.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// SelectConfig describes a choice between enumeration elements.
type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
	Help         string
	PageSize     int
}

// PromptDriver is the terminal seen by a Filler.
type PromptDriver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Select(ctx context.Context, cfg SelectConfig) (int, error)
	Info(ctx context.Context, msg string) error
}

type surveyDriver struct {
	notices io.Writer
	opts    []survey.AskOpt
}

// NewSurveyDriver asks questions with survey and prints panel headers and
// validation messages to out (stdout when nil). When out is a terminal file
// the questions are drawn there too.
func NewSurveyDriver(out io.Writer) PromptDriver {
	if out == nil {
		out = os.Stdout
	}
	d := &surveyDriver{notices: out}
	if f, ok := out.(terminal.FileWriter); ok {
		d.opts = append(d.opts, survey.WithStdio(os.Stdin, f, os.Stderr))
	}
	return d
}

func (d *surveyDriver) ask(ctx context.Context, p survey.Prompt, answer any, extra ...survey.AskOpt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opts := append(append([]survey.AskOpt(nil), d.opts...), extra...)
	if err := survey.AskOne(p, answer, opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return ErrAborted
		}
		return err
	}
	return nil
}

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	var extra []survey.AskOpt
	if cfg.Validate != nil {
		extra = append(extra, survey.WithValidator(func(ans any) error {
			s, _ := ans.(string)
			return cfg.Validate(s)
		}))
	}
	var answer string
	err := d.ask(ctx, &survey.Input{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help}, &answer, extra...)
	return answer, err
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	var answer bool
	err := d.ask(ctx, &survey.Confirm{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help}, &answer)
	return answer, err
}

// Select returns the index of the chosen option.
func (d *surveyDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	p := &survey.Select{Message: cfg.Message, Options: cfg.Options, Help: cfg.Help, PageSize: cfg.PageSize}
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		p.Default = cfg.DefaultIndex
	}
	var idx int
	if err := d.ask(ctx, p, &idx); err != nil {
		return -1, err
	}
	return idx, nil
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.notices, msg)
	return err
}
