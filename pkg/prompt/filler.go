// Package prompt fills a widget collection interactively, one question per
// parameter, grouped the way the CLI's panels group them.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-slicerform/pkg/spec"
	"github.com/goliatone/go-slicerform/pkg/value"
	"github.com/goliatone/go-slicerform/pkg/widget"
)

// Option configures a Filler.
type Option func(*Filler)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithAdvanced also asks about parameters in advanced panels.
func WithAdvanced(enabled bool) Option {
	return func(f *Filler) {
		f.advanced = enabled
	}
}

// WithMaxAttempts bounds how often an invalid answer is re-asked.
func WithMaxAttempts(n int) Option {
	return func(f *Filler) {
		if n > 0 {
			f.maxAttempts = n
		}
	}
}

// WithDefaultFolder pre-fills the destination folder of output files.
func WithDefaultFolder(folderID string) Option {
	return func(f *Filler) {
		f.defaultFolder = folderID
	}
}

// Filler asks for parameter values through a PromptDriver.
type Filler struct {
	driver        PromptDriver
	advanced      bool
	maxAttempts   int
	defaultFolder string
}

// New builds a Filler. Without WithPromptDriver it uses survey on the
// process terminal.
func New(opts ...Option) *Filler {
	f := &Filler{maxAttempts: 3}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if f.driver == nil {
		f.driver = NewSurveyDriver(nil)
	}
	return f
}

// Fill walks the panels of s and stores every answer in coll. Parameters of
// advanced panels are skipped unless WithAdvanced is set.
func (f *Filler) Fill(ctx context.Context, s spec.Specification, coll *widget.Collection) error {
	for _, panel := range s.Panels {
		if panel.Advanced && !f.advanced {
			continue
		}
		for _, group := range panel.Groups {
			header := group.Label
			if group.Description != "" {
				header += ": " + group.Description
			}
			if err := f.driver.Info(ctx, header); err != nil {
				return err
			}
			for _, param := range group.Parameters {
				m, ok := coll.Get(param.ID)
				if !ok {
					continue
				}
				if err := f.ask(ctx, m); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (f *Filler) ask(ctx context.Context, m *widget.Model) error {
	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		if err := f.askOnce(ctx, m); err != nil {
			return err
		}
		err := m.Validate()
		if err == nil {
			return nil
		}
		if infoErr := f.driver.Info(ctx, err.Error()); infoErr != nil {
			return infoErr
		}
	}
	return fmt.Errorf("%w: %s", ErrTooManyAttempts, m.Title())
}

func (f *Filler) askOnce(ctx context.Context, m *widget.Model) error {
	p := m.Parameter()
	message := m.Title()
	if p.Required {
		message += " *"
	}

	switch {
	case m.IsEnumeration():
		options := make([]string, len(p.Values))
		current := value.ToString(m.Value())
		defaultIndex := 0
		for i, choice := range p.Values {
			options[i] = value.ToString(value.Convert(p.Type, choice))
			if options[i] == current {
				defaultIndex = i
			}
		}
		idx, err := f.driver.Select(ctx, SelectConfig{Message: message, Options: options, DefaultIndex: defaultIndex, Help: p.Description})
		if err != nil {
			return err
		}
		if idx >= 0 && idx < len(options) {
			m.Set(options[idx])
		}

	case m.IsBoolean():
		current, _ := m.Value().(bool)
		answer, err := f.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: current, Help: p.Description})
		if err != nil {
			return err
		}
		m.Set(answer)

	case p.Type == spec.TypeNewFile:
		r, _ := m.Resource()
		name, err := f.driver.Input(ctx, InputConfig{Message: message + " (file name)", Default: r.Name, Help: p.Description})
		if err != nil {
			return err
		}
		folder := r.FolderID
		if folder == "" {
			folder = f.defaultFolder
		}
		folder, err = f.driver.Input(ctx, InputConfig{Message: message + " (folder id)", Default: folder})
		if err != nil {
			return err
		}
		name, folder = strings.TrimSpace(name), strings.TrimSpace(folder)
		if name == "" {
			m.Set(nil)
			return nil
		}
		m.Set(widget.Resource{Name: name, FolderID: folder})

	case p.Type.IsFileLike():
		r, _ := m.Resource()
		id, err := f.driver.Input(ctx, InputConfig{Message: message + " (Girder id)", Default: r.ID, Help: p.Description})
		if err != nil {
			return err
		}
		m.Set(strings.TrimSpace(id))

	default:
		cfg := InputConfig{Message: message, Default: currentText(m), Help: p.Description}
		if p.Type == spec.TypeNumber || p.Type == spec.TypeRange {
			cfg.Validate = numberAnswer
		}
		answer, err := f.driver.Input(ctx, cfg)
		if err != nil {
			return err
		}
		m.Set(answer)
	}
	return nil
}

// numberAnswer rejects text that is not a number. Blank answers pass so
// optional parameters can be cleared.
func numberAnswer(answer string) error {
	if strings.TrimSpace(answer) == "" || value.Finite(value.ToNumber(answer)) {
		return nil
	}
	return errors.New("enter a number")
}

// currentText renders the model's value as the text a user would type.
func currentText(m *widget.Model) string {
	raw := m.Raw()
	if raw == nil {
		return ""
	}
	v := m.Value()
	if f, ok := v.(float64); ok && !value.Finite(f) {
		return value.ToString(raw)
	}
	return value.ToString(v)
}
