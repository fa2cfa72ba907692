package xmlspec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/goliatone/go-slicerform/pkg/schema"
	"github.com/goliatone/go-slicerform/pkg/spec"
	"github.com/goliatone/go-slicerform/pkg/value"
)

// Parser implements spec.Parser on top of encoding/xml.
type Parser struct {
	options spec.ParserOptions
}

// Ensure the implementation satisfies the public interface.
var _ spec.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options spec.ParserOptions) *Parser {
	if options.Logger == nil {
		options.Logger = spec.NewParserOptions().Logger
	}
	return &Parser{options: options}
}

// Parse converts the document into a Specification. Output parameters that
// are not files are left out of the tree and recorded in out.
func (p *Parser) Parse(ctx context.Context, doc schema.Document, out *spec.Outputs) (spec.Specification, error) {
	if err := ctx.Err(); err != nil {
		return spec.Specification{}, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return spec.Specification{}, fmt.Errorf("xmlspec: %w", schema.ErrEmptyDocument)
	}

	root, err := decodeTree(raw)
	if err != nil {
		return spec.Specification{}, fmt.Errorf("xmlspec: %w: %v", spec.ErrMalformedXML, err)
	}

	result := spec.Specification{Executable: p.executable(root)}

	var panelNodes []*node
	if root.name == "parameters" {
		panelNodes = append(panelNodes, root)
	}
	root.descendants("parameters", func(n *node) {
		panelNodes = append(panelNodes, n)
	})

	for _, el := range panelNodes {
		if err := ctx.Err(); err != nil {
			return spec.Specification{}, err
		}
		if panel, ok := p.panel(el, out); ok {
			result.Panels = append(result.Panels, panel)
		}
	}

	p.options.Logger.Debug("xmlspec: parsed specification",
		slog.String("location", doc.Location()),
		slog.Int("panels", len(result.Panels)),
		slog.Int("parameters", len(result.Parameters())),
	)
	return result, nil
}

func (p *Parser) executable(root *node) spec.Executable {
	field := func(name string) string {
		return strings.TrimSpace(root.child(name).text())
	}
	return spec.Executable{
		Category:         field("category"),
		Title:            p.cleanText(field("title")),
		Description:      p.cleanMarkup(field("description")),
		Version:          field("version"),
		DocumentationURL: field("documentation-url"),
		License:          field("license"),
		Contributor:      field("contributor"),
		Acknowledgements: p.cleanMarkup(field("acknowledgements")),
	}
}

// panel groups the direct children of a <parameters> element. Each <label>
// opens a group, an immediately following <description> describes it, and
// the remaining siblings up to the next <label> are its parameters.
func (p *Parser) panel(el *node, out *spec.Outputs) (spec.Panel, bool) {
	var groups []spec.Group
	children := el.children
	for i, c := range children {
		if c.name != "label" {
			continue
		}
		group := spec.Group{Label: p.cleanText(strings.TrimSpace(c.text()))}
		// A label without a following <description> still collects the
		// parameters after it.
		j := i + 1
		if j < len(children) && children[j].name == "description" {
			group.Description = p.cleanMarkup(strings.TrimSpace(children[j].text()))
			j++
		}
		for ; j < len(children) && children[j].name != "label"; j++ {
			switch children[j].name {
			case "description", "parameters":
				continue
			}
			if param, ok := p.parameter(children[j], out); ok {
				group.Parameters = append(group.Parameters, param)
			}
		}
		if len(group.Parameters) == 0 {
			continue
		}
		groups = append(groups, group)
	}

	if len(groups) == 0 {
		return spec.Panel{}, false
	}
	return spec.Panel{
		Advanced: strings.TrimSpace(el.attr("advanced")) == "true",
		Groups:   groups,
	}, true
}

func (p *Parser) parameter(el *node, out *spec.Outputs) (spec.Parameter, bool) {
	typ, known := spec.TypeForTag(el.name)

	id := childText(el, "name")
	if id == "" {
		id = childText(el, "longflag")
	}

	channel := spec.ChannelInput
	if c := childText(el, "channel"); c != "" {
		channel = spec.Channel(c)
	}

	// Outputs are recorded before the tag is checked, so an unknown output
	// tag still lands in Outputs with an empty type.
	if channel == spec.ChannelOutput && typ != spec.TypeFile && typ != spec.TypeImage {
		out.Record(id, typ)
		return spec.Parameter{}, false
	}

	if !known {
		p.options.Logger.Warn("xmlspec: unhandled parameter type", slog.String("tag", el.name))
		if p.options.Unhandled != nil {
			p.options.Unhandled(el.name)
		}
		return spec.Parameter{}, false
	}

	param := spec.Parameter{
		Type:        typ,
		SlicerType:  el.name,
		ID:          id,
		Title:       p.cleanText(childText(el, "label")),
		Description: p.cleanMarkup(childText(el, "description")),
		Channel:     channel,

		Flag:             childText(el, "flag"),
		LongFlag:         childText(el, "longflag"),
		Index:            index(el),
		Multiple:         strings.EqualFold(strings.TrimSpace(el.attr("multiple")), "true"),
		Reference:        attrOrChild(el, "reference"),
		DefaultNameMatch: attrOrChild(el, "defaultNameMatch"),
		DefaultPathMatch: attrOrChild(el, "defaultPathMatch"),
	}

	if channel == spec.ChannelOutput {
		param.Type = spec.TypeNewFile
		param.Extensions = strings.TrimSpace(el.attr("fileExtensions"))
		param.Required = param.Index != nil
	}

	if param.Type.IsEnumeration() {
		el.descendants("element", func(n *node) {
			param.Values = append(param.Values, value.Convert(param.Type, n.text()))
		})
	}

	if def := el.child("default"); def != nil {
		param.Value = value.Convert(param.Type, def.text())
	}

	if c := el.child("constraints"); c != nil {
		param.Min = constraint(c, "minimum")
		param.Max = constraint(c, "maximum")
		param.Step = constraint(c, "step")
	}

	return param, true
}

func (p *Parser) cleanText(s string) string {
	if p.options.Sanitizer == nil {
		return s
	}
	return p.options.Sanitizer.Text(s)
}

func (p *Parser) cleanMarkup(s string) string {
	if p.options.Sanitizer == nil {
		return s
	}
	return p.options.Sanitizer.Markup(s)
}

func childText(el *node, name string) string {
	return strings.TrimSpace(el.child(name).text())
}

func attrOrChild(el *node, name string) string {
	if v := strings.TrimSpace(el.attr(name)); v != "" {
		return v
	}
	return childText(el, name)
}

func index(el *node) *int {
	n := el.child("index")
	if n == nil {
		return nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(n.text()))
	if err != nil {
		// A present but unreadable index still marks the parameter positional.
		i = 0
	}
	return &i
}

func constraint(c *node, name string) *float64 {
	n := c.child(name)
	if n == nil {
		return nil
	}
	f := value.ToNumber(n.text())
	if !value.Finite(f) {
		return nil
	}
	return &f
}

// IsMalformed reports whether err came from a document that is not well-formed XML.
func IsMalformed(err error) bool {
	return errors.Is(err, spec.ErrMalformedXML)
}
