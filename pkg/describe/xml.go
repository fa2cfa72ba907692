package describe

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-slicerform/pkg/value"
)

// Description is the JSON/YAML form of a Slicer CLI. YAML decoding accepts
// JSON documents unchanged.
type Description struct {
	Category         string             `yaml:"category" json:"category,omitempty"`
	Title            string             `yaml:"title" json:"title,omitempty"`
	Description      string             `yaml:"description" json:"description,omitempty"`
	Version          string             `yaml:"version" json:"version,omitempty"`
	License          string             `yaml:"license" json:"license,omitempty"`
	Contributor      string             `yaml:"contributor" json:"contributor,omitempty"`
	DocumentationURL string             `yaml:"documentation_url" json:"documentation_url,omitempty"`
	Acknowledgements string             `yaml:"acknowledgements" json:"acknowledgements,omitempty"`
	ParameterGroups  []GroupDescription `yaml:"parameter_groups" json:"parameter_groups,omitempty"`
}

// GroupDescription becomes one <parameters> element.
type GroupDescription struct {
	Label       string                 `yaml:"label" json:"label,omitempty"`
	Description string                 `yaml:"description" json:"description,omitempty"`
	Advanced    bool                   `yaml:"advanced" json:"advanced,omitempty"`
	Parameters  []ParameterDescription `yaml:"parameters" json:"parameters,omitempty"`
}

// ParameterDescription becomes one parameter element named after Type.
type ParameterDescription struct {
	Type             string       `yaml:"type" json:"type"`
	Name             string       `yaml:"name" json:"name,omitempty"`
	Label            string       `yaml:"label" json:"label,omitempty"`
	Description      string       `yaml:"description" json:"description,omitempty"`
	Flag             string       `yaml:"flag" json:"flag,omitempty"`
	LongFlag         string       `yaml:"longflag" json:"longflag,omitempty"`
	Index            *int         `yaml:"index" json:"index,omitempty"`
	Channel          string       `yaml:"channel" json:"channel,omitempty"`
	Multiple         bool         `yaml:"multiple" json:"multiple,omitempty"`
	CoordinateSystem string       `yaml:"coordinateSystem" json:"coordinateSystem,omitempty"`
	FileExtensions   string       `yaml:"fileExtensions" json:"fileExtensions,omitempty"`
	ImageType        string       `yaml:"image_type" json:"image_type,omitempty"`
	TableType        string       `yaml:"table_type" json:"table_type,omitempty"`
	GeometryType     string       `yaml:"geometry_type" json:"geometry_type,omitempty"`
	TransformType    string       `yaml:"transform_type" json:"transform_type,omitempty"`
	Default          any          `yaml:"default" json:"default,omitempty"`
	Enumeration      []any        `yaml:"enumeration" json:"enumeration,omitempty"`
	Constraints      *Constraints `yaml:"constraints" json:"constraints,omitempty"`
	Reference        any          `yaml:"reference" json:"reference,omitempty"`
}

// Constraints maps onto <constraints>.
type Constraints struct {
	Minimum any `yaml:"minimum" json:"minimum,omitempty"`
	Maximum any `yaml:"maximum" json:"maximum,omitempty"`
	Step    any `yaml:"step" json:"step,omitempty"`
}

// ParseDescription decodes a JSON or YAML CLI description.
func ParseDescription(data []byte) (Description, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Description{}, errors.New("describe: description is empty")
	}
	var desc Description
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return Description{}, fmt.Errorf("describe: decode description: %w", err)
	}
	return desc, nil
}

// ToXML converts a JSON or YAML CLI description into Slicer XML.
func ToXML(data []byte) ([]byte, error) {
	desc, err := ParseDescription(data)
	if err != nil {
		return nil, err
	}
	return desc.XML()
}

// XML renders the description as an indented Slicer <executable> document.
func (d Description) XML() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	w := &writer{enc: xml.NewEncoder(&buf)}
	w.enc.Indent("", "  ")

	w.open("executable")
	w.leaf("category", d.Category)
	w.leaf("title", d.Title)
	w.leaf("description", d.Description)
	w.leaf("version", d.Version)
	w.leaf("documentation-url", d.DocumentationURL)
	w.leaf("license", d.License)
	w.leaf("contributor", d.Contributor)
	w.leaf("acknowledgements", d.Acknowledgements)

	for _, group := range d.ParameterGroups {
		var attrs []xml.Attr
		if group.Advanced {
			attrs = append(attrs, attr("advanced", "true"))
		}
		w.open("parameters", attrs...)
		w.leaf("label", group.Label)
		w.leaf("description", group.Description)
		for _, param := range group.Parameters {
			w.parameter(param)
		}
		w.close("parameters")
	}
	w.close("executable")

	if w.err == nil {
		w.err = w.enc.Flush()
	}
	if w.err != nil {
		return nil, fmt.Errorf("describe: encode xml: %w", w.err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

type writer struct {
	enc *xml.Encoder
	err error
}

func attr(name, v string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: v}
}

func (w *writer) token(t xml.Token) {
	if w.err != nil {
		return
	}
	w.err = w.enc.EncodeToken(t)
}

func (w *writer) open(name string, attrs ...xml.Attr) {
	w.token(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
}

func (w *writer) close(name string) {
	w.token(xml.EndElement{Name: xml.Name{Local: name}})
}

func (w *writer) text(name, text string, attrs ...xml.Attr) {
	w.open(name, attrs...)
	w.token(xml.CharData(text))
	w.close(name)
}

// leaf writes <name>text</name>, skipping empty text.
func (w *writer) leaf(name, text string) {
	if text == "" {
		return
	}
	w.text(name, text)
}

func (w *writer) parameter(p ParameterDescription) {
	if strings.TrimSpace(p.Type) == "" {
		if w.err == nil {
			w.err = fmt.Errorf("parameter %q has no type", p.Name)
		}
		return
	}

	var attrs []xml.Attr
	if p.Multiple {
		attrs = append(attrs, attr("multiple", "true"))
	}
	if p.CoordinateSystem != "" {
		attrs = append(attrs, attr("coordinateSystem", p.CoordinateSystem))
	}
	if p.FileExtensions != "" {
		attrs = append(attrs, attr("fileExtensions", p.FileExtensions))
	}
	for _, kind := range []string{p.ImageType, p.TableType, p.GeometryType, p.TransformType} {
		if kind != "" {
			attrs = append(attrs, attr("type", kind))
			break
		}
	}
	if ref, ok := p.Reference.(string); ok && ref != "" {
		attrs = append(attrs, attr("reference", ref))
	}

	w.open(p.Type, attrs...)
	w.leaf("label", p.Label)
	w.leaf("description", p.Description)
	w.leaf("name", p.Name)
	w.leaf("flag", p.Flag)
	w.leaf("longflag", p.LongFlag)
	if p.Index != nil {
		w.text("index", fmt.Sprint(*p.Index))
	}
	w.leaf("channel", p.Channel)

	if p.Default != nil {
		w.text("default", defaultText(p.Type, p.Default))
	}
	for _, el := range p.Enumeration {
		w.text("element", value.ToString(el))
	}
	if c := p.Constraints; c != nil {
		w.open("constraints")
		w.leafValue("minimum", c.Minimum)
		w.leafValue("maximum", c.Maximum)
		w.leafValue("step", c.Step)
		w.close("constraints")
	}
	if ref, ok := p.Reference.(map[string]any); ok {
		var refAttrs []xml.Attr
		for _, key := range []string{"role", "parameter"} {
			if v, ok := ref[key]; ok {
				refAttrs = append(refAttrs, attr(key, value.ToString(v)))
			}
		}
		w.text("reference", value.ToString(ref["value"]), refAttrs...)
	}
	w.close(p.Type)
}

func (w *writer) leafValue(name string, v any) {
	if v == nil {
		return
	}
	w.text(name, value.ToString(v))
}

// defaultText flattens vector defaults to comma separated text and region
// defaults given as {center, radius} to "cx,cy,cz,rx,ry,rz".
func defaultText(typ string, v any) string {
	if typ == "region" {
		if m, ok := v.(map[string]any); ok {
			center, _ := m["center"].(map[string]any)
			radius, _ := m["radius"].(map[string]any)
			parts := []string{
				value.ToString(center["x"]), value.ToString(center["y"]), value.ToString(center["z"]),
				value.ToString(radius["x"]), value.ToString(radius["y"]), value.ToString(radius["z"]),
			}
			return strings.Join(parts, ",")
		}
	}
	return value.ToString(v)
}
