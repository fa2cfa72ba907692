// Package value holds the conversion rules shared by the XML parser (for
// <default> and <element> text) and the widget models (for live user input).
// Every function is pure and total: malformed input degrades to NaN, false or
// the empty string instead of an error, because validity is judged separately
// by the widget layer.
package value

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/goliatone/go-slicerform/pkg/spec"
)

// Convert maps a raw value (XML text or user input) onto the Go
// representation used for t:
//
//	number, range, number-enumeration  float64 (NaN when not numeric)
//	number-vector                      []float64
//	string-vector                      []string
//	boolean                            bool
//	color                              "#rrggbb" ("" when unparseable)
//	string, string-enumeration         string
//
// Region and file-like values are returned unchanged.
func Convert(t spec.Type, raw any) any {
	switch t {
	case spec.TypeNumber, spec.TypeRange, spec.TypeNumberEnumeration:
		return ToNumber(raw)
	case spec.TypeNumberVector:
		return ToNumberVector(raw)
	case spec.TypeStringVector:
		return ToStringVector(raw)
	case spec.TypeBoolean:
		return ToBool(raw)
	case spec.TypeColor:
		hex, _ := ToColor(raw)
		return hex
	case spec.TypeString, spec.TypeStringEnumeration:
		return ToString(raw)
	default:
		return raw
	}
}

// ToNumber converts raw into a float64. Empty or non-numeric input yields NaN.
func ToNumber(raw any) float64 {
	switch v := raw.(type) {
	case nil:
		return math.NaN()
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case uint:
		return float64(v)
	case uint64:
		return float64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		return parseNumber(v)
	case fmt.Stringer:
		return parseNumber(v.String())
	}
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return math.NaN()
}

func parseNumber(text string) float64 {
	s := strings.TrimSpace(text)
	if s == "" {
		return math.NaN()
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "0x") {
		n, err := strconv.ParseUint(lower[2:], 16, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	if strings.ContainsRune(s, '_') {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return f
		}
		return math.NaN()
	}
	return f
}

// ToBool applies truthiness. The strings "", "false", "0", "no" and "off"
// (any case) are false, every other non-empty string is true.
func ToBool(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "false", "0", "no", "off":
			return false
		}
		return true
	}
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		f := ToNumber(raw)
		return f != 0 && !math.IsNaN(f)
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// ToString renders raw as text. Numbers use FormatNumber and slices are joined
// with commas.
func ToString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return FormatNumber(v)
	case float32:
		return FormatNumber(float64(v))
	case fmt.Stringer:
		return v.String()
	}
	if items, ok := elements(raw); ok {
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = ToString(item)
		}
		return strings.Join(parts, ",")
	}
	if f := ToNumber(raw); !math.IsNaN(f) {
		return FormatNumber(f)
	}
	return fmt.Sprint(raw)
}

// ToNumberVector splits strings on commas and converts every element with
// ToNumber. Slices are converted element-wise.
func ToNumberVector(raw any) []float64 {
	items := vectorItems(raw)
	if items == nil {
		return nil
	}
	out := make([]float64, len(items))
	for i, item := range items {
		out[i] = ToNumber(item)
	}
	return out
}

// ToStringVector splits strings on commas, trimming whitespace around each
// element. Slices are converted element-wise.
func ToStringVector(raw any) []string {
	items := vectorItems(raw)
	if items == nil {
		return nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = strings.TrimSpace(ToString(item))
	}
	return out
}

func vectorItems(raw any) []any {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(v) == "" {
			return []any{}
		}
		parts := strings.Split(v, ",")
		out := make([]any, len(parts))
		for i, part := range parts {
			out[i] = strings.TrimSpace(part)
		}
		return out
	}
	if items, ok := elements(raw); ok {
		return items
	}
	return []any{raw}
}

func elements(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	case []float64:
		out := make([]any, len(v))
		for i, f := range v {
			out[i] = f
		}
		return out, true
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// FormatNumber renders f the way a browser prints numbers: integers without a
// fraction, exponent notation below 1e-6 and from 1e21 upwards.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs < 1e-6 || abs >= 1e21 {
		format = 'e'
	}
	b := strconv.AppendFloat(nil, f, format, -1, 64)
	if format == 'e' {
		// e-07 becomes e-7
		n := len(b)
		if n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}
	return string(b)
}

// Finite reports whether f is neither NaN nor infinite.
func Finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
