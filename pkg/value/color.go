package value

import (
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ToColor normalises a CSS color name, "#rgb", "#rrggbb", "rgb(r, g, b)",
// "rgba(r, g, b, a)" or a numeric triple into lowercase "#rrggbb". The boolean
// is false when raw cannot be read as a color.
func ToColor(raw any) (string, bool) {
	switch v := raw.(type) {
	case nil:
		return "", false
	case string:
		return parseColorString(v)
	case colorful.Color:
		if !v.IsValid() {
			return "", false
		}
		return v.Hex(), true
	}
	items, ok := elements(raw)
	if !ok {
		return "", false
	}
	return colorFromChannels(items)
}

func parseColorString(text string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return "", false
	}

	if strings.HasPrefix(s, "#") {
		if !isHexColor(s) {
			return "", false
		}
		c, err := colorful.Hex(s)
		if err != nil {
			return "", false
		}
		return c.Hex(), true
	}

	if fn, args, ok := splitFunction(s); ok && (fn == "rgb" || fn == "rgba") {
		parts := strings.Split(args, ",")
		if len(parts) < 3 || len(parts) > 4 {
			return "", false
		}
		items := make([]any, 3)
		for i := 0; i < 3; i++ {
			items[i] = strings.TrimSpace(parts[i])
		}
		return colorFromChannels(items)
	}

	if named, ok := colornames.Map[s]; ok {
		c, _ := colorful.MakeColor(named)
		return c.Hex(), true
	}
	return "", false
}

func isHexColor(s string) bool {
	digits := s[1:]
	if len(digits) != 3 && len(digits) != 6 {
		return false
	}
	for _, r := range digits {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}

func splitFunction(s string) (string, string, bool) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", "", false
	}
	return strings.TrimSpace(s[:open]), s[open+1 : len(s)-1], true
}

// colorFromChannels accepts three 0-255 channels, optionally followed by an
// alpha channel which is ignored.
func colorFromChannels(items []any) (string, bool) {
	if len(items) != 3 && len(items) != 4 {
		return "", false
	}
	var rgb [3]float64
	for i := 0; i < 3; i++ {
		channel := channelValue(items[i])
		if !Finite(channel) || channel < 0 || channel > 255 {
			return "", false
		}
		rgb[i] = channel / 255
	}
	return colorful.Color{R: rgb[0], G: rgb[1], B: rgb[2]}.Hex(), true
}

func channelValue(raw any) float64 {
	if s, ok := raw.(string); ok {
		s = strings.TrimSpace(s)
		if strings.HasSuffix(s, "%") {
			pct, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
			if err != nil {
				return math.NaN()
			}
			return math.Round(pct * 255 / 100)
		}
	}
	return ToNumber(raw)
}
