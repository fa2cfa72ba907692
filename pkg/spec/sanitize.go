package spec

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans text pulled from XML before it reaches a renderer. Text is
// used for single-line fields (labels, titles) and Markup for descriptions,
// which Slicer tools often write with inline HTML.
type Sanitizer interface {
	Text(string) string
	Markup(string) string
}

type htmlSanitizer struct {
	strict *bluemonday.Policy
	ugc    *bluemonday.Policy
}

var (
	htmlOnce    sync.Once
	htmlDefault *htmlSanitizer
)

// HTMLSanitizer returns a shared bluemonday-backed sanitizer: titles lose all
// markup, descriptions keep user-generated-content safe tags.
func HTMLSanitizer() Sanitizer {
	htmlOnce.Do(func() {
		htmlDefault = &htmlSanitizer{
			strict: bluemonday.StrictPolicy(),
			ugc:    bluemonday.UGCPolicy(),
		}
	})
	return htmlDefault
}

func (s *htmlSanitizer) Text(in string) string {
	return strings.TrimSpace(s.strict.Sanitize(in))
}

func (s *htmlSanitizer) Markup(in string) string {
	return strings.TrimSpace(s.ugc.Sanitize(in))
}
