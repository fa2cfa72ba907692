package widget

import (
	"strings"
	"time"

	"github.com/goliatone/go-slicerform/pkg/spec"
)

// timestampLayout matches ISO 8601 with a numeric zone offset.
const timestampLayout = "2006-01-02T15:04:05-07:00"

// DefaultOutputName builds the suggested name for an output file:
//
//	<reference>-<prefix>-<title>-<timestamp><ext>
//
// The reference part is the referenced input's name without its extension
// and is omitted when reference is empty. The title is omitted for the
// return-parameter file. ext is the first entry of the parameter's
// "|"-separated extensions.
func DefaultOutputName(prefix string, m *Model, reference string, now time.Time) string {
	p := m.Parameter()
	ext, _, _ := strings.Cut(p.Extensions, "|")

	var b strings.Builder
	if reference != "" {
		if dot := strings.LastIndex(reference, "."); dot > 0 {
			reference = reference[:dot]
		}
		b.WriteString(reference)
		b.WriteByte('-')
	}
	b.WriteString(prefix)
	if p.ID != spec.ReturnParameterFileID {
		b.WriteByte('-')
		b.WriteString(p.Title)
	}
	b.WriteByte('-')
	b.WriteString(now.Format(timestampLayout))
	b.WriteString(ext)
	return b.String()
}
