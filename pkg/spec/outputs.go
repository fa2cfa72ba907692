package spec

// ReturnParameterFileID is the synthetic parameter Slicer CLIs use to write
// simple (non-file) outputs.
const ReturnParameterFileID = "returnparameterfile"

// ReturnParameterPanel builds the panel offering a file for simple outputs.
func ReturnParameterPanel() Panel {
	return Panel{
		Advanced: true,
		Groups: []Group{{
			Label:       "Parameter outputs",
			Description: "Filename in which to write simple return parameters.",
			Parameters: []Parameter{{
				Type:        TypeNewFile,
				SlicerType:  "file",
				ID:          ReturnParameterFileID,
				Title:       "Parameter output file",
				Description: "Filename in which to write simple return parameters (integer, float, integer-vector, etc.) as opposed to bulk return parameters.",
				Channel:     ChannelOutput,
				Extensions:  ".params",
			}},
		}},
	}
}

// WithReturnParameterPanel appends ReturnParameterPanel when out reports
// declared outputs that were excluded from the tree. The input specification
// is not modified.
func WithReturnParameterPanel(s Specification, out *Outputs) Specification {
	if out == nil || !out.Output {
		return s
	}
	if _, exists := s.Parameter(ReturnParameterFileID); exists {
		return s
	}
	panels := make([]Panel, 0, len(s.Panels)+1)
	panels = append(panels, s.Panels...)
	panels = append(panels, ReturnParameterPanel())
	s.Panels = panels
	return s
}
