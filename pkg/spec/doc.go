// Package spec defines the parse tree produced from Slicer execution-model
// XML documents: a Specification holds Panels, Panels hold Groups and Groups
// hold Parameters. The parser implementation lives under internal/xmlspec and
// is constructed through the top-level slicerform package; this package only
// carries the contracts and plain data so renderers, the widget layer and the
// REST helpers can share them without import cycles.
package spec
