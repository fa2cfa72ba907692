// Package orchestrator wires the loader → format adapter → parser pipeline
// that turns a CLI description (Slicer XML, or a JSON/YAML description) into a
// Specification and a widget collection ready for input.
package orchestrator
