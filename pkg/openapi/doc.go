// Package openapi describes a Slicer CLI's `<restPath>/run` endpoint as an
// OpenAPI 3 operation so REST clients can be generated for a task without
// reading its XML.
package openapi
