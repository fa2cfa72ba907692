// Package slicerform turns Slicer CLI parameter descriptions into typed,
// validated form models and flattens their values for submission to a Girder
// slicer_cli_web endpoint.
//
//	s, coll, err := slicerform.Form(ctx, "cli.xml", xmlText)
//	if err != nil { ... }
//	_ = coll.Set("threshold", "0.4")
//	if err := coll.Validate(); err != nil { ... }
//	values := coll.Values()
package slicerform
