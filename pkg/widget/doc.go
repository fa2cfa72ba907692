// Package widget wraps parsed Slicer parameters in stateful value models.
//
// A Model holds the raw user input for one parameter, coerces it on read and
// judges its validity lazily. A Collection owns the models of one form and
// flattens them into the string map posted to `<restPath>/run`.
//
// Models are owned by a single form and are not safe for concurrent
// mutation. Observers registered through OnChange and OnInvalid are invoked
// synchronously on the goroutine that calls Set or Validate.
package widget
