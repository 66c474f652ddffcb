// Package forms implements the composable form-field tree, the form
// data-binding lifecycle, the validator chain, and the HTTP submission
// state machine.
//
// A Form owns two FieldLists (fields and actions), a Validator, and a
// security token. Fields are addressed by name, may nest arbitrarily via
// CompositeField, and project themselves into a JSON schema for non-HTML
// renderers. The RequestHandler binds submitted request variables onto the
// saveable fields, runs validation, and dispatches the clicked action.
//
// Structural misuse (duplicate data-field names, malformed tab paths) is a
// programming error and panics. User input never panics: validation
// failures accumulate into a validate.Result and are translated into a
// response by the request handler.
package forms
