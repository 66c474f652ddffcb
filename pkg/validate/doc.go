// Package validate provides the validation result accumulator shared by the
// forms subsystem.
//
// A Result collects field-scoped and form-scoped messages produced by one
// validation pass. Results are never thrown; validators return them and the
// request handler translates them into a response. The one exception is
// Error, the explicit business rejection an action handler may return, which
// wraps a Result and is caught exactly once at the dispatch boundary.
package validate
