// Package middleware provides HTTP middleware for form endpoints:
// Prometheus submission metrics and OpenTelemetry tracing. Both follow
// the standard func(http.Handler) http.Handler shape and compose with
// any chi router.
package middleware
