// Package config loads and validates strata.yaml, the project-level
// configuration for the demo server and CLI. All settings have working
// defaults; a missing file is not an error.
package config
