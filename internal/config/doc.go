// Package config loads, normalizes, and validates cadenza configuration data.
//
// Defaults are layered under an ordered list of TOML files (later files
// override earlier ones) and command-line section/key=value overrides are
// applied last. Paths are expanded (including tilde shortcuts) and values
// validated before any component sees them.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
