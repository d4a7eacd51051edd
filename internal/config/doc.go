// Package config loads the relay's YAML configuration, applies defaults and
// environment overrides, and validates the result.
package config
