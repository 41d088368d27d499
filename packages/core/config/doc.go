// Package config handles configuration loading and management for bookspec.
//
// It provides functionality for:
//   - Loading configuration from .bookspec.json or .bookspec.yaml files
//   - Default configuration values
//   - BOOKSPEC_* environment variable overrides
package config
