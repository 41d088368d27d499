package config

import "github.com/abdul-hamid-achik/bookspec/packages/bookstore"

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     bookstore.DefaultBaseURL,
		Timeout:     30000, // 30 seconds
		LogTemplate: "custom",
		Reporters:   []string{"console"},
		Repeat:      1,
	}
}
