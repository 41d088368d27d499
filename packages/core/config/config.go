package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/bookspec/packages/core/env"
	"github.com/abdul-hamid-achik/bookspec/packages/models"
	"gopkg.in/yaml.v3"
)

// Config represents the bookspec configuration
type Config struct {
	BaseURL         string            `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
	Timeout         int               `json:"timeout,omitempty" yaml:"timeout,omitempty"` // milliseconds
	FollowRedirects *bool             `json:"followRedirects,omitempty" yaml:"followRedirects,omitempty"`
	ValidateSSL     *bool             `json:"validateSSL,omitempty" yaml:"validateSSL,omitempty"`
	Proxy           string            `json:"proxy,omitempty" yaml:"proxy,omitempty"`
	Headers         map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	RateLimit       float64           `json:"rateLimit,omitempty" yaml:"rateLimit,omitempty"` // requests per second
	UserName        string            `json:"userName,omitempty" yaml:"userName,omitempty"`
	Password        string            `json:"password,omitempty" yaml:"password,omitempty"`
	LogTemplate     string            `json:"logTemplate,omitempty" yaml:"logTemplate,omitempty"`
	Reporters       []string          `json:"reporters,omitempty" yaml:"reporters,omitempty"`
	ReportDir       string            `json:"reportDir,omitempty" yaml:"reportDir,omitempty"`
	Bail            *bool             `json:"bail,omitempty" yaml:"bail,omitempty"`
	Repeat          int               `json:"repeat,omitempty" yaml:"repeat,omitempty"`
	Verbose         *bool             `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	NoColor         *bool             `json:"noColor,omitempty" yaml:"noColor,omitempty"`
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetFollowRedirects returns the follow redirects setting, defaulting to true
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, true)
}

// GetValidateSSL returns the validate SSL setting, defaulting to true
func (c *Config) GetValidateSSL() bool {
	return getBool(c.ValidateSSL, true)
}

// GetBail returns the bail setting, defaulting to false
func (c *Config) GetBail() bool {
	return getBool(c.Bail, false)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// TimeoutDuration returns Timeout as a duration.
func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Millisecond
}

// Credentials returns the account used by the token scenarios.
func (c *Config) Credentials() models.Credentials {
	return models.Credentials{UserName: c.UserName, Password: c.Password}
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".bookspec.json",
	"bookspec.json",
	".bookspec.yaml",
	".bookspec.yml",
	"bookspec.yaml",
	"bookspec.yml",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	if path := FindConfigFile(dir); path != "" {
		return loadConfigFromFile(path)
	}

	return DefaultConfig(), nil
}

// FindConfigFile returns the first config file present in dir, or "".
func FindConfigFile(dir string) string {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}
	return ""
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// loadConfigFromFile loads configuration from a specific file
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return config, nil
}

// ApplyEnv overrides fields from BOOKSPEC_* variables.
func (c *Config) ApplyEnv(lookup env.LookupFunc) *Config {
	result := *c
	p := env.Prefix

	result.BaseURL = env.String(lookup, p+"BASE_URL", result.BaseURL)
	result.Timeout = env.Int(lookup, p+"TIMEOUT", result.Timeout)
	result.Proxy = env.String(lookup, p+"PROXY", result.Proxy)
	result.RateLimit = env.Float(lookup, p+"RATE_LIMIT", result.RateLimit)
	result.UserName = env.String(lookup, p+"USERNAME", result.UserName)
	result.Password = env.String(lookup, p+"PASSWORD", result.Password)
	result.LogTemplate = env.String(lookup, p+"LOG_TEMPLATE", result.LogTemplate)
	result.ReportDir = env.String(lookup, p+"REPORT_DIR", result.ReportDir)
	result.Repeat = env.Int(lookup, p+"REPEAT", result.Repeat)

	if v, ok := lookup(p + "INSECURE"); ok && v != "" {
		result.ValidateSSL = BoolPtr(!env.Bool(lookup, p+"INSECURE", false))
	}
	if v, ok := lookup(p + "BAIL"); ok && v != "" {
		result.Bail = BoolPtr(env.Bool(lookup, p+"BAIL", false))
	}
	if v, ok := lookup(p + "VERBOSE"); ok && v != "" {
		result.Verbose = BoolPtr(env.Bool(lookup, p+"VERBOSE", false))
	}
	if v, ok := lookup(p + "NO_COLOR"); ok && v != "" {
		result.NoColor = BoolPtr(env.Bool(lookup, p+"NO_COLOR", false))
	}

	return &result
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.BaseURL != "" {
		result.BaseURL = other.BaseURL
	}
	if other.Timeout > 0 {
		result.Timeout = other.Timeout
	}
	if other.Proxy != "" {
		result.Proxy = other.Proxy
	}
	if other.RateLimit > 0 {
		result.RateLimit = other.RateLimit
	}
	if other.UserName != "" {
		result.UserName = other.UserName
	}
	if other.Password != "" {
		result.Password = other.Password
	}
	if other.LogTemplate != "" {
		result.LogTemplate = other.LogTemplate
	}
	if other.ReportDir != "" {
		result.ReportDir = other.ReportDir
	}
	if other.Repeat > 0 {
		result.Repeat = other.Repeat
	}

	// Boolean flags - only override if explicitly set in other config
	if other.FollowRedirects != nil {
		result.FollowRedirects = other.FollowRedirects
	}
	if other.ValidateSSL != nil {
		result.ValidateSSL = other.ValidateSSL
	}
	if other.Bail != nil {
		result.Bail = other.Bail
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	if len(other.Headers) > 0 {
		headers := make(map[string]string, len(result.Headers)+len(other.Headers))
		for k, v := range result.Headers {
			headers[k] = v
		}
		for k, v := range other.Headers {
			headers[k] = v
		}
		result.Headers = headers
	}

	if len(other.Reporters) > 0 {
		result.Reporters = other.Reporters
	}

	return &result
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("baseURL is required")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("baseURL must start with http:// or https://, got %q", c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rateLimit must not be negative")
	}
	if c.Repeat < 0 {
		return fmt.Errorf("repeat must not be negative")
	}
	return nil
}

// SaveConfig saves the configuration to a file, as YAML when the extension
// says so and JSON otherwise.
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
