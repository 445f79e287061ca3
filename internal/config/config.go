package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	yaml "gopkg.in/yaml.v2"
)

const (
	// EnvConfigPath names the config file when --config is not given.
	EnvConfigPath = "SARIFLINT_CONFIG"
	// DefaultConfigFile is read from the working directory when present.
	DefaultConfigFile = "sariflint.yml"

	DefaultThreads   = 4
	MaxThreads       = 64
	DefaultFailLevel = "error"
)

type Config struct {
	Logger     Logger                `yaml:"logger"`
	Validation Validation            `yaml:"validation"`
	Rules      map[string]RuleConfig `yaml:"rules"`
}

type Logger struct {
	Level           string `yaml:"level"`
	JSONFormat      *bool  `yaml:"json_format"`
	DisableTime     *bool  `yaml:"disable_time"`
	IncludeLocation *bool  `yaml:"include_location"`
}

type Validation struct {
	// Threads is the number of documents validated concurrently.
	Threads int `yaml:"threads"`
	// FailLevel is the lowest diagnostic level that fails a validation.
	FailLevel string `yaml:"fail_level"`
}

// RuleConfig overrides the defaults of one rule.
type RuleConfig struct {
	Enabled *bool             `yaml:"enabled"`
	Level   string            `yaml:"level"`
	Options map[string]string `yaml:"options"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Validation: Validation{
			Threads:   DefaultThreads,
			FailLevel: DefaultFailLevel,
		},
	}
}

// ValidateConfigPath checks that path names an existing regular file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes the YAML file at configPath into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	d.SetStrict(true)
	if err := d.Decode(data); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// NewConfig reads the file at configPath over the defaults.
func NewConfig(configPath string) (*Config, error) {
	cfg := Default()

	if err := LoadYAML(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config %q: %w", configPath, err)
	}
	cfg.applyDefaults()

	return cfg, nil
}

// ResolvePath picks the config file to load: the explicit path, then the
// SARIFLINT_CONFIG variable, then sariflint.yml when it exists. An empty
// result means the defaults apply.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	if ValidateConfigPath(DefaultConfigFile) == nil {
		return DefaultConfigFile
	}
	return ""
}

// LoadConfig loads the config resolved from explicit, or the defaults.
func LoadConfig(explicit string) (*Config, error) {
	path := ResolvePath(explicit)
	if path == "" {
		return Default(), nil
	}
	return NewConfig(path)
}

func (c *Config) applyDefaults() {
	c.Validation.Threads = SetThen(c.Validation.Threads, DefaultThreads)
	c.Validation.FailLevel = SetThen(c.Validation.FailLevel, DefaultFailLevel)
}

// Rule returns the overrides of rule id, if any.
func (c *Config) Rule(id string) (RuleConfig, bool) {
	if c == nil {
		return RuleConfig{}, false
	}
	rc, ok := c.Rules[id]
	return rc, ok
}
