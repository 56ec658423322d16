package richtext

import (
	_ "embed"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

//go:embed example-config.yaml
var ExampleConfig string

// ResolverConfig configures the XRPC handle resolver.
type ResolverConfig struct {
	ServiceURL string        `yaml:"service_url"`
	Timeout    time.Duration `yaml:"timeout"`
	CacheSize  int           `yaml:"cache_size"`
}

// Config holds the library and CLI configuration.
type Config struct {
	MaxGraphemes      int            `yaml:"max_graphemes"`
	ShortURLPathLimit int            `yaml:"short_url_path_limit"`
	LogLevel          string         `yaml:"log_level"`
	Resolver          ResolverConfig `yaml:"resolver"`
}

var (
	defaultConfig     *Config
	defaultConfigOnce sync.Once
)

// DefaultConfig returns the default configuration (singleton) decoded from
// ExampleConfig. Use LoadConfig or a copy to change values.
func DefaultConfig() *Config {
	defaultConfigOnce.Do(func() {
		cfg, err := ParseConfig([]byte(ExampleConfig), &Config{})
		if err != nil {
			panic(fmt.Sprintf("richtext: invalid embedded config: %v", err))
		}
		defaultConfig = cfg
	})
	return defaultConfig
}

// ParseConfig decodes YAML data on top of base and validates the result.
func ParseConfig(data []byte, base *Config) (*Config, error) {
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig reads a YAML file and overlays it on the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data, DefaultConfig())
}

// Validate checks that the configured values are usable.
func (c *Config) Validate() error {
	if c.MaxGraphemes <= 0 {
		return fmt.Errorf("max_graphemes must be positive, got %d", c.MaxGraphemes)
	}
	if c.ShortURLPathLimit < 4 {
		return fmt.Errorf("short_url_path_limit must be at least 4, got %d", c.ShortURLPathLimit)
	}
	if c.Resolver.CacheSize < 0 {
		return fmt.Errorf("resolver.cache_size must not be negative, got %d", c.Resolver.CacheSize)
	}
	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	return nil
}

// Level returns the configured log level, defaulting to info.
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return level
}

// Options returns the parse/finalize options implied by the configuration.
func (c *Config) Options() []Option {
	return []Option{
		WithShortURLPathLimit(c.ShortURLPathLimit),
	}
}
