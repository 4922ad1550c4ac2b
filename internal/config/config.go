package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/puppetutils/go-hiera"
)

const (
	defaultBinary         = "hiera"
	defaultRateLimitRPS   = 0.0
	defaultRateLimitBurst = 0
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	HieraConfig    string
	Binary         string
	Vars           *hiera.Vars
	RateLimitRPS   float64
	RateLimitBurst int
	Verbose        bool
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	HieraConfig string        `yaml:"config"`
	Binary      string        `yaml:"binary"`
	Vars        []yamlVar     `yaml:"vars"`
	RateLimit   yamlRateLimit `yaml:"rate_limit"`
	Verbose     bool          `yaml:"verbose"`
}

// yamlVar represents one context variable entry in YAML. A list keeps the
// declared order, unlike a YAML mapping decoded into a Go map.
type yamlVar struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	HieraConfig    *string
	Binary         *string
	Vars           []string
	RateLimitRPS   *float64
	RateLimitBurst *int
	Verbose        *bool
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Load from YAML file if specified
	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	// Apply environment variables (override YAML)
	if err := applyEnvConfig(&cfg); err != nil {
		return Config{}, err
	}

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		if err := applyCLIOverrides(&cfg, overrides); err != nil {
			return Config{}, err
		}
	}

	// Validate final configuration
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Binary:         defaultBinary,
		Vars:           hiera.NewVars(),
		RateLimitRPS:   defaultRateLimitRPS,
		RateLimitBurst: defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	if yamlCfg.HieraConfig != "" {
		cfg.HieraConfig = yamlCfg.HieraConfig
	}

	if yamlCfg.Binary != "" {
		cfg.Binary = yamlCfg.Binary
	}

	for _, v := range yamlCfg.Vars {
		if v.Name != "" {
			cfg.Vars.Set(v.Name, v.Value)
		}
	}

	if yamlCfg.RateLimit.RPS > 0 {
		cfg.RateLimitRPS = yamlCfg.RateLimit.RPS
	}

	if yamlCfg.RateLimit.Burst > 0 {
		cfg.RateLimitBurst = yamlCfg.RateLimit.Burst
	}

	if yamlCfg.Verbose {
		cfg.Verbose = true
	}
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) error {
	if path := strings.TrimSpace(os.Getenv("HIERA_CONFIG")); path != "" {
		cfg.HieraConfig = path
	}

	if binary := strings.TrimSpace(os.Getenv("HIERA_BINARY")); binary != "" {
		cfg.Binary = binary
	}

	if rawVars := strings.TrimSpace(os.Getenv("HIERA_VARS")); rawVars != "" {
		if err := applyVarTokens(cfg.Vars, strings.Split(rawVars, ",")); err != nil {
			return fmt.Errorf("HIERA_VARS: %w", err)
		}
	}

	if rps := strings.TrimSpace(os.Getenv("HIERA_RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("HIERA_RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}

	return nil
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) error {
	if overrides.HieraConfig != nil && *overrides.HieraConfig != "" {
		cfg.HieraConfig = *overrides.HieraConfig
	}

	if overrides.Binary != nil && *overrides.Binary != "" {
		cfg.Binary = *overrides.Binary
	}

	if len(overrides.Vars) > 0 {
		if err := applyVarTokens(cfg.Vars, overrides.Vars); err != nil {
			return fmt.Errorf("parse vars: %w", err)
		}
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}

	if overrides.Verbose != nil {
		cfg.Verbose = *overrides.Verbose
	}

	return nil
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.HieraConfig == "" {
		return fmt.Errorf("hiera configuration file path is required")
	}
	if cfg.Binary == "" {
		return fmt.Errorf("hiera binary must not be empty")
	}
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("HIERA_RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("HIERA_RATE_LIMIT_BURST must be >= 0")
	}
	return nil
}

// applyVarTokens parses name=value tokens into vars, keeping token order.
// Only the first '=' splits, so values may contain '=' characters.
func applyVarTokens(vars *hiera.Vars, tokens []string) error {
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		name, value, ok := strings.Cut(token, "=")
		if !ok || name == "" {
			return fmt.Errorf("invalid variable %q, expected name=value", token)
		}
		vars.Set(name, value)
	}
	return nil
}
