// Package config loads the run configuration for the Travelpac report
// pipeline. Values come from an optional YAML file, overridden by
// TRAVELPAC_-prefixed environment variables, and are validated before use.
package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "travelpac/internal/errors"
)

// DefaultConfigFile is consulted when no explicit config path is given.
const DefaultConfigFile = "travelpac.yml"

// Defaults applied to fields left unset by both file and environment.
const (
	DefaultSheetName        = "Travelpac"
	DefaultOutputDir        = "reports"
	DefaultTopCountryLimit  = 10
	DefaultSpendPerNightCap = 500
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
)

// Config is the complete run configuration.
type Config struct {
	Input    InputConfig    `yaml:"input" envconfig:"INPUT"`
	Output   OutputConfig   `yaml:"output" envconfig:"OUTPUT"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
}

// InputConfig locates the source workbook.
type InputConfig struct {
	WorkbookPath string `yaml:"workbook_path" envconfig:"WORKBOOK_PATH" validate:"required"`
	SheetName    string `yaml:"sheet_name" envconfig:"SHEET_NAME" validate:"required"`
}

// OutputConfig locates the rendered artifacts.
type OutputConfig struct {
	Dir string `yaml:"dir" envconfig:"DIR" validate:"required"`
}

// AnalysisConfig holds the fixed analysis parameters.
type AnalysisConfig struct {
	// TopCountryLimit is the number of destination countries kept in the
	// visits ranking.
	TopCountryLimit int `yaml:"top_country_limit" envconfig:"TOP_COUNTRY_LIMIT" validate:"min=1"`
	// SpendPerNightCap bounds the per-night series used for plotting;
	// observations at or above the cap are treated as outliers.
	SpendPerNightCap float64 `yaml:"spend_per_night_cap" envconfig:"SPEND_PER_NIGHT_CAP" validate:"gt=0"`
}

// LoggingConfig controls the slog setup.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=text json"`
}

// Overrides carries command-line values, which take precedence over both
// the environment and the config file.
type Overrides struct {
	WorkbookPath string
	SheetName    string
	OutputDir    string
}

// Load reads configuration from the default YAML file (if present) and the
// environment, then validates the result.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom reads configuration from the given YAML file (if present) and the
// environment. Environment variables take precedence over file values;
// defaults fill whatever is left unset.
func LoadFrom(configFile string) (*Config, error) {
	return LoadWithOverrides(configFile, Overrides{})
}

// LoadWithOverrides is LoadFrom with command-line overrides applied before
// validation.
func LoadWithOverrides(configFile string, overrides Overrides) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(configFile); err == nil {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, apperrors.NewConfigError("failed to read config file", err).
				WithContext("path", configFile)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to parse config file", err).
				WithContext("path", configFile)
		}
	}

	var env Config
	if err := envconfig.Process("TRAVELPAC", &env); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from environment", err)
	}
	cfg.merge(env)

	if overrides.WorkbookPath != "" {
		cfg.Input.WorkbookPath = overrides.WorkbookPath
	}
	if overrides.SheetName != "" {
		cfg.Input.SheetName = overrides.SheetName
	}
	if overrides.OutputDir != "" {
		cfg.Output.Dir = overrides.OutputDir
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// merge overlays the non-zero fields of env onto the config.
func (c *Config) merge(env Config) {
	if env.Input.WorkbookPath != "" {
		c.Input.WorkbookPath = env.Input.WorkbookPath
	}
	if env.Input.SheetName != "" {
		c.Input.SheetName = env.Input.SheetName
	}
	if env.Output.Dir != "" {
		c.Output.Dir = env.Output.Dir
	}
	if env.Analysis.TopCountryLimit != 0 {
		c.Analysis.TopCountryLimit = env.Analysis.TopCountryLimit
	}
	if env.Analysis.SpendPerNightCap != 0 {
		c.Analysis.SpendPerNightCap = env.Analysis.SpendPerNightCap
	}
	if env.Logging.Level != "" {
		c.Logging.Level = env.Logging.Level
	}
	if env.Logging.Format != "" {
		c.Logging.Format = env.Logging.Format
	}
}

// applyDefaults fills fields left unset by both file and environment.
func (c *Config) applyDefaults() {
	if c.Input.SheetName == "" {
		c.Input.SheetName = DefaultSheetName
	}
	if c.Output.Dir == "" {
		c.Output.Dir = DefaultOutputDir
	}
	if c.Analysis.TopCountryLimit == 0 {
		c.Analysis.TopCountryLimit = DefaultTopCountryLimit
	}
	if c.Analysis.SpendPerNightCap == 0 {
		c.Analysis.SpendPerNightCap = DefaultSpendPerNightCap
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}
	return nil
}
