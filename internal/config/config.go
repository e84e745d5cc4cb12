// Package config provides configuration management for the hedging
// environment and its runner.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"

	"hedge-gym/internal/env"
)

// Config holds all application configuration.
type Config struct {
	Env    EnvConfig    `mapstructure:"env"`
	Run    RunConfig    `mapstructure:"run"`
	Output OutputConfig `mapstructure:"output"`
	Log    LogSettings  `mapstructure:"log"`
}

// EnvConfig holds the environment constants. These are fixed for the
// lifetime of an episode; they are configurable only at load time.
type EnvConfig struct {
	TickSize         float64 `mapstructure:"tick_size"`
	OptionSize       int     `mapstructure:"option_size"`
	Horizon          int     `mapstructure:"horizon"`
	S0               float64 `mapstructure:"s0"`
	Sigma            float64 `mapstructure:"sigma"`
	Kappa            float64 `mapstructure:"kappa"`
	PenaltyWeight    float64 `mapstructure:"penalty_weight"`
	MaxPenalty       float64 `mapstructure:"max_penalty"`
	MinPrice         float64 `mapstructure:"min_price"`
	MaxPrice         float64 `mapstructure:"max_price"`
	ActionNormalizer float64 `mapstructure:"action_normalizer"`
}

// RunConfig holds defaults for the episode runner.
type RunConfig struct {
	Episodes int    `mapstructure:"episodes"`
	Seed     int64  `mapstructure:"seed"`
	Workers  int    `mapstructure:"workers"`
	Policy   string `mapstructure:"policy"`
}

// OutputConfig holds output locations.
type OutputConfig struct {
	PlotsDir string `mapstructure:"plots_dir"`
	Database string `mapstructure:"database"`
}

// LogSettings holds logging configuration.
type LogSettings struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/hedge-gym"
	}
	return filepath.Join(home, ".config", "hedge-gym")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		// Config file not found, write a template for the next run.
		if werr := createTemplateConfig(configDir); werr != nil {
			return nil, fmt.Errorf("creating config template: %w", werr)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	p := env.DefaultParameters()
	v.SetDefault("env.tick_size", p.TickSize)
	v.SetDefault("env.option_size", p.OptionSize)
	v.SetDefault("env.horizon", p.Horizon)
	v.SetDefault("env.s0", p.S0)
	v.SetDefault("env.sigma", p.Sigma)
	v.SetDefault("env.kappa", p.Kappa)
	v.SetDefault("env.penalty_weight", p.PenaltyWeight)
	v.SetDefault("env.max_penalty", p.MaxPenalty)
	v.SetDefault("env.min_price", p.MinPrice)
	v.SetDefault("env.max_price", p.MaxPrice)
	v.SetDefault("env.action_normalizer", p.ActionNormalizer)

	v.SetDefault("run.episodes", 1)
	v.SetDefault("run.seed", 42)
	v.SetDefault("run.workers", 1)
	v.SetDefault("run.policy", "delta")

	v.SetDefault("output.plots_dir", filepath.Join(DefaultConfigDir(), "plots"))
	v.SetDefault("output.database", filepath.Join(DefaultConfigDir(), "episodes.db"))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)
	v.SetDefault("log.file", true)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HEDGEGYM_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Run.Seed = seed
		}
	}
	if v := os.Getenv("HEDGEGYM_POLICY"); v != "" {
		cfg.Run.Policy = v
	}
	if v := os.Getenv("HEDGEGYM_DATABASE"); v != "" {
		cfg.Output.Database = v
	}
	if v := os.Getenv("HEDGEGYM_PLOTS_DIR"); v != "" {
		cfg.Output.PlotsDir = v
	}
	if v := os.Getenv("HEDGEGYM_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Parameters converts the environment section into an env.Parameters value.
func (c *Config) Parameters() env.Parameters {
	return env.Parameters{
		TickSize:         c.Env.TickSize,
		OptionSize:       c.Env.OptionSize,
		Horizon:          c.Env.Horizon,
		S0:               c.Env.S0,
		Sigma:            c.Env.Sigma,
		Kappa:            c.Env.Kappa,
		PenaltyWeight:    c.Env.PenaltyWeight,
		MaxPenalty:       c.Env.MaxPenalty,
		MinPrice:         c.Env.MinPrice,
		MaxPrice:         c.Env.MaxPrice,
		ActionNormalizer: c.Env.ActionNormalizer,
	}
}

// Validate validates the configuration. Environment parameters carry the
// pricing preconditions, so they are checked here, once, at load time.
func (c *Config) Validate() error {
	if err := c.Parameters().Validate(); err != nil {
		return err
	}
	if c.Run.Episodes < 1 {
		return fmt.Errorf("run.episodes must be at least 1")
	}
	if c.Run.Workers < 1 {
		return fmt.Errorf("run.workers must be at least 1")
	}
	return nil
}
