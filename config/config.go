// SPDX-License-Identifier: MIT

// Package config loads engine settings from defaults, an optional YAML file
// and SHELTERFLOW_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/katalvlaran/shelterflow/flow"
	"github.com/katalvlaran/shelterflow/optimize"
	"github.com/katalvlaran/shelterflow/simulate"
)

// EnvPrefix prefixes every environment override, e.g. SHELTERFLOW_TRIALS.
const EnvPrefix = "SHELTERFLOW"

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid value")

// Config stores all engine settings.
type Config struct {
	Seed          int64         `mapstructure:"seed"`
	Trials        int           `mapstructure:"trials"`
	Workers       int           `mapstructure:"workers"`
	Backend       string        `mapstructure:"backend"`
	MaxFlow       string        `mapstructure:"max_flow"`
	Epsilon       float64       `mapstructure:"epsilon"`
	TimeLimit     time.Duration `mapstructure:"time_limit"`
	MaxIterations int           `mapstructure:"max_iterations"`
	LogLevel      string        `mapstructure:"log_level"`
	LogFormat     string        `mapstructure:"log_format"` // "console" or "json"
}

// NewViper returns a viper instance with defaults and environment binding.
// Flags may be bound on top of it before calling Read.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("seed", 0)
	v.SetDefault("trials", simulate.DefaultTrials)
	v.SetDefault("workers", 0)
	v.SetDefault("backend", optimize.BackendNetwork.String())
	v.SetDefault("max_flow", flow.Dinic.String())
	v.SetDefault("epsilon", optimize.DefaultEpsilon)
	v.SetDefault("time_limit", time.Duration(0))
	v.SetDefault("max_iterations", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return v
}

// Read merges the optional config file at path into v, then decodes and
// validates the result. An empty path skips the file.
func Read(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: decoding: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Load is Read on a fresh NewViper.
func Load(path string) (Config, error) {
	return Read(NewViper(), path)
}

// Validate checks every field; the first failure wraps ErrInvalidConfig.
func (c Config) Validate() error {
	if c.Trials < 1 {
		return fmt.Errorf("%w: trials must be at least 1, got %d", ErrInvalidConfig, c.Trials)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be non-negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if _, err := optimize.ParseBackend(c.Backend); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := parseMaxFlow(c.MaxFlow); err != nil {
		return err
	}
	if c.Epsilon <= 0 || c.Epsilon >= 0.5 {
		return fmt.Errorf("%w: epsilon must be in (0, 0.5), got %g", ErrInvalidConfig, c.Epsilon)
	}
	if c.TimeLimit < 0 {
		return fmt.Errorf("%w: time_limit must be non-negative, got %s", ErrInvalidConfig, c.TimeLimit)
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("%w: max_iterations must be non-negative, got %d", ErrInvalidConfig, c.MaxIterations)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalidConfig, err)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log_format must be console or json, got %q", ErrInvalidConfig, c.LogFormat)
	}

	return nil
}

func parseMaxFlow(s string) (flow.Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dinic":
		return flow.Dinic, nil
	case "edmonds-karp", "edmondskarp", "ek":
		return flow.EdmondsKarp, nil
	default:
		return 0, fmt.Errorf("%w: unknown max_flow %q", ErrInvalidConfig, s)
	}
}

// OptimizeOptions converts the settings into optimizer options.
func (c Config) OptimizeOptions(log *zerolog.Logger) (optimize.Options, error) {
	b, err := optimize.ParseBackend(c.Backend)
	if err != nil {
		return optimize.Options{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	algo, err := parseMaxFlow(c.MaxFlow)
	if err != nil {
		return optimize.Options{}, err
	}
	o := optimize.DefaultOptions()
	o.Backend = b
	o.MaxFlow = algo
	o.Epsilon = c.Epsilon
	o.TimeLimit = c.TimeLimit
	o.MaxIterations = c.MaxIterations
	o.Logger = log

	return o, nil
}

// TrialOptions converts the settings into random-trial options.
func (c Config) TrialOptions(log *zerolog.Logger) simulate.TrialOptions {
	return simulate.TrialOptions{Trials: c.Trials, Seed: c.Seed, Workers: c.Workers, Logger: log}
}

// Logger builds a zerolog logger writing to w (stderr when nil) with the
// configured level and format.
func (c Config) Logger(w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("%w: log_level: %v", ErrInvalidConfig, err)
	}
	if w == nil {
		w = os.Stderr
	}
	if c.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}
