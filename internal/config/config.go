// Package config loads tolstack settings from defaults, an optional config
// file, TOLSTACK_* environment variables and command-line flags, in rising
// precedence.
package config

import (
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/alexshd/tolerance"
)

// EnvPrefix is prepended to every environment override (analysis.workers →
// TOLSTACK_ANALYSIS_WORKERS).
const EnvPrefix = "TOLSTACK"

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Settings is the resolved CLI configuration.
type Settings struct {
	Analysis AnalysisSettings `mapstructure:"analysis"`
	Log      LogSettings      `mapstructure:"log"`
	Output   OutputSettings   `mapstructure:"output"`
}

type AnalysisSettings struct {
	Iterations       int     `mapstructure:"iterations"`
	Seed             *uint64 `mapstructure:"seed"`
	MarginalFraction float64 `mapstructure:"marginal_fraction"`
	Workers          int     `mapstructure:"workers"`
	ChunkSize        int     `mapstructure:"chunk_size"`
	StrictSigma      bool    `mapstructure:"strict_sigma"`
}

type LogSettings struct {
	Level string `mapstructure:"level"`
}

type OutputSettings struct {
	Format string `mapstructure:"format"`
}

// New returns a viper instance with defaults and environment binding. path,
// when non-empty, names a config file; its format follows the extension.
func New(path string) (*viper.Viper, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}
	return v, nil
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("analysis.iterations", tolerance.DefaultIterations)
	v.SetDefault("analysis.marginal_fraction", tolerance.DefaultMarginalFraction)
	v.SetDefault("analysis.workers", 0) // GOMAXPROCS
	v.SetDefault("analysis.chunk_size", tolerance.DefaultChunkSize)
	v.SetDefault("analysis.strict_sigma", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("output.format", FormatText)
}

// Load resolves v into Settings and checks the enumerated values.
func Load(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	// A seed of 0 is a valid seed; only an unset key means "draw one".
	s.Analysis.Seed = nil
	if v.IsSet("analysis.seed") {
		seed, err := cast.ToUint64E(v.Get("analysis.seed"))
		if err != nil {
			return nil, errors.WithHint(
				errors.Wrapf(err, "analysis.seed %v", v.Get("analysis.seed")),
				"the seed is an unsigned 64-bit integer, e.g. 42")
		}
		s.Analysis.Seed = &seed
	}

	switch s.Output.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return nil, errors.WithHint(
			errors.Newf("unknown output format %q", s.Output.Format),
			"use text, json or yaml")
	}
	if _, err := s.Log.SlogLevel(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Engine converts the analysis settings into an engine configuration.
func (a AnalysisSettings) Engine(logger *slog.Logger) tolerance.Config {
	cfg := tolerance.DefaultConfig()
	cfg.Iterations = a.Iterations
	cfg.MarginalFraction = a.MarginalFraction
	cfg.Workers = a.Workers
	cfg.ChunkSize = a.ChunkSize
	cfg.StrictSigma = a.StrictSigma
	cfg.Logger = logger
	if a.Seed != nil {
		cfg = cfg.WithSeed(*a.Seed)
	}
	return cfg
}

// SlogLevel parses the configured level name.
func (l LogSettings) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, errors.WithHint(
			errors.Wrapf(err, "log.level %q", l.Level),
			"use debug, info, warn or error")
	}
	return level, nil
}
