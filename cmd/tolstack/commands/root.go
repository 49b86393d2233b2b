// Package commands implements the tolstack command tree.
package commands

import (
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/alexshd/tolerance/internal/config"
)

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tolstack",
		Short: "Tolerance stackup and fit analysis",
		Long: `tolstack analyses tolerance stackups and mechanical fits described in a
YAML design document.

Every stackup is evaluated three ways: worst case (guaranteed bounds), RSS
(statistical 3σ estimate with Cpk and predicted yield) and Monte Carlo
(simulated yield and percentiles). A failing verdict is a result, not an
error; only invalid input makes tolstack exit non-zero.

Examples:
  tolstack analyze design.yaml                   # every stackup, text tables
  tolstack analyze design.yaml --stackup gap -o json
  tolstack analyze design.yaml --seed 42 --iterations 100000
  tolstack fit design.yaml                       # every mate`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "Config file (YAML or TOML, by extension)")
	root.PersistentFlags().CountP("verbose", "v", "Enable debug logging")
	root.PersistentFlags().StringP("output", "o", config.FormatText, "Output format: text, json or yaml")

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newFitCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"iterations":   "analysis.iterations",
	"seed":         "analysis.seed",
	"marginal":     "analysis.marginal_fraction",
	"workers":      "analysis.workers",
	"chunk-size":   "analysis.chunk_size",
	"strict-sigma": "analysis.strict_sigma",
	"output":       "output.format",
}

// loadSettings layers the command's flags over the config file, environment
// and defaults, and builds the logger.
func loadSettings(cmd *cobra.Command) (*config.Settings, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	v, err := config.New(path)
	if err != nil {
		return nil, nil, err
	}
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return nil, nil, err
	}
	if verbose, _ := cmd.Flags().GetCount("verbose"); verbose > 0 {
		v.Set("log.level", "debug")
	}

	settings, err := config.Load(v)
	if err != nil {
		return nil, nil, err
	}
	level, _ := settings.Log.SlogLevel()
	return settings, newLogger(cmd.ErrOrStderr(), level), nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	}))
}
