package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexshd/tolerance"
)

func TestDefaults(t *testing.T) {
	v, err := New("")
	require.NoError(t, err)

	s, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, tolerance.DefaultIterations, s.Analysis.Iterations)
	assert.Equal(t, tolerance.DefaultMarginalFraction, s.Analysis.MarginalFraction)
	assert.Equal(t, tolerance.DefaultChunkSize, s.Analysis.ChunkSize)
	assert.Nil(t, s.Analysis.Seed)
	assert.Equal(t, FormatText, s.Output.Format)

	level, err := s.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tolstack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
analysis:
  iterations: 50000
  seed: 0
  marginal_fraction: 0.2
  strict_sigma: true
output:
  format: json
`), 0o644))

	v, err := New(path)
	require.NoError(t, err)
	s, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 50000, s.Analysis.Iterations)
	require.NotNil(t, s.Analysis.Seed)
	assert.Equal(t, uint64(0), *s.Analysis.Seed)
	assert.Equal(t, 0.2, s.Analysis.MarginalFraction)
	assert.True(t, s.Analysis.StrictSigma)
	assert.Equal(t, FormatJSON, s.Output.Format)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("TOLSTACK_ANALYSIS_WORKERS", "3")
	t.Setenv("TOLSTACK_LOG_LEVEL", "debug")

	v, err := New("")
	require.NoError(t, err)
	s, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 3, s.Analysis.Workers)
	level, err := s.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestSeed_FromEnv(t *testing.T) {
	t.Setenv("TOLSTACK_ANALYSIS_SEED", "42")

	v, err := New("")
	require.NoError(t, err)
	s, err := Load(v)
	require.NoError(t, err)

	require.NotNil(t, s.Analysis.Seed)
	assert.Equal(t, uint64(42), *s.Analysis.Seed)
}

func TestSeed_RejectsBadValues(t *testing.T) {
	for _, raw := range []string{"-5", "abc", "1.5e3x"} {
		t.Run(raw, func(t *testing.T) {
			t.Setenv("TOLSTACK_ANALYSIS_SEED", raw)

			v, err := New("")
			require.NoError(t, err)
			_, err = Load(v)
			require.Error(t, err)
			assert.ErrorContains(t, err, "analysis.seed")
			assert.Contains(t, errors.FlattenHints(err), "unsigned 64-bit")
		})
	}
}

func TestLoad_Rejects(t *testing.T) {
	v, err := New("")
	require.NoError(t, err)
	v.Set("output.format", "xml")
	_, err = Load(v)
	assert.ErrorContains(t, err, "unknown output format")

	v, err = New("")
	require.NoError(t, err)
	v.Set("log.level", "loud")
	_, err = Load(v)
	assert.Error(t, err)
}

func TestMissingConfigFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestEngine(t *testing.T) {
	seed := uint64(17)
	a := AnalysisSettings{Iterations: 500, Seed: &seed, MarginalFraction: 0.05, Workers: 2, ChunkSize: 100}

	cfg := a.Engine(nil)
	assert.Equal(t, 500, cfg.Iterations)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, seed, *cfg.Seed)
	assert.Equal(t, 0.05, cfg.MarginalFraction)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 100, cfg.ChunkSize)
}
