package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jlower.dev/pkg/jlower/internal/domain"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "jlower", configBaseName)
	assert.Equal(t, "jlower.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "exclude", excludeFlagName)
	assert.Equal(t, "parallel", parallelFlagName)
	assert.Equal(t, "batch.parallel", parallelConfigKey)
	assert.Equal(t, "paths.exclude", excludeConfigKey)
	assert.Equal(t, "naming.numbered", numberedConfigKey)
	assert.Equal(t, ".jlower.log", defaultLogFilename)
	assert.Equal(t, 1, defaultBatchParallel)
	assert.Equal(t, "JLOWER", envPrefix)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestNamerConfig_Defaults(t *testing.T) {
	cfg := namerConfig()

	assert.False(t, cfg.Numbered)
	assert.Equal(t, defaultSeed, cfg.Seed)
	assert.Equal(t, defaultWords, cfg.Words)
}

func TestNamerConfig_Env(t *testing.T) {
	t.Run("prefixed variable", func(t *testing.T) {
		t.Setenv("JLOWER_NAMING_NUMBERED", "true")
		t.Setenv("JLOWER_NAMING_SEED", "42")

		cfg := namerConfig()
		assert.True(t, cfg.Numbered)
		assert.Equal(t, int64(42), cfg.Seed)
	})

	t.Run("legacy variable", func(t *testing.T) {
		t.Setenv(legacyNumberedEnv, "1")

		assert.True(t, namerConfig().Numbered)
	})
}

func TestLowererConfig(t *testing.T) {
	cfg := lowererConfig()
	assert.Equal(t, domain.DefaultNamePrefix, cfg.NamePrefix)
	assert.Equal(t, domain.DefaultMaxIterations, cfg.MaxIterations)
	assert.Equal(t, domain.DefaultMaxRounds, cfg.MaxRounds)

	t.Setenv("JLOWER_LOWERING_MAX_ROUNDS", "3")
	assert.Equal(t, 3, lowererConfig().MaxRounds)
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"", slog.LevelWarn},
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"-4", slog.LevelDebug},
		{"loud", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelWarn))
		})
	}
}

func TestConfigureLogger(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	logPath := filepath.Join(t.TempDir(), "jlower.log")

	configureLogger(logPath, false)
	slog.Debug("hidden")
	slog.Info("shown")

	contents, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.NotContains(t, string(contents), "hidden")
	assert.Contains(t, string(contents), "shown")

	configureLogger(logPath, true)
	slog.Debug("details")

	contents, err = os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "details")
}
