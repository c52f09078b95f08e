package cmd

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlags(t *testing.T) *pflag.FlagSet {
	t.Helper()
	oldSeed, oldLog := seed, logLevel
	t.Cleanup(func() { seed, logLevel = oldSeed, oldLog })

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int64Var(&seed, "seed", 42, "")
	fs.StringVar(&logLevel, "log", "error", "")
	return fs
}

func TestApplyEnv_UnsetFlags_TakeEnv(t *testing.T) {
	// GIVEN environment overrides and no explicit flags
	t.Setenv("MONTECARLO_SEED", "99")
	t.Setenv("MONTECARLO_LOG", "debug")
	fs := newTestFlags(t)

	// WHEN applied
	cfg, err := loadEnvConfig()
	require.NoError(t, err)
	applyEnv(cfg, fs)

	// THEN the flag targets take the env values
	assert.Equal(t, int64(99), seed)
	assert.Equal(t, "debug", logLevel)
}

func TestApplyEnv_ExplicitFlagsWin(t *testing.T) {
	t.Setenv("MONTECARLO_SEED", "99")
	fs := newTestFlags(t)
	require.NoError(t, fs.Parse([]string{"--seed", "5"}))

	cfg, err := loadEnvConfig()
	require.NoError(t, err)
	applyEnv(cfg, fs)

	assert.Equal(t, int64(5), seed)
}

func TestLoadEnvConfig_Unset(t *testing.T) {
	cfg, err := loadEnvConfig()
	require.NoError(t, err)

	assert.Nil(t, cfg.Seed)
	assert.Equal(t, "", cfg.LogLevel)
}

func TestLoadEnvConfig_BadSeed(t *testing.T) {
	t.Setenv("MONTECARLO_SEED", "not-a-number")

	_, err := loadEnvConfig()

	assert.Error(t, err)
}
