package cmd

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
)

// envConfig holds environment overrides for flags. A variable applies only
// when the matching flag was not set on the command line.
type envConfig struct {
	Seed     *int64 `env:"MONTECARLO_SEED"`
	LogLevel string `env:"MONTECARLO_LOG"`
}

func loadEnvConfig() (envConfig, error) {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return envConfig{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// applyEnv copies environment values into the flag targets the user left unset.
func applyEnv(cfg envConfig, flags *pflag.FlagSet) {
	if cfg.Seed != nil && !flags.Changed("seed") {
		seed = *cfg.Seed
	}
	if cfg.LogLevel != "" && !flags.Changed("log") {
		logLevel = cfg.LogLevel
	}
}
