package config

import "github.com/caarlos0/env"

// parseEnv overlays fields tagged with env. Unset variables keep the
// current value.
func parseEnv(cfg *Config) error {
	return env.Parse(cfg)
}
