// Package config loads service configuration from defaults, an optional
// config file, and PROJECTION_* environment overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/atlas-desktop/projection-backend/pkg/types"
	"github.com/spf13/viper"
)

// Load reads configuration. path may name a YAML file; an empty path uses
// defaults and environment only. A named file that is missing is an error,
// a missing default search is not.
func Load(path string) (*types.Config, error) {
	v := viper.New()

	v.SetDefault("log_level", "info")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.enable_metrics", true)

	v.SetDefault("cache.path", "cache_store.json")
	v.SetDefault("cache.projection_ttl", 24*time.Hour)
	v.SetDefault("cache.parameter_ttl", 7*24*time.Hour)

	v.SetDefault("market_data.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("market_data.request_timeout", 10*time.Second)
	v.SetDefault("market_data.lookback_years", 10)

	v.SetDefault("engine.simulations", 10000)
	v.SetDefault("engine.max_horizon", 10)

	v.SetEnvPrefix("PROJECTION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
