// Package types provides configuration types for the projection backend.
package types

import "time"

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host          string        `json:"host" mapstructure:"host"`
	Port          int           `json:"port" mapstructure:"port"`
	ReadTimeout   time.Duration `json:"readTimeout" mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `json:"writeTimeout" mapstructure:"write_timeout"`
	EnableMetrics bool          `json:"enableMetrics" mapstructure:"enable_metrics"`
}

// CacheConfig represents cache persistence configuration
type CacheConfig struct {
	Path          string        `json:"path" mapstructure:"path"`
	ProjectionTTL time.Duration `json:"projectionTTL" mapstructure:"projection_ttl"`
	ParameterTTL  time.Duration `json:"parameterTTL" mapstructure:"parameter_ttl"`
}

// MarketDataConfig represents the upstream data provider configuration
type MarketDataConfig struct {
	BaseURL        string        `json:"baseURL" mapstructure:"base_url"`
	RequestTimeout time.Duration `json:"requestTimeout" mapstructure:"request_timeout"`
	LookbackYears  int           `json:"lookbackYears" mapstructure:"lookback_years"`
}

// EngineConfig represents projection engine configuration
type EngineConfig struct {
	Simulations int `json:"simulations" mapstructure:"simulations"`
	MaxHorizon  int `json:"maxHorizon" mapstructure:"max_horizon"`
}

// Config is the root configuration for the service
type Config struct {
	Server     ServerConfig     `json:"server" mapstructure:"server"`
	Cache      CacheConfig      `json:"cache" mapstructure:"cache"`
	MarketData MarketDataConfig `json:"marketData" mapstructure:"market_data"`
	Engine     EngineConfig     `json:"engine" mapstructure:"engine"`
	LogLevel   string           `json:"logLevel" mapstructure:"log_level"`
}
