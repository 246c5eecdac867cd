package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// ServerConfig holds process-level settings for the HTTP server. Values come
// from the environment or an optional .env file.
type ServerConfig struct {
	Port       string `mapstructure:"PORT"`
	Env        string `mapstructure:"ENV"`
	DataDir    string `mapstructure:"DATA_DIR"`
	ParamsFile string `mapstructure:"PARAMS_FILE"`
}

// LoadServerConfig reads server configuration from env vars with an optional
// .env file.
func LoadServerConfig() (*ServerConfig, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("PARAMS_FILE", "")

	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATA_DIR")
	v.BindEnv("PARAMS_FILE")

	// The .env file is optional.
	_ = v.ReadInConfig()

	cfg := &ServerConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("DATA_DIR is required")
	}
	return cfg, nil
}

// IsDev reports whether the server runs in development mode.
func (c *ServerConfig) IsDev() bool {
	return c.Env == "development"
}
