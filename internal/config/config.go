package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server          ServerConfig          `mapstructure:"server"`
	Auth            AuthConfig            `mapstructure:"auth"`
	Schemas         SchemasConfig         `mapstructure:"schemas"`
	Limits          LimitsConfig          `mapstructure:"limits"`
	Instrumentation InstrumentationConfig `mapstructure:"instrumentation"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type AuthConfig struct {
	// JWTSecret enables bearer-token verification when non-empty. Tokens
	// are minted by the surrounding platform; this service has no login.
	JWTSecret string `mapstructure:"jwt_secret"`
}

type SchemasConfig struct {
	// Path points at an optional YAML file overriding the built-in
	// per-kind validation schemas.
	Path string `mapstructure:"path"`
}

type LimitsConfig struct {
	MaxRows int `mapstructure:"max_rows"`
}

type InstrumentationConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	BufferSize int  `mapstructure:"buffer_size"`
}

func Load() (*Config, error) {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../..")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("auth.jwt_secret", "")
	viper.SetDefault("schemas.path", "")
	viper.SetDefault("limits.max_rows", 50000)
	viper.SetDefault("instrumentation.enabled", true)
	viper.SetDefault("instrumentation.buffer_size", 1000)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// No config file is fine; defaults plus env cover everything.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
