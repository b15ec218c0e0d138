package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Default values applied when neither the config file nor the environment
// provides a setting.
const (
	defaultPort                        = 8080
	defaultLogLevel                    = "info"
	defaultTokenLifetimeMinutes        = 60          // 1 hour access tokens
	defaultRefreshTokenLifetimeMinutes = 7 * 24 * 60 // 7 day refresh tokens
	defaultSweepIntervalHours          = 24
)

// Load reads configuration from an optional config.yaml in the working
// directory and from TODOAPP_-prefixed environment variables, with the
// environment taking precedence. Returns a populated Config struct or an
// error if loading or validation fails.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", defaultPort)
	v.SetDefault("server.log_level", defaultLogLevel)
	v.SetDefault("auth.token_lifetime_minutes", defaultTokenLifetimeMinutes)
	v.SetDefault("auth.refresh_token_lifetime_minutes", defaultRefreshTokenLifetimeMinutes)
	v.SetDefault("sweep.interval_hours", defaultSweepIntervalHours)

	// Keys without defaults still need to be known to viper for
	// AutomaticEnv to surface them during Unmarshal.
	for _, key := range []string{
		"database.url",
		"auth.jwt_secret",
		"email.smtp_host",
		"email.username",
		"email.password",
		"email.from",
		"email.frontend_url",
		"image_store.upload_url",
		"image_store.api_key",
	} {
		v.SetDefault(key, "")
	}
	v.SetDefault("email.smtp_port", 0)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TODOAPP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; the environment can carry
		// everything. Any other read failure is fatal.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
