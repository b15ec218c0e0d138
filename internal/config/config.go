package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"      validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"    validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth"        validate:"required"`
	Email      EmailConfig      `mapstructure:"email"`
	ImageStore ImageStoreConfig `mapstructure:"image_store"`
	Sweep      SweepConfig      `mapstructure:"sweep"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
// TokenLifetimeMinutes bounds the access token; RefreshTokenLifetimeMinutes
// is the single source of truth for refresh token validity on both login
// and rotation.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// EmailConfig contains settings for the outbound SMTP sender used by the
// password-reset flow. FrontendURL is the base of the reset link.
type EmailConfig struct {
	SMTPHost    string `mapstructure:"smtp_host"`
	SMTPPort    int    `mapstructure:"smtp_port"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	From        string `mapstructure:"from"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// ImageStoreConfig contains settings for the external image store used
// for avatar uploads.
type ImageStoreConfig struct {
	UploadURL string `mapstructure:"upload_url"`
	APIKey    string `mapstructure:"api_key"`
}

// SweepConfig controls the overdue sweep scheduler.
type SweepConfig struct {
	IntervalHours int `mapstructure:"interval_hours" validate:"gte=0"`
}
