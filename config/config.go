// Package config loads the server configuration from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config groups every setting the server reads at startup.
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Email    EmailConfig
}

// AppConfig carries deployment-level settings.
type AppConfig struct {
	Env      string `env:"APP_ENV" envDefault:"production"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	URL      string `env:"APP_URL" envDefault:"http://localhost:3000"`
}

// ServerConfig is the listener. TrustProxyHeaders makes X-Forwarded-For
// and X-Real-IP count as the client address; enable it only behind a
// proxy that overwrites them.
type ServerConfig struct {
	Host              string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port              int    `env:"SERVER_PORT" envDefault:"3000"`
	TrustProxyHeaders bool   `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
}

type DatabaseConfig struct {
	Path string `env:"DATABASE_PATH" envDefault:"./data/studytrack.db"`
}

// JWTConfig holds the signing key and credential lifetimes.
type JWTConfig struct {
	Secret             string `env:"JWT_SECRET,notEmpty"`
	Issuer             string `env:"JWT_ISSUER" envDefault:"studytrack"`
	AccessTokenExpiry  int    `env:"JWT_ACCESS_EXPIRY_MINUTES" envDefault:"15"`
	RefreshTokenExpiry int    `env:"JWT_REFRESH_EXPIRY_DAYS" envDefault:"7"`
}

// AuthConfig covers password hashing and login throttling.
// LOGIN_MAX_ATTEMPTS=0 disables throttling.
type AuthConfig struct {
	BcryptCost       int           `env:"BCRYPT_COST" envDefault:"12"`
	DefaultTimezone  string        `env:"DEFAULT_TIMEZONE" envDefault:"Europe/Istanbul"`
	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS" envDefault:"10"`
	LoginWindow      time.Duration `env:"LOGIN_WINDOW" envDefault:"5m"`
}

// CORSConfig lists allowed browser origins. "*" reflects any origin.
type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// EmailConfig configures security notification mail. An empty API key
// disables sending.
type EmailConfig struct {
	ResendAPIKey string `env:"RESEND_API_KEY"`
	From         string `env:"EMAIL_FROM" envDefault:"StudyTrack <no-reply@studytrack.local>"`
}

// Load reads .env (if any) and parses the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid SERVER_PORT: %d", c.Server.Port)
	}
	if c.JWT.AccessTokenExpiry <= 0 {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRY_MINUTES: %d", c.JWT.AccessTokenExpiry)
	}
	if c.JWT.RefreshTokenExpiry <= 0 {
		return fmt.Errorf("invalid JWT_REFRESH_EXPIRY_DAYS: %d", c.JWT.RefreshTokenExpiry)
	}
	// bcrypt accepts 4..31.
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("invalid BCRYPT_COST: %d", c.Auth.BcryptCost)
	}
	if c.Auth.LoginMaxAttempts < 0 {
		return fmt.Errorf("invalid LOGIN_MAX_ATTEMPTS: %d", c.Auth.LoginMaxAttempts)
	}
	if c.Auth.LoginMaxAttempts > 0 && c.Auth.LoginWindow <= 0 {
		return fmt.Errorf("invalid LOGIN_WINDOW: %s", c.Auth.LoginWindow)
	}
	if c.Auth.DefaultTimezone == "" || c.Auth.DefaultTimezone == "Local" {
		return fmt.Errorf("invalid DEFAULT_TIMEZONE %q: must be an IANA zone name", c.Auth.DefaultTimezone)
	}
	if _, err := time.LoadLocation(c.Auth.DefaultTimezone); err != nil {
		return fmt.Errorf("invalid DEFAULT_TIMEZONE %q: %w", c.Auth.DefaultTimezone, err)
	}
	return nil
}

// Addr returns the listen address, e.g. "0.0.0.0:3000".
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *JWTConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessTokenExpiry) * time.Minute
}

func (c *JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTokenExpiry) * 24 * time.Hour
}
