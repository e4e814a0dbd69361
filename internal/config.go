package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Development fallbacks for the signing secrets. Accepted outside production
// so the server can boot without configuration, rejected by Validate when
// env is production.
const (
	DefaultAccessSecret  = "dev-secret-key"
	DefaultRefreshSecret = "dev-refresh-secret-key"
)

type Config struct {
	Env           string              `mapstructure:"env"`
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	AuthRateLimit     float64       `mapstructure:"auth_rate_limit"`
	AuthRateBurst     int           `mapstructure:"auth_rate_burst"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source"`
}

// SecurityConfig carries the two independent token signing secrets and their
// lifetimes. Access and refresh tokens never share a secret, so one can not
// be replayed as the other.
type SecurityConfig struct {
	AccessTokenSecret    string        `mapstructure:"access_token_secret"`
	RefreshTokenSecret   string        `mapstructure:"refresh_token_secret"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration"`
	BCryptCost           int           `mapstructure:"bcrypt_cost"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ----------------- DEFAULTS -----------------

// ApplyDefaults fills unset fields with the documented defaults: 7 day access
// tokens and 30 day refresh tokens, matching the deployment contract.
func (c *Config) ApplyDefaults() {
	if c.Env == "" {
		c.Env = getEnv("APP_ENV", "development")
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.AuthRateLimit == 0 {
		c.Server.AuthRateLimit = 10
	}
	if c.Server.AuthRateBurst == 0 {
		c.Server.AuthRateBurst = 20
	}
	if c.Security.AccessTokenSecret == "" {
		c.Security.AccessTokenSecret = DefaultAccessSecret
	}
	if c.Security.RefreshTokenSecret == "" {
		c.Security.RefreshTokenSecret = DefaultRefreshSecret
	}
	if c.Security.AccessTokenDuration == 0 {
		c.Security.AccessTokenDuration = 7 * 24 * time.Hour
	}
	if c.Security.RefreshTokenDuration == 0 {
		c.Security.RefreshTokenDuration = 30 * 24 * time.Hour
	}
	if c.Security.BCryptCost == 0 {
		c.Security.BCryptCost = 10
	}
}

// LoadConfigFromEnv builds the configuration purely from environment
// variables, used for container deployments where no config file is mounted.
func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Env: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			BaseURL:        getEnv("SERVER_BASE_URL", ""),
			AllowedOrigins: getEnv("SERVER_ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Source:       getEnv("DATABASE_URL", ""),
			MaxOpenConns: getEnvAsInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Security: SecurityConfig{
			AccessTokenSecret:  getEnv("JWT_SECRET", ""),
			RefreshTokenSecret: getEnv("JWT_REFRESH_SECRET", ""),
			BCryptCost:         getEnvAsInt("BCRYPT_COST", 10),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(c.Env); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

// Validate rejects a production boot that would sign tokens with empty or
// development secrets. Non-production environments get away with the
// fallbacks so local setups need no secret management.
func (c *SecurityConfig) Validate(env string) error {
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return errors.New("access and refresh token secrets must differ")
	}
	if env != "production" {
		return nil
	}
	if c.AccessTokenSecret == "" || c.AccessTokenSecret == DefaultAccessSecret {
		return errors.New("access token secret must be set in production")
	}
	if c.RefreshTokenSecret == "" || c.RefreshTokenSecret == DefaultRefreshSecret {
		return errors.New("refresh token secret must be set in production")
	}
	if c.BCryptCost < 10 || c.BCryptCost > 15 {
		return errors.New("bcrypt_cost must be between 10 and 15")
	}
	return nil
}
