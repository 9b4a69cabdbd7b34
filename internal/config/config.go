package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig    `mapstructure:"server"`
	Log           LogConfig       `mapstructure:"log"`
	Gateway       GatewayConfig   `mapstructure:"gateway"`
	Database      DatabaseConfig  `mapstructure:"database"`
	Redis         RedisConfig     `mapstructure:"redis"`
	SMTP          SMTPConfig      `mapstructure:"smtp"`
	Auth          AuthConfig      `mapstructure:"auth"`
	RateLimit     RateLimitConfig `mapstructure:"rate_limit"`
	Cache         CacheConfig     `mapstructure:"cache"`
	Metrics       MetricsConfig   `mapstructure:"metrics"`
	CORS          CORSConfig      `mapstructure:"cors"`
	Abbreviations []Abbreviation  `mapstructure:"abbreviations"`
}

// Abbreviation is kept as a list entry because viper lowercases map keys
// and shorthand matching is case-sensitive.
type Abbreviation struct {
	Short     string `mapstructure:"short"`
	Expansion string `mapstructure:"expansion"`
}

// AbbreviationMap returns the configured shorthand keyed by abbreviation.
func (c *Config) AbbreviationMap() map[string]string {
	out := make(map[string]string, len(c.Abbreviations))
	for _, a := range c.Abbreviations {
		out[a.Short] = a.Expansion
	}
	return out
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Mode            string        `mapstructure:"mode"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	// Format is "console" or "json".
	Format string `mapstructure:"format"`
}

// GatewayConfig can also be overridden with FRONTDESK_GATEWAY_* variables.
type GatewayConfig struct {
	// Mode is "simulated", "http" or empty for auto-detection from BaseURL.
	Mode           string        `mapstructure:"mode" envconfig:"MODE"`
	BaseURL        string        `mapstructure:"base_url" envconfig:"BASE_URL"`
	Timeout        time.Duration `mapstructure:"timeout" envconfig:"TIMEOUT"`
	SimulatedDelay time.Duration `mapstructure:"simulated_delay" envconfig:"SIMULATED_DELAY"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

// Enabled is false when no host is set; catalog and schedules then come
// from the built-in demo dataset.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Name,
		c.SSLMode,
	)
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	Channel      string        `mapstructure:"channel"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
}

func (c RedisConfig) Enabled() bool {
	return c.URL != ""
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	// DepartmentInboxes lists the inbox notified of new registrations per department.
	DepartmentInboxes []DepartmentInbox `mapstructure:"department_inboxes"`
}

type DepartmentInbox struct {
	Department string `mapstructure:"department"`
	Email      string `mapstructure:"email"`
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && len(c.DepartmentInboxes) > 0
}

type StaffAccount struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
	DisplayName  string `mapstructure:"display_name"`
}

type AuthConfig struct {
	Secret            string         `mapstructure:"secret"`
	ExpiryHours       int            `mapstructure:"expiry_hours"`
	BcryptCost        int            `mapstructure:"bcrypt_cost"`
	MinPasswordLength int            `mapstructure:"min_password_length"`
	Staff             []StaffAccount `mapstructure:"staff"`
}

func (c AuthConfig) Enabled() bool {
	return c.Secret != ""
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DefaultPaths are searched in order for config.yaml.
var DefaultPaths = []string{".", "./config", "/app", "/app/config"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.request_timeout", 20*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.mode", "release")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("gateway.mode", "")
	v.SetDefault("gateway.base_url", "")
	v.SetDefault("gateway.timeout", 0)
	v.SetDefault("gateway.simulated_delay", 600*time.Millisecond)

	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "frontdesk")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.channel", "registrations")
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.retry_backoff", 100*time.Millisecond)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 1)

	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.from", "frontdesk@localhost")

	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.expiry_hours", 12)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.min_password_length", 8)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 20)
	v.SetDefault("rate_limit.burst", 40)

	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cache.cleanup_interval", 10*time.Minute)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "frontdesk")
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("cors.allowed_origins", []string{"*"})
}

// LoadConfig reads config.yaml from the first matching path (a missing
// file is fine), applies environment variables such as SERVER_PORT or
// GATEWAY_BASE_URL, then FRONTDESK_GATEWAY_* overrides.
func LoadConfig(paths ...string) (*Config, error) {
	if len(paths) == 0 {
		paths = DefaultPaths
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("FRONTDESK_GATEWAY", &cfg.Gateway); err != nil {
		return nil, fmt.Errorf("failed to apply gateway overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	// The request deadline must fire while the connection can still carry the error response.
	if c.Server.WriteTimeout > 0 && c.Server.RequestTimeout >= c.Server.WriteTimeout {
		return fmt.Errorf("server.request_timeout (%s) must be shorter than server.write_timeout (%s)",
			c.Server.RequestTimeout, c.Server.WriteTimeout)
	}
	switch strings.ToLower(c.Gateway.Mode) {
	case "", "simulated":
	case "http":
		if c.Gateway.BaseURL == "" {
			return errors.New("gateway.mode is http but gateway.base_url is empty")
		}
	default:
		return fmt.Errorf("invalid gateway.mode %q", c.Gateway.Mode)
	}
	if c.Auth.Enabled() && len(c.Auth.Staff) == 0 {
		return errors.New("auth.secret is set but no auth.staff accounts are configured")
	}
	return nil
}
