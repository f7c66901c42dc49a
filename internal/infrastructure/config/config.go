// Package config loads the service configuration from config.toml, a local .env file and
// ERP_ prefixed environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Isolation levels accepted by posting.isolation_level
const (
	IsolationReadCommitted  = "read_committed"
	IsolationRepeatableRead = "repeatable_read"
	IsolationSerializable   = "serializable"
)

type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Log          LogConfig          `mapstructure:"log"`
	HTTP         HTTPConfig         `mapstructure:"http"`
	Posting      PostingConfig      `mapstructure:"posting"`
	Outbox       OutboxConfig       `mapstructure:"outbox"`
	Notification NotificationConfig `mapstructure:"notification"`
	Telemetry    TelemetryConfig    `mapstructure:"telemetry"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr or a file path
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int           `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int           `mapstructure:"conn_max_idle_time"` // minutes
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`
}

// DSN is the postgres URL with user and password escaped
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + strconv.Itoa(d.Port),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) Addr() string {
	return r.Host + ":" + strconv.Itoa(r.Port)
}

type HTTPConfig struct {
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes"`
	MaxBodySize    int64         `mapstructure:"max_body_size"`
	TrustedProxies []string      `mapstructure:"trusted_proxies"`
}

// PostingConfig controls the document posting transaction
type PostingConfig struct {
	// upper bound for one attempt, long documents included
	TransactionTimeout time.Duration `mapstructure:"transaction_timeout"`
	// retries after a concurrency conflict; zero disables retrying
	MaxRetries           int           `mapstructure:"max_retries"`
	RetryInitialInterval time.Duration `mapstructure:"retry_initial_interval"`
	RetryMaxInterval     time.Duration `mapstructure:"retry_max_interval"`
	IsolationLevel       string        `mapstructure:"isolation_level"`
}

type OutboxConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	BatchSize    int           `mapstructure:"batch_size"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
	// lifetime of the redis dispatcher lock
	LockTTL          time.Duration `mapstructure:"lock_ttl"`
	CleanupRetention time.Duration `mapstructure:"cleanup_retention"`
}

type NotificationConfig struct {
	// minimum gap between two alerts of one kind for the same product
	ThrottleWindow time.Duration `mapstructure:"throttle_window"`
}

type TelemetryConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	CollectorEndpoint string        `mapstructure:"collector_endpoint"`
	SamplingRatio     float64       `mapstructure:"sampling_ratio"`
	ServiceName       string        `mapstructure:"service_name"`
	Insecure          bool          `mapstructure:"insecure"`
	MetricsInterval   time.Duration `mapstructure:"metrics_interval"`
}

// Load reads config.toml from ., ./config or /app when present, then lets ERP_ variables
// override any key (ERP_DATABASE_PASSWORD for database.password). A .env file in the
// working directory is loaded into the environment first.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("toml")
	for _, dir := range []string{".", "./config", "/app"} {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("ERP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Posting.IsolationLevel = strings.ToLower(cfg.Posting.IsolationLevel)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	db := c.Database
	check(db.MaxOpenConns > 0, "database.max_open_conns must be positive")
	check(db.MaxIdleConns >= 0, "database.max_idle_conns cannot be negative")
	check(db.MaxIdleConns <= db.MaxOpenConns,
		"database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)", db.MaxIdleConns, db.MaxOpenConns)

	p := c.Posting
	check(p.TransactionTimeout >= time.Second, "posting.transaction_timeout must be at least 1s, got %s", p.TransactionTimeout)
	check(p.MaxRetries >= 0, "posting.max_retries cannot be negative")
	check(p.RetryMaxInterval >= p.RetryInitialInterval,
		"posting.retry_max_interval (%s) cannot be below posting.retry_initial_interval (%s)", p.RetryMaxInterval, p.RetryInitialInterval)
	switch p.IsolationLevel {
	case IsolationReadCommitted, IsolationRepeatableRead, IsolationSerializable:
	default:
		check(false, "posting.isolation_level must be one of %s, %s, %s, got %q",
			IsolationReadCommitted, IsolationRepeatableRead, IsolationSerializable, p.IsolationLevel)
	}

	check(c.Outbox.BatchSize > 0, "outbox.batch_size must be positive")
	check(c.Outbox.MaxAttempts > 0, "outbox.max_attempts must be positive")
	check(c.Telemetry.SamplingRatio >= 0 && c.Telemetry.SamplingRatio <= 1,
		"telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)

	if c.App.Env == "production" {
		check(db.Password != "", "database.password is required in production")
		check(db.SSLMode != "disable", "database.sslmode cannot be 'disable' in production")
	}
	return errors.Join(errs...)
}
