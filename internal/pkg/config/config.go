// internal/pkg/config/config.go
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Asynq    AsynqConfig
	Security SecurityConfig
	Server   ServerConfig
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Version     string
	LogLevel    string
	LogFormat   string // json, text
	Debug       bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxConnections     int32
	MinConnections     int32
	MaxConnLifetime    time.Duration
	MaxConnIdleTime    time.Duration
	HealthCheckPeriod  time.Duration
	ConnectTimeout     time.Duration
	StatementTimeout   time.Duration
	EnableQueryLogging bool
	MigrationPath      string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host            string
	Port            string
	Password        string
	DB              int
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	PoolSize        int
	MinIdleConns    int
	PoolTimeout     time.Duration
	IdleTimeout     time.Duration
	TTL             time.Duration
}

// AsynqConfig holds Asynq configuration
type AsynqConfig struct {
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	Concurrency     int
	Queues          map[string]int // queue name -> priority
	StrictPriority  bool
	RetryMax        int
	ShutdownTimeout time.Duration
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	RateLimitRequests int
	RateLimitDuration time.Duration
	AllowedOrigins    []string
	TrustedProxies    []string
	SecureHeaders     bool
	RequestIDHeader   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host              string
	Port              string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	GracefulTimeout   time.Duration
	EnableHealthCheck bool
}

// Load reads configuration from the environment, with a .env file layered
// underneath outside production.
func Load(logger *slog.Logger) (*Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env == "development" || env == "local" {
		if err := godotenv.Load(); err != nil {
			logger.Warn("no .env file found, using environment variables",
				slog.String("error", err.Error()))
		} else {
			logger.Info(".env file loaded")
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	applyDefaults(v, env)

	cfg := &Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Environment: env,
			Version:     v.GetString("APP_VERSION"),
			LogLevel:    v.GetString("LOG_LEVEL"),
			LogFormat:   v.GetString("LOG_FORMAT"),
			Debug:       v.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:               v.GetString("DB_HOST"),
			Port:               v.GetString("DB_PORT"),
			User:               v.GetString("DB_USER"),
			Password:           v.GetString("DB_PASSWORD"),
			Name:               v.GetString("DB_NAME"),
			SSLMode:            v.GetString("DB_SSL_MODE"),
			MaxConnections:     v.GetInt32("DB_MAX_CONNECTIONS"),
			MinConnections:     v.GetInt32("DB_MIN_CONNECTIONS"),
			MaxConnLifetime:    v.GetDuration("DB_CONNECTION_LIFETIME"),
			MaxConnIdleTime:    v.GetDuration("DB_IDLE_TIME"),
			HealthCheckPeriod:  v.GetDuration("DB_HEALTH_CHECK_PERIOD"),
			ConnectTimeout:     v.GetDuration("DB_CONNECT_TIMEOUT"),
			StatementTimeout:   v.GetDuration("DB_STATEMENT_TIMEOUT"),
			EnableQueryLogging: v.GetBool("DB_QUERY_LOGGING"),
			MigrationPath:      v.GetString("DB_MIGRATION_PATH"),
		},
		Redis: RedisConfig{
			Host:            v.GetString("REDIS_HOST"),
			Port:            v.GetString("REDIS_PORT"),
			Password:        v.GetString("REDIS_PASSWORD"),
			DB:              v.GetInt("REDIS_DB"),
			MaxRetries:      v.GetInt("REDIS_MAX_RETRIES"),
			MinRetryBackoff: v.GetDuration("REDIS_MIN_RETRY_BACKOFF"),
			MaxRetryBackoff: v.GetDuration("REDIS_MAX_RETRY_BACKOFF"),
			DialTimeout:     v.GetDuration("REDIS_DIAL_TIMEOUT"),
			ReadTimeout:     v.GetDuration("REDIS_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("REDIS_WRITE_TIMEOUT"),
			PoolSize:        v.GetInt("REDIS_POOL_SIZE"),
			MinIdleConns:    v.GetInt("REDIS_MIN_IDLE_CONNS"),
			PoolTimeout:     v.GetDuration("REDIS_POOL_TIMEOUT"),
			IdleTimeout:     v.GetDuration("REDIS_IDLE_TIMEOUT"),
			TTL:             v.GetDuration("REDIS_TTL"),
		},
		Asynq: AsynqConfig{
			RedisAddr:       fmt.Sprintf("%s:%s", v.GetString("REDIS_HOST"), v.GetString("REDIS_PORT")),
			RedisPassword:   v.GetString("REDIS_PASSWORD"),
			RedisDB:         v.GetInt("ASYNQ_REDIS_DB"),
			Concurrency:     v.GetInt("ASYNQ_CONCURRENCY"),
			Queues:          parseQueues(v.GetString("ASYNQ_QUEUES")),
			StrictPriority:  v.GetBool("ASYNQ_STRICT_PRIORITY"),
			RetryMax:        v.GetInt("ASYNQ_RETRY_MAX"),
			ShutdownTimeout: v.GetDuration("ASYNQ_SHUTDOWN_TIMEOUT"),
		},
		Security: SecurityConfig{
			RateLimitRequests: v.GetInt("RATE_LIMIT_REQUESTS"),
			RateLimitDuration: v.GetDuration("RATE_LIMIT_DURATION"),
			AllowedOrigins:    splitList(v.GetString("ALLOWED_ORIGINS")),
			TrustedProxies:    splitList(v.GetString("TRUSTED_PROXIES")),
			SecureHeaders:     v.GetBool("SECURE_HEADERS"),
			RequestIDHeader:   v.GetString("REQUEST_ID_HEADER"),
		},
		Server: ServerConfig{
			Host:              v.GetString("SERVER_HOST"),
			Port:              v.GetString("SERVER_PORT"),
			ReadTimeout:       v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:      v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:       v.GetDuration("SERVER_IDLE_TIMEOUT"),
			MaxHeaderBytes:    v.GetInt("SERVER_MAX_HEADER_BYTES"),
			GracefulTimeout:   v.GetDuration("SERVER_GRACEFUL_TIMEOUT"),
			EnableHealthCheck: v.GetBool("ENABLE_HEALTH_CHECK"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func applyDefaults(v *viper.Viper, env string) {
	defaults := map[string]any{
		"APP_NAME":    "stockroom-api",
		"APP_VERSION": "dev",
		"LOG_LEVEL":   "debug",
		"LOG_FORMAT":  "json",
		"APP_DEBUG":   env == "development",

		"DB_HOST":                "localhost",
		"DB_PORT":                "5432",
		"DB_USER":                "stockroom",
		"DB_PASSWORD":            "stockroom_dev_2025",
		"DB_NAME":                "stockroom",
		"DB_SSL_MODE":            "disable",
		"DB_MAX_CONNECTIONS":     25,
		"DB_MIN_CONNECTIONS":     5,
		"DB_CONNECTION_LIFETIME": time.Hour,
		"DB_IDLE_TIME":           30 * time.Minute,
		"DB_HEALTH_CHECK_PERIOD": time.Minute,
		"DB_CONNECT_TIMEOUT":     10 * time.Second,
		"DB_STATEMENT_TIMEOUT":   10 * time.Second,
		"DB_QUERY_LOGGING":       env == "development",
		"DB_MIGRATION_PATH":      "migrations",

		"REDIS_HOST":              "localhost",
		"REDIS_PORT":              "6379",
		"REDIS_PASSWORD":          "",
		"REDIS_DB":                0,
		"REDIS_MAX_RETRIES":       3,
		"REDIS_MIN_RETRY_BACKOFF": 8 * time.Millisecond,
		"REDIS_MAX_RETRY_BACKOFF": 512 * time.Millisecond,
		"REDIS_DIAL_TIMEOUT":      5 * time.Second,
		"REDIS_READ_TIMEOUT":      3 * time.Second,
		"REDIS_WRITE_TIMEOUT":     3 * time.Second,
		"REDIS_POOL_SIZE":         10,
		"REDIS_MIN_IDLE_CONNS":    2,
		"REDIS_POOL_TIMEOUT":      4 * time.Second,
		"REDIS_IDLE_TIMEOUT":      5 * time.Minute,
		"REDIS_TTL":               time.Hour,

		"ASYNQ_REDIS_DB":         0,
		"ASYNQ_CONCURRENCY":      10,
		"ASYNQ_QUEUES":           "critical:6,default:3,low:1",
		"ASYNQ_STRICT_PRIORITY":  false,
		"ASYNQ_RETRY_MAX":        3,
		"ASYNQ_SHUTDOWN_TIMEOUT": 30 * time.Second,

		"RATE_LIMIT_REQUESTS": 100,
		"RATE_LIMIT_DURATION": time.Minute,
		"ALLOWED_ORIGINS":     "*",
		"TRUSTED_PROXIES":     "",
		"SECURE_HEADERS":      env == "production",
		"REQUEST_ID_HEADER":   "X-Request-ID",

		"SERVER_HOST":             "0.0.0.0",
		"SERVER_PORT":             "8080",
		"SERVER_READ_TIMEOUT":     15 * time.Second,
		"SERVER_WRITE_TIMEOUT":    15 * time.Second,
		"SERVER_IDLE_TIMEOUT":     60 * time.Second,
		"SERVER_MAX_HEADER_BYTES": 1 << 20,
		"SERVER_GRACEFUL_TIMEOUT": 30 * time.Second,
		"ENABLE_HEALTH_CHECK":     true,
	}
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
}

// Validate rejects configurations the binaries cannot start with.
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Database.MaxConnections < c.Database.MinConnections {
		return fmt.Errorf("max connections must be >= min connections")
	}
	if c.Security.RateLimitRequests <= 0 {
		return fmt.Errorf("rate limit requests must be positive")
	}
	return nil
}

// GetDatabaseURL returns the connection string used by migrations.
func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the host:port the HTTP server binds to.
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "local"
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseQueues turns "critical:6,default:3" into asynq's queue priority map.
func parseQueues(spec string) map[string]int {
	queues := make(map[string]int)
	for _, pair := range strings.Split(spec, ",") {
		name, prio, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		p, err := strconv.Atoi(strings.TrimSpace(prio))
		if err != nil {
			continue
		}
		queues[strings.TrimSpace(name)] = p
	}
	if len(queues) == 0 {
		queues["default"] = 1
	}
	return queues
}
