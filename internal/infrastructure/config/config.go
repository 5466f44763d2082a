package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Security SecurityConfig `mapstructure:"security"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Resolver ResolverConfig `mapstructure:"resolver"`
	Timer    TimerConfig    `mapstructure:"timer"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	ActivityTTL time.Duration `mapstructure:"activity_ttl"`
	Channel     string        `mapstructure:"channel"`
}

// JWTConfig holds JWT configuration. Bearer auth is enforced only when
// Secret is set.
type JWTConfig struct {
	Secret    string        `mapstructure:"secret"`
	ExpiresIn time.Duration `mapstructure:"expires_in"`
	Issuer    string        `mapstructure:"issuer"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	CORSAllowedOrigins string        `mapstructure:"cors_allowed_origins"`
	RateLimitRequests  int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow    time.Duration `mapstructure:"rate_limit_window"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// CalendarConfig holds external calendar configuration
type CalendarConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	CalendarID      string `mapstructure:"calendar_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
	TokenFile       string `mapstructure:"token_file"`
	TimeZone        string `mapstructure:"time_zone"`
	SyncSchedule    string `mapstructure:"sync_schedule"`
}

// ResolverConfig holds activity resolution policy
type ResolverConfig struct {
	HabitPageCount int    `mapstructure:"habit_page_count"`
	PollSchedule   string `mapstructure:"poll_schedule"`
	MaterializeKey string `mapstructure:"materialize_key"`
}

// TimerConfig holds task timer policy
type TimerConfig struct {
	DecrementUnit   time.Duration `mapstructure:"decrement_unit"`
	ExtendCompleted string        `mapstructure:"extend_completed"`
}

// Load loads configuration from .env, an optional config file and the
// environment. An empty path falls back to CONFIG_FILE; if that is unset
// too, no config file is read.
func Load(path string) (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindEnvVars(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "FocusQueue")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)

	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Database defaults
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.path", "focusqueue.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "focusqueue")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.conn_max_idle_time", "30s")
	v.SetDefault("database.auto_migrate", true)

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.activity_ttl", "1m")
	v.SetDefault("redis.channel", "focusqueue:activity")

	// JWT defaults
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expires_in", "720h")
	v.SetDefault("jwt.issuer", "focusqueue")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.filename", "")

	// Security defaults
	v.SetDefault("security.cors_allowed_origins", "*")
	v.SetDefault("security.rate_limit_requests", 100)
	v.SetDefault("security.rate_limit_window", "1m")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// Calendar defaults
	v.SetDefault("calendar.enabled", false)
	v.SetDefault("calendar.calendar_id", "primary")
	v.SetDefault("calendar.credentials_file", "credentials.json")
	v.SetDefault("calendar.token_file", "token.json")
	v.SetDefault("calendar.time_zone", "Local")
	v.SetDefault("calendar.sync_schedule", "@every 5m")

	// Resolver defaults
	v.SetDefault("resolver.habit_page_count", 3)
	v.SetDefault("resolver.poll_schedule", "@every 5s")
	v.SetDefault("resolver.materialize_key", "title")

	// Timer defaults
	v.SetDefault("timer.decrement_unit", "1s")
	v.SetDefault("timer.extend_completed", "keep")
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "APP_NAME")
	v.BindEnv("app.version", "APP_VERSION")
	v.BindEnv("app.environment", "APP_ENVIRONMENT")
	v.BindEnv("app.debug", "APP_DEBUG")

	// Server
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.host", "SERVER_HOST")
	v.BindEnv("server.read_timeout", "SERVER_READ_TIMEOUT")
	v.BindEnv("server.write_timeout", "SERVER_WRITE_TIMEOUT")
	v.BindEnv("server.idle_timeout", "SERVER_IDLE_TIMEOUT")
	v.BindEnv("server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT")

	// Database
	v.BindEnv("database.driver", "DB_DRIVER")
	v.BindEnv("database.path", "DB_PATH")
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.name", "DB_NAME")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.ssl_mode", "DB_SSL_MODE")
	v.BindEnv("database.max_open_conns", "DB_MAX_OPEN_CONNS")
	v.BindEnv("database.max_idle_conns", "DB_MAX_IDLE_CONNS")
	v.BindEnv("database.conn_max_lifetime", "DB_CONN_MAX_LIFETIME")
	v.BindEnv("database.conn_max_idle_time", "DB_CONN_MAX_IDLE_TIME")
	v.BindEnv("database.auto_migrate", "DB_AUTO_MIGRATE")

	// Redis
	v.BindEnv("redis.enabled", "REDIS_ENABLED")
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")
	v.BindEnv("redis.activity_ttl", "REDIS_ACTIVITY_TTL")
	v.BindEnv("redis.channel", "REDIS_CHANNEL")

	// JWT
	v.BindEnv("jwt.secret", "JWT_SECRET")
	v.BindEnv("jwt.expires_in", "JWT_EXPIRES_IN")
	v.BindEnv("jwt.issuer", "JWT_ISSUER")

	// Logger
	v.BindEnv("logger.level", "LOG_LEVEL")
	v.BindEnv("logger.format", "LOG_FORMAT")
	v.BindEnv("logger.output", "LOG_OUTPUT")
	v.BindEnv("logger.filename", "LOG_FILENAME")

	// Security
	v.BindEnv("security.cors_allowed_origins", "CORS_ALLOWED_ORIGINS")
	v.BindEnv("security.rate_limit_requests", "RATE_LIMIT_REQUESTS")
	v.BindEnv("security.rate_limit_window", "RATE_LIMIT_WINDOW")

	// Metrics
	v.BindEnv("metrics.enabled", "ENABLE_METRICS")
	v.BindEnv("metrics.path", "METRICS_PATH")

	// Calendar
	v.BindEnv("calendar.enabled", "CALENDAR_ENABLED")
	v.BindEnv("calendar.calendar_id", "CALENDAR_ID")
	v.BindEnv("calendar.credentials_file", "CALENDAR_CREDENTIALS_FILE")
	v.BindEnv("calendar.token_file", "CALENDAR_TOKEN_FILE")
	v.BindEnv("calendar.time_zone", "CALENDAR_TIME_ZONE")
	v.BindEnv("calendar.sync_schedule", "CALENDAR_SYNC_SCHEDULE")

	// Resolver
	v.BindEnv("resolver.habit_page_count", "HABIT_PAGE_COUNT")
	v.BindEnv("resolver.poll_schedule", "RESOLVER_POLL_SCHEDULE")
	v.BindEnv("resolver.materialize_key", "RESOLVER_MATERIALIZE_KEY")

	// Timer
	v.BindEnv("timer.decrement_unit", "TIMER_DECREMENT_UNIT")
	v.BindEnv("timer.extend_completed", "TIMER_EXTEND_COMPLETED")
}

func validateConfig(cfg *Config) error {
	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if cfg.Database.Name == "" {
			return fmt.Errorf("database name is required")
		}
	case "sqlite3":
		if cfg.Database.Path == "" {
			return fmt.Errorf("database path is required")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}

	if cfg.Resolver.HabitPageCount < 0 {
		return fmt.Errorf("habit page count must not be negative")
	}

	switch cfg.Resolver.MaterializeKey {
	case "title", "block":
	default:
		return fmt.Errorf("unknown materialize key %q", cfg.Resolver.MaterializeKey)
	}

	switch cfg.Timer.ExtendCompleted {
	case "keep", "reopen", "reject":
	default:
		return fmt.Errorf("unknown extend_completed policy %q", cfg.Timer.ExtendCompleted)
	}

	if cfg.Timer.DecrementUnit < time.Second || cfg.Timer.DecrementUnit%time.Second != 0 {
		return fmt.Errorf("timer decrement unit must be a whole number of seconds")
	}

	if _, err := cfg.Calendar.Location(); err != nil {
		return fmt.Errorf("invalid calendar time zone: %w", err)
	}

	return nil
}

// GetDSN returns the database connection string for the configured driver
func (cfg *DatabaseConfig) GetDSN() string {
	if cfg.Driver == "sqlite3" {
		return fmt.Sprintf(
			"file:%s?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate&_journal_mode=WAL",
			cfg.Path,
		)
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
}

// GetAddr returns the Redis address
func (cfg *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// Location loads the configured time zone. "Local" and "" mean the host zone.
func (cfg *CalendarConfig) Location() (*time.Location, error) {
	if cfg.TimeZone == "" || cfg.TimeZone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(cfg.TimeZone)
}

// AuthEnabled reports whether API requests need a bearer token
func (cfg *JWTConfig) AuthEnabled() bool {
	return cfg.Secret != ""
}

// IsDevelopment returns true if the environment is development
func (cfg *AppConfig) IsDevelopment() bool {
	return cfg.Environment == "development"
}

// IsProduction returns true if the environment is production
func (cfg *AppConfig) IsProduction() bool {
	return cfg.Environment == "production"
}
