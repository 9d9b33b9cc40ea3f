package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Data    DataConfig    `mapstructure:"data"`
	Session SessionConfig `mapstructure:"session"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Anki    AnkiConfig    `mapstructure:"anki"`
	Logger  LoggerConfig  `mapstructure:"logger"`
	Metrics MetricsConfig `mapstructure:"metrics"`
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
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	// RateLimit is the sustained requests per second allowed per client IP
	RateLimit          float64 `mapstructure:"rate_limit"`
	CORSAllowedOrigins string  `mapstructure:"cors_allowed_origins"`
}

// DataConfig holds the on-disk layout of questions, settings and scores
type DataConfig struct {
	Root             string `mapstructure:"root"`
	FillInBlankDir   string `mapstructure:"fill_in_blank_dir"`
	ImageMatchingDir string `mapstructure:"image_matching_dir"`
	ImagesDir        string `mapstructure:"images_dir"`
	SettingsFile     string `mapstructure:"settings_file"`
	ScoresFile       string `mapstructure:"scores_file"`
}

// SessionConfig holds the per-browser session configuration
type SessionConfig struct {
	Backend    string        `mapstructure:"backend"`
	CookieName string        `mapstructure:"cookie_name"`
	TTL        time.Duration `mapstructure:"ttl"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AnkiConfig holds the AnkiConnect bridge configuration
type AnkiConfig struct {
	Host      string        `mapstructure:"host"`
	Port      int           `mapstructure:"port"`
	Version   int           `mapstructure:"version"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"`
	Email     string        `mapstructure:"email"`
	Password  string        `mapstructure:"password"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load loads configuration from various sources
func Load() (*Config, error) {
	// Load .env files if they exist (ignore errors); .env.local carries the
	// Anki credentials
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindEnvVars(v)

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

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Révijouer")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)

	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.rate_limit", 50)
	v.SetDefault("server.cors_allowed_origins", "http://localhost:8080")

	// Data defaults
	v.SetDefault("data.root", "assets")
	v.SetDefault("data.fill_in_blank_dir", "Data/fill_the_blanks")
	v.SetDefault("data.image_matching_dir", "Data/image_matching")
	v.SetDefault("data.images_dir", "images")
	v.SetDefault("data.settings_file", "settings.json")
	v.SetDefault("data.scores_file", "Data/scores.json")

	// Session defaults
	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.cookie_name", "revijouer_session")
	v.SetDefault("session.ttl", "168h")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Anki defaults
	v.SetDefault("anki.host", "localhost")
	v.SetDefault("anki.port", 8765)
	v.SetDefault("anki.version", 6)
	v.SetDefault("anki.timeout", "5s")
	v.SetDefault("anki.rate_limit", 10)
	v.SetDefault("anki.email", "")
	v.SetDefault("anki.password", "")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.filename", "")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.environment", "APP_ENVIRONMENT")
	v.BindEnv("app.debug", "APP_DEBUG")

	// Server
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.host", "SERVER_HOST")
	v.BindEnv("server.cors_allowed_origins", "CORS_ALLOWED_ORIGINS")

	// Data
	v.BindEnv("data.root", "REVIJOUER_DATA_ROOT")

	// Session
	v.BindEnv("session.backend", "SESSION_BACKEND")
	v.BindEnv("session.ttl", "SESSION_TTL")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")

	// Anki
	v.BindEnv("anki.host", "ANKI_HOST")
	v.BindEnv("anki.port", "ANKI_PORT")
	v.BindEnv("anki.timeout", "ANKI_TIMEOUT")
	v.BindEnv("anki.email", "ANKI_EMAIL")
	v.BindEnv("anki.password", "ANKI_PASSWORD")

	// Logger
	v.BindEnv("logger.level", "LOG_LEVEL")
	v.BindEnv("logger.format", "LOG_FORMAT")
	v.BindEnv("logger.output", "LOG_OUTPUT")
	v.BindEnv("logger.filename", "LOG_FILENAME")

	// Metrics
	v.BindEnv("metrics.enabled", "ENABLE_METRICS")
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}

	if cfg.Anki.Port <= 0 || cfg.Anki.Port > 65535 {
		return fmt.Errorf("anki port must be between 1 and 65535")
	}

	if cfg.Data.Root == "" {
		return fmt.Errorf("data root is required")
	}

	switch cfg.Session.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("session backend must be memory or redis, got %q", cfg.Session.Backend)
	}

	switch cfg.Logger.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logger format must be json or console, got %q", cfg.Logger.Format)
	}

	return nil
}

// FillInBlankPath returns the root directory of fill-in-the-blank questions
func (cfg *DataConfig) FillInBlankPath() string {
	return filepath.Join(cfg.Root, cfg.FillInBlankDir)
}

// ImageMatchingPath returns the root directory of image-matching questions
func (cfg *DataConfig) ImageMatchingPath() string {
	return filepath.Join(cfg.Root, cfg.ImageMatchingDir)
}

// ImagesPath returns the directory served under /media
func (cfg *DataConfig) ImagesPath() string {
	return filepath.Join(cfg.Root, cfg.ImagesDir)
}

// SettingsPath returns the settings file location
func (cfg *DataConfig) SettingsPath() string {
	return filepath.Join(cfg.Root, cfg.SettingsFile)
}

// ScoresPath returns the shared scores file location
func (cfg *DataConfig) ScoresPath() string {
	return filepath.Join(cfg.Root, cfg.ScoresFile)
}

// GetAddr returns the Redis address
func (cfg *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// Endpoint returns the AnkiConnect URL
func (cfg *AnkiConfig) Endpoint() string {
	return fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port)
}

// GetAddr returns the listen address of the HTTP server
func (cfg *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// IsDevelopment returns true if the environment is development
func (cfg *AppConfig) IsDevelopment() bool {
	return cfg.Environment == "development"
}
