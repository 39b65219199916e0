package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// defaultSessionSecret is only acceptable outside release mode.
const defaultSessionSecret = "secret_key_change_me"

// Config App-wide configuration
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

type AppConfig struct {
	Port          int    `mapstructure:"port"`
	Mode          string `mapstructure:"mode"`
	SessionSecret string `mapstructure:"session_secret"`
	TemplatesDir  string `mapstructure:"templates_dir"`
	StaticDir     string `mapstructure:"static_dir"`
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"` // postgres | sqlite
	DSN             string `mapstructure:"dsn"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // minutes
	SlowThreshold   int    `mapstructure:"slow_threshold"`    // milliseconds
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// CacheConfig controls the trending/featured LRU cache.
type CacheConfig struct {
	Size int           `mapstructure:"size"`
	TTL  time.Duration `mapstructure:"ttl"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// GetServerAddr returns the listen address.
func (c AppConfig) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load reads .env (if any), then config.yaml from configPath (if any), then INFOSHARE_* env vars.
func Load(configPath string) (*Config, error) {
	// Don't fail if .env doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix("INFOSHARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// DATABASE_URL / PORT / SESSION_SECRET are honoured for platform deployments
	_ = v.BindEnv("database.dsn", "INFOSHARE_DATABASE_DSN", "DATABASE_URL")
	_ = v.BindEnv("app.port", "INFOSHARE_APP_PORT", "PORT")
	_ = v.BindEnv("app.session_secret", "INFOSHARE_APP_SESSION_SECRET", "SESSION_SECRET")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.mode", "release")
	v.SetDefault("app.session_secret", defaultSessionSecret)
	v.SetDefault("app.templates_dir", "./web/templates")
	v.SetDefault("app.static_dir", "./web/static")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "host=localhost user=postgres password=postgres dbname=infoshare port=5432 sslmode=disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30)
	v.SetDefault("database.slow_threshold", 200)

	v.SetDefault("log.level", "info")

	v.SetDefault("cache.size", 500)
	v.SetDefault("cache.ttl", time.Minute)

	v.SetDefault("ratelimit.rps", 5)
	v.SetDefault("ratelimit.burst", 10)
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	if c.App.Port <= 0 {
		return fmt.Errorf("invalid app.port %d", c.App.Port)
	}
	if c.App.Mode == "release" && (c.App.SessionSecret == "" || c.App.SessionSecret == defaultSessionSecret) {
		return errors.New("app.session_secret must be set in release mode")
	}
	return nil
}
