package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	LogLevel string         `toml:"log_level"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Cache    CacheConfig    `toml:"cache"`
	Scroll   ScrollConfig   `toml:"scroll"`
}

// DatabaseConfig contains database connection settings.
//
// Driver selects between a local SQLite file (Path) and a hosted libSQL database (URL + AuthToken).
type DatabaseConfig struct {
	Driver       string `toml:"driver"`
	Path         string `toml:"path"`
	URL          string `toml:"url"`
	AuthToken    string `toml:"auth_token"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host       string  `toml:"host"`
	Port       int     `toml:"port"`
	RateLimit  float64 `toml:"rate_limit"`
	Burst      int     `toml:"burst"`
	CORSOrigin string  `toml:"cors_origin"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CacheConfig contains read cache settings.
type CacheConfig struct {
	RedisURL   string `toml:"redis_url"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// ScrollConfig contains auto-scroll pacing settings.
type ScrollConfig struct {
	IntervalMS int     `toml:"interval_ms"`
	Tolerance  float64 `toml:"tolerance"`
}

// Interval returns the tick interval of the auto-scroll pacer.
func (s ScrollConfig) Interval() time.Duration {
	return time.Duration(s.IntervalMS) * time.Millisecond
}

// Level parses LogLevel, falling back to [log.InfoLevel].
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that the configured database driver has what it needs to connect and that the
// auto-scroll settings are usable.
func (c *Config) Validate() error {
	if c.Scroll.IntervalMS <= 0 {
		return fmt.Errorf("%w: scroll.interval_ms must be positive, got %d", ErrInvalidConfig, c.Scroll.IntervalMS)
	}
	if c.Scroll.Tolerance < 0 {
		return fmt.Errorf("%w: scroll.tolerance must not be negative, got %v", ErrInvalidConfig, c.Scroll.Tolerance)
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("%w: database.path is required for driver %q", ErrInvalidConfig, DriverSQLite)
		}
	case DriverLibSQL:
		if c.Database.URL == "" {
			return fmt.Errorf("%w: database.url is required for driver %q", ErrInvalidConfig, DriverLibSQL)
		}
	default:
		return fmt.Errorf("%w: unknown database driver %q", ErrInvalidConfig, c.Database.Driver)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
