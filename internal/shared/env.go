package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override values from the config file.
const (
	EnvDatabaseURL = "SONGSHEET_DATABASE_URL"
	EnvAuthToken   = "SONGSHEET_AUTH_TOKEN"
	EnvRedisURL    = "SONGSHEET_REDIS_URL"
	EnvLogLevel    = "SONGSHEET_LOG_LEVEL"
	EnvAddr        = "SONGSHEET_ADDR"
)

// LoadEnv applies secrets from dotenv files and the process environment to cfg.
//
// Files default to ".env" and may be absent. Process variables win over file values.
// Setting a database URL switches the driver to libsql.
func LoadEnv(cfg *Config, files ...string) error {
	values, err := godotenv.Read(files...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read env file: %w", err)
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return values[key]
	}

	if url := lookup(EnvDatabaseURL); url != "" {
		cfg.Database.URL = url
		cfg.Database.Driver = DriverLibSQL
	}
	if token := lookup(EnvAuthToken); token != "" {
		cfg.Database.AuthToken = token
	}
	if redisURL := lookup(EnvRedisURL); redisURL != "" {
		cfg.Cache.RedisURL = redisURL
	}
	if lvl := lookup(EnvLogLevel); lvl != "" {
		cfg.LogLevel = lvl
	}
	if addr := lookup(EnvAddr); addr != "" {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvAddr, addr, err)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: invalid port", ErrInvalidConfig, EnvAddr, addr)
		}
		cfg.Server.Host = host
		cfg.Server.Port = p
	}

	return nil
}
