// Package config handles configuration loading and defaults. Values
// come from an optional TOML file and can be overridden per field with
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultHTTPAddr         = ":3000"
	DefaultDBPath           = "task_tracker.db"
	DefaultJWTIssuer        = "task-tracker"
	DefaultAccessTTLMinutes = 15
	DefaultRefreshTTLHours  = 7 * 24
)

// Config holds the full application configuration.
type Config struct {
	HTTPAddr string   `toml:"http_addr"`
	Database Database `toml:"database"`
	JWT      JWT      `toml:"jwt"`
}

// Database holds persistence settings.
type Database struct {
	Path  string `toml:"path"`
	Debug bool   `toml:"debug"`
}

// DSN returns the SQLite data source name. Several modules open their
// own connection onto the same file, so the DSN carries a busy timeout
// to let concurrent writers queue instead of failing with SQLITE_BUSY.
func (d Database) DSN() string {
	if strings.Contains(d.Path, "?") {
		return d.Path
	}
	return d.Path + "?_busy_timeout=5000&_journal_mode=WAL"
}

// JWT holds session token settings.
type JWT struct {
	Secret           string `toml:"secret"`
	Issuer           string `toml:"issuer"`
	AccessTTLMinutes int    `toml:"access_ttl_minutes"`
	RefreshTTLHours  int    `toml:"refresh_ttl_hours"`
}

// AccessTTL returns the access token lifetime.
func (j JWT) AccessTTL() time.Duration {
	return time.Duration(j.AccessTTLMinutes) * time.Minute
}

// RefreshTTL returns the refresh token lifetime.
func (j JWT) RefreshTTL() time.Duration {
	return time.Duration(j.RefreshTTLHours) * time.Hour
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		HTTPAddr: DefaultHTTPAddr,
		Database: Database{Path: DefaultDBPath},
		JWT: JWT{
			Secret:           "change-me-in-production",
			Issuer:           DefaultJWTIssuer,
			AccessTTLMinutes: DefaultAccessTTLMinutes,
			RefreshTTLHours:  DefaultRefreshTTLHours,
		},
	}
}

// Load reads configuration from path, then applies environment
// overrides. A missing file is not an error; defaults are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides individual fields from environment variables.
func (c *Config) applyEnv() {
	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		c.HTTPAddr = addr
	}
	if path := os.Getenv("DB_PATH"); path != "" {
		c.Database.Path = path
	}
	if os.Getenv("DB_DEBUG") == "true" {
		c.Database.Debug = true
	}
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		c.JWT.Secret = secret
	}
	if issuer := os.Getenv("JWT_ISSUER"); issuer != "" {
		c.JWT.Issuer = issuer
	}
	if ttl := os.Getenv("JWT_ACCESS_TTL_MINUTES"); ttl != "" {
		if minutes, err := strconv.Atoi(ttl); err == nil && minutes > 0 {
			c.JWT.AccessTTLMinutes = minutes
		}
	}
}
