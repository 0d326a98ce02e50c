package keylock

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Backend selects the Locker implementation.
type Backend string

const (
	BackendLocal Backend = "local"
	BackendRedis Backend = "redis"
)

// Env maps environment variable names for lock configuration.
type Env struct {
	Backend       string
	RedisAddr     string
	RedisPassword string
	RedisDB       string
}

// Config holds the [locks] section.
type Config struct {
	Backend Backend `toml:"backend"`
	// TTL bounds how long a distributed lock survives a crashed holder.
	TTL string `toml:"ttl"`
	// RetryInterval is the polling interval while waiting on a held distributed lock.
	RetryInterval string      `toml:"retry_interval"`
	Redis         RedisConfig `toml:"redis"`
}

// RedisConfig addresses the Redis instance shared by service replicas.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	if c.Backend == "" {
		c.Backend = BackendLocal
	}
	if c.TTL == "" {
		c.TTL = "2m"
	}
	if c.RetryInterval == "" {
		c.RetryInterval = "50ms"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}

	if env != nil {
		if v := os.Getenv(env.Backend); env.Backend != "" && v != "" {
			c.Backend = Backend(v)
		}
		if v := os.Getenv(env.RedisAddr); env.RedisAddr != "" && v != "" {
			c.Redis.Addr = v
		}
		if v := os.Getenv(env.RedisPassword); env.RedisPassword != "" && v != "" {
			c.Redis.Password = v
		}
		if n, err := strconv.Atoi(os.Getenv(env.RedisDB)); env.RedisDB != "" && err == nil {
			c.Redis.DB = n
		}
	}

	switch c.Backend {
	case BackendLocal, BackendRedis:
	default:
		return fmt.Errorf("invalid backend: %s (must be local or redis)", c.Backend)
	}
	if d, err := time.ParseDuration(c.TTL); err != nil || d <= 0 {
		return fmt.Errorf("invalid ttl: %q", c.TTL)
	}
	if d, err := time.ParseDuration(c.RetryInterval); err != nil || d <= 0 {
		return fmt.Errorf("invalid retry_interval: %q", c.RetryInterval)
	}
	return nil
}

// Merge applies non-zero overlay values.
func (c *Config) Merge(overlay *Config) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.TTL != "" {
		c.TTL = overlay.TTL
	}
	if overlay.RetryInterval != "" {
		c.RetryInterval = overlay.RetryInterval
	}
	if overlay.Redis.Addr != "" {
		c.Redis.Addr = overlay.Redis.Addr
	}
	if overlay.Redis.Password != "" {
		c.Redis.Password = overlay.Redis.Password
	}
	if overlay.Redis.DB != 0 {
		c.Redis.DB = overlay.Redis.DB
	}
}

// TTLDuration returns the parsed lock TTL.
func (c *Config) TTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TTL)
	return d
}

// RetryIntervalDuration returns the parsed polling interval.
func (c *Config) RetryIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.RetryInterval)
	return d
}
