package tracing

import (
	"fmt"
	"os"
	"strconv"
)

// Env maps environment variable names for tracing configuration.
type Env struct {
	Endpoint    string
	Insecure    string
	SampleRatio string
}

// Config holds the [tracing] section. An empty Endpoint disables export.
type Config struct {
	Endpoint    string  `toml:"endpoint"`
	Insecure    bool    `toml:"insecure"`
	SampleRatio float64 `toml:"sample_ratio"`
	ServiceName string  `toml:"service_name"`
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	if c.ServiceName == "" {
		c.ServiceName = "compliance-reports"
	}
	if c.SampleRatio == 0 {
		c.SampleRatio = 1
	}

	if env != nil {
		if v := os.Getenv(env.Endpoint); env.Endpoint != "" && v != "" {
			c.Endpoint = v
		}
		if v, err := strconv.ParseBool(os.Getenv(env.Insecure)); env.Insecure != "" && err == nil {
			c.Insecure = v
		}
		if v, err := strconv.ParseFloat(os.Getenv(env.SampleRatio), 64); env.SampleRatio != "" && err == nil {
			c.SampleRatio = v
		}
	}

	if c.SampleRatio < 0 || c.SampleRatio > 1 {
		return fmt.Errorf("sample_ratio must be within [0, 1], got %v", c.SampleRatio)
	}
	return nil
}

// Merge applies non-zero overlay values.
func (c *Config) Merge(overlay *Config) {
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.Insecure {
		c.Insecure = true
	}
	if overlay.SampleRatio != 0 {
		c.SampleRatio = overlay.SampleRatio
	}
	if overlay.ServiceName != "" {
		c.ServiceName = overlay.ServiceName
	}
}
