package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/compliance-reports/internal/render"
)

const (
	EnvAnalysisInterpreter = "ANALYSIS_INTERPRETER"
	EnvAnalysisScript      = "ANALYSIS_SCRIPT"
	EnvAnalysisDir         = "ANALYSIS_DIR"
	EnvAnalysisTimeout     = "ANALYSIS_TIMEOUT"
	EnvReportsCacheSize    = "REPORTS_CACHE_SIZE"
	EnvReportsCacheTTL     = "REPORTS_CACHE_TTL"
	EnvRenderMaxDetails    = "RENDER_MAX_DETAILS"
)

// AnalysisConfig configures the external analysis tool.
type AnalysisConfig struct {
	Interpreter string `toml:"interpreter"`
	Script      string `toml:"script"`
	// Dir is the tool's working directory. Empty uses the service's.
	Dir string `toml:"dir"`
	// Timeout bounds each run. Empty leaves runs unbounded.
	Timeout string `toml:"timeout"`
	// Env holds extra KEY=VALUE pairs passed to the tool.
	Env []string `toml:"env"`
}

func (c *AnalysisConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

func (c *AnalysisConfig) Finalize() error {
	if c.Interpreter == "" {
		c.Interpreter = "python3"
	}
	if c.Script == "" {
		c.Script = "scripts/analyze.py"
	}

	if v := os.Getenv(EnvAnalysisInterpreter); v != "" {
		c.Interpreter = v
	}
	if v := os.Getenv(EnvAnalysisScript); v != "" {
		c.Script = v
	}
	if v := os.Getenv(EnvAnalysisDir); v != "" {
		c.Dir = v
	}
	if v := os.Getenv(EnvAnalysisTimeout); v != "" {
		c.Timeout = v
	}

	if c.Timeout != "" {
		if d, err := time.ParseDuration(c.Timeout); err != nil || d < 0 {
			return fmt.Errorf("invalid timeout: %q", c.Timeout)
		}
	}
	return nil
}

func (c *AnalysisConfig) Merge(overlay *AnalysisConfig) {
	if overlay.Interpreter != "" {
		c.Interpreter = overlay.Interpreter
	}
	if overlay.Script != "" {
		c.Script = overlay.Script
	}
	if overlay.Dir != "" {
		c.Dir = overlay.Dir
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if len(overlay.Env) > 0 {
		c.Env = overlay.Env
	}
}

// ReportsConfig sizes the report record cache. A negative CacheSize disables it.
type ReportsConfig struct {
	CacheSize int    `toml:"cache_size"`
	CacheTTL  string `toml:"cache_ttl"`
}

func (c *ReportsConfig) CacheTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.CacheTTL)
	return d
}

func (c *ReportsConfig) Finalize() error {
	if c.CacheSize == 0 {
		c.CacheSize = 1024
	}
	if c.CacheTTL == "" {
		c.CacheTTL = "10m"
	}

	if v := os.Getenv(EnvReportsCacheSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.CacheSize = n
		}
	}
	if v := os.Getenv(EnvReportsCacheTTL); v != "" {
		c.CacheTTL = v
	}

	if _, err := time.ParseDuration(c.CacheTTL); err != nil {
		return fmt.Errorf("invalid cache_ttl: %w", err)
	}
	return nil
}

func (c *ReportsConfig) Merge(overlay *ReportsConfig) {
	if overlay.CacheSize != 0 {
		c.CacheSize = overlay.CacheSize
	}
	if overlay.CacheTTL != "" {
		c.CacheTTL = overlay.CacheTTL
	}
}

// RenderConfig bounds document rendering.
type RenderConfig struct {
	MaxDetails int `toml:"max_details"`
}

func (c *RenderConfig) Finalize() error {
	if c.MaxDetails == 0 {
		c.MaxDetails = render.DefaultMaxDetails
	}
	if v := os.Getenv(EnvRenderMaxDetails); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxDetails = n
		}
	}
	if c.MaxDetails < 1 {
		return fmt.Errorf("max_details must be positive")
	}
	return nil
}

func (c *RenderConfig) Merge(overlay *RenderConfig) {
	if overlay.MaxDetails != 0 {
		c.MaxDetails = overlay.MaxDetails
	}
}
