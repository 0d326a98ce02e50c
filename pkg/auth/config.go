package auth

import (
	"fmt"
	"os"
	"time"
)

// Env maps environment variable names for auth configuration.
type Env struct {
	Secret string
	Cookie string
	Issuer string
}

// Config holds the [auth] section.
type Config struct {
	// Secret is the HMAC key tokens are signed with.
	Secret string `toml:"secret"`
	// Cookie names the cookie checked before the Authorization header.
	Cookie string `toml:"cookie"`
	// Issuer, when set, must match the token's iss claim.
	Issuer string `toml:"issuer"`
	// TokenTTL bounds tokens minted by Issue.
	TokenTTL string `toml:"token_ttl"`
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	if c.Cookie == "" {
		c.Cookie = "access_token"
	}
	if c.TokenTTL == "" {
		c.TokenTTL = "24h"
	}
	if env != nil {
		if v := os.Getenv(env.Secret); env.Secret != "" && v != "" {
			c.Secret = v
		}
		if v := os.Getenv(env.Cookie); env.Cookie != "" && v != "" {
			c.Cookie = v
		}
		if v := os.Getenv(env.Issuer); env.Issuer != "" && v != "" {
			c.Issuer = v
		}
	}

	if len(c.Secret) < 16 {
		return fmt.Errorf("secret must be at least 16 bytes")
	}
	if _, err := time.ParseDuration(c.TokenTTL); err != nil {
		return fmt.Errorf("invalid token_ttl: %w", err)
	}
	return nil
}

// Merge applies non-zero overlay values.
func (c *Config) Merge(overlay *Config) {
	if overlay.Secret != "" {
		c.Secret = overlay.Secret
	}
	if overlay.Cookie != "" {
		c.Cookie = overlay.Cookie
	}
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.TokenTTL != "" {
		c.TokenTTL = overlay.TokenTTL
	}
}

// TokenTTLDuration returns the parsed token lifetime.
func (c *Config) TokenTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TokenTTL)
	return d
}
