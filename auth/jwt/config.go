package jwt

import (
	"errors"
	"strings"
	"time"
)

// Config configures the JWT token service.
type Config struct {
	// Secret is the HMAC signing key. Required; there is no insecure default.
	Secret string `yaml:"secret" mapstructure:"secret"`

	// TokenTTL is the lifetime of issued tokens (default: 2h).
	TokenTTL time.Duration `yaml:"token_ttl" mapstructure:"token_ttl"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.TokenTTL == 0 {
		c.TokenTTL = 2 * time.Hour
	}
}

// Validate checks required fields. A secret of only whitespace counts as
// blank.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Secret) == "" {
		return errors.New("jwt: secret is required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("jwt: token_ttl must be positive")
	}
	return nil
}
