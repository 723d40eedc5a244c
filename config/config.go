package config

import (
	"fmt"

	"github.com/kbukum/todoapi/auth/jwt"
	"github.com/kbukum/todoapi/database"
	"github.com/kbukum/todoapi/logger"
	"github.com/kbukum/todoapi/mail"
	"github.com/kbukum/todoapi/recovery"
	"github.com/kbukum/todoapi/redis"
	"github.com/kbukum/todoapi/server"
)

// Config is the full application configuration tree.
type Config struct {
	Logging  logger.Config   `yaml:"logging" mapstructure:"logging"`
	Server   server.Config   `yaml:"server" mapstructure:"server"`
	Database database.Config `yaml:"database" mapstructure:"database"`
	Redis    redis.Config    `yaml:"redis" mapstructure:"redis"`
	Auth     AuthConfig      `yaml:"auth" mapstructure:"auth"`
	Recovery recovery.Config `yaml:"recovery" mapstructure:"recovery"`
	Mail     mail.Config     `yaml:"mail" mapstructure:"mail"`
}

// AuthConfig groups the authentication settings.
type AuthConfig struct {
	JWT        jwt.Config `yaml:"jwt" mapstructure:"jwt"`
	BcryptCost int        `yaml:"bcrypt_cost" mapstructure:"bcrypt_cost"`
}

// ApplyDefaults fills every zero-valued field across the tree.
func (c *Config) ApplyDefaults() {
	c.Logging.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.Auth.JWT.ApplyDefaults()
	c.Recovery.ApplyDefaults()
	c.Mail.ApplyDefaults()
}

// Validate checks the whole tree. The JWT secret is required here so a
// misconfigured deployment fails at startup, not on the first login.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Redis.Validate(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if err := c.Auth.JWT.Validate(); err != nil {
		return fmt.Errorf("auth.jwt: %w", err)
	}
	return nil
}
