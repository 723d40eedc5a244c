package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Loader resolves and merges configuration from a YAML file, a .env file,
// and process environment variables, in that order of increasing priority.
type Loader struct {
	ConfigFile string
	EnvFile    string
}

// Option customizes a Loader.
type Option func(*Loader)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) Option {
	return func(l *Loader) { l.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) Option {
	return func(l *Loader) { l.EnvFile = path }
}

// Load populates cfg from config.yml, .env, and environment variables.
// Missing files are not an error; environment variables always win.
func Load(cfg interface{}, opts ...Option) error {
	var l Loader
	for _, opt := range opts {
		opt(&l)
	}
	if l.ConfigFile == "" {
		l.ConfigFile = findFirst(
			"./cmd/todoapi/config.yml",
			"./config/config.yml",
			"./config.yml",
		)
	}
	if l.EnvFile == "" {
		l.EnvFile = findFirst("./.env", "../.env")
	}

	if l.EnvFile != "" {
		if err := godotenv.Load(l.EnvFile); err != nil {
			fmt.Fprintf(os.Stderr, "[config] warning: failed to load %s: %v\n", l.EnvFile, err)
		}
	}

	v := viper.New()
	if l.ConfigFile != "" {
		v.SetConfigFile(l.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", l.ConfigFile, err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindEnvKeys(v, "", v.AllSettings())

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

// bindEnvKeys registers every nested key with viper so AutomaticEnv can
// override file values. Viper only consults the environment for keys it
// knows about.
func bindEnvKeys(v *viper.Viper, prefix string, settings map[string]interface{}) {
	for key, value := range settings {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			bindEnvKeys(v, full, nested)
			continue
		}
		_ = v.BindEnv(full)
	}
}

func findFirst(paths ...string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
