// Package config loads the stackmap runtime configuration from, in
// increasing precedence: built-in defaults, an optional YAML config file,
// .env files, and STACKMAP_* environment variables.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/stackmap/stackmap/pkg/errors"
)

const envPrefix = "STACKMAP"

// Config holds the settings for talking to the remote graph catalog.
type Config struct {
	RemoteURL  string
	Token      string
	Timeout    time.Duration
	MaxRetries int
	LogLevel   string
}

// Load builds the configuration. configFile may be empty, in which case
// an optional .stackmap.yaml is searched in the working directory and
// the user's home directory.
func Load(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("timeout", "10s")
	v.SetDefault("max-retries", 3)
	v.SetDefault("log-level", "info")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "reading config file", err)
		}
	} else {
		v.SetConfigName(".stackmap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		// The config file is optional without an explicit --config.
		_ = v.ReadInConfig()
	}

	return &Config{
		RemoteURL:  v.GetString("remote-url"),
		Token:      v.GetString("token"),
		Timeout:    v.GetDuration("timeout"),
		MaxRetries: v.GetInt("max-retries"),
		LogLevel:   v.GetString("log-level"),
	}, nil
}

// Validate checks the settings required to reach the remote catalog.
func (c *Config) Validate() error {
	if c.RemoteURL == "" {
		return errors.NewConfigError("remote", "remote catalog URL is not set (STACKMAP_REMOTE_URL)", nil)
	}
	return nil
}

// loadEnvFiles loads .env files without overriding variables already set
// in the environment. .env.local is loaded first so it takes precedence
// over .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		_ = godotenv.Load(envFile)
	}
}
