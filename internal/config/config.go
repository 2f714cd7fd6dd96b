// Package config loads rolebot configuration from rolebot.yaml with
// environment overrides for secrets.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all rolebot configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Discord connection
	Discord DiscordConfig `yaml:"discord"`

	// Storage
	Storage StorageConfig `yaml:"storage"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// DiscordConfig configures the gateway connection.
type DiscordConfig struct {
	Token    string `yaml:"token"`
	Prefix   string `yaml:"prefix"`   // command prefix, e.g. "rb!"
	Activity string `yaml:"activity"` // presence text
}

// StorageConfig configures the role store.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "rolebot",
		Version: "1.0.0",
		Discord: DiscordConfig{
			Prefix:   "rb!",
			Activity: "reactions",
		},
		Storage: StorageConfig{
			DatabasePath: "roles.sqlite",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the given path, falling back to defaults
// when the file does not exist. A .env file in the working directory is
// loaded first so ROLEBOT_TOKEN can live outside the yaml.
func Load(path string) (*Config, error) {
	// Best effort; a missing .env is fine.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if token := os.Getenv("ROLEBOT_TOKEN"); token != "" {
		c.Discord.Token = token
	}
	if token := os.Getenv("DISCORD_TOKEN"); token != "" && c.Discord.Token == "" {
		c.Discord.Token = token
	}
	if path := os.Getenv("ROLEBOT_DB"); path != "" {
		c.Storage.DatabasePath = path
	}
}

// Validate checks that the configuration is usable for running the bot.
func (c *Config) Validate() error {
	if c.Discord.Token == "" {
		return fmt.Errorf("discord token not set (rolebot.yaml discord.token or ROLEBOT_TOKEN)")
	}
	if c.Discord.Prefix == "" {
		return fmt.Errorf("command prefix must not be empty")
	}
	if c.Storage.DatabasePath == "" {
		return fmt.Errorf("storage database_path must not be empty")
	}
	return nil
}
