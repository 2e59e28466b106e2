package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/johnquangdev/bigbluebutton/errors"
	"github.com/johnquangdev/bigbluebutton/pkg/validator"
)

// envPrefix is prepended to every variable, e.g. BBB_URL
const envPrefix = "BBB"

// Config holds the command-line tool configuration
type Config struct {
	Server ServerConfig
	Log    LogConfig
}

// ServerConfig describes the conferencing server to talk to
type ServerConfig struct {
	URL      string `envconfig:"URL" validate:"required,url"`
	Secret   string `envconfig:"SECRET" validate:"required"`
	Checksum string `envconfig:"CHECKSUM" default:"sha1" validate:"oneof=sha1 sha256"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	Level       string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{}
	if err := envconfig.Process(envPrefix, &config.Server); err != nil {
		return nil, errors.ErrConfigInvalid(err)
	}
	if err := envconfig.Process(envPrefix, &config.Log); err != nil {
		return nil, errors.ErrConfigInvalid(err)
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Validate(c); err != nil {
		return errors.ErrConfigInvalid(err).WithDetail("fields", validator.Describe(err))
	}
	return nil
}

// IsProduction reports whether production logging should be used
func (c *Config) IsProduction() bool {
	return c.Log.Environment == "production"
}
