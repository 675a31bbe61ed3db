package config

import (
	"fmt"
	"time"

	"github.com/busline/gateway/auth"
	"github.com/busline/gateway/database"
	"github.com/busline/gateway/logger"
	"github.com/busline/gateway/server"
)

// Config is the gateway's full configuration tree, loaded from config.yml
// and overridable through BUSLINE_-prefixed environment variables.
type Config struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Version     string `yaml:"version" mapstructure:"version"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`

	Logging  logger.Config   `yaml:"logging" mapstructure:"logging"`
	Server   server.Config   `yaml:"server" mapstructure:"server"`
	Auth     auth.Config     `yaml:"auth" mapstructure:"auth"`
	Database database.Config `yaml:"database" mapstructure:"database"`
	Observe  ObserveConfig   `yaml:"observe" mapstructure:"observe"`
}

// ObserveConfig enables and targets the OTLP exporters. Tracing and
// metrics are off unless explicitly enabled.
type ObserveConfig struct {
	TracingEnabled bool          `yaml:"tracing_enabled" mapstructure:"tracing_enabled"`
	MetricsEnabled bool          `yaml:"metrics_enabled" mapstructure:"metrics_enabled"`
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure       bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate     float64       `yaml:"sample_rate" mapstructure:"sample_rate"`
	Interval       time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ApplyDefaults fills in defaults across the whole tree.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "busline-gateway"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}

	if c.Logging.ServiceName == "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
	c.Server.ApplyDefaults()

	// The issuer gates debug token minting on the same environment value.
	if c.Auth.Environment == "" {
		c.Auth.Environment = c.Environment
	}
	c.Auth.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Observe.ApplyDefaults()
}

// ApplyDefaults fills in exporter defaults.
func (c *ObserveConfig) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
		c.Insecure = true
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
}

// Validate checks the whole tree and reports the first problem found.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	validEnvs := []string{"development", "staging", "production"}
	found := false
	for _, env := range validEnvs {
		if c.Environment == env {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("config.environment must be one of [development, staging, production] (got: %s)", c.Environment)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("config.server: %w", err)
	}
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("config.auth: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("config.database: %w", err)
	}
	if err := c.Observe.Validate(); err != nil {
		return fmt.Errorf("config.observe: %w", err)
	}
	return nil
}

// Validate checks exporter settings.
func (c *ObserveConfig) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("sample_rate must be between 0.0 and 1.0 (got: %g)", c.SampleRate)
	}
	if (c.TracingEnabled || c.MetricsEnabled) && c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when an exporter is enabled")
	}
	return nil
}
