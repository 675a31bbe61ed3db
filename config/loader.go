package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides, e.g.
// BUSLINE_AUTH_SECRET overrides auth.secret.
const EnvPrefix = "BUSLINE"

// configSearchPaths are the locations tried, in order, when no config
// file is given explicitly.
var configSearchPaths = []string{
	"./config.yml",
	"./cmd/gateway/config.yml",
	"../cmd/gateway/config.yml",
	"/etc/busline/config.yml",
}

// envSearchPaths are the locations tried for a .env file.
var envSearchPaths = []string{
	"./.env",
	"./cmd/gateway/.env",
	"../.env",
}

// Loader resolves and reads the configuration. The zero value searches
// the standard locations.
type Loader struct {
	configFile string
	envFile    string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithConfigFile pins the loader to an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(l *Loader) { l.configFile = path }
}

// WithEnvFile pins the loader to an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(l *Loader) { l.envFile = path }
}

// Load reads the configuration, applying sources in precedence order:
// environment variables over .env entries over the YAML file over
// defaults. A missing config file is not an error; the defaults plus
// environment must then carry everything required.
func Load(opts ...LoaderOption) (*Config, error) {
	var l Loader
	for _, opt := range opts {
		opt(&l)
	}

	// godotenv only fills variables that are not already set, so real
	// environment always wins over the .env file.
	if envFile := l.resolve(l.envFile, envSearchPaths); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("config: loading %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile := l.resolve(l.configFile, configSearchPaths); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", configFile, err)
		}
	}
	bindEnvOverrides(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// resolve returns the explicit path if set, otherwise the first search
// path that exists.
func (l *Loader) resolve(explicit string, searchPaths []string) string {
	if explicit != "" {
		return explicit
	}
	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// bindEnvOverrides maps prefixed environment variables onto nested keys.
// AutomaticEnv alone cannot see keys absent from the config file, so
// every BUSLINE_ variable is bound explicitly: BUSLINE_AUTH_SECRET
// becomes auth.secret, BUSLINE_DATABASE_MAX_OPEN_CONNS tries each
// nesting split until one matches a known key.
func bindEnvOverrides(v *viper.Viper) {
	for _, entry := range os.Environ() {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix+"_") {
			continue
		}
		raw := strings.ToLower(strings.TrimPrefix(name, EnvPrefix+"_"))
		v.Set(overrideKey(v, raw), value)
	}
}

// overrideKey picks the nested key a variable maps to: each prefix of
// the underscore-separated name is tried as the section until one names
// a known key, so database_max_open_conns lands on
// database.max_open_conns rather than database.max.open.conns.
func overrideKey(v *viper.Viper, raw string) string {
	parts := strings.Split(raw, "_")
	for i := 1; i < len(parts); i++ {
		key := strings.Join(parts[:i], ".") + "." + strings.Join(parts[i:], "_")
		if v.IsSet(key) {
			return key
		}
	}
	if v.IsSet(raw) || len(parts) == 1 {
		return raw
	}
	return parts[0] + "." + strings.Join(parts[1:], "_")
}
