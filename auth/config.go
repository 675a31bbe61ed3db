package auth

import (
	"fmt"
	"time"
)

// Config holds the gateway's authentication configuration. The secret and
// TTL are opaque startup parameters; rotation of the secret invalidates
// every outstanding token at once since verification is stateless.
type Config struct {
	// Secret is the shared HS256 signing key.
	Secret string `yaml:"secret" mapstructure:"secret"`

	// TTL is the default token lifetime.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`

	// Environment gates debug issuance ("production" disables it).
	Environment string `yaml:"environment" mapstructure:"environment"`

	// Users is the static credential store checked at login.
	Users []UserConfig `yaml:"users" mapstructure:"users"`
}

// UserConfig declares one login identity and the grants baked into its
// tokens. Exactly one of Password and PasswordHash should be set; plaintext
// passwords are hashed at load time and only used for development setups.
type UserConfig struct {
	Username     string   `yaml:"username" mapstructure:"username"`
	Password     string   `yaml:"password" mapstructure:"password"`
	PasswordHash string   `yaml:"password_hash" mapstructure:"password_hash"`
	Roles        []string `yaml:"roles" mapstructure:"roles"`
	Policies     []string `yaml:"policies" mapstructure:"policies"`
}

// ApplyDefaults sets sensible defaults for unset fields.
func (c *Config) ApplyDefaults() {
	if c.TTL == 0 {
		c.TTL = time.Hour
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("auth.secret is required")
	}
	if c.TTL <= 0 {
		return fmt.Errorf("auth.ttl must be positive (got: %s)", c.TTL)
	}
	for idx, u := range c.Users {
		if u.Username == "" {
			return fmt.Errorf("auth.users[%d].username is required", idx)
		}
		if u.Password == "" && u.PasswordHash == "" {
			return fmt.Errorf("auth.users[%d]: password or password_hash is required", idx)
		}
	}
	return nil
}
