package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

const validYAML = `
name: busline-gateway
environment: staging
version: "1.0.0"
auth:
  secret: file-secret
  ttl: 30m
  users:
    - username: admin
      password: admin-pass
      roles: [admin]
      policies: ["read:seats", "write:seats"]
database:
  dsn: "host=localhost user=busline dbname=busline sslmode=disable"
server:
  port: 9090
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFromYAML(t *testing.T) {
	cfg, err := Load(WithConfigFile(writeConfig(t, validYAML)))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Environment != "staging" {
		t.Errorf("expected environment 'staging', got %q", cfg.Environment)
	}
	if cfg.Auth.Secret != "file-secret" {
		t.Errorf("expected secret from file, got %q", cfg.Auth.Secret)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Auth.Environment != "staging" {
		t.Errorf("auth environment should inherit the service environment, got %q", cfg.Auth.Environment)
	}
	if len(cfg.Auth.Users) != 1 || cfg.Auth.Users[0].Username != "admin" {
		t.Errorf("unexpected users: %+v", cfg.Auth.Users)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(WithConfigFile(writeConfig(t, `
name: busline-gateway
auth:
  secret: s
database:
  dsn: "host=localhost"
`)))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Environment != "development" || !cfg.Debug {
		t.Errorf("expected development defaults, got env=%q debug=%v", cfg.Environment, cfg.Debug)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Logging.ServiceName != "busline-gateway" {
		t.Errorf("expected logging service name propagated, got %q", cfg.Logging.ServiceName)
	}
	if cfg.Observe.Endpoint != "localhost:4318" {
		t.Errorf("expected default OTLP endpoint, got %q", cfg.Observe.Endpoint)
	}
}

func TestLoadEnvironmentOverride(t *testing.T) {
	t.Setenv("BUSLINE_AUTH_SECRET", "env-secret")
	t.Setenv("BUSLINE_SERVER_PORT", "7070")

	cfg, err := Load(WithConfigFile(writeConfig(t, validYAML)))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Auth.Secret != "env-secret" {
		t.Errorf("expected env override, got %q", cfg.Auth.Secret)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("expected env override port 7070, got %d", cfg.Server.Port)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		errMsg string
	}{
		{"missing secret", "name: gw\ndatabase:\n  dsn: x\n", "auth.secret is required"},
		{"missing dsn", "name: gw\nauth:\n  secret: s\n", "DSN is required"},
		{"bad environment", "name: gw\nenvironment: qa\nauth:\n  secret: s\ndatabase:\n  dsn: x\n", "must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(WithConfigFile(writeConfig(t, tc.yaml)))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
			}
		})
	}
}

func TestOverrideKey(t *testing.T) {
	v := viper.New()
	v.Set("database.max_open_conns", 25)
	v.Set("auth.secret", "s")

	tests := []struct {
		raw  string
		want string
	}{
		{"database_max_open_conns", "database.max_open_conns"},
		{"auth_secret", "auth.secret"},
		{"debug", "debug"},
		{"observe_sample_rate", "observe.sample_rate"},
	}
	for _, tc := range tests {
		if got := overrideKey(v, tc.raw); got != tc.want {
			t.Errorf("overrideKey(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestObserveConfigValidate(t *testing.T) {
	cfg := ObserveConfig{SampleRate: 1.5}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for sample rate above 1.0")
	}

	cfg = ObserveConfig{TracingEnabled: true}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for enabled tracing without endpoint")
	}
}
