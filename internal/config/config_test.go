package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
server:
  host: "0.0.0.0"
  port: 8080
database:
  host: "localhost"
  port: 5432
  name: "liftlog"
  user: "liftlog"
  password: "secret"
  sslmode: "disable"
auth:
  jwt_secret: "test-secret-123"
ai:
  api_key: "sk-test"
  model: "gpt-4o-mini"
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all fields populated.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "liftlog" {
		t.Errorf("database.name = %q, want %q", cfg.Database.Name, "liftlog")
	}
	if cfg.Auth.JWTSecret != "test-secret-123" {
		t.Errorf("auth.jwt_secret = %q, want %q", cfg.Auth.JWTSecret, "test-secret-123")
	}
	if cfg.AI.Model != "gpt-4o-mini" {
		t.Errorf("ai.model = %q, want %q", cfg.AI.Model, "gpt-4o-mini")
	}
}

// TestLoadDefaults verifies token TTL and model defaults are applied when omitted.
func TestLoadDefaults(t *testing.T) {
	yaml := `
server:
  port: 8080
database:
  host: "localhost"
  port: 5432
  name: "liftlog"
  user: "liftlog"
auth:
  jwt_secret: "s"
`
	cfg, err := Load(writeTemp(t, yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Auth.TokenTTL != 24*60 {
		t.Errorf("token TTL = %d, want %d", cfg.Auth.TokenTTL, 24*60)
	}
	if cfg.AI.Model != "gpt-4o-mini" {
		t.Errorf("ai.model default = %q, want gpt-4o-mini", cfg.AI.Model)
	}
}

// TestEnvOverride verifies that LIFTLOG_ env vars take precedence over YAML values.
func TestEnvOverride(t *testing.T) {
	t.Setenv("LIFTLOG_DB_HOST", "db.internal")
	t.Setenv("LIFTLOG_SERVER_PORT", "9000")
	t.Setenv("LIFTLOG_AI_MODEL", "gpt-4o")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("database.host = %q, want %q", cfg.Database.Host, "db.internal")
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("server.port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.AI.Model != "gpt-4o" {
		t.Errorf("ai.model = %q, want %q", cfg.AI.Model, "gpt-4o")
	}
}

// TestValidationMissingSecret verifies that a missing JWT secret fails validation.
func TestValidationMissingSecret(t *testing.T) {
	yaml := `
server:
  port: 8080
database:
  host: "localhost"
  port: 5432
  name: "liftlog"
  user: "liftlog"
`
	if _, err := Load(writeTemp(t, yaml)); err == nil {
		t.Fatal("expected validation error for missing jwt_secret")
	}
}

// TestDSN verifies the PostgreSQL connection string format, including the
// sslmode fallback.
func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "localhost", Port: 5432, Name: "liftlog", User: "u", Password: "p"}
	want := "postgres://u:p@localhost:5432/liftlog?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}
