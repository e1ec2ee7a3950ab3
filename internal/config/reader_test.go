package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENV", EnvDev)
	t.Setenv("POSTGRES_HOST", "localhost")
	t.Setenv("POSTGRES_USERNAME", "tracker")
	t.Setenv("POSTGRES_PASSWORD", "tracker")
	t.Setenv("POSTGRES_DATABASE", "tracker")
	t.Setenv("JWT_SIGNING_KEY", "secret")
}

func TestEnvReader_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := NewEnvReader().Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if cfg.Postgres.Port != 5432 || cfg.Postgres.SSLMode != "disable" || !cfg.Postgres.MigrateOnStart {
		t.Errorf("unexpected postgres defaults: %+v", cfg.Postgres)
	}
	if cfg.HTTP.Port != "8000" || cfg.HTTP.ShutdownTimeout != 5*time.Second || cfg.HTTP.DebugRequests {
		t.Errorf("unexpected http defaults: %+v", cfg.HTTP)
	}
	if cfg.JWT.AccessTokenTTL != 15*time.Minute || cfg.JWT.RefreshTokenTTL != 720*time.Hour {
		t.Errorf("unexpected jwt defaults: %+v", cfg.JWT)
	}
}

func TestEnvReader_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_DEBUG_REQUESTS", "true")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("JWT_ACCESS_TOKEN_TTL", "1m")

	cfg, err := NewEnvReader().Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !cfg.HTTP.DebugRequests || cfg.HTTP.Port != "9090" || cfg.JWT.AccessTokenTTL != time.Minute {
		t.Errorf("overrides not applied: %+v %+v", cfg.HTTP, cfg.JWT)
	}
}

func TestEnvReader_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	// t.Setenv restores the variable after the test.
	t.Setenv("JWT_SIGNING_KEY", "")
	os.Unsetenv("JWT_SIGNING_KEY")

	_, err := NewEnvReader().Read()
	if err == nil {
		t.Fatal("expected an error for missing JWT_SIGNING_KEY")
	}
}

func TestFileReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
  "Env": "local",
  "Postgres": {"Host": "db", "Username": "tracker", "Password": "tracker", "Database": "tracker"},
  "HTTP": {"Port": "8080"},
  "JWT": {"SigningKey": "from-file"}
}`
	err := os.WriteFile(path, []byte(content), 0o600)
	if err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("HTTP_PORT", "9000")

	cfg, err := NewFileReader(path).Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if cfg.Env != EnvLocal || cfg.Postgres.Host != "db" || cfg.JWT.SigningKey != "from-file" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.HTTP.Port != "9000" {
		t.Errorf("expected env to override file, got port %s", cfg.HTTP.Port)
	}
	if cfg.Postgres.Port != 5432 {
		t.Errorf("expected default postgres port, got %d", cfg.Postgres.Port)
	}
}

func TestFileReader_MissingFile(t *testing.T) {
	_, err := NewFileReader(filepath.Join(t.TempDir(), "absent.json")).Read()
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
