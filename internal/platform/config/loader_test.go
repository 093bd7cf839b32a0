package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoader_Load(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, ".config.yaml")

	configContent := `
server:
  host: "127.0.0.1"
  port: 8080
database:
  driver: "sqlite"
  dsn: "file::memory:?cache=shared"
auth:
  secret: "file-secret"
  token_ttl: 12h
log:
  level: "debug"
`

	if err := os.WriteFile(configFile, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := NewLoader().WithDotEnv(false).WithPath(configFile).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("expected server host 127.0.0.1, got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected server port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Auth.Secret != "file-secret" {
		t.Errorf("expected secret from file, got %q", cfg.Auth.Secret)
	}
	if cfg.Auth.TokenTTL != 12*time.Hour {
		t.Errorf("expected 12h token ttl, got %s", cfg.Auth.TokenTTL)
	}
	// untouched section keeps its default
	if cfg.Web.StaticDir != "./web" {
		t.Errorf("expected default static dir, got %s", cfg.Web.StaticDir)
	}
}

func TestLoader_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := NewLoader().
		WithDotEnv(false).
		WithPath(filepath.Join(t.TempDir(), "absent.yaml")).
		Load()
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if cfg.Server.Port != 8081 {
		t.Errorf("expected default port 8081, got %d", cfg.Server.Port)
	}
	if cfg.Auth.Secret != "" {
		t.Errorf("secret must have no default, got %q", cfg.Auth.Secret)
	}
}

func TestLoader_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("TOKEN_TTL", "1h")

	cfg, err := NewLoader().
		WithDotEnv(false).
		WithPath(filepath.Join(t.TempDir(), "absent.yaml")).
		Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Auth.Secret != "env-secret" {
		t.Errorf("expected env secret override, got %q", cfg.Auth.Secret)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected env port override, got %d", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Errorf("expected env ttl override, got %s", cfg.Auth.TokenTTL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}, wantErr: false},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = -1 }, wantErr: true},
		{name: "bad driver", mutate: func(c *Config) { c.Database.Driver = "oracle" }, wantErr: true},
		{name: "empty dsn", mutate: func(c *Config) { c.Database.DSN = "" }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.Auth.TokenTTL = 0 }, wantErr: true},
		{name: "missing secret is allowed", mutate: func(c *Config) { c.Auth.Secret = "" }, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
