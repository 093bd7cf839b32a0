package config

import (
	"time"
)

// Config is the process-wide configuration, loaded once at bootstrap and
// injected into every component that needs it. Nothing reads the environment
// after loading completes.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
	Web      WebConfig      `yaml:"web"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"` // sqlite, postgres or mysql
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type AuthConfig struct {
	// Secret signs and verifies access tokens. An empty secret is a legal
	// loaded state; token operations report it as a configuration fault.
	Secret   string         `yaml:"secret"`
	TokenTTL time.Duration  `yaml:"token_ttl"`
	Denylist DenylistConfig `yaml:"denylist"`
}

// DenylistConfig selects the revoked-token store. An empty driver disables
// revocation entirely and logins stay purely self-expiring.
type DenylistConfig struct {
	Driver string              `yaml:"driver"` // "", "memory" or "redis"
	Redis  DenylistRedisConfig `yaml:"redis"`
}

type DenylistRedisConfig struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
	File  string `yaml:"file"`
}

type WebConfig struct {
	StaticDir      string   `yaml:"static_dir"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}
