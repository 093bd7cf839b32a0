package config

import "time"

// Default constructs a configuration with the same defaults the original
// deployment shipped with. Secret intentionally has no default.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8081,
		},
		Database: DatabaseConfig{
			Driver:          "sqlite",
			DSN:             "./data/studenthub.db",
			MaxOpenConns:    5,
			MaxIdleConns:    1,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Log: LogConfig{
			Level: "info",
			Dir:   "./logs",
			File:  "server.log",
		},
		Web: WebConfig{
			StaticDir:      "./web",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
	}
}
