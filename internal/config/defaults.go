package config

import (
	"time"
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            "127.0.0.1:7420",
			ReadTimeout:     Duration(10 * time.Second),
			WriteTimeout:    0, // the event stream is long-lived
			RequestTimeout:  Duration(5 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Database: DatabaseConfig{
			Path:         ".taskblaster/taskblaster.db",
			MaxOpenConns: 4,
			BusyTimeout:  Duration(5 * time.Second),
		},
		Auth: AuthConfig{
			Tokens: map[string]string{},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Retry: RetryConfig{
			InitialInterval: Duration(5 * time.Millisecond),
			MaxInterval:     Duration(250 * time.Millisecond),
			MaxElapsedTime:  Duration(3 * time.Second),
			Multiplier:      2.0,
		},
	}
}
