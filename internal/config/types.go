package config

import (
	"fmt"
	"time"
)

// Duration is a time.Duration that reads and writes as "5s" in JSON and
// environment variables.
type Duration time.Duration

// D returns the standard library value.
func (d Duration) D() time.Duration { return time.Duration(d) }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// ServerConfig configures the HTTP API listener.
// RequestTimeout bounds each request's transaction.
type ServerConfig struct {
	Addr            string   `json:"addr" env:"ADDR"`
	ReadTimeout     Duration `json:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    Duration `json:"write_timeout" env:"WRITE_TIMEOUT"`
	RequestTimeout  Duration `json:"request_timeout" env:"REQUEST_TIMEOUT"`
	ShutdownTimeout Duration `json:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// DatabaseConfig configures the SQLite store.
type DatabaseConfig struct {
	Path         string   `json:"path" env:"DB_PATH"`
	MaxOpenConns int      `json:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	BusyTimeout  Duration `json:"busy_timeout" env:"DB_BUSY_TIMEOUT"`
}

// AuthConfig maps static bearer tokens to user names. No tokens means the
// API is open.
type AuthConfig struct {
	Tokens map[string]string `json:"tokens,omitempty" env:"TOKENS"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `json:"level" env:"LOG_LEVEL"`   // debug, info, warn, error
	Format string `json:"format" env:"LOG_FORMAT"` // text or json
}

// RetryConfig is the backoff applied to conflicting transactions.
type RetryConfig struct {
	InitialInterval Duration `json:"initial_interval"`
	MaxInterval     Duration `json:"max_interval"`
	MaxElapsedTime  Duration `json:"max_elapsed_time" env:"RETRY_MAX_ELAPSED"`
	Multiplier      float64  `json:"multiplier"`
}

// Config is the top-level configuration.
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Auth     AuthConfig     `json:"auth"`
	Log      LogConfig      `json:"log"`
	Retry    RetryConfig    `json:"retry"`
}
