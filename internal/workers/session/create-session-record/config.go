// internal/workers/session/create-session-record/config.go
package createsessionrecord

import "time"

// No per-worker tuning yet; the struct keeps constructor signatures uniform.
type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
