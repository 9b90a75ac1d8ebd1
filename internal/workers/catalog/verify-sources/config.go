// internal/workers/catalog/verify-sources/config.go
package verifysources

import (
	"time"
)

type Config struct {
	RequestTimeout time.Duration
	UserAgent      string
	MaxSources     int
	Timeout        time.Duration
}

func LoadConfig() *Config {
	return &Config{
		RequestTimeout: 10 * time.Second,
		UserAgent:      "pathway-workers/1.0 (catalog-source-check)",
		MaxSources:     25,
		Timeout:        60 * time.Second,
	}
}
