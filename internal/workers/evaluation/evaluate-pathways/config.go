// internal/workers/evaluation/evaluate-pathways/config.go
package evaluatepathways

import "time"

type Config struct {
	// DefaultTopN caps the shortlist when the process does not ask for a
	// specific size.
	DefaultTopN    int
	ResultCacheTTL time.Duration
	Timeout        time.Duration
}

func LoadConfig() *Config {
	return &Config{
		DefaultTopN:    5,
		ResultCacheTTL: 15 * time.Minute,
		Timeout:        30 * time.Second,
	}
}
