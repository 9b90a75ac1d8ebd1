// internal/workers/evaluation/route-outcome/config.go
package routeoutcome

import "time"

type Config struct {
	OrgTierTTL time.Duration
	Timeout    time.Duration
}

func LoadConfig() *Config {
	return &Config{
		OrgTierTTL: 1 * time.Hour,
		Timeout:    30 * time.Second,
	}
}
