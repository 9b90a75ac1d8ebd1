// internal/workers/evaluation/check-readiness-score/config.go
package checkreadinessscore

import "time"

type Config struct {
	HighBandMin   int
	MediumBandMin int
	Timeout       time.Duration
}

func LoadConfig() *Config {
	return &Config{
		HighBandMin:   70,
		MediumBandMin: 40,
		Timeout:       30 * time.Second,
	}
}
