// internal/workers/catalog/search-programs/config.go
package searchprograms

import "time"

type Config struct {
	IndexName string
	Timeout   time.Duration
}

func LoadConfig() *Config {
	return &Config{
		IndexName: "university_programs",
		Timeout:   30 * time.Second,
	}
}
