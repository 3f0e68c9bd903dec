// internal/workers/portfolio/search-properties/config.go
package searchproperties

import (
	"time"

	"esg-retrofit-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	Index   string
}

func LoadConfig(cfg *config.Config) *Config {
	wc := config.GetWorkerConfig(cfg, TaskType)
	return &Config{
		Timeout: config.GetDuration(wc.Timeout),
		Index:   cfg.Portfolio.IndexName,
	}
}
