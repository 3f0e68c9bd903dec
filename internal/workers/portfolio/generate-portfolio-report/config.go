// internal/workers/portfolio/generate-portfolio-report/config.go
package generateportfolioreport

import (
	"time"

	"esg-retrofit-workers/internal/common/config"
)

type Config struct {
	Timeout             time.Duration
	NotificationEnabled bool
}

func LoadConfig(cfg *config.Config) *Config {
	wc := config.GetWorkerConfig(cfg, TaskType)
	return &Config{
		Timeout:             config.GetDuration(wc.Timeout),
		NotificationEnabled: cfg.Notifications.Enabled,
	}
}
