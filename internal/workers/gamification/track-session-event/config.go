// internal/workers/gamification/track-session-event/config.go
package tracksessionevent

import (
	"time"

	"esg-retrofit-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{Timeout: config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout)}
}
