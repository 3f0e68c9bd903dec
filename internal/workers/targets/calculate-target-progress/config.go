// internal/workers/targets/calculate-target-progress/config.go
package calculatetargetprogress

import (
	"time"

	"esg-retrofit-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	wc := config.GetWorkerConfig(cfg, TaskType)
	return &Config{Timeout: config.GetDuration(wc.Timeout)}
}
