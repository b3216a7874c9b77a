// internal/workers/matching/create-match-ticket/config.go
package creatematchticket

import (
	"time"

	"match-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(app *config.Config) *Config {
	cfg := &Config{
		Timeout: 15 * time.Second,
	}
	if app != nil {
		if wc := config.GetWorkerConfig(app, TaskType); wc.Timeout > 0 {
			cfg.Timeout = config.GetDuration(wc.Timeout)
		}
	}
	return cfg
}
