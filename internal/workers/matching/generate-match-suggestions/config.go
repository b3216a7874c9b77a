// internal/workers/matching/generate-match-suggestions/config.go
package generatematchsuggestions

import (
	"time"

	"match-workers/internal/common/config"
)

type Config struct {
	Timeout          time.Duration
	CandidateLimit   int
	PrefetchRadiusKm float64
}

func LoadConfig(app *config.Config) *Config {
	cfg := &Config{
		Timeout:          30 * time.Second,
		CandidateLimit:   200,
		PrefetchRadiusKm: 500,
	}
	if app == nil {
		return cfg
	}
	if wc := config.GetWorkerConfig(app, TaskType); wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	if app.Matching.CandidateLimit > 0 {
		cfg.CandidateLimit = app.Matching.CandidateLimit
	}
	if app.Matching.PrefetchRadiusKm > 0 {
		cfg.PrefetchRadiusKm = app.Matching.PrefetchRadiusKm
	}
	return cfg
}
