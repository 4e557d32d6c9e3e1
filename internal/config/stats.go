package config

import "time"

// StatsConfig controls how the external stat sources are reached.
// RateLimit is the per-source request budget in requests/second; 0 disables limiting.
type StatsConfig struct {
	GametrackerURL string
	BfbcsURL       string
	Timeout        time.Duration
	RateLimit      float64
	Workers        int
}

func loadStats() StatsConfig {
	return StatsConfig{
		GametrackerURL: envOrDefault(envGametrackerURL, defaultGametrackerURL),
		BfbcsURL:       envOrDefault(envBfbcsURL, defaultBfbcsURL),
		Timeout:        durationEnvOrDefault(envStatsTimeout, defaultStatsTimeout),
		RateLimit:      floatEnvOrDefault(envStatsRate, 0),
		Workers:        intEnvOrDefault(envWorkers, defaultWorkers),
	}
}
