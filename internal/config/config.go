package config

// Config holds startup configuration for the service.
// Variables seeds host variables (name -> raw value) before the plugin is enabled.
type Config struct {
	Port       string
	AdminToken string
	Stats      StatsConfig
	Metrics    MetricsConfig
	Variables  map[string]string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:       envOrDefault(envPort, defaultPort),
		AdminToken: envOrDefault(envAdminToken, ""),
		Stats:      loadStats(),
		Metrics:    loadMetrics(),
	}
}
