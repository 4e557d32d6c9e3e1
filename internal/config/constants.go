package config

import "time"

const (
	envPort           = "PORT"
	envMetricsPort    = "METRICS_PORT"
	envMetricsOn      = "METRICS_ENABLED"
	envOtelEndpoint   = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService    = "OTEL_SERVICE_NAME"
	envOtelInsecure   = "OTEL_EXPORTER_OTLP_INSECURE"
	envAdminToken     = "ADMIN_TOKEN"
	envGametrackerURL = "GAMETRACKER_BASE_URL"
	envBfbcsURL       = "BFBCS_BASE_URL"
	envStatsTimeout   = "STATS_TIMEOUT"
	envStatsRate      = "STATS_RATE_LIMIT"
	envWorkers        = "RESOLVE_WORKERS"

	defaultPort        = "8080"
	defaultMetricsPort = "9090"

	defaultGametrackerURL = "http://www.gametracker.com"
	defaultBfbcsURL       = "http://api.bfbcs.com"

	// Upper bound for a single stat lookup.
	defaultStatsTimeout = 10 * time.Second
	defaultWorkers      = 4
)

// Host variable names, as displayed and set by the administration host.
const (
	VarRankLimit       = "Rank Limit"
	VarCheckInterval   = "Check Interval"
	VarIgnoreReserved  = "Ignore Reserved Players"
	VarCaseInsensitive = "Case Insensitive Comparison"
)

const (
	defaultRankLimit     = 49
	defaultCheckInterval = 5
)
