package server

import (
	"context"
	"log/slog"
	"net/http"
	"sort"

	"github.com/preston-bernstein/rank-kicker/internal/config"
	"github.com/preston-bernstein/rank-kicker/internal/host"
	httpserver "github.com/preston-bernstein/rank-kicker/internal/http"
	"github.com/preston-bernstein/rank-kicker/internal/http/handlers"
	"github.com/preston-bernstein/rank-kicker/internal/http/middleware"
	"github.com/preston-bernstein/rank-kicker/internal/kicker"
	"github.com/preston-bernstein/rank-kicker/internal/logging"
	"github.com/preston-bernstein/rank-kicker/internal/metrics"
	"github.com/preston-bernstein/rank-kicker/internal/plugin"
	"github.com/preston-bernstein/rank-kicker/internal/reserved"
	"github.com/preston-bernstein/rank-kicker/internal/resolver"
	"github.com/preston-bernstein/rank-kicker/internal/stats"
)

var metricsSetup = metrics.Setup

// Lifecycle is the plugin behavior the server drives.
type Lifecycle interface {
	Enable(ctx context.Context)
	Disable(ctx context.Context)
	SetVariable(ctx context.Context, name, value string) bool
	Close()
}

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	hub           *host.Hub
	plugin        Lifecycle
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
}

// New constructs a server with the default stat sources.
func New(cfg config.Config, logger *slog.Logger) *Server {
	return newServerWithMetrics(cfg, logger, nil, nil)
}

func newServerWithMetrics(cfg config.Config, logger *slog.Logger, sources []stats.Source, recorder *metrics.Recorder) *Server {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)
	if sources == nil {
		sources = buildSources(cfg.Stats, recorder, logger)
	}

	hub := host.NewHub(nil, logger)
	settings := config.NewSettingsStore(config.DefaultSettings())
	set := reserved.NewSet(settings.Load().CaseInsensitive)
	diag := plugin.NewDiagnostics(hub, logger)

	engine := kicker.New(kicker.Options{
		Resolver:  resolver.New(sources, diag, logger),
		Reserved:  set,
		Settings:  settings,
		Commander: hub,
		Recorder:  recorder,
		Logger:    logger,
		Workers:   cfg.Stats.Workers,
	})
	plg := plugin.New(plugin.Options{
		Commander:   hub,
		Engine:      engine,
		Reserved:    set,
		Settings:    settings,
		Diagnostics: diag,
		Logger:      logger,
	})
	hub.SetHandler(plg)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		hub:           hub,
		plugin:        plg,
		httpServer:    buildHTTPServer(cfg, plg, hub, logger, recorder),
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
	}
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer, plg Lifecycle) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpSrv,
		plugin:     plg,
	}
}

func buildHTTPServer(cfg config.Config, plg *plugin.Plugin, hub *host.Hub, logger *slog.Logger, recorder *metrics.Recorder) httpServer {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	handler := handlers.NewHandler(plg, logger)
	admin := handlers.NewAdminHandler(plg, cfg.AdminToken, logger)
	router := httpserver.NewRouter(handler, admin, hub)
	wrapped := middleware.LoggingMiddleware(logger, recorder, router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the servers, seeds configured variables and enables the plugin,
// then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	if s.hub != nil {
		s.hub.Bind(ctx)
	}
	s.applyVariables(ctx)
	s.plugin.Enable(ctx)

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

// applyVariables feeds configured variables through the same path as host updates.
func (s *Server) applyVariables(ctx context.Context) {
	names := make([]string, 0, len(s.cfg.Variables))
	for name := range s.cfg.Variables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !s.plugin.SetVariable(ctx, name, s.cfg.Variables[name]) {
			logging.Warn(s.logger, "configured variable ignored", slog.String(logging.FieldVariable, name))
		}
	}
}

func (s *Server) startServer(stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting", slog.String("addr", s.httpServer.Addr()))
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.plugin.Disable(shutdownCtx)
	s.plugin.Close()
	if s.hub != nil {
		s.hub.Close()
	}

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "error", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
