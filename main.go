package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gifmill/internal/config"
	"gifmill/internal/converter"
	"gifmill/internal/handlers"
	"gifmill/internal/journal"
	"gifmill/internal/logging"
	"gifmill/internal/metrics"
	"gifmill/internal/middleware"
	"gifmill/internal/startup"
	"gifmill/internal/transcoder"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	startTime := time.Now()

	// Ambient environment (LOG_LEVEL, CONVERT_WORKERS) may live in a
	// .env file next to the binary
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	startup.LogStartup()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}
	startup.LogConfigLoaded(*configPath, cfg)

	if err := startup.PrepareDirectories(cfg); err != nil {
		startup.LogFatal("Directory error: %v", err)
	}

	// Initialize journal
	jrStart := time.Now()
	jr, err := journal.New(context.Background(), cfg.JournalPath)
	if err != nil {
		startup.LogFatal("Failed to initialize journal: %v", err)
	}
	defer jr.Close()
	startup.LogJournalInit(time.Since(jrStart))

	// Initialize transcoder (missing tools are reported per conversion,
	// not fatal here)
	startup.LogTranscoderInit(cfg.FFmpegBinary, cfg.FFprobeBinary)
	trans := transcoder.New(cfg)

	// Initialize converter
	startup.LogConverterInit(cfg.Interval())
	conv := converter.New(cfg, trans, jr)
	conv.Start()
	startup.LogConverterStarted()

	// Pre-populate metric series and start the journal gauge collector
	metrics.InitializeMetrics()
	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)
	collector := metrics.NewCollector(journalStats{jr}, jr.Path(), time.Minute)
	collector.Start()

	// Initialize handlers
	h := handlers.New(conv, jr, cfg)

	// Setup router
	router := setupRouter(h)

	// Log routes dynamically
	startup.LogHTTPRoutes(router, middleware.DefaultLoggingConfig().LogHealthChecks)

	// Create server
	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, conv, trans, collector, jr)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		ListenAddr:      cfg.ListenAddr,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

// journalStats adapts the journal to the metrics collector.
type journalStats struct {
	jr *journal.Journal
}

func (a journalStats) GetStats() metrics.Stats {
	stats, err := a.jr.Stats(context.Background())
	if err != nil {
		logging.Warn("Failed to read journal stats for metrics: %v", err)
		return metrics.Stats{}
	}
	return metrics.Stats{
		ConversionsSucceeded: stats.Succeeded,
		ConversionsFailed:    stats.Failed,
		CyclesRecorded:       stats.CyclesRecorded,
	}
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Logger(middleware.DefaultLoggingConfig()))
	r.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/stats", h.GetStats).Methods("GET")
	api.HandleFunc("/convert", h.TriggerConvert).Methods("POST")

	// Prometheus metrics
	r.Handle("/metrics", h.MetricsHandler()).Methods("GET")

	return r
}

func handleShutdown(srv *http.Server, conv *converter.Converter, trans *transcoder.Transcoder, collector *metrics.Collector, jr *journal.Journal) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Stopping converter")
	conv.Stop()
	startup.LogShutdownStepComplete("Converter stopped")

	startup.LogShutdownStep("Cleaning up transcoder")
	trans.Cleanup()
	startup.LogShutdownStepComplete("Transcoder cleanup complete")

	startup.LogShutdownStep("Stopping metrics collector")
	collector.Stop()
	startup.LogShutdownStepComplete("Metrics collector stopped")

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownStep("Closing journal")
	if err := jr.Close(); err != nil {
		logging.Warn("Journal close error: %v", err)
	} else {
		startup.LogShutdownStepComplete("Journal closed")
	}

	startup.LogShutdownComplete()
}
