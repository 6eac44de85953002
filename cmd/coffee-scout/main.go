// cmd/coffee-scout/main.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"coffee-scout/internal/common/config"
	"coffee-scout/internal/common/errors"
	httpclient "coffee-scout/internal/common/http"
	"coffee-scout/internal/common/logger"
	"coffee-scout/internal/common/metrics"
	"coffee-scout/internal/common/observability"
	"coffee-scout/internal/export"
	"coffee-scout/internal/pipeline"
	"coffee-scout/internal/places"
	"coffee-scout/pkg/profile"
)

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()
	reporter := errors.NewReporter(logger.NewZapAdapter(zapLog))

	zapLog.Info("Starting coffee scout...")

	cfg, err := config.Load()
	if err != nil {
		reporter.ReportFatal("config", err)
		os.Exit(1)
	}

	// Rebuild the logger with the configured level and format.
	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)
	reporter = errors.NewReporter(log)

	obs := observability.New("coffee-scout")
	defer obs.Shutdown()

	if cfg.Observability.TracingEnabled {
		if err := obs.EnableTracing("coffee-scout", cfg.Observability.JaegerEndpoint); err != nil {
			zapLog.Warn("tracing init failed, continuing without spans", zap.Error(err))
		}
	}

	// --- Relevance profile ---
	prof := profile.Default()
	if cfg.Filter.ProfilePath != "" {
		prof, err = profile.Load(cfg.Filter.ProfilePath)
		if err != nil {
			reporter.ReportFatal("profile", err)
			os.Exit(1)
		}
		zapLog.Info("Relevance profile loaded",
			zap.String("path", cfg.Filter.ProfilePath),
			zap.String("category", prof.Category),
		)
	}

	// --- Places client ---
	httpClient := httpclient.NewClient(config.GetDuration(cfg.Places.Timeout), cfg.Places.RateLimitQPS)
	placesClient := places.NewClient(
		&places.Config{
			BaseURL: cfg.Places.BaseURL,
			APIKey:  cfg.Places.APIKey,
			Radius:  cfg.Places.Radius,
			Keyword: cfg.Places.Keyword,
			Timeout: config.GetDuration(cfg.Places.Timeout),
		},
		httpClient, log,
	)

	// --- Pipeline ---
	filter := pipeline.NewFilter(prof)
	collector := pipeline.NewCollector(
		&pipeline.Config{
			MaxPages:       cfg.Places.MaxPages,
			PageTokenDelay: config.GetDuration(cfg.Places.PageTokenDelay),
		},
		placesClient, filter, log, obs,
	)
	runner := pipeline.NewRunner(collector, log, obs)

	areas := make([]pipeline.Area, 0, len(cfg.Areas))
	for _, area := range cfg.Areas {
		areas = append(areas, pipeline.Area{Label: area.Label, Location: area.Location})
	}

	// --- Health & Metrics Server ---
	if cfg.Observability.Enabled {
		go func() {
			http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "healthy",
					"time":   time.Now().Format(time.RFC3339),
				})
			})
			http.Handle("/metrics", promhttp.Handler())
			zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Observability.ListenAddress))
			if err := http.ListenAndServe(cfg.Observability.ListenAddress, nil); err != nil {
				zapLog.Error("Health/Metrics server failed", zap.Error(err))
			}
		}()
	}

	// --- Run ---
	// SIGINT/SIGTERM cancels collection; whatever was gathered still gets
	// deduped and exported.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report := runner.Run(ctx, areas)

	shops := pipeline.Dedupe(report.Shops)

	path, err := export.WriteFile(cfg.Export.Directory, cfg.Export.Label, shops, time.Now())
	if err != nil {
		reporter.ReportFatal("export", err)
		os.Exit(1)
	}
	metrics.ShopsExported.WithLabelValues(cfg.Export.Label).Set(float64(len(shops)))

	zapLog.Info("Run complete",
		zap.String("runId", report.RunID),
		zap.Int("areas", len(report.Areas)),
		zap.Int("collected", len(report.Shops)),
		zap.Int("exported", len(shops)),
		zap.Int("degradedCalls", report.DegradedCalls()),
		zap.Duration("elapsed", report.Finished.Sub(report.Started)),
		zap.String("file", path),
	)
}
