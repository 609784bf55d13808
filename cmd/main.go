package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/beerlog/beerboard/internal/adapters/http/api"
	"github.com/beerlog/beerboard/internal/adapters/http/site"
	"github.com/beerlog/beerboard/internal/adapters/http/swagger"
	"github.com/beerlog/beerboard/internal/adapters/mq/worker"
	"github.com/beerlog/beerboard/internal/adapters/sheets"
	app "github.com/beerlog/beerboard/internal/app"
	"github.com/beerlog/beerboard/internal/config"
	"github.com/beerlog/beerboard/internal/domain/entry"
	"github.com/beerlog/beerboard/pkg/logger"
	"github.com/beerlog/beerboard/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 15 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Our registry carries its own system metrics.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := run(); err != nil {
		logger.Get().Error(context.Background(), "beerboard exited", logger.Error(err))
		os.Exit(1)
	}
}

func run() error {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer func() { _ = logger.Sync() }()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.LogFormat != "" && cfg.LogFormat != "text" {
		if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	source, err := newSource(ctx, cfg)
	if err != nil {
		return err
	}

	svc := app.New(
		app.WithLogger(log.Named("service")),
		app.WithSource(source),
		app.WithQueueSize(cfg.RefreshQueueSize),
		app.WithRefreshInterval(time.Duration(cfg.RefreshIntervalS)*time.Second),
		app.WithSeasonDays(cfg.SeasonDays),
		app.WithStartDate(cfg.SeasonStart),
		app.WithDirectory(entry.NewDirectory(cfg.MemberMap())),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.String("source", source.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// newSource picks the Google Sheets API when credentials are configured and
// the CSV export otherwise.
func newSource(ctx context.Context, cfg *config.Config) (worker.Source, error) {
	if cfg.SheetsConfigured() {
		src, err := sheets.NewGoogleSource(ctx, cfg.SheetsAPIKey, cfg.SheetsSpreadsheetID,
			sheets.WithRange(cfg.SheetsRange),
			sheets.WithTimeout(time.Duration(cfg.SheetsTimeoutMS)*time.Millisecond),
			sheets.WithRateLimit(cfg.FetchRPS, cfg.FetchBurst),
			sheets.WithBreaker(cfg.BreakerMinRequests, cfg.BreakerFailureRatio,
				time.Duration(cfg.BreakerOpenTimeoutS)*time.Second, cfg.BreakerHalfOpenProbe),
		)
		if err != nil {
			return nil, fmt.Errorf("google sheets source: %w", err)
		}
		return src, nil
	}
	if cfg.SourceCSV != "" {
		src, err := sheets.NewCSVSource(cfg.SourceCSV)
		if err != nil {
			return nil, fmt.Errorf("csv source: %w", err)
		}
		return src, nil
	}
	return nil, fmt.Errorf("%w: set %sSHEETS_API_KEY and %sSHEETS_SPREADSHEET_ID, or %sSOURCE_CSV",
		sheets.ErrNotConfigured, config.EnvPrefix, config.EnvPrefix, config.EnvPrefix)
}

// newHandler registers every route and wraps the mux with request ids, rate
// limiting, gzip and CORS.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service) http.Handler {
	mux := http.NewServeMux()
	site.Register(ctx, mux)
	swagger.Register(ctx, mux)

	apiServer := api.NewServer(svc, svc,
		api.WithMaxLimit(cfg.MaxRecordsLimit),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)
	apiServer.Register(ctx, mux)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cors := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(origins),
		gorillaHandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "If-None-Match", "X-Request-ID"}),
		gorillaHandlers.ExposedHeaders([]string{"ETag", "X-Request-ID", "X-Snapshot-ID"}),
	)
	return cors(gorillaHandlers.CompressHandler(apiServer.Handler(ctx, mux)))
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater refreshes the gauges derived from service stats.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// GetStats updates the queue and snapshot age gauges.
			_ = svc.GetStats()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
