package di

import (
	"context"
	"fmt"
	"time"

	"FinDash/internal/domain/models"
	"FinDash/internal/domain/repository"
	"FinDash/internal/domain/service"
	"FinDash/internal/handler/api"
	internalrepo "FinDash/internal/repository"
	"FinDash/internal/service/ratelimit"
	"FinDash/internal/services/analytics"
	"FinDash/pkg/cache"
	"FinDash/pkg/config"
	xhttp "FinDash/pkg/http"
	applogger "FinDash/pkg/logger"
	"FinDash/pkg/metrics"
	"FinDash/pkg/server"
)

const redisConnectTimeout = 5 * time.Second

// ProvideLogger builds the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder on the default registry.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

func ProvideMetricsRecorder(r *metrics.Recorder) repository.Metrics {
	return r
}

// ProvideCSVDataset creates the CSV loader/exporter for the configured file.
func ProvideCSVDataset(cfg *config.Config) *internalrepo.CSVDataset {
	return internalrepo.NewCSVDataset(cfg.Dataset.Path)
}

// ProvideDataset loads the dataset once at startup. Any failure aborts
// initialization; nothing is served from a partial load.
func ProvideDataset(loader repository.DatasetLoader, m repository.Metrics, l *applogger.Logger) (*models.Dataset, error) {
	ds, err := loader.Load(context.Background())
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	m.RecordDatasetRows(ds.Len())
	l.Info("dataset loaded",
		applogger.String("source", ds.Source),
		applogger.Int("rows", ds.Len()),
		applogger.Strings("columns", ds.Header))
	return ds, nil
}

// ProvideCache creates the session cache backend.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (cache.Service, error) {
	sc := cfg.Sessions
	if sc.Backend == "memory" {
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(sc.MemoryMaxSize)), nil
	}

	rc, err := cache.NewRedisCache(context.Background(),
		cache.WithRedisDialTimeout(redisConnectTimeout),
		cache.WithRedisHost(sc.Redis.Host),
		cache.WithRedisPort(sc.Redis.Port),
		cache.WithRedisPassword(sc.Redis.Password),
		cache.WithRedisDB(sc.Redis.DB),
		cache.WithRedisPrefix(sc.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	l.Info("redis: connected",
		applogger.String("host", sc.Redis.Host),
		applogger.Int("port", sc.Redis.Port),
		applogger.String("backend", sc.Backend))

	if sc.Backend == "layered" {
		return cache.NewLayeredCache(rc, cache.WithLayeredMemorySize(sc.MemoryMaxSize)), nil
	}
	return rc, nil
}

func ProvideSessionStore(c cache.Service, cfg *config.Config) repository.SessionStore {
	return internalrepo.NewCacheSessionStore(c, cfg.Sessions.TTL, cfg.Sessions.LockTTL)
}

func ProvideOutlierDetector() service.OutlierDetector {
	return analytics.NewOutlierDetector()
}

// ProvideOutlierDefaults exposes the configured report defaults.
func ProvideOutlierDefaults(cfg *config.Config) models.OutlierDefaults {
	return models.OutlierDefaults{K: cfg.Outliers.DefaultK, Limit: cfg.Outliers.PreviewLimit}
}

func ProvideQueryAnswerer(d service.OutlierDetector) service.QueryAnswerer {
	return analytics.NewQueryAnswerer(d)
}

// ProvideRateLimiter creates the per-session chat limiter.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.Chat.RateLimit.Capacity, cfg.Chat.RateLimit.RefillPerSec)
}

// ProvideHTTPHandler groups every route handler.
func ProvideHTTPHandler(
	dash *api.DashboardEchoHandler,
	outliers *api.OutliersEchoHandler,
	chat *api.ChatEchoHandler,
) xhttp.Handler {
	return xhttp.Handlers{dash, outliers, chat}
}

// ProvideHTTPServer creates the Echo server with request metrics.
func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, h xhttp.Handler, rec *metrics.Recorder) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithLogger(l),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(rec, rec.Handler(), cfg.Metrics.Path, cfg.Metrics.SlowThreshold))
	}
	return xhttp.NewServer(h, opts...)
}

// ProvideApp creates the application server. The cache is closed on shutdown.
func ProvideApp(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server, c cache.Service) *server.App {
	return server.New(cfg, l, srv, c)
}
