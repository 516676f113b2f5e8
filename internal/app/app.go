package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/EcommerceGo/storefront/internal/catalog"
	"github.com/utafrali/EcommerceGo/storefront/internal/config"
	"github.com/utafrali/EcommerceGo/storefront/internal/event"
	handler "github.com/utafrali/EcommerceGo/storefront/internal/handler/http"
	"github.com/utafrali/EcommerceGo/storefront/internal/history"
	redisstore "github.com/utafrali/EcommerceGo/storefront/internal/history/redis"
	"github.com/utafrali/EcommerceGo/storefront/internal/render"
	"github.com/utafrali/EcommerceGo/storefront/internal/service"
	"github.com/utafrali/EcommerceGo/storefront/pkg/database"
	apperrors "github.com/utafrali/EcommerceGo/storefront/pkg/errors"
	"github.com/utafrali/EcommerceGo/storefront/pkg/health"
	"github.com/utafrali/EcommerceGo/storefront/pkg/httpclient"
	pkgkafka "github.com/utafrali/EcommerceGo/storefront/pkg/kafka"
	"github.com/utafrali/EcommerceGo/storefront/pkg/tracing"
)

// Version is reported to the tracing backend.
const Version = "0.1.0"

// App wires together all dependencies and runs the storefront.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	httpServer     *http.Server
	activity       *service.ActivityService
	redisClient    *redis.Client
	kafkaProducer  *pkgkafka.Producer
	tracerShutdown tracing.ShutdownFunc
	stop           context.CancelFunc
}

// NewApp creates a new application instance. Redis and Kafka are optional:
// without REDIS_ADDR the recently viewed list is not kept, and without
// KAFKA_BROKERS no events are published.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.Init(ctx, cfg.Tracing(Version))
	if err != nil {
		return nil, apperrors.Wrap(err, "init tracer")
	}

	// Templates load before any backend connection so a failure here has
	// only the tracer to unwind.
	pages, err := render.NewHTML()
	if err != nil {
		_ = tracerShutdown(context.Background())
		return nil, apperrors.Wrap(err, "load templates")
	}

	healthHandler := health.NewHandler()

	// Upstream catalog behind a circuit breaker.
	transport := httpclient.NewCircuitBreakerClient(
		httpclient.New(cfg.HTTPClient()),
		cfg.CircuitBreaker(),
		logger,
	)
	catalogClient := catalog.New(cfg.CatalogBaseURL, transport, logger)
	healthHandler.RegisterNonCritical("catalog", catalogClient.Ping)

	// Recently viewed history.
	var (
		store       history.Store = history.Noop{}
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisCfg := database.DefaultRedisConfig()
		redisCfg.Addr = cfg.RedisAddr
		redisCfg.Password = cfg.RedisPassword
		redisCfg.DB = cfg.RedisDB

		redisClient, err = database.NewRedisClient(ctx, redisCfg)
		if err != nil {
			_ = tracerShutdown(context.Background())
			return nil, apperrors.Wrap(err, "connect to redis")
		}
		store = redisstore.NewStore(redisClient, cfg.RecentlyViewedLimit, cfg.RecentlyViewedTTL)
		healthHandler.Register("redis", database.RedisChecker(redisClient))
		logger.Info("recently viewed history enabled", slog.String("redis_addr", cfg.RedisAddr))
	}

	// product_viewed events.
	var (
		publisher     event.Publisher
		kafkaProducer *pkgkafka.Producer
	)
	if len(cfg.KafkaBrokers) > 0 {
		producerCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
		producerCfg.Async = true
		kafkaProducer = pkgkafka.NewProducer(producerCfg, logger)
		publisher = kafkaProducer
		healthHandler.RegisterNonCritical("kafka", kafkaProducer.Ping)
		logger.Info("product_viewed events enabled", slog.Any("brokers", cfg.KafkaBrokers))
	}

	activity := service.NewActivityService(store, event.NewProducer(publisher, logger), logger)

	runCtx, stop := context.WithCancel(context.Background())
	router := handler.NewRouter(runCtx, cfg, catalogClient, activity, pages, healthHandler, logger)

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		httpServer:     httpServer,
		activity:       activity,
		redisClient:    redisClient,
		kafkaProducer:  kafkaProducer,
		tracerShutdown: tracerShutdown,
		stop:           stop,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
			slog.String("catalog", a.cfg.CatalogBaseURL),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- apperrors.Wrap(err, "http server")
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown stops the storefront in order:
// 1. HTTP server (drain in-flight requests)
// 2. background view recording started by those requests
// 3. Kafka producer (flush buffered events)
// 4. Redis
// 5. Tracer (flush pending spans)
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}
	a.stop()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer waitCancel()
	if err := a.activity.Wait(waitCtx); err != nil {
		a.logger.Warn("abandoned pending view recordings", slog.String("error", err.Error()))
	}

	if a.kafkaProducer != nil {
		if err := a.kafkaProducer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer tracerCancel()
	if err := a.tracerShutdown(tracerCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}
