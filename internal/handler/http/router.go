package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/EcommerceGo/storefront/internal/config"
	"github.com/utafrali/EcommerceGo/storefront/internal/render"
	"github.com/utafrali/EcommerceGo/storefront/internal/screen"
	"github.com/utafrali/EcommerceGo/storefront/internal/service"
	"github.com/utafrali/EcommerceGo/storefront/pkg/health"
	"github.com/utafrali/EcommerceGo/storefront/pkg/middleware"
)

// requestTimeout bounds a whole request, upstream fetch included.
const requestTimeout = 30 * time.Second

// NewRouter creates a chi router with the storefront pages, the JSON API,
// health and metrics endpoints. ctx stops the rate limiter's janitor.
func NewRouter(
	ctx context.Context,
	cfg *config.Config,
	catalog screen.Catalog,
	activity *service.ActivityService,
	pages *render.HTML,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	cors := middleware.DefaultCORSConfig()
	if len(cfg.CORSAllowedOrigins) > 0 {
		cors.AllowedOrigins = cfg.CORSAllowedOrigins
	}

	// Global middleware stack (applied in order).
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing())
	r.Use(middleware.Visitor(cfg.IsProduction()))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cors))
	r.Use(middleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(requestTimeout))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	// Pages
	pageHandler := NewPageHandler(catalog, activity, pages, logger)
	r.Get(screen.ListRoute, pageHandler.List)
	r.Get("/product/{id}", pageHandler.Detail)

	// JSON API
	apiHandler := NewAPIHandler(catalog, activity, logger)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", apiHandler.ListProducts)
		r.Get("/products/{id}", apiHandler.GetProduct)
		r.Get("/recently-viewed", apiHandler.RecentlyViewed)
	})

	return r
}

// await blocks until done closes or the request is abandoned. It reports
// whether the screen settled.
func await(r *http.Request, done <-chan struct{}) bool {
	select {
	case <-done:
		return true
	case <-r.Context().Done():
		return false
	}
}
