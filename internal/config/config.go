package config

import (
	"fmt"
	"strings"
	"time"

	pkgconfig "github.com/utafrali/EcommerceGo/storefront/pkg/config"
	"github.com/utafrali/EcommerceGo/storefront/pkg/httpclient"
	"github.com/utafrali/EcommerceGo/storefront/pkg/tracing"
)

// Config holds all configuration for the storefront.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development" validate:"oneof=development staging production test"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	HTTPPort    int    `env:"STOREFRONT_HTTP_PORT" envDefault:"8080" validate:"gte=1,lte=65535"`

	// Upstream catalog
	CatalogBaseURL    string        `env:"CATALOG_BASE_URL" envDefault:"https://dummyjson.com" validate:"required,url"`
	CatalogTimeout    time.Duration `env:"CATALOG_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	CatalogMaxRetries int           `env:"CATALOG_MAX_RETRIES" envDefault:"0" validate:"gte=0,lte=5"`

	// Circuit breaker around the catalog
	BreakerMaxRequests  uint32        `env:"CATALOG_BREAKER_MAX_REQUESTS" envDefault:"1" validate:"gte=1"`
	BreakerInterval     time.Duration `env:"CATALOG_BREAKER_INTERVAL" envDefault:"60s"`
	BreakerTimeout      time.Duration `env:"CATALOG_BREAKER_TIMEOUT" envDefault:"15s" validate:"gt=0"`
	BreakerFailureRatio float64       `env:"CATALOG_BREAKER_FAILURE_RATIO" envDefault:"0.5" validate:"gt=0,lte=1"`
	BreakerMinRequests  uint32        `env:"CATALOG_BREAKER_MIN_REQUESTS" envDefault:"5" validate:"gte=1"`

	// Recently viewed history; empty RedisAddr disables it
	RedisAddr           string        `env:"REDIS_ADDR" validate:"omitempty,hostname_port"`
	RedisPassword       string        `env:"REDIS_PASSWORD"`
	RedisDB             int           `env:"REDIS_DB" envDefault:"0" validate:"gte=0"`
	RecentlyViewedLimit int           `env:"RECENTLY_VIEWED_LIMIT" envDefault:"10" validate:"gte=1,lte=100"`
	RecentlyViewedTTL   time.Duration `env:"RECENTLY_VIEWED_TTL" envDefault:"720h" validate:"gt=0"`

	// product_viewed events; no brokers disables them
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:"," validate:"omitempty,dive,hostname_port"`

	// Edge protection
	RateLimitRPS       float64  `env:"RATE_LIMIT_RPS" envDefault:"50" validate:"gte=0"`
	RateLimitBurst     int      `env:"RATE_LIMIT_BURST" envDefault:"100" validate:"gte=0"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Tracing
	OTelEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTelEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTelSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1" validate:"gte=0,lte=1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks invariants the struct tags cannot express.
func (c *Config) validate() error {
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1 when RATE_LIMIT_RPS is set")
	}
	if c.Environment == "production" {
		for _, o := range c.CORSAllowedOrigins {
			if strings.TrimSpace(o) == "*" {
				return fmt.Errorf("CORS_ALLOWED_ORIGINS must not be * in production")
			}
		}
	}
	return nil
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsProduction reports whether the storefront runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HTTPClient is the transport configuration for catalog requests.
func (c *Config) HTTPClient() httpclient.Config {
	hc := httpclient.DefaultConfig()
	hc.Timeout = c.CatalogTimeout
	hc.MaxRetries = c.CatalogMaxRetries
	return hc
}

// CircuitBreaker is the breaker configuration for catalog requests.
func (c *Config) CircuitBreaker() httpclient.CircuitBreakerConfig {
	return httpclient.CircuitBreakerConfig{
		Name:         "catalog",
		MaxRequests:  c.BreakerMaxRequests,
		Interval:     c.BreakerInterval,
		Timeout:      c.BreakerTimeout,
		FailureRatio: c.BreakerFailureRatio,
		MinRequests:  c.BreakerMinRequests,
	}
}

// Tracing is the OpenTelemetry configuration.
func (c *Config) Tracing(version string) tracing.Config {
	return tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: version,
		Environment:    c.Environment,
		OTLPEndpoint:   c.OTelEndpoint,
		SampleRate:     c.OTelSampleRate,
		Enabled:        c.OTelEnabled,
	}
}
