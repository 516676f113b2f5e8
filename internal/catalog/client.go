// Package catalog is the client for the upstream product catalog
// (dummyjson-compatible).
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/EcommerceGo/storefront/internal/domain"
	apperrors "github.com/utafrali/EcommerceGo/storefront/pkg/errors"
	"github.com/utafrali/EcommerceGo/storefront/pkg/httpclient"
	"github.com/utafrali/EcommerceGo/storefront/pkg/logger"
)

// DefaultBaseURL is the public catalog.
const DefaultBaseURL = "https://dummyjson.com"

const upstreamName = "catalog"

// Doer is the transport the client sends requests through.
// *httpclient.CircuitBreakerClient satisfies it.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client reads products from the catalog. Every failure, whether transport,
// non-2xx status or undecodable body, is returned as a request-failed
// AppError.
type Client struct {
	baseURL string
	http    Doer
	logger  *slog.Logger
	tracer  trace.Tracer
}

// New creates a catalog client for baseURL.
func New(baseURL string, doer Doer, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    doer,
		logger:  logger,
		tracer:  otel.Tracer("github.com/utafrali/EcommerceGo/storefront/internal/catalog"),
	}
}

// ListProducts fetches the collection in server order. A response without a
// products array yields an empty list.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var list domain.ProductList
	if err := c.get(ctx, "list_products", "/products", &list); err != nil {
		return nil, err
	}
	if list.Products == nil {
		return []domain.Product{}, nil
	}
	return list.Products, nil
}

// GetProduct fetches one product. A literal null body yields a nil product
// and no error.
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p *domain.Product
	if err := c.get(ctx, "get_product", "/products/"+url.PathEscape(id), &p); err != nil {
		return nil, err
	}
	return p, nil
}

// Ping asks for a single id to confirm the catalog answers.
func (c *Client) Ping(ctx context.Context) error {
	var list domain.ProductList
	return c.get(ctx, "ping", "/products?limit=1&select=id", &list)
}

func (c *Client) get(ctx context.Context, op, path string, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "catalog."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("catalog.operation", op),
			attribute.String("http.url", c.baseURL+path),
		),
	)
	start := time.Now()

	defer func() {
		requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
		outcome := outcomeSuccess
		if err != nil {
			outcome = outcomeError
			span.RecordError(err)
			span.SetStatus(codes.Error, apperrors.Message(err))
			logger.WithContext(ctx, c.logger).WarnContext(ctx, "catalog request failed",
				slog.String("operation", op),
				slog.String("path", path),
				slog.Duration("duration", time.Since(start)),
				slog.String("error", err.Error()),
			)
		}
		requestsTotal.WithLabelValues(op, outcome).Inc()
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return apperrors.RequestFailed(0, "invalid catalog request", err)
	}
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return httpclient.AsRequestFailed(err, upstreamName)
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if !httpclient.IsSuccess(resp.StatusCode) {
		return httpclient.ParseResponseError(resp, upstreamName)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.RequestFailed(resp.StatusCode, fmt.Sprintf("decode %s response: %v", upstreamName, err), err)
	}

	c.logger.DebugContext(ctx, "catalog request",
		slog.String("operation", op),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}
