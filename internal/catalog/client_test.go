package catalog

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/EcommerceGo/storefront/pkg/errors"
	"github.com/utafrali/EcommerceGo/storefront/pkg/httpclient"
)

const productsBody = `{
  "products": [
    {"id": 1, "title": "Essence Mascara Lash Princess", "price": 9.99, "rating": 4.94, "images": ["https://cdn/1.png"]},
    {"id": 2, "title": "Eyeshadow Palette with Mirror", "price": 19.99, "rating": 3.28, "images": ["https://cdn/2.png"]}
  ],
  "total": 194, "skip": 0, "limit": 30
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	cb := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.Config{Timeout: 2 * time.Second, MaxConnsPerHost: 4}),
		httpclient.DefaultCircuitBreakerConfig("catalog-test-"+t.Name()),
		l,
	)
	return New(srv.URL+"/", cb, l)
}

func TestListProducts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(productsBody))
	})

	before := testutil.ToFloat64(requestsTotal.WithLabelValues("list_products", outcomeSuccess))

	products, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, 1, products[0].ID)
	assert.Equal(t, "Eyeshadow Palette with Mirror", products[1].Title)
	assert.Equal(t, 19.99, products[1].Price)

	after := testutil.ToFloat64(requestsTotal.WithLabelValues("list_products", outcomeSuccess))
	assert.Equal(t, 1.0, after-before)
}

func TestListProducts_MissingArrayIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total": 0}`))
	})

	products, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestListProducts_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message": "catalog exploded"}`))
	})

	_, err := c.ListProducts(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRequestFailed)
	assert.Equal(t, "catalog exploded", apperrors.Message(err))
	assert.Equal(t, http.StatusBadGateway, apperrors.HTTPStatus(err))
}

func TestListProducts_BadJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"products": [`))
	})

	_, err := c.ListProducts(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRequestFailed)
	assert.Contains(t, apperrors.Message(err), "decode catalog response")
}

func TestListProducts_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	cb := httpclient.NewCircuitBreakerClient(httpclient.New(httpclient.DefaultConfig()),
		httpclient.DefaultCircuitBreakerConfig("catalog-transport"), l)
	c := New(base, cb, l)

	_, err := c.ListProducts(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRequestFailed)
	assert.NotEmpty(t, apperrors.Message(err))
}

func TestGetProduct(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/42", r.URL.Path)
		_, _ = w.Write([]byte(`{"id": 42, "title": "Red Lipstick", "price": 12.99, "rating": 4.36,
			"dimensions": {"width": 1, "height": 2, "depth": 3}, "images": ["a", "b"]}`))
	})

	p, err := c.GetProduct(context.Background(), "42")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 42, p.ID)
	assert.Equal(t, "Red Lipstick", p.Title)
	assert.Equal(t, 12.99, p.Price)
	assert.Equal(t, 4.36, p.Rating)
	assert.Equal(t, "1x2x3 cm", p.Dimensions.Label())
}

func TestGetProduct_EscapesID(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetProduct(context.Background(), "a/b")
	require.Error(t, err)
	assert.Equal(t, "/products/a%2Fb", gotPath)
}

func TestGetProduct_NotFoundKeepsUpstreamMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Product with id '999' not found"}`))
	})

	_, err := c.GetProduct(context.Background(), "999")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRequestFailed)
	assert.Equal(t, "Product with id '999' not found", apperrors.Message(err))
	assert.Equal(t, http.StatusNotFound, apperrors.HTTPStatus(err))
}

func TestGetProduct_NullBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	})

	p, err := c.GetProduct(context.Background(), "1")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestGetProduct_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetProduct(ctx, "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPing(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "id", r.URL.Query().Get("select"))
		_, _ = w.Write([]byte(`{"products":[{"id":1}]}`))
	})

	require.NoError(t, c.Ping(context.Background()))
	assert.Equal(t, int32(1), hits.Load())
}
