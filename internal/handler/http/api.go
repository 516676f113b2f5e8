package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/EcommerceGo/storefront/internal/screen"
	"github.com/utafrali/EcommerceGo/storefront/internal/service"
	apperrors "github.com/utafrali/EcommerceGo/storefront/pkg/errors"
	"github.com/utafrali/EcommerceGo/storefront/pkg/httputil"
	"github.com/utafrali/EcommerceGo/storefront/pkg/logger"
)

// APIHandler serves the screen views as JSON.
type APIHandler struct {
	catalog  screen.Catalog
	activity *service.ActivityService
	logger   *slog.Logger
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(catalog screen.Catalog, activity *service.ActivityService, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		catalog:  catalog,
		activity: activity,
		logger:   logger,
	}
}

// RecentlyViewedResponse is the body of GET /api/v1/recently-viewed.
type RecentlyViewedResponse struct {
	ProductIDs []string `json:"product_ids"`
}

// ListProducts handles GET /api/v1/products
func (h *APIHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	list := screen.NewListScreen(h.catalog, nil)
	if !await(r, list.Activate(r.Context())) {
		return
	}

	view := list.View()
	if view.Mode == screen.ModeError {
		httputil.WriteError(w, r, list.Err(), h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *APIHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	param := chi.URLParam(r, "id")
	if _, err := httputil.ParseProductID(param); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	detail := screen.NewDetailScreen(h.catalog)
	if !await(r, detail.SetID(r.Context(), param)) {
		return
	}

	view := detail.View()
	switch view.Mode {
	case screen.ModeError:
		httputil.WriteError(w, r, detail.Err(), h.logger)
	case screen.ModeNotFound:
		httputil.WriteError(w, r, apperrors.NotFound("product", param), h.logger)
	default:
		h.activity.RecordView(r.Context(), detail.Product())
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
	}
}

// RecentlyViewed handles GET /api/v1/recently-viewed
func (h *APIHandler) RecentlyViewed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ids, err := h.activity.RecentlyViewed(ctx, logger.VisitorIDFromContext(ctx))
	if err != nil {
		httputil.WriteError(w, r, fmt.Errorf("recently viewed: %w", err), h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: RecentlyViewedResponse{ProductIDs: ids}})
}
