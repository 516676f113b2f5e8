package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/EcommerceGo/storefront/internal/render"
	"github.com/utafrali/EcommerceGo/storefront/internal/screen"
	"github.com/utafrali/EcommerceGo/storefront/internal/service"
	apperrors "github.com/utafrali/EcommerceGo/storefront/pkg/errors"
	"github.com/utafrali/EcommerceGo/storefront/pkg/httputil"
	"github.com/utafrali/EcommerceGo/storefront/pkg/logger"
)

// PageHandler serves the server-rendered storefront pages. Every request
// gets its own screen, activated with the request context.
type PageHandler struct {
	catalog  screen.Catalog
	activity *service.ActivityService
	pages    *render.HTML
	logger   *slog.Logger
}

// NewPageHandler creates a new page handler.
func NewPageHandler(catalog screen.Catalog, activity *service.ActivityService, pages *render.HTML, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		catalog:  catalog,
		activity: activity,
		pages:    pages,
		logger:   logger,
	}
}

// List handles GET /
func (h *PageHandler) List(w http.ResponseWriter, r *http.Request) {
	list := screen.NewListScreen(h.catalog, nil)
	if !await(r, list.Activate(r.Context())) {
		return
	}

	view := list.View()
	page := render.ListPage{View: view}
	status := http.StatusOK

	switch view.Mode {
	case screen.ModeError:
		status = apperrors.HTTPStatus(list.Err())
	case screen.ModeContent:
		page.Recent = h.recent(r)
	}

	var buf bytes.Buffer
	if err := h.pages.List(&buf, page); err != nil {
		httputil.WriteError(w, r, apperrors.Internal(err), h.logger)
		return
	}
	writeHTML(w, status, &buf)
}

// Detail handles GET /product/{id}?offset=X&width=W
func (h *PageHandler) Detail(w http.ResponseWriter, r *http.Request) {
	param := chi.URLParam(r, "id")
	if _, err := httputil.ParseProductID(param); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	detail := screen.NewDetailScreen(h.catalog)
	if !await(r, detail.SetID(r.Context(), param)) {
		return
	}

	status := http.StatusOK
	switch detail.View().Mode {
	case screen.ModeError:
		status = apperrors.HTTPStatus(detail.Err())
	case screen.ModeNotFound:
		status = http.StatusNotFound
	case screen.ModeContent:
		offset := queryFloat(r, "offset", 0)
		width := queryFloat(r, "width", 1)
		detail.Scroll(offset, width)
		h.activity.RecordView(r.Context(), detail.Product())
	}

	var buf bytes.Buffer
	if err := h.pages.Detail(&buf, render.DetailPage{View: detail.View()}); err != nil {
		httputil.WriteError(w, r, apperrors.Internal(err), h.logger)
		return
	}
	writeHTML(w, status, &buf)
}

// recent loads the visitor's recently viewed ids. The list page still
// renders when the history store is unavailable.
func (h *PageHandler) recent(r *http.Request) []string {
	ctx := r.Context()
	ids, err := h.activity.RecentlyViewed(ctx, logger.VisitorIDFromContext(ctx))
	if err != nil {
		logger.FromContext(ctx).WarnContext(ctx, "failed to load recently viewed",
			slog.String("error", err.Error()),
		)
		return nil
	}
	return ids
}

func writeHTML(w http.ResponseWriter, status int, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// queryFloat reads a float query parameter, falling back to def when it is
// missing or malformed.
func queryFloat(r *http.Request, name string, def float64) float64 {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
