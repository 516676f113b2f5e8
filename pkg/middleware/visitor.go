package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/EcommerceGo/storefront/pkg/logger"
)

// VisitorCookie names the cookie that identifies an anonymous browser.
const VisitorCookie = "sf_visitor"

const visitorCookieMaxAge = 365 * 24 * time.Hour

// Visitor makes sure every request carries a visitor id. An existing
// sf_visitor cookie is reused when it holds a valid uuid; otherwise a new id is
// issued and set on the response.
func Visitor(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(VisitorCookie); err == nil {
				if parsed, err := uuid.Parse(c.Value); err == nil {
					id = parsed.String()
				}
			}

			if id == "" {
				id = uuid.New().String()
				http.SetCookie(w, &http.Cookie{
					Name:     VisitorCookie,
					Value:    id,
					Path:     "/",
					MaxAge:   int(visitorCookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := logger.WithVisitorID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
