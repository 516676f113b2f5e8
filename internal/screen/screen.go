// Package screen holds the storefront's screen view-models. Screens own
// their remote state and expose a render-ready View; they know nothing about
// HTML or terminals.
package screen

import (
	"context"

	"github.com/utafrali/EcommerceGo/storefront/internal/domain"
	"github.com/utafrali/EcommerceGo/storefront/internal/resource"
)

// Mode is the mutually exclusive rendering mode of a screen.
type Mode string

const (
	ModeLoading  Mode = "loading"
	ModeError    Mode = "error"
	ModeNotFound Mode = "not_found"
	ModeContent  Mode = "content"
)

// Catalog is the remote product source the screens read from.
type Catalog interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

// settled closes the returned channel once ch has delivered.
func settled[T any](ch <-chan resource.Snapshot[T]) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		<-ch
		close(done)
	}()
	return done
}

func closed() <-chan struct{} {
	done := make(chan struct{})
	close(done)
	return done
}
