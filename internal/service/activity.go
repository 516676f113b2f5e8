package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/utafrali/EcommerceGo/storefront/internal/domain"
	"github.com/utafrali/EcommerceGo/storefront/internal/event"
	"github.com/utafrali/EcommerceGo/storefront/internal/history"
	"github.com/utafrali/EcommerceGo/storefront/pkg/logger"
)

// sideEffectTimeout bounds the background work done after a product view.
const sideEffectTimeout = 3 * time.Second

// ActivityService records product views: the visitor's recently viewed list
// and the product_viewed event. Both are best effort and never slow down or
// fail the page that triggered them.
type ActivityService struct {
	history  history.Store
	producer *event.Producer
	logger   *slog.Logger

	wg sync.WaitGroup
}

// NewActivityService creates a new activity service.
func NewActivityService(store history.Store, producer *event.Producer, logger *slog.Logger) *ActivityService {
	if store == nil {
		store = history.Noop{}
	}
	return &ActivityService{
		history:  store,
		producer: producer,
		logger:   logger,
	}
}

// RecordView records a successful view of product in the background. The
// request context's values (visitor, correlation and trace ids) are kept but
// its cancellation is not, so the work outlives the response.
func (s *ActivityService) RecordView(ctx context.Context, product *domain.Product) {
	if product == nil {
		return
	}
	bg := context.WithoutCancel(ctx)
	visitorID := logger.VisitorIDFromContext(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(bg, sideEffectTimeout)
		defer cancel()

		l := logger.WithContext(ctx, s.logger)

		if visitorID != "" {
			if err := s.history.Record(ctx, visitorID, product.ID); err != nil {
				l.WarnContext(ctx, "failed to record recently viewed",
					slog.Int("product_id", product.ID),
					slog.String("error", err.Error()),
				)
			}
		}

		if s.producer != nil {
			if err := s.producer.PublishProductViewed(ctx, product); err != nil {
				l.WarnContext(ctx, "failed to publish product_viewed event",
					slog.Int("product_id", product.ID),
					slog.String("error", err.Error()),
				)
			}
		}
	}()
}

// RecentlyViewed returns the ids the visitor viewed, newest first. An
// anonymous visitor has none.
func (s *ActivityService) RecentlyViewed(ctx context.Context, visitorID string) ([]string, error) {
	if visitorID == "" {
		return []string{}, nil
	}
	ids, err := s.history.Recent(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Wait blocks until background work started by RecordView has finished or
// ctx is done.
func (s *ActivityService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
