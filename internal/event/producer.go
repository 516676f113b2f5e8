package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/EcommerceGo/storefront/internal/domain"
	pkgkafka "github.com/utafrali/EcommerceGo/storefront/pkg/kafka"
	"github.com/utafrali/EcommerceGo/storefront/pkg/logger"
)

// TopicProductViewed carries one message per successful product page view.
const TopicProductViewed = "ecommerce.storefront.product_viewed"

// AggregateTypeProduct is the aggregate type of storefront events.
const AggregateTypeProduct = "product"

// SourceStorefront identifies events emitted by the storefront.
const SourceStorefront = "storefront"

// ProductViewedData is the payload of a product_viewed event.
type ProductViewedData struct {
	ProductID int     `json:"product_id"`
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	VisitorID string  `json:"visitor_id,omitempty"`
}

// Publisher is the part of pkg/kafka.Producer used here.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes storefront events. A Producer with a nil publisher
// drops everything, which is how the storefront runs without Kafka.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewProducer creates a new event producer. publisher may be nil.
func NewProducer(publisher Publisher, logger *slog.Logger) *Producer {
	return &Producer{publisher: publisher, logger: logger}
}

// Enabled reports whether events actually leave the process.
func (p *Producer) Enabled() bool {
	return p.publisher != nil
}

// PublishProductViewed publishes a product_viewed event carrying the
// correlation and visitor ids found in ctx.
func (p *Producer) PublishProductViewed(ctx context.Context, product *domain.Product) error {
	if p.publisher == nil || product == nil {
		return nil
	}

	visitorID := logger.VisitorIDFromContext(ctx)
	data := ProductViewedData{
		ProductID: product.ID,
		Title:     product.Title,
		Category:  product.Category,
		Price:     product.Price,
		VisitorID: visitorID,
	}

	event, err := pkgkafka.NewEvent(TopicProductViewed, product.Key(), AggregateTypeProduct, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create product_viewed event: %w", err)
	}
	event.WithCorrelationID(logger.CorrelationIDFromContext(ctx)).
		WithMetadata("visitor_id", visitorID)

	if err := p.publisher.Publish(ctx, TopicProductViewed, event); err != nil {
		return fmt.Errorf("publish product_viewed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product_viewed event",
		slog.Int("product_id", product.ID),
	)
	return nil
}
