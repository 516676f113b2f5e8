package screen

import (
	"context"
	"sync"

	"github.com/utafrali/EcommerceGo/storefront/internal/domain"
	"github.com/utafrali/EcommerceGo/storefront/internal/resource"
)

const (
	// DetailTitle is the Detail Screen header.
	DetailTitle = "Product Details"
	// DetailFallbackMessage is shown when a failure carries no message.
	DetailFallbackMessage = "Failed to load product"
	// NotFoundMessage is shown when no product is held and nothing failed.
	NotFoundMessage = "Product not found"
)

// Section is a titled block of verbatim text lines.
type Section struct {
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

// ProductView is the content-mode body of the Detail Screen.
type ProductView struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	PriceLabel  string    `json:"price_label"`
	Rating      float64   `json:"rating"`
	RatingLabel string    `json:"rating_label"`
	Category    string    `json:"category"`
	Images      []string  `json:"images"`
	ActiveImage int       `json:"active_image"`
	Dots        []Dot     `json:"dots"`
	Sections    []Section `json:"sections"`
}

// DetailView is the render-ready state of the Detail Screen.
type DetailView struct {
	Title   string       `json:"title"`
	ID      string       `json:"id"`
	Mode    Mode         `json:"mode"`
	Error   string       `json:"error,omitempty"`
	Retry   bool         `json:"retry,omitempty"`
	Message string       `json:"message,omitempty"`
	Product *ProductView `json:"product,omitempty"`
}

// DetailScreen shows one product addressed by the id in its route.
type DetailScreen struct {
	catalog Catalog

	mu      sync.Mutex
	id      string
	active  int
	product *resource.Resource[*domain.Product]
}

// NewDetailScreen creates an idle Detail Screen with no id.
func NewDetailScreen(catalog Catalog) *DetailScreen {
	return &DetailScreen{
		catalog: catalog,
		product: resource.New[*domain.Product](DetailFallbackMessage),
	}
}

// SetID is called whenever the route id is read. A new id resets the screen
// and fetches that product; an empty id is ignored, as is a repeat of the
// current id once its first fetch has started. The channel closes when the
// fetch settles. If another id is set before then, the older result is
// dropped.
func (s *DetailScreen) SetID(ctx context.Context, id string) <-chan struct{} {
	if id == "" {
		return closed()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id == s.id && s.product.Snapshot().Status != resource.StatusIdle {
		return closed()
	}

	s.id = id
	s.active = 0
	return settled(s.product.Start(ctx, s.fetch(id)))
}

// ID is the id the screen currently shows.
func (s *DetailScreen) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Retry re-requests the current id. The carousel starts over, since the
// refetched product may carry a different set of images.
func (s *DetailScreen) Retry(ctx context.Context) <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.id == "" {
		return closed()
	}
	s.active = 0
	return settled(s.product.Retry(ctx))
}

// Err is the failure behind error mode, or nil.
func (s *DetailScreen) Err() error {
	return s.product.Snapshot().Err
}

// Product returns the loaded product, or nil.
func (s *DetailScreen) Product() *domain.Product {
	snap := s.product.Snapshot()
	if snap.Status != resource.StatusLoaded {
		return nil
	}
	return snap.Value
}

// Scroll records a carousel scroll and returns the new active page.
func (s *DetailScreen) Scroll(offsetX, viewportWidth float64) int {
	count := 0
	if p := s.Product(); p != nil {
		count = len(p.Images)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = ActiveIndex(offsetX, viewportWidth, count)
	return s.active
}

// ActiveImage is the current carousel page.
func (s *DetailScreen) ActiveImage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// View returns the current rendering.
func (s *DetailScreen) View() DetailView {
	s.mu.Lock()
	id, active := s.id, s.active
	s.mu.Unlock()

	snap := s.product.Snapshot()
	v := DetailView{Title: DetailTitle, ID: id}

	switch {
	case snap.Status == resource.StatusLoading || (snap.Status == resource.StatusIdle && id != ""):
		v.Mode = ModeLoading
	case snap.Status == resource.StatusFailed:
		v.Mode = ModeError
		v.Error = snap.Message
		v.Retry = true
	case snap.Value == nil:
		v.Mode = ModeNotFound
		v.Message = NotFoundMessage
	default:
		v.Mode = ModeContent
		v.Product = productView(snap.Value, active)
	}
	return v
}

func (s *DetailScreen) fetch(id string) resource.FetchFunc[*domain.Product] {
	return func(ctx context.Context) (*domain.Product, error) {
		return s.catalog.GetProduct(ctx, id)
	}
}

func productView(p *domain.Product, active int) *ProductView {
	active = ActiveIndex(float64(active), 1, len(p.Images))
	return &ProductView{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		PriceLabel:  p.PriceLabel(),
		Rating:      p.Rating,
		RatingLabel: "Rating: " + domain.FormatNumber(p.Rating) + " ⭐",
		Category:    p.Category,
		Images:      p.Images,
		ActiveImage: active,
		Dots:        Dots(len(p.Images), active),
		Sections: []Section{
			{
				Title: "Product Details",
				Lines: []string{
					p.Description,
					"Weight: " + p.WeightLabel(),
					"Dimensions: " + p.Dimensions.Label(),
				},
			},
			{
				Title: "Shipping & Returns",
				Lines: []string{
					p.ShippingInformation,
					p.ReturnPolicy,
					p.WarrantyInformation,
				},
			},
		},
	}
}
