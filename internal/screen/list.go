package screen

import (
	"context"

	"github.com/utafrali/EcommerceGo/storefront/internal/domain"
	"github.com/utafrali/EcommerceGo/storefront/internal/resource"
)

const (
	// ListTitle is the List Screen header.
	ListTitle = "Products"
	// ListColumns is the grid width.
	ListColumns = 2
	// ListFallbackMessage is shown when a failure carries no message.
	ListFallbackMessage = "Something went wrong"
)

// ListView is the render-ready state of the List Screen.
type ListView struct {
	Title   string     `json:"title"`
	Mode    Mode       `json:"mode"`
	Error   string     `json:"error,omitempty"`
	Retry   bool       `json:"retry,omitempty"`
	Columns int        `json:"columns"`
	Items   []ItemView `json:"items"`
}

// Rows splits Items into grid rows of Columns cells.
func (v ListView) Rows() [][]ItemView {
	if len(v.Items) == 0 {
		return nil
	}
	cols := v.Columns
	if cols <= 0 {
		cols = ListColumns
	}
	rows := make([][]ItemView, 0, (len(v.Items)+cols-1)/cols)
	for start := 0; start < len(v.Items); start += cols {
		end := min(start+cols, len(v.Items))
		rows = append(rows, v.Items[start:end])
	}
	return rows
}

// ListScreen shows the whole catalog as a grid.
type ListScreen struct {
	catalog  Catalog
	nav      Navigator
	products *resource.Resource[[]domain.Product]
}

// NewListScreen creates an idle List Screen. nav receives the detail route
// when an item is pressed and may be nil.
func NewListScreen(catalog Catalog, nav Navigator) *ListScreen {
	return &ListScreen{
		catalog:  catalog,
		nav:      nav,
		products: resource.New[[]domain.Product](ListFallbackMessage),
	}
}

// Activate fetches the collection. The screen is in loading mode when
// Activate returns; the channel closes once the request settles.
func (s *ListScreen) Activate(ctx context.Context) <-chan struct{} {
	return settled(s.products.Start(ctx, s.catalog.ListProducts))
}

// Retry re-issues the collection request.
func (s *ListScreen) Retry(ctx context.Context) <-chan struct{} {
	if s.products.Snapshot().Status == resource.StatusIdle {
		return s.Activate(ctx)
	}
	return settled(s.products.Retry(ctx))
}

// Err is the failure behind error mode, or nil.
func (s *ListScreen) Err() error {
	return s.products.Snapshot().Err
}

// Items returns one List Item per product, in server order.
func (s *ListScreen) Items() []ListItem {
	return s.items(s.products.Snapshot())
}

func (s *ListScreen) items(snap resource.Snapshot[[]domain.Product]) []ListItem {
	if snap.Status != resource.StatusLoaded {
		return nil
	}
	items := make([]ListItem, len(snap.Value))
	for i, p := range snap.Value {
		route := DetailRoute(p.ID)
		items[i] = NewListItem(p, func() {
			if s.nav != nil {
				s.nav.Push(route)
			}
		})
	}
	return items
}

// Open presses the item with the given key. It reports whether such an item
// is on screen.
func (s *ListScreen) Open(key string) bool {
	for _, item := range s.Items() {
		if item.View().Key == key {
			item.Press()
			return true
		}
	}
	return false
}

// View returns the current rendering.
func (s *ListScreen) View() ListView {
	snap := s.products.Snapshot()
	v := ListView{Title: ListTitle, Columns: ListColumns}

	switch {
	case snap.Loading():
		v.Mode = ModeLoading
	case snap.Status == resource.StatusFailed:
		v.Mode = ModeError
		v.Error = snap.Message
		v.Retry = true
	default:
		v.Mode = ModeContent
		v.Items = make([]ItemView, 0, len(snap.Value))
		for _, item := range s.items(snap) {
			v.Items = append(v.Items, item.View())
		}
	}
	return v
}
