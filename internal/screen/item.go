package screen

import "github.com/utafrali/EcommerceGo/storefront/internal/domain"

// Line clamps applied to a list cell.
const (
	TitleLines       = 2
	DescriptionLines = 3
)

// ItemView is what a list cell displays.
type ItemView struct {
	Key              string `json:"key"`
	Route            string `json:"route"`
	Image            string `json:"image"`
	Title            string `json:"title"`
	TitleLines       int    `json:"title_lines"`
	Description      string `json:"description"`
	DescriptionLines int    `json:"description_lines"`
}

// ListItem presents one product. It holds no state of its own.
type ListItem struct {
	product domain.Product
	onPress func()
}

// NewListItem wraps p. onPress may be nil.
func NewListItem(p domain.Product, onPress func()) ListItem {
	return ListItem{product: p, onPress: onPress}
}

// View returns the cell contents.
func (i ListItem) View() ItemView {
	return ItemView{
		Key:              i.product.Key(),
		Route:            DetailRoute(i.product.ID),
		Image:            i.product.PrimaryImage(),
		Title:            i.product.Title,
		TitleLines:       TitleLines,
		Description:      i.product.Description,
		DescriptionLines: DescriptionLines,
	}
}

// Press invokes the press callback.
func (i ListItem) Press() {
	if i.onPress != nil {
		i.onPress()
	}
}
