package domain

import (
	"strconv"
	"strings"
)

// Product is a catalog item as served by the upstream catalog. Field names
// follow the upstream JSON exactly.
type Product struct {
	ID                  int        `json:"id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Category            string     `json:"category"`
	Price               float64    `json:"price"`
	Rating              float64    `json:"rating"`
	Weight              float64    `json:"weight"`
	Dimensions          Dimensions `json:"dimensions"`
	WarrantyInformation string     `json:"warrantyInformation"`
	ShippingInformation string     `json:"shippingInformation"`
	ReturnPolicy        string     `json:"returnPolicy"`
	Thumbnail           string     `json:"thumbnail"`
	Images              []string   `json:"images"`
}

// Dimensions of a product in centimetres.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// ProductList is the collection response. Only Products is consumed.
type ProductList struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

// Key is the string form of the id used for navigation and list keys.
func (p Product) Key() string {
	return strconv.Itoa(p.ID)
}

// PrimaryImage is the representative image: images[0], or the thumbnail
// when the product has no images.
func (p Product) PrimaryImage() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return p.Thumbnail
}

// PriceLabel renders the price with a currency symbol, e.g. "$9.99".
func (p Product) PriceLabel() string {
	return "$" + FormatNumber(p.Price)
}

// WeightLabel renders the weight in grams, e.g. "4g".
func (p Product) WeightLabel() string {
	return FormatNumber(p.Weight) + "g"
}

// Label renders "WxHxD cm".
func (d Dimensions) Label() string {
	return strings.Join([]string{
		FormatNumber(d.Width),
		FormatNumber(d.Height),
		FormatNumber(d.Depth),
	}, "x") + " cm"
}

// FormatNumber prints v in its shortest round-trip decimal form: 2, 9.99,
// 23.17.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
