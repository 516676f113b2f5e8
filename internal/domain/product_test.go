package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const upstreamProduct = `{
  "id": 1,
  "title": "Essence Mascara Lash Princess",
  "description": "Popular mascara known for its volumizing effects.",
  "category": "beauty",
  "price": 9.99,
  "rating": 4.94,
  "weight": 2,
  "dimensions": {"width": 23.17, "height": 14.43, "depth": 28.01},
  "warrantyInformation": "1 month warranty",
  "shippingInformation": "Ships in 1 month",
  "returnPolicy": "30 days return policy",
  "thumbnail": "https://cdn.dummyjson.com/products/images/beauty/thumbnail.png",
  "images": ["https://cdn.dummyjson.com/products/images/beauty/1.png"],
  "tags": ["beauty", "mascara"]
}`

func TestProduct_DecodesUpstreamShape(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(upstreamProduct), &p))

	assert.Equal(t, 1, p.ID)
	assert.Equal(t, "Essence Mascara Lash Princess", p.Title)
	assert.Equal(t, 9.99, p.Price)
	assert.Equal(t, 23.17, p.Dimensions.Width)
	assert.Equal(t, "Ships in 1 month", p.ShippingInformation)
	assert.Len(t, p.Images, 1)
}

func TestProduct_Labels(t *testing.T) {
	p := Product{
		ID:         42,
		Price:      9.99,
		Weight:     2,
		Dimensions: Dimensions{Width: 23.17, Height: 14.43, Depth: 28.01},
	}

	assert.Equal(t, "42", p.Key())
	assert.Equal(t, "$9.99", p.PriceLabel())
	assert.Equal(t, "2g", p.WeightLabel())
	assert.Equal(t, "23.17x14.43x28.01 cm", p.Dimensions.Label())
}

func TestProduct_PrimaryImage(t *testing.T) {
	p := Product{Thumbnail: "thumb.png"}
	assert.Equal(t, "thumb.png", p.PrimaryImage())

	p.Images = []string{"a.png", "b.png"}
	assert.Equal(t, "a.png", p.PrimaryImage())
}

func TestFormatNumber(t *testing.T) {
	tests := map[float64]string{
		2:       "2",
		9.99:    "9.99",
		1899.99: "1899.99",
		0.5:     "0.5",
		0:       "0",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatNumber(in))
	}
}
