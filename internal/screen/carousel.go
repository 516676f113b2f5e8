package screen

import "math"

// Dot is one carousel page indicator.
type Dot struct {
	Index  int  `json:"index"`
	Active bool `json:"active"`
}

// ActiveIndex returns the visible carousel page for a horizontal scroll
// offset: floor(offsetX / viewportWidth), clamped to [0, count-1]. It is 0 for
// an empty carousel, a non-positive width or a non-finite input.
func ActiveIndex(offsetX, viewportWidth float64, count int) int {
	if count <= 0 || viewportWidth <= 0 || math.IsNaN(offsetX) || math.IsNaN(viewportWidth) || math.IsInf(viewportWidth, 0) {
		return 0
	}

	page := math.Floor(offsetX / viewportWidth)
	switch {
	case page < 0:
		return 0
	case page > float64(count-1):
		return count - 1
	default:
		return int(page)
	}
}

// Dots returns one indicator per page with the active one marked.
func Dots(count, active int) []Dot {
	if count <= 0 {
		return nil
	}
	dots := make([]Dot, count)
	for i := range dots {
		dots[i] = Dot{Index: i, Active: i == active}
	}
	return dots
}
