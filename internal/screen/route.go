package screen

import (
	"strconv"
	"strings"
)

// ListRoute addresses the List Screen.
const ListRoute = "/"

const detailPrefix = "/product/"

// Navigator is the navigation boundary between screens.
type Navigator interface {
	Push(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

// Push calls f(route).
func (f NavigatorFunc) Push(route string) { f(route) }

// DetailRoute is the Detail Screen route for a product id.
func DetailRoute(id int) string {
	return detailPrefix + strconv.Itoa(id)
}

// ParseDetailRoute extracts the id segment of a detail route.
func ParseDetailRoute(route string) (string, bool) {
	id, ok := strings.CutPrefix(route, detailPrefix)
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
