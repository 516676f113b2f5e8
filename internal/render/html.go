package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strconv"

	"github.com/utafrali/EcommerceGo/storefront/internal/screen"
)

//go:embed templates/*.html
var templateFS embed.FS

// ListPage is the data for the list page.
type ListPage struct {
	View screen.ListView
	// Recent holds recently viewed product ids, newest first.
	Recent []string
}

// Title is the page title.
func (p ListPage) Title() string { return p.View.Title }

// Columns is the grid width.
func (p ListPage) Columns() int { return p.View.Columns }

// DetailPage is the data for the product page.
type DetailPage struct {
	View screen.DetailView
}

// Title is the page title.
func (p DetailPage) Title() string { return p.View.Title }

// Columns is unused on the product page but referenced by the layout.
func (p DetailPage) Columns() int { return screen.ListColumns }

type errorData struct {
	Message string
	Retry   bool
	Action  string
}

// HTML renders screen views as server-side pages.
type HTML struct {
	list   *template.Template
	detail *template.Template
}

// NewHTML parses the embedded templates.
func NewHTML() (*HTML, error) {
	funcs := template.FuncMap{
		"detailHref": detailHref,
		"dotHref":    DotHref,
		"inc":        func(i int) int { return i + 1 },
		"errorBlock": func(msg string, retry bool, action string) errorData {
			return errorData{Message: msg, Retry: retry, Action: action}
		},
	}

	parse := func(page string) (*template.Template, error) {
		t, err := template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		return t, nil
	}

	list, err := parse("list.html")
	if err != nil {
		return nil, err
	}
	detail, err := parse("detail.html")
	if err != nil {
		return nil, err
	}
	return &HTML{list: list, detail: detail}, nil
}

// List renders the list page.
func (h *HTML) List(w io.Writer, page ListPage) error {
	return execute(w, h.list, page)
}

// Detail renders the product page.
func (h *HTML) Detail(w io.Writer, page DetailPage) error {
	return execute(w, h.detail, page)
}

// DotHref links a carousel dot to its page: with width 1 the offset is the
// page index itself.
func DotHref(id string, index int) string {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(index))
	q.Set("width", "1")
	return detailHref(id) + "?" + q.Encode()
}

func detailHref(id string) string {
	return "/product/" + url.PathEscape(id)
}

// execute renders into a buffer first so a template error never leaves a
// half-written page.
func execute(w io.Writer, t *template.Template, data any) error {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", t.Name(), err)
	}
	_, err := buf.WriteTo(w)
	return err
}
