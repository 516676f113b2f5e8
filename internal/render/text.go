package render

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/go-wordwrap"

	"github.com/utafrali/EcommerceGo/storefront/internal/screen"
)

const (
	// DefaultWidth is the terminal width the text renderer wraps to.
	DefaultWidth = 72

	gutter   = "  "
	ellipsis = "…"
)

// Text renders screen views for a terminal.
type Text struct {
	// Width is the total line width. Grid cells split it between columns.
	Width int
}

// NewText returns a renderer wrapping at width, or DefaultWidth when width
// is not positive.
func NewText(width int) *Text {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Text{Width: width}
}

// List writes the List Screen.
func (t *Text) List(w io.Writer, v screen.ListView) error {
	bw := bufio.NewWriter(w)
	heading(bw, v.Title, "=")

	switch v.Mode {
	case screen.ModeLoading:
		bw.WriteString("Loading…\n")
	case screen.ModeError:
		writeError(bw, v.Error, v.Retry)
	default:
		if len(v.Items) == 0 {
			bw.WriteString("No products.\n")
			break
		}
		cols := v.Columns
		if cols <= 0 {
			cols = screen.ListColumns
		}
		cellWidth := (t.Width - (cols-1)*len(gutter)) / cols
		for i, row := range v.Rows() {
			if i > 0 {
				bw.WriteString("\n")
			}
			writeRow(bw, row, cellWidth)
		}
	}
	return bw.Flush()
}

// Detail writes the Detail Screen.
func (t *Text) Detail(w io.Writer, v screen.DetailView) error {
	bw := bufio.NewWriter(w)
	heading(bw, v.Title, "=")

	switch v.Mode {
	case screen.ModeLoading:
		bw.WriteString("Loading…\n")
	case screen.ModeError:
		writeError(bw, v.Error, v.Retry)
	case screen.ModeNotFound:
		bw.WriteString(v.Message + "\n")
	default:
		t.product(bw, v.Product)
	}
	return bw.Flush()
}

func (t *Text) product(bw *bufio.Writer, p *screen.ProductView) {
	t.paragraph(bw, p.Title)
	bw.WriteString("Price: " + p.PriceLabel + "\n")
	bw.WriteString(p.RatingLabel + "\n")
	bw.WriteString("Category: " + p.Category + "\n\n")

	if len(p.Images) == 0 {
		bw.WriteString("No images\n")
	} else {
		active := min(max(p.ActiveImage, 0), len(p.Images)-1)
		bw.WriteString("Image " + strconv.Itoa(active+1) + "/" + strconv.Itoa(len(p.Images)) + ": " + p.Images[active] + "\n")
		marks := make([]string, len(p.Dots))
		for i, d := range p.Dots {
			marks[i] = "○"
			if d.Active {
				marks[i] = "●"
			}
		}
		bw.WriteString(strings.Join(marks, " ") + "\n")
	}

	for _, s := range p.Sections {
		bw.WriteString("\n")
		heading(bw, s.Title, "-")
		for _, line := range s.Lines {
			t.paragraph(bw, line)
		}
	}
}

func (t *Text) paragraph(bw *bufio.Writer, s string) {
	bw.WriteString(wordwrap.WrapString(s, uint(t.Width)) + "\n")
}

func heading(bw *bufio.Writer, title, rule string) {
	bw.WriteString(title + "\n")
	bw.WriteString(strings.Repeat(rule, utf8.RuneCountInString(title)) + "\n")
	if rule == "=" {
		bw.WriteString("\n")
	}
}

func writeError(bw *bufio.Writer, msg string, retry bool) {
	bw.WriteString(msg + "\n")
	if retry {
		bw.WriteString("\n[retry]\n")
	}
}

func writeRow(bw *bufio.Writer, row []screen.ItemView, width int) {
	cells := make([][]string, len(row))
	height := 0
	for i, item := range row {
		cells[i] = cellLines(item, width)
		height = max(height, len(cells[i]))
	}

	for line := 0; line < height; line++ {
		var sb strings.Builder
		for i, cell := range cells {
			text := ""
			if line < len(cell) {
				text = cell[line]
			}
			if i > 0 {
				sb.WriteString(gutter)
			}
			sb.WriteString(text)
			if i < len(cells)-1 {
				sb.WriteString(strings.Repeat(" ", max(0, width-utf8.RuneCountInString(text))))
			}
		}
		bw.WriteString(strings.TrimRight(sb.String(), " ") + "\n")
	}
}

func cellLines(item screen.ItemView, width int) []string {
	lines := []string{"[" + item.Key + "]"}
	lines = append(lines, Clamp(item.Title, width, item.TitleLines)...)
	lines = append(lines, Clamp(item.Description, width, item.DescriptionLines)...)
	return lines
}

// Clamp word-wraps s to width and keeps at most maxLines lines. When text is
// cut, the last kept line ends in an ellipsis. Words longer than width are
// hard-cut.
func Clamp(s string, width, maxLines int) []string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" || width <= 0 || maxLines <= 0 {
		return nil
	}

	lines := strings.Split(wordwrap.WrapString(s, uint(width)), "\n")
	for i, l := range lines {
		lines[i] = truncate(l, width)
	}
	if len(lines) <= maxLines {
		return lines
	}

	lines = lines[:maxLines]
	lines[maxLines-1] = truncate(lines[maxLines-1], width-1) + ellipsis
	return lines
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:max(n, 0)])
}
