package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/utafrali/EcommerceGo/storefront/internal/render"
	"github.com/utafrali/EcommerceGo/storefront/internal/screen"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The screen ended in error or not-found mode
	ExitCommandError = 2 // Bad flags or arguments
)

// ExitError carries the exit code a command should terminate with.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// printer writes screen views in the configured format.
type printer struct {
	format string
	w      io.Writer
	text   *render.Text
}

func newPrinter(opts *RootOptions, w io.Writer) *printer {
	return &printer{format: opts.Format, w: w, text: render.NewText(render.DefaultWidth)}
}

func (p *printer) list(v screen.ListView) error {
	if p.format == "json" {
		return p.encode(v)
	}
	return p.text.List(p.w, v)
}

func (p *printer) detail(v screen.DetailView) error {
	if p.format == "json" {
		return p.encode(v)
	}
	return p.text.Detail(p.w, v)
}

func (p *printer) encode(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// line writes a plain message; JSON output stays machine readable by
// skipping it.
func (p *printer) line(format string, args ...any) {
	if p.format == "json" {
		return
	}
	fmt.Fprintf(p.w, format+"\n", args...)
}

// prompt writes s without a trailing newline so input follows on the same
// line. JSON output gets no prompt.
func (p *printer) prompt(s string) {
	if p.format == "json" {
		return
	}
	fmt.Fprint(p.w, s)
}
