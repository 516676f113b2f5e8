package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/utafrali/EcommerceGo/storefront/internal/screen"
)

const browseHelp = `Commands:
  open <id>   open a product from the list
  next, prev  move the image carousel
  retry       retry a failed load
  back        go back to the previous screen
  list        show the product list
  help        show this help
  quit        leave`

// NewBrowseCommand creates the browse command.
func NewBrowseCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog interactively",
		Long: `Browse starts on the product list and reads commands from stdin.

` + browseHelp,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := newSession(cmd.Context(), rootOpts.catalog(cmd.ErrOrStderr()), newPrinter(rootOpts, cmd.OutOrStdout()))
			return s.run(cmd.InOrStdin())
		},
	}
}

// session is an interactive browse loop. It owns the list screen and a route
// stack that plays the navigator. Every detail push mounts a fresh detail
// screen, so reopening a product fetches it again.
type session struct {
	ctx     context.Context
	out     *printer
	catalog screen.Catalog
	list    *screen.ListScreen
	detail  *screen.DetailScreen
	stack   []string
	// pending is closed once the screen the last push landed on settles.
	pending <-chan struct{}
}

func newSession(ctx context.Context, catalog screen.Catalog, out *printer) *session {
	s := &session{ctx: ctx, out: out, catalog: catalog}
	s.list = screen.NewListScreen(catalog, s)
	return s
}

// Push implements screen.Navigator.
func (s *session) Push(route string) {
	s.stack = append(s.stack, route)
	s.pending = s.enter(route)
}

func (s *session) enter(route string) <-chan struct{} {
	if id, ok := screen.ParseDetailRoute(route); ok {
		s.detail = screen.NewDetailScreen(s.catalog)
		return s.detail.SetID(s.ctx, id)
	}
	return s.list.Activate(s.ctx)
}

func (s *session) current() string {
	if len(s.stack) == 0 {
		return screen.ListRoute
	}
	return s.stack[len(s.stack)-1]
}

func (s *session) run(in io.Reader) error {
	s.Push(screen.ListRoute)
	if err := s.show(); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		s.out.prompt("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		quit, err := s.exec(fields[0], fields[1:])
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// exec runs one command. It reports whether the session should end.
func (s *session) exec(name string, args []string) (bool, error) {
	_, onDetail := screen.ParseDetailRoute(s.current())

	switch name {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		s.out.line("%s", browseHelp)
		return false, nil
	case "open":
		if len(args) != 1 {
			s.out.line("usage: open <id>")
			return false, nil
		}
		if onDetail {
			s.back()
		}
		if !s.list.Open(args[0]) {
			s.out.line("no product %q in the list", args[0])
			return false, nil
		}
	case "next", "prev":
		if !onDetail {
			s.out.line("%s only works on a product", name)
			return false, nil
		}
		step := 1
		if name == "prev" {
			step = -1
		}
		s.detail.Scroll(float64(s.detail.ActiveImage()+step), 1)
	case "retry":
		if onDetail {
			s.pending = s.detail.Retry(s.ctx)
		} else {
			s.pending = s.list.Retry(s.ctx)
		}
	case "back":
		s.back()
	case "list":
		s.stack = s.stack[:1]
	default:
		s.out.line("unknown command %q, type help", name)
		return false, nil
	}

	return false, s.show()
}

func (s *session) back() {
	if len(s.stack) > 1 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// show waits for the last load and renders the current screen.
func (s *session) show() error {
	if s.pending != nil {
		select {
		case <-s.pending:
		case <-s.ctx.Done():
			return s.ctx.Err()
		}
		s.pending = nil
	}

	if _, ok := screen.ParseDetailRoute(s.current()); ok {
		return s.out.detail(s.detail.View())
	}
	if err := s.out.list(s.list.View()); err != nil {
		return fmt.Errorf("render list: %w", err)
	}
	return nil
}
