package cli

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/utafrali/EcommerceGo/storefront/internal/catalog"
	"github.com/utafrali/EcommerceGo/storefront/pkg/httpclient"
	"github.com/utafrali/EcommerceGo/storefront/pkg/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	BaseURL string
	Timeout time.Duration
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for catalogctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "catalogctl",
		Short: "Browse the product catalog from a terminal",
		Long: `catalogctl renders the storefront's product list and product detail
screens in a terminal, either once (list, show) or as an interactive
session (browse).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if opts.Timeout <= 0 {
				return NewExitError(ExitCommandError, "timeout must be positive")
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log catalog requests to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.BaseURL, "base-url", catalog.DefaultBaseURL, "catalog API base URL")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "per-request timeout")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewBrowseCommand(opts))

	return cmd
}

// catalog builds the catalog client for one invocation. Logs go to errOut so
// they never mix with JSON output.
func (o *RootOptions) catalog(errOut io.Writer) *catalog.Client {
	level := "error"
	if o.Verbose {
		level = "debug"
	}
	l := logger.NewWithOptions(logger.Options{
		Service: "catalogctl",
		Level:   level,
		Format:  logger.FormatText,
		Writer:  errOut,
	})

	hc := httpclient.DefaultConfig()
	hc.Timeout = o.Timeout
	transport := httpclient.NewCircuitBreakerClient(
		httpclient.New(hc),
		httpclient.DefaultCircuitBreakerConfig("catalog"),
		l,
	)
	return catalog.New(o.BaseURL, transport, l)
}
