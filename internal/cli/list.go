package cli

import (
	"github.com/spf13/cobra"

	"github.com/utafrali/EcommerceGo/storefront/internal/screen"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Render the product list once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := screen.NewListScreen(rootOpts.catalog(cmd.ErrOrStderr()), nil)
			<-list.Activate(cmd.Context())

			view := list.View()
			if err := newPrinter(rootOpts, cmd.OutOrStdout()).list(view); err != nil {
				return err
			}
			if view.Mode == screen.ModeError {
				return &ExitError{Code: ExitFailure, Message: view.Error, Err: list.Err()}
			}
			return nil
		},
	}
}
