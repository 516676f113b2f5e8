package cli

import (
	"github.com/spf13/cobra"

	"github.com/utafrali/EcommerceGo/storefront/internal/screen"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	var image int

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Render one product's detail screen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail := screen.NewDetailScreen(rootOpts.catalog(cmd.ErrOrStderr()))
			<-detail.SetID(cmd.Context(), args[0])

			// One viewport per image, so the page number is the offset.
			detail.Scroll(float64(image), 1)

			view := detail.View()
			if err := newPrinter(rootOpts, cmd.OutOrStdout()).detail(view); err != nil {
				return err
			}
			switch view.Mode {
			case screen.ModeError:
				return &ExitError{Code: ExitFailure, Message: view.Error, Err: detail.Err()}
			case screen.ModeNotFound:
				return NewExitError(ExitFailure, view.Message)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&image, "image", 0, "carousel page to show (0-based)")
	return cmd
}
