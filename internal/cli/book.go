package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/evcraddock/plot-visits/internal/app"
	"github.com/evcraddock/plot-visits/internal/visit"
)

func newBookCmd() *cobra.Command {
	form := visit.NewForm()

	cmd := &cobra.Command{
		Use:   "book <plot-id>",
		Short: "Book a visit to a plot",
		Long: `Submit a visit request for a plot.

Date format: YYYY-MM-DD
Time format: HH:MM

Examples:
  pv book 3 --name "Jane Roe" --phone 555-0100 --date 2026-11-02 --time 10:30
  pv book lot-7 --name Sam --phone 555-0101 --date 2026-11-03 --time 09:00 --guests 4 --notes "bringing a surveyor"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBook(cmd.Context(), cmd.OutOrStdout(), newAPIClient(), args[0], form)
		},
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "full name (required)")
	cmd.Flags().StringVar(&form.Phone, "phone", "", "phone number (required)")
	cmd.Flags().StringVar(&form.Email, "email", "", "email address")
	cmd.Flags().StringVar(&form.PreferredDate, "date", "", "preferred date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&form.PreferredTime, "time", "", "preferred time, HH:MM (required)")
	cmd.Flags().IntVar(&form.Guests, "guests", visit.DefaultGuests, "number of guests (1-10)")
	cmd.Flags().StringVarP(&form.Notes, "notes", "n", "", "anything we should know")

	for _, name := range []string{"name", "phone", "date", "time"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func runBook(ctx context.Context, out io.Writer, api app.API, plotID string, form visit.BookingForm) error {
	if err := form.Validate(); err != nil {
		return err
	}

	ctrl := app.NewController(api)
	defer ctrl.Close()

	if err := ctrl.LoadPlots().Wait(ctx); err != nil {
		return err
	}
	if msg := ctrl.Snapshot().Error(); msg != "" {
		return fmt.Errorf("%s", msg)
	}
	if !ctrl.OpenForm(plotID) {
		return fmt.Errorf("plot %s not found", plotID)
	}
	selected := *ctrl.Snapshot().Selected

	if err := ctrl.Submit(form).Wait(ctx); err != nil {
		return err
	}

	s := ctrl.Snapshot()
	if msg := s.Error(); msg != "" {
		return fmt.Errorf("%s", msg)
	}

	if isJSON() {
		return printJSON(out, map[string]interface{}{
			"submitted": true,
			"request":   visit.NewRequest(selected.ID, form),
			"message":   s.Message(),
		})
	}

	_, err := fmt.Fprintln(out, s.Message())
	return err
}
