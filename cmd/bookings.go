package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"venue-cli/api"
	"venue-cli/view"

	"github.com/spf13/cobra"
)

func bookingsCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "View bookings",
	}

	cmd.AddCommand(bookingsMineCmd(a))
	return cmd
}

func bookingsMineCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "List your bookings",
		RunE: a.withReauth(func(cmd *cobra.Command, args []string) error {
			bookings, err := a.Client.ListMyBookings(cmd.Context())
			if err != nil {
				return err
			}

			if a.outputJSON {
				return writeJSON(cmd.OutOrStdout(), bookings)
			}
			if len(bookings) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No bookings yet.")
				return nil
			}
			return writeMyBookings(cmd.OutOrStdout(), bookings, a.outputCompact)
		}),
	}

	return routed(cmd, "my-bookings")
}

func writeMyBookings(w io.Writer, bookings []api.Booking, compact bool) error {
	writer := tabwriter.NewWriter(w, 2, 2, 2, ' ', 0)
	if !compact {
		fmt.Fprintln(writer, "VENUE\tLOCATION\tDATES\tDAYS\tTOTAL\tSTATUS")
	}
	for _, b := range bookings {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\n",
			view.VenueName(b),
			view.VenueLocation(b),
			view.Dates(b),
			view.BookingDays(b),
			view.BookingPrice(b),
			view.Status(b),
		)
	}
	return writer.Flush()
}
