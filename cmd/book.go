package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"venue-cli/api"
	"venue-cli/daterange"
	"venue-cli/form"
	"venue-cli/view"

	"github.com/spf13/cobra"
)

type bookingQuote struct {
	Venue     api.Venue       `json:"venue"`
	StartDate string          `json:"startDate"`
	EndDate   string          `json:"endDate"`
	Quote     daterange.Quote `json:"quote"`
}

func bookCmd(a *App) *cobra.Command {
	var venueID string
	var from string
	var to string
	var quoteOnly bool

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book a venue for a date range",
		RunE: a.withReauth(func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(venueID) == "" {
				return fmt.Errorf("--venue is required")
			}

			f := form.Booking{StartDate: dateArg(from, a.Now()), EndDate: dateArg(to, a.Now())}
			r, err := f.Validate(a.Now())
			if err != nil {
				return err
			}

			venue, err := findVenue(cmd.Context(), a.Client, venueID)
			if err != nil {
				return err
			}
			quote, err := r.Quote(venue.PricePerDay)
			if err != nil {
				return err
			}
			preview := bookingQuote{Venue: venue, StartDate: f.StartDate, EndDate: f.EndDate, Quote: quote}

			if quoteOnly {
				if a.outputJSON {
					return writeJSON(cmd.OutOrStdout(), preview)
				}
				return writeQuote(cmd, preview, a.outputCompact)
			}

			booking, err := a.Client.CreateBooking(cmd.Context(), api.CreateBookingRequest{
				VenueID:   venue.ID,
				StartDate: f.StartDate,
				EndDate:   f.EndDate,
			})
			if err != nil {
				return err
			}

			if a.outputJSON {
				return writeJSON(cmd.OutOrStdout(), booking)
			}
			if !a.outputCompact {
				if err := writeQuote(cmd, preview, false); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Booking successful!")
			if booking.ID != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Booking %s is %s.\n", booking.ID, strings.ToLower(view.Status(booking)))
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&venueID, "venue", "", "Venue ID or name")
	cmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD, today, tomorrow)")
	cmd.Flags().StringVar(&to, "to", "", "End date (YYYY-MM-DD, today, tomorrow)")
	cmd.Flags().BoolVar(&quoteOnly, "quote", false, "Show the price without booking")
	return routed(cmd, "book")
}

// findVenue resolves a venue by ID, then by case-insensitive name.
func findVenue(ctx context.Context, client *api.Client, ref string) (api.Venue, error) {
	venues, err := client.ListVenues(ctx)
	if err != nil {
		return api.Venue{}, err
	}
	ref = strings.TrimSpace(ref)
	for _, v := range venues {
		if v.ID == ref {
			return v, nil
		}
	}
	for _, v := range venues {
		if strings.EqualFold(v.Name, ref) {
			return v, nil
		}
	}
	return api.Venue{}, fmt.Errorf("venue %q not found", ref)
}

func writeQuote(cmd *cobra.Command, q bookingQuote, compact bool) error {
	w := cmd.OutOrStdout()
	if compact {
		fmt.Fprintf(w, "%s %s %s %d %s\n", q.Venue.ID, q.StartDate, q.EndDate, q.Quote.Days, view.Price(q.Quote.Total))
		return nil
	}
	writer := tabwriter.NewWriter(w, 2, 2, 2, ' ', 0)
	fmt.Fprintf(writer, "Venue:\t%s (%s)\n", q.Venue.Name, q.Venue.Location)
	fmt.Fprintf(writer, "Dates:\t%s - %s\n", view.Date(q.StartDate), view.Date(q.EndDate))
	fmt.Fprintf(writer, "Price:\t%s x %s\n", view.Price(q.Quote.PricePerDay), daterange.DayLabel(q.Quote.Days))
	fmt.Fprintf(writer, "Total:\t%s\n", view.Price(q.Quote.Total))
	return writer.Flush()
}
