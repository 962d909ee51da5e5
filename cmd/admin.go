package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"venue-cli/api"
	"venue-cli/daterange"
	"venue-cli/form"
	"venue-cli/view"

	"github.com/spf13/cobra"
)

func adminCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage venues and their bookings",
	}

	cmd.AddCommand(adminVenuesCmd(a))
	cmd.AddCommand(adminCreateVenueCmd(a))
	cmd.AddCommand(adminBookingsCmd(a))
	cmd.AddCommand(adminBlockCmd(a))
	cmd.AddCommand(adminAmenitiesCmd(a))
	return cmd
}

func adminVenuesCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "venues",
		Short: "List all venues with their owners",
		RunE: a.withReauth(func(cmd *cobra.Command, args []string) error {
			venues, err := a.Client.ListVenues(cmd.Context())
			if err != nil {
				return err
			}
			if a.outputJSON {
				return writeJSON(cmd.OutOrStdout(), venues)
			}
			if len(venues) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No venues yet. Create one with 'venue admin create-venue'.")
				return nil
			}
			return writeVenues(cmd.OutOrStdout(), venues, a.outputCompact, true)
		}),
	}
	return routed(cmd, "admin")
}

func adminCreateVenueCmd(a *App) *cobra.Command {
	in := form.VenueInput{}

	cmd := &cobra.Command{
		Use:   "create-venue",
		Short: "Create a venue",
		RunE: a.withReauth(func(cmd *cobra.Command, args []string) error {
			v, err := in.Validate()
			if err != nil {
				return err
			}

			venue, err := a.Client.CreateVenue(cmd.Context(), api.CreateVenueRequest{
				Name:        v.Name,
				Description: v.Description,
				Location:    v.Location,
				Capacity:    v.Capacity,
				PricePerDay: v.PricePerDay,
				Amenities:   v.Amenities,
			})
			if err != nil {
				return err
			}

			if a.outputJSON {
				return writeJSON(cmd.OutOrStdout(), venue)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Venue created successfully: %s (%s).\n", venue.Name, venue.ID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Venue name")
	cmd.Flags().StringVar(&in.Description, "description", "", "Description")
	cmd.Flags().StringVar(&in.Location, "location", "", "Location")
	cmd.Flags().StringVar(&in.Capacity, "capacity", "", "Capacity (guests)")
	cmd.Flags().StringVar(&in.PricePerDay, "price", "", "Price per day")
	cmd.Flags().StringArrayVar(&in.Amenities, "amenity", nil, "Amenity (repeatable); see 'venue admin amenities'")
	return routed(cmd, "admin")
}

func adminBookingsCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings VENUE_ID",
		Short: "List bookings for a venue",
		Args:  cobra.ExactArgs(1),
		RunE: a.withReauth(func(cmd *cobra.Command, args []string) error {
			bookings, err := a.Client.ListVenueBookings(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.outputJSON {
				return writeJSON(cmd.OutOrStdout(), bookings)
			}
			if len(bookings) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No bookings for this venue.")
				return nil
			}
			if !a.outputCompact {
				fmt.Fprintln(cmd.OutOrStdout(), bookingCount(len(bookings)))
			}
			return writeVenueBookings(cmd.OutOrStdout(), bookings, a.outputCompact)
		}),
	}
	return routed(cmd, "admin")
}

func bookingCount(n int) string {
	if n == 1 {
		return "1 booking"
	}
	return fmt.Sprintf("%d bookings", n)
}

func writeVenueBookings(w io.Writer, bookings []api.Booking, compact bool) error {
	writer := tabwriter.NewWriter(w, 2, 2, 2, ' ', 0)
	if !compact {
		fmt.Fprintln(writer, "CUSTOMER\tEMAIL\tDATES\tDAYS\tAMOUNT\tSTATUS\tBOOKED")
	}
	for _, b := range bookings {
		who := b.Requester()
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			who.Name,
			who.Email,
			view.Dates(b),
			view.BookingDays(b),
			view.BookingPrice(b),
			view.Status(b),
			view.Date(b.Created()),
		)
	}
	return writer.Flush()
}

func adminBlockCmd(a *App) *cobra.Command {
	f := form.Block{}

	cmd := &cobra.Command{
		Use:   "block VENUE_ID",
		Short: "Block a date range on a venue",
		Args:  cobra.ExactArgs(1),
		RunE: a.withReauth(func(cmd *cobra.Command, args []string) error {
			f.StartDate = dateArg(f.StartDate, a.Now())
			f.EndDate = dateArg(f.EndDate, a.Now())
			r, err := f.Validate()
			if err != nil {
				return err
			}
			days, err := r.Days()
			if err != nil {
				return err
			}

			result, err := a.Client.BlockVenueDates(cmd.Context(), args[0], api.BlockRange{
				StartDate: f.StartDate,
				EndDate:   f.EndDate,
				Reason:    f.ReasonOrDefault(),
			})
			if err != nil {
				return err
			}

			if a.outputJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Blocked %s to %s (%s): %s\n",
				daterange.FormatDate(r.Start), daterange.FormatDate(r.End), daterange.DayLabel(days), f.ReasonOrDefault())
			return nil
		}),
	}

	cmd.Flags().StringVar(&f.StartDate, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.EndDate, "to", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.Reason, "reason", "", "Reason (default: "+form.DefaultBlockReason+")")
	return routed(cmd, "admin")
}

func adminAmenitiesCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "amenities",
		Short: "List the common amenities for --amenity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.outputJSON {
				return writeJSON(cmd.OutOrStdout(), form.CommonAmenities)
			}
			for _, amenity := range form.CommonAmenities {
				fmt.Fprintln(cmd.OutOrStdout(), amenity)
			}
			return nil
		},
	}
	return routed(cmd, "amenities")
}
