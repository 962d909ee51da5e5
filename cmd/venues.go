package cmd

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"venue-cli/api"
	"venue-cli/view"

	"github.com/spf13/cobra"
)

func venuesCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "venues",
		Short: "Browse venues",
	}

	cmd.AddCommand(venuesListCmd(a))
	return cmd
}

func venuesListCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List venues available for booking",
		RunE: a.withReauth(func(cmd *cobra.Command, args []string) error {
			venues, err := a.Client.ListVenues(cmd.Context())
			if err != nil {
				return err
			}

			if a.outputJSON {
				return writeJSON(cmd.OutOrStdout(), venues)
			}
			if len(venues) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No venues available.")
				return nil
			}
			return writeVenues(cmd.OutOrStdout(), venues, a.outputCompact, false)
		}),
	}

	return routed(cmd, "venues")
}

func writeVenues(w io.Writer, venues []api.Venue, compact, withOwner bool) error {
	writer := tabwriter.NewWriter(w, 2, 2, 2, ' ', 0)
	if compact {
		for _, v := range venues {
			fmt.Fprintf(writer, "%s\t%s\t%s/day\n", v.ID, v.Name, view.Price(v.PricePerDay))
		}
		return writer.Flush()
	}

	header := "ID\tNAME\tLOCATION\tCAPACITY\tPRICE/DAY\tAMENITIES"
	if withOwner {
		header += "\tOWNER"
	}
	fmt.Fprintln(writer, header)
	for _, v := range venues {
		row := []any{v.ID, v.Name, v.Location, strconv.Itoa(v.Capacity), view.Price(v.PricePerDay), view.Amenities(v.Amenities)}
		if withOwner {
			fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", append(row, view.Owner(v))...)
			continue
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\n", row...)
	}
	return writer.Flush()
}
