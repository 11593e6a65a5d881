package cmd

import (
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func NewTripsCmd(app *BoardCtlApp) *cobra.Command {
	var routeID string

	cmd := &cobra.Command{
		Use:   "trips",
		Short: "List trips from the static reference tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := app.Tables()
			if err != nil {
				return err
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "TRIP_ID\tROUTE_ID\tTRAIN\tHEADSIGN")
			for _, tripID := range slices.Sorted(maps.Keys(tables.Trips)) {
				trip, err := tables.Trip(tripID)
				if err != nil {
					return err
				}
				if routeID != "" && trip.RouteID != routeID {
					continue
				}
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", trip.TripID, trip.RouteID, trip.ShortName, trip.Headsign)
			}
			return writer.Flush()
		},
	}

	cmd.Flags().StringVar(&routeID, "route", "", "Only list trips on this route ID")
	return cmd
}
