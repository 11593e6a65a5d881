package cmd

import (
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func NewRoutesCmd(app *BoardCtlApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List routes from the static reference tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := app.Tables()
			if err != nil {
				return err
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "ROUTE_ID\tNAME")
			for _, routeID := range slices.Sorted(maps.Keys(tables.Routes)) {
				route, err := tables.Route(routeID)
				if err != nil {
					return err
				}
				fmt.Fprintf(writer, "%s\t%s\n", route.RouteID, route.LongName)
			}
			return writer.Flush()
		},
	}

	return cmd
}
