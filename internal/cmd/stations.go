package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func NewStationsCmd(app *BoardCtlApp) *cobra.Command {
	var match string

	cmd := &cobra.Command{
		Use:   "stations",
		Short: "List stops from the static reference tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := app.Tables()
			if err != nil {
				return err
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "STOP_ID\tNAME")
			for _, stopID := range slices.Sorted(maps.Keys(tables.Stops)) {
				name := tables.Stops[stopID]["stop_name"]
				if match != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(match)) {
					continue
				}
				fmt.Fprintf(writer, "%s\t%s\n", stopID, name)
			}
			return writer.Flush()
		},
	}

	cmd.Flags().StringVar(&match, "match", "", "Only list stops whose name contains this text")
	return cmd
}
