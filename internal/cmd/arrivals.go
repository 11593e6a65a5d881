package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tarediiran-industries.com/departure-board/internal/board"
	"tarediiran-industries.com/departure-board/internal/transit"
)

func NewArrivalsCmd(app *BoardCtlApp) *cobra.Command {
	var railCode string

	cmd := &cobra.Command{
		Use:   "arrivals",
		Short: "Fetch the rail feed once and print upcoming arrivals",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config()
			if err != nil {
				return err
			}
			if railCode != "" {
				cfg.RailCode = railCode
			}

			stage, err := board.NewRailStage(cfg, app.FeedClient(cfg))
			if err != nil {
				return err
			}
			departures, err := stage.Departures(cmd.Context())
			if err != nil {
				return err
			}

			return printDepartures(cmd.OutOrStdout(), departures)
		},
	}

	cmd.Flags().StringVar(&railCode, "rail-code", "", "Rail station pair, overrides the config file")
	return cmd
}

func printDepartures(out io.Writer, departures []transit.Departure) error {
	if len(departures) == 0 {
		_, err := fmt.Fprintln(out, "No upcoming departures.")
		return err
	}
	for _, departure := range departures {
		if _, err := fmt.Fprintln(out, departure.String()); err != nil {
			return err
		}
	}
	return nil
}
