package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tarediiran-industries.com/departure-board/internal/board"
	"tarediiran-industries.com/departure-board/internal/metro"
)

func NewMetroCmd(app *BoardCtlApp) *cobra.Command {
	var metroCode string

	cmd := &cobra.Command{
		Use:   "metro",
		Short: "Fetch metro predictions once and print them grouped by destination",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config()
			if err != nil {
				return err
			}
			if metroCode != "" {
				cfg.MetroCode = metroCode
			}
			if cfg.MetroCode == "" {
				return fmt.Errorf("no metro station code configured")
			}

			client := metro.NewClient(cfg.MetroBaseURL, cfg.MetroAPIKey, app.FeedClient(cfg))
			if err := board.CredentialStep(cfg, client).Run(cmd.Context()); err != nil {
				return err
			}

			departures, err := client.Departures(cmd.Context(), cfg.MetroCode)
			if err != nil {
				return err
			}
			return printDepartures(cmd.OutOrStdout(), departures)
		},
	}

	cmd.Flags().StringVar(&metroCode, "metro-code", "", "Metro station code, overrides the config file")
	return cmd
}
