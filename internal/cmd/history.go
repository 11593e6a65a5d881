package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"tarediiran-industries.com/departure-board/internal/db"
)

func NewHistoryCmd(app *BoardCtlApp) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the newest board snapshots recorded in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config()
			if err != nil {
				return err
			}
			if cfg.Database == "" {
				return fmt.Errorf("no database configured")
			}

			database, err := db.NewDatabaseConnection(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer database.Close()

			summaries, err := db.RecentSnapshots(cmd.Context(), database, limit)
			if err != nil {
				return err
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "SNAPSHOT\tTAKEN_AT\tROWS")
			for _, summary := range summaries {
				fmt.Fprintf(writer, "%d\t%s\t%d\n", summary.SnapshotID, summary.TakenAt.Local().Format(time.DateTime), summary.Rows)
			}
			return writer.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of snapshots to list")
	return cmd
}
