package cmd

import (
	"github.com/spf13/cobra"

	"tarediiran-industries.com/departure-board/internal/realtime"
)

func NewFeedCmd(app *BoardCtlApp) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Dump the raw rail realtime feed as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config()
			if err != nil {
				return err
			}

			feedMessage, err := realtime.NewFetcher(cfg.RailFeedURL, app.FeedClient(cfg)).FetchFeed(cmd.Context())
			if err != nil {
				return err
			}

			if limit <= 0 {
				return realtime.PrintProtobuf(cmd.OutOrStdout(), feedMessage)
			}
			for _, entity := range feedMessage.GetEntity()[:min(limit, len(feedMessage.GetEntity()))] {
				if err := realtime.PrintProtobuf(cmd.OutOrStdout(), entity); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Print only the first N entities instead of the whole message")
	return cmd
}
