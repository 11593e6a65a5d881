package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tarediiran-industries.com/departure-board/internal/reference"
)

func NewHealthCmd(app *BoardCtlApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Compare the local static bundle with the upstream copy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			local, err := reference.LocalModTime(cfg.ReferenceDir)
			switch {
			case errors.Is(err, os.ErrNotExist):
				fmt.Fprintf(out, "local:    %s (missing)\n", cfg.ReferenceDir)
			case err != nil:
				return err
			default:
				fmt.Fprintf(out, "local:    %s\n", local.UTC().Format(time.RFC3339))
			}

			bundle := reference.NewBundle(cfg.StaticBundleURL, cfg.ReferenceDir, app.FeedClient(cfg))
			upstream, err := bundle.UpstreamModified(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "upstream: %s\n", upstream.UTC().Format(time.RFC3339))

			stale, err := bundle.IsStale(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "stale:    %t\n", stale)
			return nil
		},
	}

	return cmd
}
