package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tarediiran-industries.com/departure-board/internal/common"
	"tarediiran-industries.com/departure-board/internal/config"
	"tarediiran-industries.com/departure-board/internal/reference"
)

type BoardCtlApp struct {
	ConfigPath string
}

func Execute() error {
	defer common.SyncLogger()
	app := &BoardCtlApp{}
	rootCmd := NewRootCmd(app)
	return rootCmd.ExecuteContext(context.Background())
}

func NewRootCmd(app *BoardCtlApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "board-ctl",
		Short:         "CLI tool used to inspect departure board feeds and reference data",
		Version:       fmt.Sprintf("%s (%s)", common.Version, common.GitCommit),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(
		&app.ConfigPath,
		"toml",
		"",
		"Path to configuration file (.toml, .yaml or .yml)",
	)

	cmd.AddCommand(NewStationsCmd(app))
	cmd.AddCommand(NewTripsCmd(app))
	cmd.AddCommand(NewRoutesCmd(app))
	cmd.AddCommand(NewArrivalsCmd(app))
	cmd.AddCommand(NewMetroCmd(app))
	cmd.AddCommand(NewFeedCmd(app))
	cmd.AddCommand(NewHealthCmd(app))
	cmd.AddCommand(NewEncryptKeyCmd(app))
	cmd.AddCommand(NewHistoryCmd(app))

	return cmd
}

// Config resolves the same configuration the board would run with, minus
// command-line overrides.
func (app *BoardCtlApp) Config() (config.Config, error) {
	cfg := config.Default()
	if app.ConfigPath != "" {
		if err := config.LoadFile(app.ConfigPath, &cfg); err != nil {
			return config.Config{}, fmt.Errorf("load config %s: %w", app.ConfigPath, err)
		}
	}
	cfg.ApplyEnvironment()
	return cfg, nil
}

func (app *BoardCtlApp) Tables() (*reference.Tables, error) {
	cfg, err := app.Config()
	if err != nil {
		return nil, err
	}
	return reference.LoadTables(cfg.ReferenceDir)
}

func (app *BoardCtlApp) FeedClient(cfg config.Config) *common.FeedClient {
	return common.NewFeedClient(cfg.HTTPTimeout(), nil)
}
