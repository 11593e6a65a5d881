package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tarediiran-industries.com/departure-board/internal/config"
	"tarediiran-industries.com/departure-board/internal/credential"
)

func NewEncryptKeyCmd(app *BoardCtlApp) *cobra.Command {
	var apiKey string
	var outPath string

	cmd := &cobra.Command{
		Use:   "encrypt-key",
		Short: "Encrypt a metro API key with the configured passphrase file",
		Long: "Writes a key file the board can decrypt at startup. The output is compatible with\n" +
			"openssl enc -aes-256-cbc -pbkdf2 -pass file:<metro_pass_file>.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config()
			if err != nil {
				return err
			}
			if apiKey == "" {
				apiKey = cfg.MetroAPIKey
			}
			if apiKey == "" {
				return fmt.Errorf("pass --key or set %s", config.APIKeyEnv)
			}
			if outPath == "" {
				outPath = cfg.MetroKeyFile
			}

			if err := credential.EncryptKeyFile(apiKey, cfg.MetroPassFile, outPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&apiKey, "key", "", "API key to encrypt, defaults to the configured key")
	cmd.Flags().StringVar(&outPath, "out", "", "Output path, defaults to metro_key_file")
	return cmd
}
