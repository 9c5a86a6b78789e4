package cmd

import (
	"github.com/spf13/cobra"

	"github.com/PolarWolf314/lumen/internal/ui"
	"github.com/PolarWolf314/lumen/internal/workflows"
)

var walletCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new wallet key",
	Long: `Generates a new Ed25519 wallet key and stores it sealed under a passphrase.

Examples:
  # Create a wallet, prompting for the passphrase twice
  lumen wallet create

  # Create a wallet non-interactively
  echo "$PASSPHRASE" | lumen wallet create --passphrase-stdin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting wallet create command")
		cfg, err := loadConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load config: %v", err)
		}

		passphrase, err := readNewPassphrase("New passphrase: ")
		if err != nil {
			return reportError(err)
		}
		defer clear(passphrase)

		s, cleanup := startSpinner("Creating wallet...")
		defer cleanup()

		result, err := workflows.CreateWallet(cmd.Context(), workflows.CreateOptions{
			Wallet:     cfg.Wallet,
			Passphrase: passphrase,
		})
		if err != nil {
			return fail(s, err)
		}
		Logger.Infof("Wallet created with key %s", result.Identity.KeyID)

		s.FinalMSG = ui.Success.Sprint("✓") + " Wallet created\n\n" +
			ui.Fields(
				ui.Field{Label: "Key ID", Value: ui.Highlight.Sprint(result.Identity.KeyID)},
				ui.Field{Label: "Public key", Value: ui.Highlight.Sprint(result.Identity.PublicKey)},
				ui.Field{Label: "Store", Value: result.Backend + " " + ui.Muted.Sprint(result.Record)},
			) + "\n" +
			ui.Warning.Sprint("Warning:") + " There is no way to recover the key without the passphrase."
		return nil
	},
}
