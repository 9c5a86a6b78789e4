package cmd

import (
	"github.com/spf13/cobra"

	"github.com/PolarWolf314/lumen/internal/ui"
	"github.com/PolarWolf314/lumen/internal/workflows"
)

var walletPasswdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the wallet passphrase",
	Long: `Re-seals the wallet key under a new passphrase. The key itself does not change.

With --passphrase-stdin, the first line is the current passphrase and the
second line the new one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting wallet passwd command")
		cfg, err := loadConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load config: %v", err)
		}

		oldPassphrase, err := readPassphrase("Current passphrase: ")
		if err != nil {
			return reportError(err)
		}
		defer clear(oldPassphrase)
		newPassphrase, err := readNewPassphrase("New passphrase: ")
		if err != nil {
			return reportError(err)
		}
		defer clear(newPassphrase)

		s, cleanup := startSpinner("Changing passphrase...")
		defer cleanup()

		result, err := workflows.ChangePassphrase(cmd.Context(), workflows.PasswdOptions{
			Wallet:        cfg.Wallet,
			OldPassphrase: oldPassphrase,
			NewPassphrase: newPassphrase,
		})
		if err != nil {
			return fail(s, err)
		}

		s.FinalMSG = ui.Success.Sprint("✓") + " Passphrase changed for key " + ui.Highlight.Sprint(result.Identity.KeyID)
		return nil
	},
}
