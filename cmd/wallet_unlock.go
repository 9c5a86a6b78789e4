package cmd

import (
	"github.com/spf13/cobra"

	"github.com/PolarWolf314/lumen/internal/ui"
	"github.com/PolarWolf314/lumen/internal/workflows"
)

var walletUnlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Check the wallet passphrase",
	Long: `Unlocks the wallet to prove the passphrase opens it, then locks it again.

Exits non-zero on a wrong passphrase, so it can gate scripts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting wallet unlock command")
		cfg, err := loadConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load config: %v", err)
		}

		passphrase, err := readPassphrase("Passphrase: ")
		if err != nil {
			return reportError(err)
		}
		defer clear(passphrase)

		s, cleanup := startSpinner("Unlocking wallet...")
		defer cleanup()

		result, err := workflows.VerifyUnlock(cmd.Context(), workflows.UnlockOptions{
			Wallet:     cfg.Wallet,
			Passphrase: passphrase,
		})
		if err != nil {
			return fail(s, err)
		}

		s.FinalMSG = ui.Success.Sprint("✓") + " Passphrase accepted for key " + ui.Highlight.Sprint(result.Identity.KeyID)
		return nil
	},
}
