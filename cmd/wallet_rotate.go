package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/lumen/internal/ui"
	"github.com/PolarWolf314/lumen/internal/workflows"
)

var rotateForce bool

func init() {
	walletRotateCmd.Flags().BoolVar(&rotateForce, "force", false, "skip confirmation prompt")
}

// confirmRotate prompts the user to confirm the key rotation.
func confirmRotate() bool {
	fmt.Printf("\n%s This will replace your wallet key with a new one.\n", ui.Warning.Sprint("Warning:"))
	fmt.Println("  Files encrypted with the current key must be decrypted first.")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Do you want to continue? [y/N]: ")
	response, err := reader.ReadString('\n')
	if err != nil {
		Logger.Errorf("Failed to read response: %v", err)
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

var walletRotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Replace the wallet key",
	Long: `Generates a new wallet key and stores it under the same passphrase.

The new key is written before the old one is discarded, so a storage failure
leaves the current key in place. Data encrypted with the old key cannot be
decrypted afterwards; run lumen wallet decrypt first.

Examples:
  # Rotate with confirmation prompt
  lumen wallet rotate

  # Rotate without confirmation prompt
  lumen wallet rotate --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting wallet rotate command")
		cfg, err := loadConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load config: %v", err)
		}

		if !rotateForce && !passphraseStdin {
			if !confirmRotate() {
				fmt.Println(ui.Warning.Sprint("⚠") + " Key rotation cancelled.")
				return nil
			}
		}

		passphrase, err := readPassphrase("Passphrase: ")
		if err != nil {
			return reportError(err)
		}
		defer clear(passphrase)

		s, cleanup := startSpinner("Rotating wallet key...")
		defer cleanup()

		result, err := workflows.RotateWallet(cmd.Context(), workflows.RotateOptions{
			Wallet:     cfg.Wallet,
			Passphrase: passphrase,
		})
		if err != nil {
			return fail(s, err)
		}
		Logger.Infof("Rotated %s -> %s", result.OldKeyID, result.Identity.KeyID)

		s.FinalMSG = ui.Success.Sprint("✓") + " Wallet key rotated\n\n" +
			ui.Fields(
				ui.Field{Label: "Old key ID", Value: ui.Muted.Sprint(result.OldKeyID)},
				ui.Field{Label: "New key ID", Value: ui.Highlight.Sprint(result.Identity.KeyID)},
				ui.Field{Label: "Public key", Value: ui.Highlight.Sprint(result.Identity.PublicKey)},
			)
		return nil
	},
}
