package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	kerrors "github.com/PolarWolf314/lumen/internal/errors"
	"github.com/PolarWolf314/lumen/internal/ui"
	"github.com/PolarWolf314/lumen/internal/utils"
	"github.com/PolarWolf314/lumen/internal/workflows"
)

var (
	signMessage     string
	verifyMessage   string
	verifyPublicKey string
)

func init() {
	walletSignCmd.Flags().StringVarP(&signMessage, "message", "m", "", "message to sign (default: read from stdin)")
	walletVerifyCmd.Flags().StringVarP(&verifyMessage, "message", "m", "", "signed message (default: read from stdin)")
	walletVerifyCmd.Flags().StringVar(&verifyPublicKey, "public-key", "", "base58 public key (default: the stored wallet's)")
}

// messageArg returns the --message value or, when unset, everything on stdin.
func messageArg(cmd *cobra.Command, flagValue string) ([]byte, error) {
	if cmd.Flags().Changed("message") {
		return []byte(flagValue), nil
	}
	if passphraseStdin {
		return nil, fmt.Errorf("--message is required with --passphrase-stdin")
	}
	return utils.ReadStdin()
}

var walletSignCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a message with the wallet key",
	Long: `Signs a message with the wallet's Ed25519 key and prints the base58 signature.

Examples:
  lumen wallet sign -m "hello"
  cat payload.json | lumen wallet sign`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting wallet sign command")
		cfg, err := loadConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load config: %v", err)
		}
		msg, err := messageArg(cmd, signMessage)
		if err != nil {
			return Logger.ErrorfAndReturn("%v", err)
		}

		passphrase, err := readPassphrase("Passphrase: ")
		if err != nil {
			return reportError(err)
		}
		defer clear(passphrase)

		result, err := workflows.SignMessage(cmd.Context(), workflows.SignOptions{
			Wallet:     cfg.Wallet,
			Passphrase: passphrase,
			Message:    msg,
		})
		if err != nil {
			return reportError(err)
		}
		Logger.Infof("Signed %d bytes with key %s", len(msg), result.Identity.KeyID)

		// Signature alone on stdout so it can be piped.
		fmt.Println(result.Signature)
		return nil
	},
}

var walletVerifyCmd = &cobra.Command{
	Use:   "verify <signature>",
	Short: "Verify a base58 signature",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting wallet verify command")
		msg, err := messageArg(cmd, verifyMessage)
		if err != nil {
			return Logger.ErrorfAndReturn("%v", err)
		}

		publicKey := verifyPublicKey
		if publicKey == "" {
			cfg, err := loadConfig()
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to load config: %v", err)
			}
			status, err := workflows.WalletStatus(cmd.Context(), workflows.StatusOptions{Wallet: cfg.Wallet})
			if err != nil {
				return reportError(err)
			}
			if !status.Exists {
				return reportError(kerrors.ErrWalletNotFound)
			}
			publicKey = status.Identity.PublicKey
		}

		ok, err := workflows.VerifySignature(workflows.VerifyOptions{
			PublicKey: publicKey,
			Message:   msg,
			Signature: args[0],
		})
		if err != nil {
			return reportError(err)
		}
		if !ok {
			fmt.Println(ui.Error.Sprint("✗") + " Signature does not match")
			return ErrReported
		}
		fmt.Println(ui.Success.Sprint("✓") + " Signature is valid for " + ui.Highlight.Sprint(publicKey))
		return nil
	},
}
