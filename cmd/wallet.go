package cmd

import (
	"github.com/spf13/cobra"
)

// WalletCmd groups the wallet key lifecycle commands.
var WalletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage the encrypted wallet key",
	Long: `Creates, unlocks, rotates and uses the wallet key.

The key is stored sealed under your passphrase (PBKDF2-SHA256 + AES-256-GCM)
in the configured key store: a file, the OS keyring, or a SQLite database.
It is only held in memory for the length of a single command.`,
}

func init() {
	addCommonFlags(WalletCmd)
	WalletCmd.PersistentFlags().BoolVar(&passphraseStdin, "passphrase-stdin", false, "read passphrases from stdin, one per line")

	WalletCmd.AddCommand(walletCreateCmd)
	WalletCmd.AddCommand(walletStatusCmd)
	WalletCmd.AddCommand(walletUnlockCmd)
	WalletCmd.AddCommand(walletRotateCmd)
	WalletCmd.AddCommand(walletPasswdCmd)
	WalletCmd.AddCommand(walletEncryptCmd)
	WalletCmd.AddCommand(walletDecryptCmd)
	WalletCmd.AddCommand(walletSignCmd)
	WalletCmd.AddCommand(walletVerifyCmd)
	WalletCmd.AddCommand(walletLogCmd)
}
