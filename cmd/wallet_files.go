package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/lumen/internal/secrets"
	"github.com/PolarWolf314/lumen/internal/ui"
	"github.com/PolarWolf314/lumen/internal/workflows"
)

var (
	encryptDryRun bool
	decryptDryRun bool
)

func init() {
	walletEncryptCmd.Flags().BoolVar(&encryptDryRun, "dry-run", false, "list the files without encrypting them")
	walletDecryptCmd.Flags().BoolVar(&decryptDryRun, "dry-run", false, "list the files without decrypting them")
}

var walletEncryptCmd = &cobra.Command{
	Use:   "encrypt [files...]",
	Short: "Encrypt .env files with the wallet key",
	Long: `Encrypts .env files to <file>` + secrets.SealedExt + ` with a key derived from the wallet key.

Without arguments, every .env file below the current directory is encrypted.
Arguments may be files, directories or glob patterns (**/.env).

Examples:
  lumen wallet encrypt
  lumen wallet encrypt .env.production "services/**/.env"
  lumen wallet encrypt --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFiles(cmd, args, true, encryptDryRun)
	},
}

var walletDecryptCmd = &cobra.Command{
	Use:   "decrypt [files...]",
	Short: "Decrypt " + secrets.SealedExt + " files back to .env files",
	Long: `Decrypts files written by lumen wallet encrypt.

Without arguments, every ` + secrets.SealedExt + ` file below the current directory is decrypted.
Files encrypted before the last key rotation cannot be decrypted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFiles(cmd, args, false, decryptDryRun)
	},
}

func runFiles(cmd *cobra.Command, args []string, encrypt, dryRun bool) error {
	verb := "decrypt"
	if encrypt {
		verb = "encrypt"
	}
	Logger.Infof("Starting wallet %s command", verb)
	Logger.Debugf("Patterns: %v, dry-run: %t", args, dryRun)

	cfg, err := loadConfig()
	if err != nil {
		return Logger.ErrorfAndReturn("Failed to load config: %v", err)
	}
	opts := workflows.FilesOptions{Wallet: cfg.Wallet, Patterns: args, Root: ".", DryRun: dryRun}
	run := workflows.DecryptFiles
	if encrypt {
		run = workflows.EncryptFiles
	}

	if dryRun {
		result, err := run(cmd.Context(), opts)
		if err != nil {
			return reportError(err)
		}
		fmt.Println(ui.Warning.Sprint("[dry-run]") + fmt.Sprintf(" Would %s %d file(s):", verb, len(result.Files)) +
			secrets.FormatPaths(result.Files))
		return nil
	}

	passphrase, err := readPassphrase("Passphrase: ")
	if err != nil {
		return reportError(err)
	}
	defer clear(passphrase)
	opts.Passphrase = passphrase

	s, cleanup := startSpinner(fmt.Sprintf("Running %s...", verb))
	defer cleanup()

	result, err := run(cmd.Context(), opts)
	if err != nil {
		if result != nil && len(result.Written) > 0 {
			Logger.WarnfAlways("%d file(s) were written before the failure", len(result.Written))
		}
		return fail(s, err)
	}

	s.FinalMSG = ui.Success.Sprint("✓") + fmt.Sprintf(" %sed %d file(s) with key ", capitalize(verb), len(result.Written)) +
		ui.Highlight.Sprint(result.KeyID) + ":" + secrets.FormatPaths(result.Written)
	if encrypt {
		s.FinalMSG += ui.Warning.Sprint("Warning:") + " Never commit the plaintext .env files."
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
