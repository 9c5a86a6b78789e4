package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/lumen/internal/ui"
	"github.com/PolarWolf314/lumen/internal/workflows"
)

var walletStatusJSON bool

func init() {
	walletStatusCmd.Flags().BoolVar(&walletStatusJSON, "json", false, "output in JSON format")
}

type walletStatusOutput struct {
	Exists     bool   `json:"exists"`
	Backend    string `json:"backend"`
	Record     string `json:"record"`
	KeyID      string `json:"keyId,omitempty"`
	PublicKey  string `json:"publicKey,omitempty"`
	KDF        string `json:"kdf,omitempty"`
	Iterations int    `json:"iterations,omitempty"`
}

var walletStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored wallet without unlocking it",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting wallet status command")
		cfg, err := loadConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load config: %v", err)
		}

		result, err := workflows.WalletStatus(cmd.Context(), workflows.StatusOptions{Wallet: cfg.Wallet})
		if err != nil {
			return reportError(err)
		}

		if walletStatusJSON {
			out, err := json.MarshalIndent(walletStatusOutput{
				Exists:     result.Exists,
				Backend:    result.Backend,
				Record:     result.Record,
				KeyID:      result.Identity.KeyID,
				PublicKey:  result.Identity.PublicKey,
				KDF:        result.KDF,
				Iterations: result.Iterations,
			}, "", "  ")
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to marshal status: %v", err)
			}
			fmt.Println(string(out))
			return nil
		}

		if !result.Exists {
			fmt.Println(ui.Warning.Sprint("⚠") + " No wallet in the " + result.Backend + " key store")
			fmt.Println(ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("lumen wallet create") + " to create one")
			return nil
		}

		fmt.Println(ui.Info.Sprint("Wallet") + " " + ui.Muted.Sprint(result.Record))
		fmt.Println()
		fmt.Print(ui.Fields(
			ui.Field{Label: "State", Value: "locked"},
			ui.Field{Label: "Key ID", Value: ui.Highlight.Sprint(result.Identity.KeyID)},
			ui.Field{Label: "Public key", Value: ui.Highlight.Sprint(result.Identity.PublicKey)},
			ui.Field{Label: "Backend", Value: result.Backend},
			ui.Field{Label: "KDF", Value: result.KDF + " " + ui.Muted.Sprint(strconv.Itoa(result.Iterations)+" iterations")},
		))
		return nil
	},
}
