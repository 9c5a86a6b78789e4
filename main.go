package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"github.com/PolarWolf314/lumen/cmd"
	"github.com/PolarWolf314/lumen/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "lumen",
	Short: "Lumen - wallet key, dashboard layout and price proxy tooling.",
	Long: `Lumen is the command-line core of a client-side crypto wallet dashboard.

Features:
  - Keep an Ed25519 wallet key sealed under a passphrase
  - Encrypt .env files and sign messages with it
  - Validate and edit the dashboard widget grid
  - Watch prices for swap conditions and record their fills
  - Proxy third-party price APIs with caching and rate limiting

Usage:
  lumen <command> [flags]

Available Commands:
  wallet     Manage the encrypted wallet key
  layout     Inspect and edit the dashboard layout
  prices     Look up cryptocurrency prices
  swap       Manage price-triggered swap conditions
  serve      Run the price proxy server
  config     Manage configuration

Run 'lumen help <command>' for more details on a specific command.
`,
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(c *cobra.Command, args []string) {
		figure.NewFigure("lumen", "small", true).Print()
		fmt.Println()
		fmt.Println("Welcome to lumen! Run " + ui.Code.Sprint("lumen --help") + " to see available commands.")
	},
}

func init() {
	rootCmd.AddCommand(cmd.WalletCmd)
	rootCmd.AddCommand(cmd.LayoutCmd)
	rootCmd.AddCommand(cmd.PricesCmd)
	rootCmd.AddCommand(cmd.SwapCmd)
	rootCmd.AddCommand(cmd.ServeCmd)
	rootCmd.AddCommand(cmd.ConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, cmd.ErrReported) {
			fmt.Fprintln(os.Stderr, ui.Error.Sprint("Error:"), err)
		}
		os.Exit(1)
	}
}
