package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/lumen/internal/pricefeed"
	"github.com/PolarWolf314/lumen/internal/ui"
	"github.com/PolarWolf314/lumen/internal/workflows"
)

var (
	quoteProvider string
	quoteJSON     bool
	convertAmount string
)

// PricesCmd groups the price lookup commands.
var PricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Look up cryptocurrency prices",
}

func init() {
	addCommonFlags(PricesCmd)
	quoteCmd.Flags().StringVarP(&quoteProvider, "provider", "p", workflows.ProviderCoinGecko, "price provider (coingecko, coinmarketcap)")
	quoteCmd.Flags().BoolVar(&quoteJSON, "json", false, "output in JSON format")
	convertCmd.Flags().StringVarP(&convertAmount, "amount", "a", "1", "amount to convert")

	PricesCmd.AddCommand(quoteCmd)
	PricesCmd.AddCommand(convertCmd)
}

var quoteCmd = &cobra.Command{
	Use:   "quote <symbols>",
	Short: "Show USD prices for comma-separated symbols",
	Args:  cobra.ExactArgs(1),
	Example: `  lumen prices quote BTC,ETH,XLM
  lumen prices quote XLM --provider coinmarketcap`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting prices quote command")
		cfg, err := loadConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load config: %v", err)
		}

		s, cleanup := startSpinner("Fetching prices...")
		result, err := workflows.Quote(cmd.Context(), workflows.QuoteOptions{
			Prices:   cfg.Prices,
			Symbols:  args[0],
			Provider: quoteProvider,
		})
		if err != nil {
			defer cleanup()
			return fail(s, err)
		}
		cleanup()

		if quoteJSON {
			out := make(map[string]pricefeed.Quote, len(result.Quotes))
			for _, q := range result.Quotes {
				out[q.Symbol] = q
			}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to marshal quotes: %v", err)
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Println(ui.Info.Sprint("Prices") + " " + ui.Muted.Sprint(result.Provider))
		fmt.Println()
		for _, q := range result.Quotes {
			line := fmt.Sprintf("  %-6s %16s %s", q.Symbol, "$"+q.Price.String(), ui.Change(q.Change24h))
			if q.Fallback {
				line += " " + ui.Warning.Sprint("(last known)")
			}
			fmt.Println(line)
		}
		for _, sym := range result.Missing {
			fmt.Printf("  %-6s %s\n", sym, ui.Muted.Sprint("not supported"))
		}
		return nil
	},
}

var convertCmd = &cobra.Command{
	Use:     "convert <from> <to>",
	Short:   "Convert an amount between two symbols at current prices",
	Args:    cobra.ExactArgs(2),
	Example: `  lumen prices convert XLM USDC --amount 250`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting prices convert command")
		cfg, err := loadConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load config: %v", err)
		}

		s, cleanup := startSpinner("Fetching prices...")
		defer cleanup()

		conversion, err := workflows.Convert(cmd.Context(), workflows.ConvertOptions{
			Prices: cfg.Prices,
			Amount: convertAmount,
			From:   args[0],
			To:     args[1],
		})
		if err != nil {
			return fail(s, err)
		}

		s.FinalMSG = fmt.Sprintf("%s %s = %s %s\n", conversion.Amount, conversion.From,
			ui.Highlight.Sprint(conversion.Result.String()), conversion.To) +
			ui.Muted.Sprint(fmt.Sprintf("1 %s = %s %s", conversion.From, conversion.Rate, conversion.To))
		return nil
	},
}
