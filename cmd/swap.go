package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	kerrors "github.com/PolarWolf314/lumen/internal/errors"
	"github.com/PolarWolf314/lumen/internal/pricefeed"
	"github.com/PolarWolf314/lumen/internal/swap"
	"github.com/PolarWolf314/lumen/internal/ui"
	"github.com/PolarWolf314/lumen/internal/workflows"
)

var (
	swapFrom          string
	swapTo            string
	swapAmount        string
	swapWhen          string
	swapValue         string
	swapSlippage      int
	swapExpires       time.Duration
	swapMaxExecutions int

	swapListJSON  bool
	swapListAll   bool
	swapCheckJSON bool

	swapOut   string
	swapPrice string
)

// SwapCmd groups the price-triggered swap condition commands.
var SwapCmd = &cobra.Command{
	Use:   "swap",
	Short: "Manage price-triggered swap conditions",
	Long: `Keeps swap orders that wait for a price condition.

Prices are quoted as destination units per source unit. lumen checks
conditions and records fills you make elsewhere; it never submits a swap.`,
}

func init() {
	addCommonFlags(SwapCmd)

	swapAddCmd.Flags().StringVar(&swapFrom, "from", "", "asset to sell")
	swapAddCmd.Flags().StringVar(&swapTo, "to", "", "asset to buy")
	swapAddCmd.Flags().StringVarP(&swapAmount, "amount", "a", "", "amount of the source asset")
	swapAddCmd.Flags().StringVar(&swapWhen, "when", "", "condition: increase, decrease, target, above or below")
	swapAddCmd.Flags().StringVar(&swapValue, "value", "", "percentage for increase/decrease, price otherwise")
	swapAddCmd.Flags().IntVar(&swapSlippage, "slippage", 100, "maximum slippage in basis points")
	swapAddCmd.Flags().DurationVar(&swapExpires, "expires", 24*time.Hour, "how long the condition stays active")
	swapAddCmd.Flags().IntVar(&swapMaxExecutions, "max-executions", 1, "fills before the condition closes (0 for unlimited)")
	for _, name := range []string{"from", "to", "amount", "when", "value"} {
		_ = swapAddCmd.MarkFlagRequired(name)
	}

	swapListCmd.Flags().BoolVar(&swapListJSON, "json", false, "output in JSON format")
	swapListCmd.Flags().BoolVar(&swapListAll, "all", false, "include closed conditions")
	swapCheckCmd.Flags().BoolVar(&swapCheckJSON, "json", false, "output in JSON format")

	swapRecordCmd.Flags().StringVar(&swapOut, "out", "", "amount of the destination asset received")
	swapRecordCmd.Flags().StringVar(&swapPrice, "price", "", "fill price (default: current price)")
	_ = swapRecordCmd.MarkFlagRequired("out")

	SwapCmd.AddCommand(swapAddCmd)
	SwapCmd.AddCommand(swapListCmd)
	SwapCmd.AddCommand(swapCheckCmd)
	SwapCmd.AddCommand(swapCancelCmd)
	SwapCmd.AddCommand(swapRecordCmd)
}

func swapOptions() (workflows.SwapOptions, error) {
	cfg, err := loadConfig()
	if err != nil {
		return workflows.SwapOptions{}, Logger.ErrorfAndReturn("Failed to load config: %v", err)
	}
	return workflows.SwapOptions{Prices: cfg.Prices}, nil
}

func parseSwapDecimal(name, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: --%s %q is not a number", kerrors.ErrInvalidSwap, name, raw)
	}
	return d, nil
}

var swapAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a swap condition priced at the current rate",
	Args:  cobra.NoArgs,
	Example: `  lumen swap add --from XLM --to USDC --amount 100 --when increase --value 10
  lumen swap add --from BTC --to USD --amount 1 --when below --value 50000 --expires 168h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting swap add command")
		opts, err := swapOptions()
		if err != nil {
			return err
		}

		kind, err := swap.ParseKind(swapWhen)
		if err != nil {
			return reportError(err)
		}
		value, err := parseSwapDecimal("value", swapValue)
		if err != nil {
			return reportError(err)
		}
		amount, err := pricefeed.ParseAmount(swapAmount)
		if err != nil {
			return reportError(err)
		}

		s, cleanup := startSpinner("Pricing " + swapFrom + "/" + swapTo + "...")
		defer cleanup()

		c, err := workflows.AddSwap(cmd.Context(), workflows.AddSwapOptions{
			SwapOptions:    opts,
			Source:         swapFrom,
			Destination:    swapTo,
			Trigger:        swap.Trigger{Kind: kind, Value: value},
			Amount:         amount,
			MaxSlippageBps: swapSlippage,
			Lifetime:       swapExpires,
			MaxExecutions:  swapMaxExecutions,
		})
		if err != nil {
			return fail(s, err)
		}
		Logger.Infof("Added swap condition %s", c.ID)

		s.FinalMSG = ui.Success.Sprint("✓") + " Added condition " + ui.Highlight.Sprint(c.ID) + "\n" +
			fmt.Sprintf("  %s %s -> %s when %s\n", c.Amount, c.Source, c.Destination, c.Trigger) +
			ui.Muted.Sprint(fmt.Sprintf("  reference 1 %s = %s %s, at least %s %s, expires %s",
				c.Source, c.ReferencePrice, c.Destination, c.MinAmountOut, c.Destination,
				c.ExpiresAt.Local().Format("2006-01-02 15:04")))
		return nil
	},
}

var swapListCmd = &cobra.Command{
	Use:   "list",
	Short: "List swap conditions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting swap list command")
		opts, err := swapOptions()
		if err != nil {
			return err
		}

		var statuses []swap.Status
		if !swapListAll {
			statuses = []swap.Status{swap.Active}
		}
		conditions, err := workflows.ListSwaps(cmd.Context(), opts, statuses...)
		if err != nil {
			return reportError(err)
		}

		if swapListJSON {
			if conditions == nil {
				conditions = []*swap.Condition{}
			}
			data, err := json.MarshalIndent(conditions, "", "  ")
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to marshal conditions: %v", err)
			}
			fmt.Println(string(data))
			return nil
		}

		if len(conditions) == 0 {
			fmt.Println(ui.Info.Sprint("ℹ") + " No swap conditions. Add one with " + ui.Code.Sprint("lumen swap add") + ".")
			return nil
		}
		for _, c := range conditions {
			fmt.Printf("%-8s  %-9s  %s %s -> %s when %s  %s\n",
				c.ID[:min(8, len(c.ID))], c.Status, c.Amount, c.Source, c.Destination, c.Trigger,
				ui.Muted.Sprint(fmt.Sprintf("%d/%d fills, expires %s", c.Executions, c.MaxExecutions,
					c.ExpiresAt.Local().Format("2006-01-02 15:04"))))
		}
		return nil
	},
}

type swapCheckJSONRow struct {
	ID             string          `json:"id"`
	Status         swap.Status     `json:"status"`
	Price          decimal.Decimal `json:"price"`
	Triggered      bool            `json:"triggered"`
	ExpectedOutput decimal.Decimal `json:"expectedOutput"`
	Error          string          `json:"error,omitempty"`
}

var swapCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate active conditions against current prices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting swap check command")
		opts, err := swapOptions()
		if err != nil {
			return err
		}

		s, cleanup := startSpinner("Checking conditions...")
		checks, err := workflows.CheckSwaps(cmd.Context(), opts)
		if err != nil {
			defer cleanup()
			return fail(s, err)
		}
		cleanup()

		if swapCheckJSON {
			rows := make([]swapCheckJSONRow, 0, len(checks))
			for _, c := range checks {
				row := swapCheckJSONRow{
					ID:             c.Condition.ID,
					Status:         c.Condition.Status,
					Price:          c.Price,
					Triggered:      c.Triggered,
					ExpectedOutput: c.ExpectedOutput,
				}
				if c.Err != nil {
					row.Error = c.Err.Error()
				}
				rows = append(rows, row)
			}
			data, err := json.MarshalIndent(rows, "", "  ")
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to marshal checks: %v", err)
			}
			fmt.Println(string(data))
			return nil
		}

		if len(checks) == 0 {
			fmt.Println(ui.Info.Sprint("ℹ") + " No active swap conditions.")
			return nil
		}
		for _, c := range checks {
			id := c.Condition.ID[:min(8, len(c.Condition.ID))]
			switch {
			case c.Err != nil:
				fmt.Printf("%s %s  %s\n", cross, id, c.Err)
			case c.Condition.Status == swap.Expired:
				fmt.Printf("%s %s  %s\n", ui.Muted.Sprint("-"), id, ui.Muted.Sprint("expired"))
			case c.Triggered:
				fmt.Printf("%s %s  %s -> %s at %s, expect at least %s %s\n", ui.Success.Sprint("✓"), id,
					c.Condition.Source, c.Condition.Destination, c.Price, c.ExpectedOutput, c.Condition.Destination)
			default:
				fmt.Printf("%s %s  %s -> %s at %s, waiting for %s\n", ui.Muted.Sprint("·"), id,
					c.Condition.Source, c.Condition.Destination, c.Price, c.Condition.Trigger)
			}
		}
		return nil
	},
}

var swapCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel an active condition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting swap cancel command")
		opts, err := swapOptions()
		if err != nil {
			return err
		}
		c, err := workflows.CancelSwap(cmd.Context(), opts, args[0])
		if err != nil {
			return reportError(err)
		}
		fmt.Println(ui.Success.Sprint("✓") + " Cancelled condition " + ui.Highlight.Sprint(c.ID))
		return nil
	},
}

var swapRecordCmd = &cobra.Command{
	Use:     "record <id>",
	Short:   "Record a fill made outside lumen against a condition",
	Args:    cobra.ExactArgs(1),
	Example: `  lumen swap record 3f2a9c1e --out 13.1 --price 0.132`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting swap record command")
		opts, err := swapOptions()
		if err != nil {
			return err
		}
		out, err := parseSwapDecimal("out", swapOut)
		if err != nil {
			return reportError(err)
		}
		var price decimal.Decimal
		if swapPrice != "" {
			if price, err = parseSwapDecimal("price", swapPrice); err != nil {
				return reportError(err)
			}
		}

		exec, c, err := workflows.RecordSwap(cmd.Context(), workflows.RecordSwapOptions{
			SwapOptions: opts,
			ID:          args[0],
			AmountOut:   out,
			Price:       price,
		})
		if err != nil && !errors.Is(err, kerrors.ErrSlippageExceeded) {
			return reportError(err)
		}
		if err != nil {
			fmt.Printf("%s Fill of %s %s lost %d bps against a maximum of %d\n", cross,
				exec.AmountOut, c.Destination, exec.SlippageBps, c.MaxSlippageBps)
			fmt.Println(arrow + " Condition " + ui.Highlight.Sprint(c.ID) + " is now " + string(c.Status))
			return ErrReported
		}

		fmt.Printf("%s Recorded %s %s -> %s %s at %s (%d bps slippage)\n", ui.Success.Sprint("✓"),
			exec.AmountIn, c.Source, exec.AmountOut, c.Destination, exec.Price, exec.SlippageBps)
		if c.Status == swap.Executed {
			fmt.Println(ui.Muted.Sprint("  Condition reached its execution limit and is closed"))
		}
		return nil
	},
}
