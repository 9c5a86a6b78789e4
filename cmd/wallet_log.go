package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/lumen/internal/audit"
	"github.com/PolarWolf314/lumen/internal/ui"
	"github.com/PolarWolf314/lumen/internal/workflows"
)

var (
	walletLogLimit   int
	walletLogReverse bool
	walletLogOps     []string
	walletLogFailed  bool
	walletLogSince   string
	walletLogUntil   string
	walletLogJSON    bool
)

func init() {
	walletLogCmd.Flags().IntVarP(&walletLogLimit, "number", "n", 0, "show at most this many of the most recent entries")
	walletLogCmd.Flags().BoolVar(&walletLogReverse, "reverse", false, "show most recent entries first")
	walletLogCmd.Flags().StringSliceVar(&walletLogOps, "op", nil, "filter by operation, e.g. unlock,rotate or layout")
	walletLogCmd.Flags().BoolVar(&walletLogFailed, "failed", false, "only show failed operations")
	walletLogCmd.Flags().StringVar(&walletLogSince, "since", "", "show entries on or after date (YYYY-MM-DD)")
	walletLogCmd.Flags().StringVar(&walletLogUntil, "until", "", "show entries on or before date (YYYY-MM-DD)")
	walletLogCmd.Flags().BoolVar(&walletLogJSON, "json", false, "output as JSON array")
}

var walletLogCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays the audit log of wallet, layout and swap operations.

Every create, unlock, rotate, passwd, sign, encrypt, decrypt, layout edit and
swap condition change is recorded with its user, host and outcome.

Examples:
  lumen wallet log                      # Full log
  lumen wallet log -n 10                # Last 10 entries
  lumen wallet log --op unlock,rotate   # Filter by operation
  lumen wallet log --op layout          # Every layout edit
  lumen wallet log --op swap            # Swap conditions added, cancelled or filled
  lumen wallet log --failed --reverse   # Failures, most recent first
  lumen wallet log --since 2026-01-01   # Filter by date
  lumen wallet log --json               # JSON output`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting wallet log command")

		result, err := workflows.Log(cmd.Context(), workflows.LogOptions{
			Limit:      walletLogLimit,
			Reverse:    walletLogReverse,
			Operations: walletLogOps,
			FailedOnly: walletLogFailed,
			Since:      walletLogSince,
			Until:      walletLogUntil,
		})
		if err != nil {
			return reportError(err)
		}
		Logger.Debugf("Read %d audit entries from %s, %d after filtering", result.Total, audit.LogPath(), len(result.Entries))

		if walletLogJSON {
			entries := result.Entries
			if entries == nil {
				entries = []audit.Entry{}
			}
			data, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to marshal entries: %v", err)
			}
			fmt.Println(string(data))
			return nil
		}

		if len(result.Entries) == 0 {
			if result.Total == 0 {
				fmt.Println(ui.Info.Sprint("ℹ") + " No audit log entries found. Operations are logged as you run wallet, layout and swap commands.")
			} else {
				fmt.Println(ui.Info.Sprint("ℹ") + " No audit log entries match the filters.")
			}
			return nil
		}

		for _, e := range result.Entries {
			outcome := ui.Success.Sprint("ok    ")
			if e.Outcome == audit.OutcomeFailed {
				outcome = ui.Error.Sprint("failed")
			}
			fmt.Printf("%-19s  %-12s  %-14s  %s  %s\n",
				workflows.FormatDateTime(e.Timestamp), e.User, e.Operation, outcome, workflows.FormatDetails(e))
		}
		return nil
	},
}
