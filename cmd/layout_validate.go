package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/lumen/internal/grid"
	"github.com/PolarWolf314/lumen/internal/ui"
	"github.com/PolarWolf314/lumen/internal/workflows"
)

var layoutInitForce bool

func init() {
	layoutInitCmd.Flags().BoolVar(&layoutInitForce, "force", false, "overwrite an existing layout file")
}

var layoutInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default dashboard layout",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting layout init command")
		result, err := workflows.InitLayout(cmd.Context(), layoutFile, layoutInitForce)
		if err != nil {
			return reportError(err)
		}
		fmt.Println(ui.Success.Sprint("✓") + " Wrote " + ui.Path.Sprint(result.Path) +
			fmt.Sprintf(" with %d widgets", len(result.Layout.Widgets)))
		fmt.Println(ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("lumen layout show") + " to see it")
		return nil
	},
}

var layoutValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the layout for out-of-bounds and overlapping widgets",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting layout validate command")
		bp, err := grid.ParseBreakpoint(layoutBreakpoint)
		if err != nil {
			return reportError(err)
		}

		result, err := workflows.ValidateLayout(cmd.Context(), workflows.LayoutOptions{Path: layoutFile, Breakpoint: bp})
		if err != nil {
			return reportError(err)
		}

		label := ui.Path.Sprint(result.Path) + " " + ui.Muted.Sprint(string(result.Breakpoint))
		if result.Valid {
			fmt.Println(ui.Success.Sprint("✓") + " " + label + " is valid")
			return nil
		}

		fmt.Println(ui.Error.Sprint("✗") + " " + label + fmt.Sprintf(" has %d problem(s):", len(result.Violations)))
		for _, v := range result.Violations {
			fmt.Println("    - " + v.String())
		}
		return ErrReported
	},
}
