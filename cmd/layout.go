package cmd

import (
	"github.com/spf13/cobra"

	"github.com/PolarWolf314/lumen/internal/grid"
)

const defaultLayoutFile = "dashboard.toml"

var (
	layoutFile       string
	layoutBreakpoint string
)

// LayoutCmd groups the dashboard layout commands.
var LayoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Inspect and edit the dashboard widget layout",
	Long: `Validates and edits the dashboard grid layout file.

Every edit is checked before it is saved: widgets must stay inside the grid
and must not overlap. Breakpoint overrides (mobile, tablet) are edited with
--breakpoint; without one the desktop layout is used.`,
}

func init() {
	addCommonFlags(LayoutCmd)
	LayoutCmd.PersistentFlags().StringVarP(&layoutFile, "file", "f", defaultLayoutFile, "layout file")
	LayoutCmd.PersistentFlags().StringVarP(&layoutBreakpoint, "breakpoint", "b", string(grid.Desktop), "breakpoint to work on (mobile, tablet, desktop)")

	LayoutCmd.AddCommand(layoutInitCmd)
	LayoutCmd.AddCommand(layoutValidateCmd)
	LayoutCmd.AddCommand(layoutShowCmd)
	LayoutCmd.AddCommand(layoutMoveCmd)
	LayoutCmd.AddCommand(layoutResizeCmd)
	LayoutCmd.AddCommand(layoutDragCmd)
	LayoutCmd.AddCommand(layoutAddCmd)
	LayoutCmd.AddCommand(layoutRemoveCmd)
	LayoutCmd.AddCommand(layoutHideCmd)
	LayoutCmd.AddCommand(layoutUnhideCmd)
}
