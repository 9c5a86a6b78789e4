package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/lumen/internal/gesture"
	"github.com/PolarWolf314/lumen/internal/grid"
	"github.com/PolarWolf314/lumen/internal/ui"
	"github.com/PolarWolf314/lumen/internal/workflows"
)

var (
	moveTo       grid.Position
	resizeTo     grid.Size
	editDryRun   bool
	dragFrom     gesture.Point
	dragTo       gesture.Point
	dragOrigin   gesture.Point
	dragCellSize float64
	dragViewport float64
	dragMaxSpan  int
	dragResize   bool
)

func init() {
	layoutMoveCmd.Flags().Var((*cellValue)(&moveTo), "to", "target cell")
	_ = layoutMoveCmd.MarkFlagRequired("to")
	layoutResizeCmd.Flags().Var((*sizeValue)(&resizeTo), "size", "new span in cells")
	_ = layoutResizeCmd.MarkFlagRequired("size")

	for _, c := range []*cobra.Command{layoutMoveCmd, layoutResizeCmd, layoutDragCmd} {
		c.Flags().BoolVar(&editDryRun, "dry-run", false, "check the edit without saving it")
	}

	layoutDragCmd.Flags().Var((*pointValue)(&dragFrom), "from", "pointer-down position in pixels")
	layoutDragCmd.Flags().Var((*pointValue)(&dragTo), "to", "pointer-up position in pixels")
	layoutDragCmd.Flags().Var((*pointValue)(&dragOrigin), "origin", "top-left corner of the grid in pixels")
	layoutDragCmd.Flags().Float64Var(&dragCellSize, "cell-size", 100, "cell size in pixels")
	layoutDragCmd.Flags().Float64Var(&dragViewport, "viewport", 1280, "viewport width in pixels, selects the breakpoint")
	layoutDragCmd.Flags().IntVar(&dragMaxSpan, "max-span", gesture.DefaultMaxSpan, "largest span a resize may reach")
	layoutDragCmd.Flags().BoolVar(&dragResize, "resize", false, "drag the resize handle instead of the widget")
	_ = layoutDragCmd.MarkFlagRequired("from")
	_ = layoutDragCmd.MarkFlagRequired("to")
}

var layoutMoveCmd = &cobra.Command{
	Use:   "move <widget>",
	Short: "Move a widget to another cell",
	Args:  cobra.ExactArgs(1),
	Example: `  lumen layout move balance --to 0,4
  lumen layout move prices --to 0,1 --breakpoint mobile`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting layout move command")
		return runEdit(cmd, args[0], false)
	},
}

var layoutResizeCmd = &cobra.Command{
	Use:     "resize <widget>",
	Short:   "Change a widget's span",
	Args:    cobra.ExactArgs(1),
	Example: `  lumen layout resize history --size 2x4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting layout resize command")
		return runEdit(cmd, args[0], true)
	},
}

func runEdit(cmd *cobra.Command, id string, resize bool) error {
	bp, err := grid.ParseBreakpoint(layoutBreakpoint)
	if err != nil {
		return reportError(err)
	}
	opts := workflows.EditOptions{
		LayoutOptions: workflows.LayoutOptions{Path: layoutFile, Breakpoint: bp},
		WidgetID:      id,
		Position:      moveTo,
		Size:          resizeTo,
		DryRun:        editDryRun,
	}

	var result *workflows.LayoutResult
	if resize {
		result, err = workflows.ResizeWidget(cmd.Context(), opts)
	} else {
		result, err = workflows.MoveWidget(cmd.Context(), opts)
	}
	if err != nil {
		return reportError(err)
	}

	w, _ := result.Active.Widget(id)
	fmt.Printf("%s %s now at %d,%d size %dx%d %s\n", editPrefix(), ui.Highlight.Sprint(id),
		w.Position.X, w.Position.Y, w.Size.Width, w.Size.Height, ui.Muted.Sprint(string(result.Breakpoint)))
	return nil
}

var layoutDragCmd = &cobra.Command{
	Use:   "drag <widget>",
	Short: "Replay a pointer drag against the layout",
	Long: `Replays a pointer gesture through the drag and resize engines: pointer-down
at --from, a move to --to and pointer-up at --to. The widget lands on the
cell under the pointer; a placement that breaks the layout is rejected and
nothing is saved.

The breakpoint comes from --viewport, not --breakpoint.`,
	Args: cobra.ExactArgs(1),
	Example: `  lumen layout drag history --from 50,150 --to 50,350
  lumen layout drag swap --resize --from 400,400 --to 400,600`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting layout drag command")
		Logger.Debugf("from=%v to=%v origin=%v cell=%v", dragFrom, dragTo, dragOrigin, dragCellSize)

		result, err := workflows.DragWidget(cmd.Context(), workflows.DragOptions{
			Path:          layoutFile,
			ViewportWidth: dragViewport,
			CellSize:      dragCellSize,
			Origin:        dragOrigin,
			MaxSpan:       dragMaxSpan,
			WidgetID:      args[0],
			From:          dragFrom,
			To:            dragTo,
			Resize:        dragResize,
			DryRun:        editDryRun,
		})
		if err != nil {
			return reportError(err)
		}

		if !result.Changed {
			fmt.Println(ui.Warning.Sprint("⚠") + " Gesture ended where it started; nothing changed")
			return nil
		}
		w, _ := result.Active.Widget(args[0])
		fmt.Printf("%s %s now at %d,%d size %dx%d %s\n", ui.Success.Sprint("✓"), ui.Highlight.Sprint(args[0]),
			w.Position.X, w.Position.Y, w.Size.Width, w.Size.Height, ui.Muted.Sprint(string(result.Breakpoint)))
		return nil
	},
}
