package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/lumen/internal/grid"
	"github.com/PolarWolf314/lumen/internal/ui"
	"github.com/PolarWolf314/lumen/internal/workflows"
)

var (
	addAt     grid.Position
	addSize   grid.Size
	addConfig []string
	addHidden bool
)

func init() {
	layoutAddCmd.Flags().Var((*cellValue)(&addAt), "at", "top-left cell")
	layoutAddCmd.Flags().Var((*sizeValue)(&addSize), "size", "span in cells")
	layoutAddCmd.Flags().StringSliceVar(&addConfig, "set", nil, "widget config entry key=value (repeatable)")
	layoutAddCmd.Flags().BoolVar(&addHidden, "hidden", false, "add the widget hidden")
	_ = layoutAddCmd.MarkFlagRequired("at")
	_ = layoutAddCmd.MarkFlagRequired("size")

	for _, c := range []*cobra.Command{layoutAddCmd, layoutRemoveCmd, layoutHideCmd, layoutUnhideCmd} {
		c.Flags().BoolVar(&editDryRun, "dry-run", false, "check the edit without saving it")
	}
}

var layoutAddCmd = &cobra.Command{
	Use:   "add <widget>",
	Short: "Place a new widget",
	Args:  cobra.ExactArgs(1),
	Example: `  lumen layout add news --at 0,4 --size 4x1
  lumen layout add ticker --at 0,3 --size 1x1 --set symbols=BTC,XLM --breakpoint mobile`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting layout add command")
		opts, err := widgetEditOptions(args[0])
		if err != nil {
			return reportError(err)
		}
		opts.Position = addAt
		opts.Size = addSize
		config, err := parseWidgetConfig(addConfig)
		if err != nil {
			return Logger.ErrorfAndReturn("Invalid --set: %v", err)
		}

		result, err := workflows.AddWidget(cmd.Context(), workflows.AddOptions{
			EditOptions: opts,
			Config:      config,
			Hidden:      addHidden,
		})
		if err != nil {
			return reportError(err)
		}
		w, _ := result.Active.Widget(args[0])
		fmt.Printf("%s %s added at %d,%d size %dx%d %s\n", editPrefix(), ui.Highlight.Sprint(args[0]),
			w.Position.X, w.Position.Y, w.Size.Width, w.Size.Height, ui.Muted.Sprint(string(result.Breakpoint)))
		return nil
	},
}

var layoutRemoveCmd = &cobra.Command{
	Use:     "remove <widget>",
	Short:   "Delete a widget from the layout",
	Args:    cobra.ExactArgs(1),
	Example: `  lumen layout remove swap`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting layout remove command")
		opts, err := widgetEditOptions(args[0])
		if err != nil {
			return reportError(err)
		}
		result, err := workflows.RemoveWidget(cmd.Context(), opts)
		if err != nil {
			return reportError(err)
		}
		fmt.Printf("%s %s removed %s\n", editPrefix(), ui.Highlight.Sprint(args[0]), ui.Muted.Sprint(string(result.Breakpoint)))
		printViolations(result)
		return nil
	},
}

var layoutHideCmd = &cobra.Command{
	Use:   "hide <widget>",
	Short: "Hide a widget without deleting it",
	Long: `Sets visible=false on a widget. A hidden widget is not drawn but keeps its
cells, so nothing else can be placed over it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting layout hide command")
		return runSetVisible(cmd, args[0], false)
	},
}

var layoutUnhideCmd = &cobra.Command{
	Use:   "unhide <widget>",
	Short: "Show a hidden widget again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting layout unhide command")
		return runSetVisible(cmd, args[0], true)
	},
}

func runSetVisible(cmd *cobra.Command, id string, visible bool) error {
	opts, err := widgetEditOptions(id)
	if err != nil {
		return reportError(err)
	}
	result, err := workflows.SetWidgetVisible(cmd.Context(), opts, visible)
	if err != nil {
		return reportError(err)
	}
	state := "hidden"
	if visible {
		state = "visible"
	}
	fmt.Printf("%s %s is now %s %s\n", editPrefix(), ui.Highlight.Sprint(id), state, ui.Muted.Sprint(string(result.Breakpoint)))
	return nil
}

// parseWidgetConfig turns key=value pairs into a widget config map.
func parseWidgetConfig(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	config := make(map[string]string, len(pairs))
	var last string
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			// StringSlice splits on commas, so "symbols=BTC,XLM" arrives in pieces.
			if last == "" {
				return nil, fmt.Errorf("%q is not key=value", p)
			}
			config[last] += "," + p
			continue
		}
		k = strings.TrimSpace(k)
		if k == "" {
			return nil, fmt.Errorf("%q has an empty key", p)
		}
		config[k] = v
		last = k
	}
	return config, nil
}

func widgetEditOptions(id string) (workflows.EditOptions, error) {
	bp, err := grid.ParseBreakpoint(layoutBreakpoint)
	if err != nil {
		return workflows.EditOptions{}, err
	}
	return workflows.EditOptions{
		LayoutOptions: workflows.LayoutOptions{Path: layoutFile, Breakpoint: bp},
		WidgetID:      id,
		DryRun:        editDryRun,
	}, nil
}

func editPrefix() string {
	if editDryRun {
		return ui.Warning.Sprint("[dry-run]")
	}
	return ui.Success.Sprint("✓")
}

func printViolations(result *workflows.LayoutResult) {
	for _, v := range result.Violations {
		fmt.Println(ui.Error.Sprint("✗") + " " + v.String())
	}
}
