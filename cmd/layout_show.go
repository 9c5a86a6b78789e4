package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/lumen/internal/grid"
	"github.com/PolarWolf314/lumen/internal/ui"
	"github.com/PolarWolf314/lumen/internal/workflows"
)

var layoutShowJSON bool

func init() {
	layoutShowCmd.Flags().BoolVar(&layoutShowJSON, "json", false, "output the active layout as JSON")
}

var layoutShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Draw the layout as a grid of cells",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting layout show command")
		bp, err := grid.ParseBreakpoint(layoutBreakpoint)
		if err != nil {
			return reportError(err)
		}
		result, err := workflows.ValidateLayout(cmd.Context(), workflows.LayoutOptions{Path: layoutFile, Breakpoint: bp})
		if err != nil {
			return reportError(err)
		}

		if layoutShowJSON {
			out, err := json.MarshalIndent(result.Active, "", "  ")
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to marshal layout: %v", err)
			}
			fmt.Println(string(out))
			return nil
		}

		fmt.Printf("%s %s %s\n\n", ui.Info.Sprint(result.Active.Name), ui.Muted.Sprint(string(result.Breakpoint)),
			fmt.Sprintf("%dx%d", result.Active.Grid.Columns, result.Active.Grid.Rows))
		fmt.Print(renderLayout(result.Active))
		if !result.Valid {
			fmt.Println()
			for _, v := range result.Violations {
				fmt.Println(ui.Error.Sprint("✗") + " " + v.String())
			}
		}
		return nil
	},
}

// renderLayout draws one character per cell: the widget's legend letter,
// '#' where widgets collide, '.' for free cells. Hidden widgets are listed
// but not drawn.
func renderLayout(l *grid.Layout) string {
	cols, rows := l.Grid.Columns, l.Grid.Rows
	cells := make([][]byte, rows)
	for y := range cells {
		cells[y] = []byte(strings.Repeat(".", cols))
	}

	legend := make(map[string]byte)
	var ids []string
	for i, w := range l.Widgets {
		legend[w.ID] = byte('A' + i%26)
		ids = append(ids, w.ID)
	}
	for _, w := range l.VisibleWidgets() {
		mark := legend[w.ID]
		for y := max(w.Position.Y, 0); y < min(w.EndY(), rows); y++ {
			for x := max(w.Position.X, 0); x < min(w.EndX(), cols); x++ {
				if cells[y][x] == '.' {
					cells[y][x] = mark
				} else {
					cells[y][x] = '#'
				}
			}
		}
	}

	var b strings.Builder
	for _, row := range cells {
		b.WriteString("  ")
		for i, c := range row {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteByte(c)
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	sort.Strings(ids)
	for _, id := range ids {
		w, _ := l.Widget(id)
		line := fmt.Sprintf("  %c  %-10s %d,%d %dx%d", legend[id], id, w.Position.X, w.Position.Y, w.Size.Width, w.Size.Height)
		if !w.Visible {
			line += " " + ui.Muted.Sprint("hidden")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
