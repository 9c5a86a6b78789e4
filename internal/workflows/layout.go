package workflows

import (
	"context"
	"fmt"
	"os"

	"github.com/PolarWolf314/lumen/internal/audit"
	"github.com/PolarWolf314/lumen/internal/dashboard"
	kerrors "github.com/PolarWolf314/lumen/internal/errors"
	"github.com/PolarWolf314/lumen/internal/gesture"
	"github.com/PolarWolf314/lumen/internal/grid"
)

// LayoutOptions selects a layout file and the breakpoint to work on.
type LayoutOptions struct {
	Path       string
	Breakpoint grid.Breakpoint
}

// LayoutResult describes a layout at one breakpoint.
type LayoutResult struct {
	Path       string
	Layout     *grid.Layout
	Active     *grid.Layout
	Breakpoint grid.Breakpoint
	Valid      bool
	Violations []grid.Violation
}

func loadLayout(ctx context.Context, path string, bp grid.Breakpoint) (*LayoutResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if bp == "" {
		bp = grid.Desktop
	}
	l, err := grid.LoadLayout(path)
	if err != nil {
		return nil, err
	}
	active := l.Resolve(bp)
	violations, err := grid.Diagnose(&active.Grid, active.Widgets)
	if err != nil {
		return nil, err
	}
	return &LayoutResult{
		Path:       path,
		Layout:     l,
		Active:     active,
		Breakpoint: bp,
		Valid:      len(violations) == 0,
		Violations: violations,
	}, nil
}

// ValidateLayout loads a layout and lists its violations at the breakpoint.
// An invalid layout is reported in the result; only malformed or unreadable
// files return an error.
func ValidateLayout(ctx context.Context, opts LayoutOptions) (*LayoutResult, error) {
	return loadLayout(ctx, opts.Path, opts.Breakpoint)
}

// EditOptions configures a direct move or resize of one widget.
type EditOptions struct {
	LayoutOptions
	WidgetID string
	Position grid.Position
	Size     grid.Size
	DryRun   bool
}

// MoveWidget places a widget at Position if the layout stays valid and saves
// the file.
func MoveWidget(ctx context.Context, opts EditOptions) (*LayoutResult, error) {
	return editLayout(ctx, opts, "layout.move", func(active *grid.Layout) error {
		return active.Move(opts.WidgetID, opts.Position)
	})
}

// ResizeWidget changes a widget's span if the layout stays valid and saves
// the file.
func ResizeWidget(ctx context.Context, opts EditOptions) (*LayoutResult, error) {
	return editLayout(ctx, opts, "layout.resize", func(active *grid.Layout) error {
		return active.Resize(opts.WidgetID, opts.Size)
	})
}

// AddOptions places a new widget. Position and Size come from EditOptions.
type AddOptions struct {
	EditOptions
	Config map[string]string
	Hidden bool
}

// AddWidget places a new widget if the layout stays valid and saves the file.
//
// Returns ErrDuplicateWidget if the id is already used at the breakpoint.
func AddWidget(ctx context.Context, opts AddOptions) (*LayoutResult, error) {
	return editLayout(ctx, opts.EditOptions, "layout.add", func(active *grid.Layout) error {
		return active.Add(grid.Widget{
			ID:       opts.WidgetID,
			Position: opts.Position,
			Size:     opts.Size,
			Visible:  !opts.Hidden,
			Config:   opts.Config,
		})
	})
}

// RemoveWidget deletes a widget from the layout and saves the file.
func RemoveWidget(ctx context.Context, opts EditOptions) (*LayoutResult, error) {
	return editLayout(ctx, opts, "layout.remove", func(active *grid.Layout) error {
		return active.Remove(opts.WidgetID)
	})
}

// SetWidgetVisible hides or shows a widget. Hidden widgets keep their cells
// and still take part in validation.
func SetWidgetVisible(ctx context.Context, opts EditOptions, visible bool) (*LayoutResult, error) {
	op := "layout.hide"
	if visible {
		op = "layout.unhide"
	}
	return editLayout(ctx, opts, op, func(active *grid.Layout) error {
		return active.SetVisible(opts.WidgetID, visible)
	})
}

func editLayout(ctx context.Context, opts EditOptions, op string, edit func(*grid.Layout) error) (*LayoutResult, error) {
	result, err := loadLayout(ctx, opts.Path, opts.Breakpoint)
	if err != nil {
		return nil, err
	}

	entry := audit.LogWithUser(op)
	entry.Layout = opts.Path
	entry.WidgetID = opts.WidgetID

	err = edit(result.Active)
	if err == nil && !opts.DryRun {
		err = grid.SaveLayout(opts.Path, result.Layout)
	}
	if !opts.DryRun {
		audit.Record(entry, err)
	}
	if err != nil {
		return nil, err
	}
	// Remove and hide do not re-check the rest of the layout.
	violations, err := grid.Diagnose(&result.Active.Grid, result.Active.Widgets)
	if err != nil {
		return nil, err
	}
	result.Valid = len(violations) == 0
	result.Violations = violations
	return result, nil
}

// DragOptions replays one pointer gesture against a layout. Points are in
// pixels relative to the same space as Origin.
type DragOptions struct {
	Path          string
	ViewportWidth float64
	CellSize      float64
	Origin        gesture.Point
	MaxSpan       int
	WidgetID      string
	From          gesture.Point
	To            gesture.Point
	// Resize drags the widget's resize handle instead of the widget.
	Resize bool
	DryRun bool
}

// DragResult contains the layout after the gesture.
type DragResult struct {
	LayoutResult
	Changed bool
}

// DragWidget runs a pointer-down at From, a move to To and a pointer-up at To
// through the dashboard board, then saves the layout if the gesture
// committed a change. A rejected placement is returned as the error and
// leaves the file untouched.
func DragWidget(ctx context.Context, opts DragOptions) (*DragResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l, err := grid.LoadLayout(opts.Path)
	if err != nil {
		return nil, err
	}

	board, err := dashboard.NewBoard(l, dashboard.Options{
		Origin:        opts.Origin,
		CellSize:      opts.CellSize,
		MaxSpan:       opts.MaxSpan,
		ViewportWidth: opts.ViewportWidth,
	})
	if err != nil {
		return nil, err
	}
	defer board.Close()

	changed := false
	board.OnChange(func(*grid.Layout) { changed = true })

	if opts.Resize {
		err = board.BeginResize(opts.WidgetID, opts.From)
	} else {
		err = board.BeginDrag(opts.WidgetID, opts.From)
	}
	if err != nil {
		return nil, err
	}

	pointer := board.Pointer()
	pointer.Dispatch(gesture.Event{Kind: gesture.Move, Point: opts.To})
	pointer.Dispatch(gesture.Event{Kind: gesture.Up, Point: opts.To})

	op := "layout.drag"
	if opts.Resize {
		op = "layout.resize"
	}
	entry := audit.LogWithUser(op)
	entry.Layout = opts.Path
	entry.WidgetID = opts.WidgetID

	err = board.LastRejection()
	if err != nil {
		err = fmt.Errorf("placement rejected: %w", err)
	} else if changed && !opts.DryRun {
		err = grid.SaveLayout(opts.Path, board.Layout())
	}
	if !opts.DryRun {
		audit.Record(entry, err)
	}
	if err != nil {
		return nil, err
	}

	return &DragResult{
		LayoutResult: LayoutResult{
			Path:       opts.Path,
			Layout:     board.Layout(),
			Active:     board.Active(),
			Breakpoint: board.Breakpoint(),
			Valid:      true,
		},
		Changed: changed,
	}, nil
}

// DefaultLayout is the dashboard written by InitLayout.
func DefaultLayout() *grid.Layout {
	w := func(id string, x, y, width, height int) grid.Widget {
		return grid.Widget{
			ID:       id,
			Position: grid.Position{X: x, Y: y},
			Size:     grid.Size{Width: width, Height: height},
			Visible:  true,
		}
	}
	prices := w("prices", 2, 0, 2, 2)
	prices.Config = map[string]string{"symbols": "BTC,ETH,XLM,USDC"}
	mobilePrices := prices
	mobilePrices.Position = grid.Position{X: 0, Y: 1}
	mobilePrices.Size = grid.Size{Width: 1, Height: 2}

	return &grid.Layout{
		Name: "dashboard",
		Grid: grid.Config{Columns: 4, Rows: 6, Gap: 16},
		Widgets: []grid.Widget{
			w("balance", 0, 0, 2, 1),
			prices,
			w("history", 0, 1, 2, 3),
			w("swap", 2, 2, 2, 2),
		},
		Breakpoints: map[string]*grid.Layout{
			string(grid.Mobile): {
				Name: "dashboard-mobile",
				Grid: grid.Config{Columns: 1, Rows: 8, Gap: 8},
				Widgets: []grid.Widget{
					w("balance", 0, 0, 1, 1),
					mobilePrices,
					w("history", 0, 3, 1, 3),
				},
			},
		},
	}
}

// InitLayout writes DefaultLayout to path. An existing file is kept unless
// force is set.
func InitLayout(ctx context.Context, path string, force bool) (*LayoutResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err == nil && !force {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrLayoutExists, path)
	}
	l := DefaultLayout()
	if err := grid.SaveLayout(path, l); err != nil {
		return nil, err
	}
	return &LayoutResult{Path: path, Layout: l, Active: l, Breakpoint: grid.Desktop, Valid: true}, nil
}
