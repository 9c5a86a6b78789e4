package workflows

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	kerrors "github.com/PolarWolf314/lumen/internal/errors"
	"github.com/PolarWolf314/lumen/internal/gesture"
	"github.com/PolarWolf314/lumen/internal/grid"
)

func writeDefaultLayout(t *testing.T) string {
	t.Helper()
	useTempSettings(t)
	path := filepath.Join(t.TempDir(), "dashboard.toml")
	if _, err := InitLayout(bg(), path, false); err != nil {
		t.Fatalf("InitLayout failed: %v", err)
	}
	return path
}

func TestDefaultLayoutIsValidAtEveryBreakpoint(t *testing.T) {
	l := DefaultLayout()
	for _, bp := range []grid.Breakpoint{grid.Mobile, grid.Tablet, grid.Desktop} {
		if err := l.Validate(bp); err != nil {
			t.Errorf("Default layout invalid at %s: %v", bp, err)
		}
	}
}

func TestInitLayoutKeepsExistingFile(t *testing.T) {
	path := writeDefaultLayout(t)

	if _, err := InitLayout(bg(), path, false); !errors.Is(err, kerrors.ErrLayoutExists) {
		t.Errorf("Expected ErrLayoutExists, got %v", err)
	}
	if _, err := InitLayout(bg(), path, true); err != nil {
		t.Errorf("Expected --force to overwrite, got %v", err)
	}
}

func TestValidateLayoutReportsViolations(t *testing.T) {
	path := writeDefaultLayout(t)

	result, err := ValidateLayout(bg(), LayoutOptions{Path: path})
	if err != nil {
		t.Fatalf("ValidateLayout failed: %v", err)
	}
	if !result.Valid || result.Breakpoint != grid.Desktop {
		t.Errorf("Expected valid desktop layout, got %+v", result)
	}

	// Break the file behind the workflow's back.
	l := DefaultLayout()
	l.Widgets[0].Position = grid.Position{X: 2, Y: 0}
	if err := grid.SaveLayout(path, l); err != nil {
		t.Fatal(err)
	}

	result, err = ValidateLayout(bg(), LayoutOptions{Path: path})
	if err != nil {
		t.Fatalf("ValidateLayout failed: %v", err)
	}
	if result.Valid || len(result.Violations) == 0 {
		t.Fatalf("Expected violations, got %+v", result)
	}
	if v := result.Violations[0]; v.Kind != grid.Overlap {
		t.Errorf("Expected overlap, got %v", v)
	}
}

func TestMoveWidget(t *testing.T) {
	path := writeDefaultLayout(t)

	_, err := MoveWidget(bg(), EditOptions{
		LayoutOptions: LayoutOptions{Path: path},
		WidgetID:      "balance",
		Position:      grid.Position{X: 0, Y: 4},
	})
	if err != nil {
		t.Fatalf("MoveWidget failed: %v", err)
	}

	l, err := grid.LoadLayout(path)
	if err != nil {
		t.Fatal(err)
	}
	if w, _ := l.Widget("balance"); w.Position != (grid.Position{X: 0, Y: 4}) {
		t.Errorf("Move not saved: %+v", w.Position)
	}
	if entry := lastAudit(t); entry.Operation != "layout.move" || entry.WidgetID != "balance" {
		t.Errorf("Unexpected audit entry: %+v", entry)
	}

	_, err = MoveWidget(bg(), EditOptions{
		LayoutOptions: LayoutOptions{Path: path},
		WidgetID:      "balance",
		Position:      grid.Position{X: 2, Y: 0},
	})
	if !errors.Is(err, kerrors.ErrInvalidLayout) {
		t.Errorf("Expected ErrInvalidLayout for an overlapping move, got %v", err)
	}
}

func TestMoveWidgetAtBreakpointAndDryRun(t *testing.T) {
	path := writeDefaultLayout(t)

	result, err := MoveWidget(bg(), EditOptions{
		LayoutOptions: LayoutOptions{Path: path, Breakpoint: grid.Mobile},
		WidgetID:      "balance",
		Position:      grid.Position{X: 0, Y: 6},
		DryRun:        true,
	})
	if err != nil {
		t.Fatalf("MoveWidget failed: %v", err)
	}
	if w, _ := result.Active.Widget("balance"); w.Position.Y != 6 {
		t.Errorf("Expected the mobile override to change, got %+v", w)
	}

	l, _ := grid.LoadLayout(path)
	if w, _ := l.Resolve(grid.Mobile).Widget("balance"); w.Position.Y != 0 {
		t.Errorf("Dry run must not save, got %+v", w.Position)
	}
}

func TestResizeWidget(t *testing.T) {
	path := writeDefaultLayout(t)

	if _, err := ResizeWidget(bg(), EditOptions{
		LayoutOptions: LayoutOptions{Path: path},
		WidgetID:      "swap",
		Size:          grid.Size{Width: 2, Height: 4},
	}); err != nil {
		t.Fatalf("ResizeWidget failed: %v", err)
	}

	_, err := ResizeWidget(bg(), EditOptions{
		LayoutOptions: LayoutOptions{Path: path},
		WidgetID:      "swap",
		Size:          grid.Size{Width: 3, Height: 1},
	})
	if !errors.Is(err, kerrors.ErrInvalidLayout) {
		t.Errorf("Expected out-of-bounds resize to fail, got %v", err)
	}

	_, err = ResizeWidget(bg(), EditOptions{
		LayoutOptions: LayoutOptions{Path: path},
		WidgetID:      "ghost",
		Size:          grid.Size{Width: 1, Height: 1},
	})
	if !errors.Is(err, kerrors.ErrWidgetNotFound) {
		t.Errorf("Expected ErrWidgetNotFound, got %v", err)
	}
}

func TestDragWidget(t *testing.T) {
	path := writeDefaultLayout(t)

	// 100px cells from the origin: history goes from row 1 to row 3.
	result, err := DragWidget(bg(), DragOptions{
		Path:          path,
		ViewportWidth: 1280,
		CellSize:      100,
		WidgetID:      "history",
		From:          gesture.Point{X: 50, Y: 150},
		To:            gesture.Point{X: 50, Y: 350},
	})
	if err != nil {
		t.Fatalf("DragWidget failed: %v", err)
	}
	if !result.Changed {
		t.Fatal("Expected the drag to change the layout")
	}

	l, _ := grid.LoadLayout(path)
	if w, _ := l.Widget("history"); w.Position != (grid.Position{X: 0, Y: 3}) {
		t.Errorf("Drag not saved: %+v", w.Position)
	}
}

func TestDragWidgetRejectedKeepsFile(t *testing.T) {
	path := writeDefaultLayout(t)

	_, err := DragWidget(bg(), DragOptions{
		Path:          path,
		ViewportWidth: 1280,
		CellSize:      100,
		WidgetID:      "balance",
		From:          gesture.Point{X: 50, Y: 50},
		To:            gesture.Point{X: 250, Y: 50},
	})
	if !errors.Is(err, kerrors.ErrInvalidLayout) {
		t.Fatalf("Expected ErrInvalidLayout, got %v", err)
	}

	l, _ := grid.LoadLayout(path)
	if w, _ := l.Widget("balance"); w.Position != (grid.Position{X: 0, Y: 0}) {
		t.Errorf("Rejected drag must not move the widget, got %+v", w.Position)
	}
}

func TestDragWidgetResizeHandle(t *testing.T) {
	path := writeDefaultLayout(t)

	result, err := DragWidget(bg(), DragOptions{
		Path:          path,
		ViewportWidth: 1280,
		CellSize:      100,
		MaxSpan:       4,
		WidgetID:      "swap",
		From:          gesture.Point{X: 400, Y: 400},
		To:            gesture.Point{X: 400, Y: 600},
		Resize:        true,
	})
	if err != nil {
		t.Fatalf("DragWidget resize failed: %v", err)
	}
	if w, _ := result.Active.Widget("swap"); w.Size != (grid.Size{Width: 2, Height: 4}) {
		t.Errorf("Expected 2x4 after resize, got %+v", w.Size)
	}
}

func TestValidateLayoutWidgetlessOverride(t *testing.T) {
	useTempSettings(t)
	path := filepath.Join(t.TempDir(), "dashboard.toml")
	data := `name = "dashboard"

[grid]
columns = 4
rows = 4
gap = 8

[[widgets]]
id = "balance"
visible = true
[widgets.position]
x = 0
y = 0
[widgets.size]
width = 2
height = 1

[breakpoints.mobile]
name = "empty-mobile"
[breakpoints.mobile.grid]
columns = 1
rows = 4
gap = 0
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatalf("Failed to write layout: %v", err)
	}

	l, err := grid.LoadLayout(path)
	if err != nil {
		t.Fatalf("LoadLayout failed: %v", err)
	}
	if err := l.Validate(grid.Mobile); err != nil {
		t.Fatalf("Layout.Validate(mobile) failed: %v", err)
	}

	result, err := ValidateLayout(bg(), LayoutOptions{Path: path, Breakpoint: grid.Mobile})
	if err != nil {
		t.Fatalf("ValidateLayout(mobile) failed: %v", err)
	}
	if !result.Valid || len(result.Active.Widgets) != 0 {
		t.Errorf("Expected an empty valid mobile layout, got %+v", result)
	}

	if _, err := MoveWidget(bg(), EditOptions{
		LayoutOptions: LayoutOptions{Path: path, Breakpoint: grid.Mobile},
		WidgetID:      "balance",
	}); !errors.Is(err, kerrors.ErrWidgetNotFound) {
		t.Errorf("Expected ErrWidgetNotFound on the empty override, got %v", err)
	}
}

func TestAddRemoveAndHideWidget(t *testing.T) {
	path := writeDefaultLayout(t)
	mobile := LayoutOptions{Path: path, Breakpoint: grid.Mobile}

	result, err := AddWidget(bg(), AddOptions{
		EditOptions: EditOptions{
			LayoutOptions: mobile,
			WidgetID:      "swap",
			Position:      grid.Position{X: 0, Y: 6},
			Size:          grid.Size{Width: 1, Height: 2},
		},
		Config: map[string]string{"pair": "XLM/USDC"},
	})
	if err != nil {
		t.Fatalf("AddWidget failed: %v", err)
	}
	if !result.Valid {
		t.Errorf("Expected valid layout after add, got %v", result.Violations)
	}
	if e := lastAudit(t); e.Operation != "layout.add" || e.WidgetID != "swap" || e.Outcome != "ok" {
		t.Errorf("Unexpected audit entry %+v", e)
	}

	l, _ := grid.LoadLayout(path)
	if w, ok := l.Resolve(grid.Mobile).Widget("swap"); !ok || w.Config["pair"] != "XLM/USDC" || !w.Visible {
		t.Errorf("Added widget not saved to the mobile override: %+v", w)
	}

	_, err = AddWidget(bg(), AddOptions{EditOptions: EditOptions{
		LayoutOptions: mobile,
		WidgetID:      "swap",
		Position:      grid.Position{X: 0, Y: 7},
		Size:          grid.Size{Width: 1, Height: 1},
	}})
	if !errors.Is(err, kerrors.ErrDuplicateWidget) {
		t.Errorf("Expected ErrDuplicateWidget, got %v", err)
	}
	if e := lastAudit(t); e.Operation != "layout.add" || e.Outcome != "failed" {
		t.Errorf("Expected a failed add in the audit log, got %+v", e)
	}

	if _, err := SetWidgetVisible(bg(), EditOptions{LayoutOptions: mobile, WidgetID: "swap"}, false); err != nil {
		t.Fatalf("SetWidgetVisible(false) failed: %v", err)
	}
	l, _ = grid.LoadLayout(path)
	active := l.Resolve(grid.Mobile)
	if w, _ := active.Widget("swap"); w.Visible {
		t.Errorf("Expected swap hidden")
	}
	for _, w := range active.VisibleWidgets() {
		if w.ID == "swap" {
			t.Errorf("Hidden widget returned by VisibleWidgets")
		}
	}
	if e := lastAudit(t); e.Operation != "layout.hide" {
		t.Errorf("Expected layout.hide audit, got %+v", e)
	}

	if _, err := SetWidgetVisible(bg(), EditOptions{LayoutOptions: mobile, WidgetID: "swap"}, true); err != nil {
		t.Fatalf("SetWidgetVisible(true) failed: %v", err)
	}
	if e := lastAudit(t); e.Operation != "layout.unhide" {
		t.Errorf("Expected layout.unhide audit, got %+v", e)
	}

	if _, err := RemoveWidget(bg(), EditOptions{LayoutOptions: mobile, WidgetID: "swap"}); err != nil {
		t.Fatalf("RemoveWidget failed: %v", err)
	}
	l, _ = grid.LoadLayout(path)
	if _, ok := l.Resolve(grid.Mobile).Widget("swap"); ok {
		t.Errorf("Expected swap removed from the mobile override")
	}
	if _, ok := l.Widget("swap"); !ok {
		t.Errorf("Desktop swap must be untouched")
	}
	if _, err := RemoveWidget(bg(), EditOptions{LayoutOptions: mobile, WidgetID: "swap"}); !errors.Is(err, kerrors.ErrWidgetNotFound) {
		t.Errorf("Expected ErrWidgetNotFound, got %v", err)
	}
}

func TestRemoveWidgetRepairsInvalidLayout(t *testing.T) {
	path := writeDefaultLayout(t)
	l, _ := grid.LoadLayout(path)
	l.Widgets = append(l.Widgets, grid.Widget{ID: "clock", Position: grid.Position{X: 3, Y: 3}, Size: grid.Size{Width: 1, Height: 1}, Visible: true})
	if err := grid.SaveLayout(path, l); err != nil {
		t.Fatalf("SaveLayout failed: %v", err)
	}

	result, err := SetWidgetVisible(bg(), EditOptions{LayoutOptions: LayoutOptions{Path: path}, WidgetID: "clock"}, false)
	if err != nil {
		t.Fatalf("SetWidgetVisible failed: %v", err)
	}
	if result.Valid || len(result.Violations) != 1 {
		t.Errorf("Hiding must not hide the overlap, got valid=%v %v", result.Valid, result.Violations)
	}

	result, err = RemoveWidget(bg(), EditOptions{LayoutOptions: LayoutOptions{Path: path}, WidgetID: "clock"})
	if err != nil {
		t.Fatalf("RemoveWidget failed: %v", err)
	}
	if !result.Valid || len(result.Violations) != 0 {
		t.Errorf("Expected removal to clear the overlap, got %v", result.Violations)
	}
}
