package grid

import "fmt"

// ViolationKind names why a widget breaks the layout invariant.
type ViolationKind string

const (
	OutOfBounds ViolationKind = "out_of_bounds"
	Overlap     ViolationKind = "overlap"
)

// Violation describes one broken invariant. OtherID is set for overlaps.
type Violation struct {
	Kind     ViolationKind
	WidgetID string
	OtherID  string
}

func (v Violation) String() string {
	if v.Kind == Overlap {
		return fmt.Sprintf("widget %s overlaps widget %s", v.WidgetID, v.OtherID)
	}
	return fmt.Sprintf("widget %s is outside the grid", v.WidgetID)
}

// ValidateLayout reports whether every widget lies inside the grid and no two
// widgets overlap. Hidden widgets take part in the overlap check too.
// Malformed input (nil grid or widget list, empty grid, zero-sized or
// duplicate widgets) yields an error wrapping ErrMalformedLayout rather than
// a verdict.
func ValidateLayout(g *Config, widgets []Widget) (bool, error) {
	if err := g.check(); err != nil {
		return false, err
	}
	if err := checkWidgets(widgets); err != nil {
		return false, err
	}

	for _, w := range widgets {
		if !inBounds(g, w) {
			return false, nil
		}
	}
	for i := range widgets {
		for j := i + 1; j < len(widgets); j++ {
			if Overlaps(widgets[i], widgets[j]) {
				return false, nil
			}
		}
	}
	return true, nil
}

// Diagnose lists every violation instead of stopping at the first one.
func Diagnose(g *Config, widgets []Widget) ([]Violation, error) {
	if err := g.check(); err != nil {
		return nil, err
	}
	if err := checkWidgets(widgets); err != nil {
		return nil, err
	}

	var out []Violation
	for _, w := range widgets {
		if !inBounds(g, w) {
			out = append(out, Violation{Kind: OutOfBounds, WidgetID: w.ID})
		}
	}
	for i := range widgets {
		for j := i + 1; j < len(widgets); j++ {
			if Overlaps(widgets[i], widgets[j]) {
				out = append(out, Violation{Kind: Overlap, WidgetID: widgets[i].ID, OtherID: widgets[j].ID})
			}
		}
	}
	return out, nil
}

// Overlaps reports whether two widgets share at least one cell, treating
// both rectangles as half-open.
func Overlaps(a, b Widget) bool {
	return a.Position.X < b.EndX() && a.EndX() > b.Position.X &&
		a.Position.Y < b.EndY() && a.EndY() > b.Position.Y
}

func inBounds(g *Config, w Widget) bool {
	return w.Position.X >= 0 && w.Position.Y >= 0 &&
		w.EndX() <= g.Columns && w.EndY() <= g.Rows
}
