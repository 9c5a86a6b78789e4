package grid

import (
	"fmt"

	kerrors "github.com/PolarWolf314/lumen/internal/errors"
)

// Config describes the layout surface in grid cell units.
type Config struct {
	Columns int     `toml:"columns" json:"columns"`
	Rows    int     `toml:"rows" json:"rows"`
	Gap     float64 `toml:"gap" json:"gap"`
}

// Position is a widget's top-left cell.
type Position struct {
	X int `toml:"x" json:"x"`
	Y int `toml:"y" json:"y"`
}

// Size is a widget's span in cells.
type Size struct {
	Width  int `toml:"width" json:"width"`
	Height int `toml:"height" json:"height"`
}

// Widget is a rectangle placed on the grid. Config is opaque to the layout
// engine and only carried along.
type Widget struct {
	ID       string            `toml:"id" json:"id"`
	Position Position          `toml:"position" json:"position"`
	Size     Size              `toml:"size" json:"size"`
	Visible  bool              `toml:"visible" json:"visible"`
	Config   map[string]string `toml:"config,omitempty" json:"config,omitempty"`
}

// EndX is the first column to the right of the widget.
func (w Widget) EndX() int { return w.Position.X + w.Size.Width }

// EndY is the first row below the widget.
func (w Widget) EndY() int { return w.Position.Y + w.Size.Height }

func (c *Config) check() error {
	if c == nil {
		return fmt.Errorf("%w: missing grid", kerrors.ErrMalformedLayout)
	}
	if c.Columns < 1 || c.Rows < 1 {
		return fmt.Errorf("%w: grid must have at least one column and row, got %dx%d",
			kerrors.ErrMalformedLayout, c.Columns, c.Rows)
	}
	if c.Gap < 0 {
		return fmt.Errorf("%w: negative gap %v", kerrors.ErrMalformedLayout, c.Gap)
	}
	return nil
}

func checkWidgets(widgets []Widget) error {
	if widgets == nil {
		return fmt.Errorf("%w: missing widget list", kerrors.ErrMalformedLayout)
	}
	seen := make(map[string]bool, len(widgets))
	for _, w := range widgets {
		if w.ID == "" {
			return fmt.Errorf("%w: widget without id", kerrors.ErrMalformedLayout)
		}
		if seen[w.ID] {
			return fmt.Errorf("%w: %w: %s", kerrors.ErrMalformedLayout, kerrors.ErrDuplicateWidget, w.ID)
		}
		seen[w.ID] = true
		if w.Size.Width < 1 || w.Size.Height < 1 {
			return fmt.Errorf("%w: widget %s has size %dx%d",
				kerrors.ErrMalformedLayout, w.ID, w.Size.Width, w.Size.Height)
		}
	}
	return nil
}
