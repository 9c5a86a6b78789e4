package grid

import (
	"fmt"
	"strings"

	"github.com/PolarWolf314/lumen/internal/configs"
	kerrors "github.com/PolarWolf314/lumen/internal/errors"
)

// Breakpoint names a viewport class with its own optional layout override.
type Breakpoint string

const (
	Mobile  Breakpoint = "mobile"
	Tablet  Breakpoint = "tablet"
	Desktop Breakpoint = "desktop"
)

// BreakpointFor maps a viewport width in pixels to its breakpoint.
func BreakpointFor(widthPx float64) Breakpoint {
	switch {
	case widthPx < 768:
		return Mobile
	case widthPx < 1024:
		return Tablet
	default:
		return Desktop
	}
}

// ParseBreakpoint accepts mobile, tablet or desktop in any case.
func ParseBreakpoint(s string) (Breakpoint, error) {
	switch bp := Breakpoint(strings.ToLower(strings.TrimSpace(s))); bp {
	case Mobile, Tablet, Desktop:
		return bp, nil
	default:
		return "", fmt.Errorf("%w: %q", kerrors.ErrUnknownBreakpoint, s)
	}
}

// Layout is a named grid with its widgets and per-breakpoint overrides.
type Layout struct {
	Name        string             `toml:"name"`
	Grid        Config             `toml:"grid"`
	Widgets     []Widget           `toml:"widgets"`
	Breakpoints map[string]*Layout `toml:"breakpoints,omitempty"`
}

// Resolve returns the override for bp, or the layout itself when there is none.
func (l *Layout) Resolve(bp Breakpoint) *Layout {
	if override, ok := l.Breakpoints[string(bp)]; ok && override != nil {
		return override
	}
	return l
}

// Validate checks the layout active at bp.
func (l *Layout) Validate(bp Breakpoint) error {
	active := l.Resolve(bp)
	return checkLayout(&active.Grid, active.widgets())
}

// Widget returns a copy of the widget with the given id.
func (l *Layout) Widget(id string) (Widget, bool) {
	i := l.index(id)
	if i < 0 {
		return Widget{}, false
	}
	return l.Widgets[i], true
}

// Add places a new widget if the result is still a valid layout.
func (l *Layout) Add(w Widget) error {
	if l.index(w.ID) >= 0 {
		return fmt.Errorf("%w: %s", kerrors.ErrDuplicateWidget, w.ID)
	}
	trial := append(l.widgets(), w)
	if err := checkLayout(&l.Grid, trial); err != nil {
		return err
	}
	l.Widgets = trial
	return nil
}

// Remove deletes a widget.
func (l *Layout) Remove(id string) error {
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", kerrors.ErrWidgetNotFound, id)
	}
	l.Widgets = append(l.Widgets[:i:i], l.Widgets[i+1:]...)
	return nil
}

// SetVisible toggles soft removal. Hidden widgets stay in the model.
func (l *Layout) SetVisible(id string, visible bool) error {
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", kerrors.ErrWidgetNotFound, id)
	}
	l.Widgets[i].Visible = visible
	return nil
}

// Move repositions a widget. An invalid result leaves the widget where it was.
func (l *Layout) Move(id string, pos Position) error {
	return l.edit(id, func(w *Widget) { w.Position = pos })
}

// Resize changes a widget's span. An invalid result leaves the size unchanged.
func (l *Layout) Resize(id string, size Size) error {
	return l.edit(id, func(w *Widget) { w.Size = size })
}

// VisibleWidgets returns the widgets a renderer should draw.
func (l *Layout) VisibleWidgets() []Widget {
	var out []Widget
	for _, w := range l.Widgets {
		if w.Visible {
			out = append(out, w)
		}
	}
	return out
}

func (l *Layout) edit(id string, mutate func(*Widget)) error {
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", kerrors.ErrWidgetNotFound, id)
	}
	trial := l.widgets()
	mutate(&trial[i])
	if err := checkLayout(&l.Grid, trial); err != nil {
		return err
	}
	l.Widgets = trial
	return nil
}

// widgets returns a copy of the widget list, never nil.
func (l *Layout) widgets() []Widget {
	out := make([]Widget, len(l.Widgets))
	copy(out, l.Widgets)
	return out
}

func (l *Layout) index(id string) int {
	for i, w := range l.Widgets {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func checkLayout(g *Config, widgets []Widget) error {
	violations, err := Diagnose(g, widgets)
	if err != nil {
		return err
	}
	if len(violations) == 0 {
		return nil
	}
	msgs := make([]string, len(violations))
	for i, v := range violations {
		msgs[i] = v.String()
	}
	return fmt.Errorf("%w: %s", kerrors.ErrInvalidLayout, strings.Join(msgs, "; "))
}

// LoadLayout reads a layout TOML file.
func LoadLayout(path string) (*Layout, error) {
	l := &Layout{}
	if err := configs.LoadTOML(path, l); err != nil {
		return nil, fmt.Errorf("loading layout %s: %w", path, err)
	}
	// An override with only a [grid] table decodes to a nil widget list.
	if l.Widgets == nil {
		l.Widgets = []Widget{}
	}
	for _, override := range l.Breakpoints {
		if override != nil && override.Widgets == nil {
			override.Widgets = []Widget{}
		}
	}
	return l, nil
}

// SaveLayout writes a layout TOML file.
func SaveLayout(path string, l *Layout) error {
	if err := configs.SaveTOML(path, l); err != nil {
		return fmt.Errorf("saving layout %s: %w", path, err)
	}
	return nil
}
