package dashboard

import (
	"fmt"
	"sync"

	kerrors "github.com/PolarWolf314/lumen/internal/errors"
	"github.com/PolarWolf314/lumen/internal/gesture"
	"github.com/PolarWolf314/lumen/internal/grid"
)

// Options positions the grid container on screen.
type Options struct {
	Origin        gesture.Point
	CellSize      float64
	MaxSpan       int
	ViewportWidth float64
}

// Board applies drag and resize gestures to a layout.
type Board struct {
	pointer *gesture.Dispatcher
	drag    *gesture.Drag
	resize  *gesture.Resize

	mu        sync.Mutex
	layout    *grid.Layout
	bp        grid.Breakpoint
	rejection error
	onChange  func(*grid.Layout)
}

// NewBoard wraps l. The layout active at the viewport's breakpoint must be
// valid to start with.
func NewBoard(l *grid.Layout, opts Options) (*Board, error) {
	if l == nil {
		return nil, fmt.Errorf("%w: nil layout", kerrors.ErrMalformedLayout)
	}
	if opts.CellSize <= 0 {
		return nil, fmt.Errorf("cell size must be positive, got %v", opts.CellSize)
	}

	bp := grid.BreakpointFor(opts.ViewportWidth)
	if err := l.Validate(bp); err != nil {
		return nil, err
	}

	b := &Board{
		pointer: gesture.NewDispatcher(),
		layout:  l,
		bp:      bp,
	}
	b.drag = gesture.NewDrag(b.pointer, opts.Origin, opts.CellSize, b.place)
	b.resize = gesture.NewResize(b.pointer, opts.CellSize, opts.MaxSpan, b.applySize)
	return b, nil
}

// Pointer is where the host feeds pointer events.
func (b *Board) Pointer() *gesture.Dispatcher {
	return b.pointer
}

// OnChange registers fn to run after every committed edit.
func (b *Board) OnChange(fn func(*grid.Layout)) {
	b.mu.Lock()
	b.onChange = fn
	b.mu.Unlock()
}

// Breakpoint returns the active breakpoint.
func (b *Board) Breakpoint() grid.Breakpoint {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bp
}

// Active returns the layout edits currently apply to.
func (b *Board) Active() *grid.Layout {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.layout.Resolve(b.bp)
}

// Layout returns the full layout including breakpoint overrides.
func (b *Board) Layout() *grid.Layout {
	return b.layout
}

// LastRejection returns why the most recent proposal was refused, or nil.
func (b *Board) LastRejection() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rejection
}

// SetViewport switches breakpoint for a new viewport width. Gestures in
// progress are abandoned first.
func (b *Board) SetViewport(widthPx float64) grid.Breakpoint {
	b.drag.Close()
	b.resize.Close()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.bp = grid.BreakpointFor(widthPx)
	return b.bp
}

// BeginDrag starts moving widget id from the pointer-down point at.
func (b *Board) BeginDrag(id string, at gesture.Point) error {
	if _, ok := b.Active().Widget(id); !ok {
		return fmt.Errorf("%w: %s", kerrors.ErrWidgetNotFound, id)
	}
	if b.resize.State() != gesture.Idle {
		return kerrors.ErrGestureActive
	}
	return b.drag.Begin(id, at)
}

// BeginResize starts resizing widget id from its resize handle at.
func (b *Board) BeginResize(id string, at gesture.Point) error {
	w, ok := b.Active().Widget(id)
	if !ok {
		return fmt.Errorf("%w: %s", kerrors.ErrWidgetNotFound, id)
	}
	if b.drag.State() != gesture.Idle {
		return kerrors.ErrGestureActive
	}
	return b.resize.Begin(id, w.Size, at)
}

// Close abandons any gesture and releases pointer listeners.
func (b *Board) Close() {
	b.drag.Close()
	b.resize.Close()
}

func (b *Board) place(c gesture.Candidate) {
	b.commit(func(active *grid.Layout) error {
		return active.Move(c.WidgetID, c.Position)
	})
}

func (b *Board) applySize(u gesture.SizeUpdate) {
	b.commit(func(active *grid.Layout) error {
		w, ok := active.Widget(u.WidgetID)
		if !ok {
			return fmt.Errorf("%w: %s", kerrors.ErrWidgetNotFound, u.WidgetID)
		}
		if w.Size == u.Size {
			return nil
		}
		return active.Resize(u.WidgetID, u.Size)
	})
}

func (b *Board) commit(edit func(*grid.Layout) error) {
	b.mu.Lock()
	err := edit(b.layout.Resolve(b.bp))
	b.rejection = err
	fn := b.onChange
	b.mu.Unlock()

	if err == nil && fn != nil {
		fn(b.layout)
	}
}
