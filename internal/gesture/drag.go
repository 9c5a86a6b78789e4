package gesture

import (
	"sync"

	kerrors "github.com/PolarWolf314/lumen/internal/errors"
	"github.com/PolarWolf314/lumen/internal/grid"
)

// State of a gesture.
type State int

const (
	Idle State = iota
	Dragging
	Resizing
)

func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	default:
		return "idle"
	}
}

// Candidate is a proposed new position for a widget. It is not validated.
type Candidate struct {
	WidgetID string
	Position grid.Position
}

// Drag turns a pointer drag into at most one placement candidate.
type Drag struct {
	src      Source
	origin   Point
	cellSize float64
	emit     func(Candidate)

	mu       sync.Mutex
	state    State
	widgetID string
	start    grid.Position
	last     grid.Position
	release  func()
}

// NewDrag creates a drag engine for a grid container whose top-left corner is
// at origin and whose cells are cellSize pixels square.
func NewDrag(src Source, origin Point, cellSize float64, emit func(Candidate)) *Drag {
	return &Drag{src: src, origin: origin, cellSize: cellSize, emit: emit}
}

// Begin starts tracking the pointer for widgetID from the pointer-down point at.
func (d *Drag) Begin(widgetID string, at Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != Idle {
		return kerrors.ErrGestureActive
	}
	d.state = Dragging
	d.widgetID = widgetID
	d.start = CellAt(at, d.origin, d.cellSize)
	d.last = d.start
	d.release = d.src.Listen(d.handle)
	return nil
}

// State reports whether a drag is in progress.
func (d *Drag) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Close abandons any drag in progress without emitting. Safe on an idle drag.
func (d *Drag) Close() {
	d.mu.Lock()
	d.finish()
	d.mu.Unlock()
}

func (d *Drag) handle(ev Event) {
	d.mu.Lock()
	if d.state != Dragging {
		d.mu.Unlock()
		return
	}

	switch ev.Kind {
	case Move:
		d.last = CellAt(ev.Point, d.origin, d.cellSize)
		d.mu.Unlock()
	case Up:
		d.last = CellAt(ev.Point, d.origin, d.cellSize)
		moved := d.last != d.start
		c := Candidate{WidgetID: d.widgetID, Position: d.last}
		d.finish()
		d.mu.Unlock()
		if moved && d.emit != nil {
			d.emit(c)
		}
	case Cancel:
		d.finish()
		d.mu.Unlock()
	default:
		d.mu.Unlock()
	}
}

// finish returns to Idle and detaches the listener. Caller holds d.mu.
func (d *Drag) finish() {
	if d.release != nil {
		d.release()
		d.release = nil
	}
	d.state = Idle
	d.widgetID = ""
}
