package gesture

import (
	"sync"

	kerrors "github.com/PolarWolf314/lumen/internal/errors"
	"github.com/PolarWolf314/lumen/internal/grid"
)

// DefaultMaxSpan caps a widget's width and height in cells.
const DefaultMaxSpan = 6

// Phase tells the caller how to treat a SizeUpdate.
type Phase int

const (
	// Live updates arrive on every pointer move.
	Live Phase = iota
	// Committed carries the final size on pointer-up.
	Committed
	// Cancelled carries the start size so the caller can roll back.
	Cancelled
)

// SizeUpdate is a proposed widget size. It is not validated.
type SizeUpdate struct {
	WidgetID string
	Size     grid.Size
	Phase    Phase
}

// Resize turns a drag on a widget's resize handle into size updates.
type Resize struct {
	src      Source
	cellSize float64
	maxSpan  int
	emit     func(SizeUpdate)

	mu        sync.Mutex
	state     State
	widgetID  string
	startAt   Point
	startSize grid.Size
	last      grid.Size
	release   func()
}

// NewResize creates a resize engine. maxSpan <= 0 selects DefaultMaxSpan.
func NewResize(src Source, cellSize float64, maxSpan int, emit func(SizeUpdate)) *Resize {
	if maxSpan <= 0 {
		maxSpan = DefaultMaxSpan
	}
	return &Resize{src: src, cellSize: cellSize, maxSpan: maxSpan, emit: emit}
}

// Begin starts a resize of widgetID whose current size is start.
func (r *Resize) Begin(widgetID string, start grid.Size, at Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Idle {
		return kerrors.ErrGestureActive
	}
	r.state = Resizing
	r.widgetID = widgetID
	r.startAt = at
	r.startSize = start
	r.last = start
	r.release = r.src.Listen(r.handle)
	return nil
}

// State reports whether a resize is in progress.
func (r *Resize) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Close abandons a resize in progress, emitting a Cancelled update with the
// start size. Safe on an idle resize.
func (r *Resize) Close() {
	r.mu.Lock()
	if r.state != Resizing {
		r.mu.Unlock()
		return
	}
	u := SizeUpdate{WidgetID: r.widgetID, Size: r.startSize, Phase: Cancelled}
	r.finish()
	r.mu.Unlock()
	r.send(u)
}

// sizeAt applies the pointer delta to the start size. Caller holds r.mu.
func (r *Resize) sizeAt(p Point) grid.Size {
	dx := roundHalfUp((p.X - r.startAt.X) / r.cellSize)
	dy := roundHalfUp((p.Y - r.startAt.Y) / r.cellSize)
	return grid.Size{
		Width:  clamp(r.startSize.Width+dx, 1, r.maxSpan),
		Height: clamp(r.startSize.Height+dy, 1, r.maxSpan),
	}
}

func (r *Resize) handle(ev Event) {
	r.mu.Lock()
	if r.state != Resizing {
		r.mu.Unlock()
		return
	}

	var u SizeUpdate
	switch ev.Kind {
	case Move:
		r.last = r.sizeAt(ev.Point)
		u = SizeUpdate{WidgetID: r.widgetID, Size: r.last, Phase: Live}
	case Up:
		u = SizeUpdate{WidgetID: r.widgetID, Size: r.last, Phase: Committed}
		r.finish()
	case Cancel:
		u = SizeUpdate{WidgetID: r.widgetID, Size: r.startSize, Phase: Cancelled}
		r.finish()
	default:
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	r.send(u)
}

func (r *Resize) send(u SizeUpdate) {
	if r.emit != nil {
		r.emit(u)
	}
}

// finish returns to Idle and detaches the listener. Caller holds r.mu.
func (r *Resize) finish() {
	if r.release != nil {
		r.release()
		r.release = nil
	}
	r.state = Idle
	r.widgetID = ""
}
