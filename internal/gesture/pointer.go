package gesture

import (
	"math"
	"sync"

	"github.com/PolarWolf314/lumen/internal/grid"
)

// Point is a pointer location in pixels.
type Point struct {
	X float64
	Y float64
}

// EventKind distinguishes pointer events delivered to an active gesture.
type EventKind int

const (
	Move EventKind = iota
	Up
	// Cancel ends a gesture abnormally, e.g. the pointer left the window.
	Cancel
)

// Event is a pointer event.
type Event struct {
	Kind  EventKind
	Point Point
}

// Handler receives pointer events.
type Handler func(Event)

// Source hands out pointer listeners. The returned release func detaches the
// handler and must be safe to call more than once.
type Source interface {
	Listen(h Handler) (release func())
}

// Dispatcher is an in-process Source: whatever feeds it pointer events calls
// Dispatch, and every attached handler receives them.
type Dispatcher struct {
	mu       sync.Mutex
	next     int
	handlers map[int]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[int]Handler)}
}

func (d *Dispatcher) Listen(h Handler) func() {
	d.mu.Lock()
	id := d.next
	d.next++
	d.handlers[id] = h
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.handlers, id)
			d.mu.Unlock()
		})
	}
}

// Dispatch delivers ev to a snapshot of the attached handlers, so handlers
// may release themselves while handling.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.Lock()
	hs := make([]Handler, 0, len(d.handlers))
	for _, h := range d.handlers {
		hs = append(hs, h)
	}
	d.mu.Unlock()

	for _, h := range hs {
		h(ev)
	}
}

// Listeners returns how many handlers are attached.
func (d *Dispatcher) Listeners() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.handlers)
}

// CellAt converts a pointer location into the grid cell under it. origin is
// the top-left of the grid container.
func CellAt(p, origin Point, cellSize float64) grid.Position {
	return grid.Position{
		X: int(math.Floor((p.X - origin.X) / cellSize)),
		Y: int(math.Floor((p.Y - origin.Y) / cellSize)),
	}
}

// roundHalfUp rounds .5 toward positive infinity, the way browsers round
// pointer deltas.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
