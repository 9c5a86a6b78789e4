package gesture

import (
	"errors"
	"testing"

	kerrors "github.com/PolarWolf314/lumen/internal/errors"
	"github.com/PolarWolf314/lumen/internal/grid"
)

func TestCellAt(t *testing.T) {
	origin := Point{X: 100, Y: 50}

	tests := []struct {
		name string
		p    Point
		want grid.Position
	}{
		{"container origin", Point{X: 100, Y: 50}, grid.Position{X: 0, Y: 0}},
		{"inside first cell", Point{X: 219.9, Y: 169.9}, grid.Position{X: 0, Y: 0}},
		{"cell boundary", Point{X: 220, Y: 170}, grid.Position{X: 1, Y: 1}},
		{"third column second row", Point{X: 350, Y: 200}, grid.Position{X: 2, Y: 1}},
		{"left of container floors negative", Point{X: 99, Y: 50}, grid.Position{X: -1, Y: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CellAt(tt.p, origin, 120); got != tt.want {
				t.Errorf("CellAt(%+v) = %+v, want %+v", tt.p, got, tt.want)
			}
		})
	}
}

func TestDragEmitsLastCellOnPointerUp(t *testing.T) {
	src := NewDispatcher()
	var got []Candidate
	d := NewDrag(src, Point{}, 100, func(c Candidate) { got = append(got, c) })

	if err := d.Begin("balance", Point{X: 10, Y: 10}); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if d.State() != Dragging {
		t.Fatalf("Expected Dragging, got %s", d.State())
	}
	if src.Listeners() != 1 {
		t.Fatalf("Expected 1 listener during drag, got %d", src.Listeners())
	}

	src.Dispatch(Event{Kind: Move, Point: Point{X: 150, Y: 10}})
	src.Dispatch(Event{Kind: Move, Point: Point{X: 250, Y: 120}})
	if len(got) != 0 {
		t.Fatalf("Drag must not emit before pointer-up, got %v", got)
	}
	src.Dispatch(Event{Kind: Up, Point: Point{X: 260, Y: 130}})

	if len(got) != 1 {
		t.Fatalf("Expected exactly one candidate, got %d", len(got))
	}
	want := Candidate{WidgetID: "balance", Position: grid.Position{X: 2, Y: 1}}
	if got[0] != want {
		t.Errorf("Candidate = %+v, want %+v", got[0], want)
	}
	if d.State() != Idle {
		t.Errorf("Expected Idle after pointer-up, got %s", d.State())
	}
	if src.Listeners() != 0 {
		t.Errorf("Listener leaked after pointer-up: %d attached", src.Listeners())
	}

	// Events after the gesture ended are ignored.
	src.Dispatch(Event{Kind: Up, Point: Point{X: 0, Y: 0}})
	if len(got) != 1 {
		t.Errorf("Expected no further candidates, got %d", len(got))
	}
}

func TestDragWithinOriginCellIsNoOp(t *testing.T) {
	src := NewDispatcher()
	emitted := 0
	d := NewDrag(src, Point{}, 100, func(Candidate) { emitted++ })

	if err := d.Begin("balance", Point{X: 10, Y: 10}); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	src.Dispatch(Event{Kind: Move, Point: Point{X: 250, Y: 10}})
	src.Dispatch(Event{Kind: Up, Point: Point{X: 90, Y: 90}})

	if emitted != 0 {
		t.Errorf("Expected no candidate when ending in the origin cell, got %d", emitted)
	}
	if src.Listeners() != 0 {
		t.Errorf("Listener leaked: %d attached", src.Listeners())
	}
}

func TestDragCancelAndCloseReleaseListener(t *testing.T) {
	src := NewDispatcher()
	emitted := 0
	d := NewDrag(src, Point{}, 100, func(Candidate) { emitted++ })

	if err := d.Begin("balance", Point{}); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	src.Dispatch(Event{Kind: Move, Point: Point{X: 300, Y: 300}})
	src.Dispatch(Event{Kind: Cancel})
	if emitted != 0 || src.Listeners() != 0 || d.State() != Idle {
		t.Errorf("Cancel: emitted=%d listeners=%d state=%s", emitted, src.Listeners(), d.State())
	}

	if err := d.Begin("balance", Point{}); err != nil {
		t.Fatalf("Begin after cancel failed: %v", err)
	}
	d.Close()
	if emitted != 0 || src.Listeners() != 0 || d.State() != Idle {
		t.Errorf("Close: emitted=%d listeners=%d state=%s", emitted, src.Listeners(), d.State())
	}

	// Close on an idle drag is harmless.
	d.Close()
}

func TestDragBeginWhileActive(t *testing.T) {
	src := NewDispatcher()
	d := NewDrag(src, Point{}, 100, nil)

	if err := d.Begin("a", Point{}); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := d.Begin("b", Point{}); !errors.Is(err, kerrors.ErrGestureActive) {
		t.Errorf("Expected ErrGestureActive, got %v", err)
	}
	if src.Listeners() != 1 {
		t.Errorf("Expected a single listener, got %d", src.Listeners())
	}
	d.Close()
}
