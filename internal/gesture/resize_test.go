package gesture

import (
	"testing"

	"github.com/PolarWolf314/lumen/internal/grid"
)

func TestResizeEmitsLiveUpdatesAndCommit(t *testing.T) {
	src := NewDispatcher()
	var got []SizeUpdate
	r := NewResize(src, 100, 0, func(u SizeUpdate) { got = append(got, u) })

	start := grid.Size{Width: 2, Height: 2}
	if err := r.Begin("history", start, Point{X: 200, Y: 200}); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	src.Dispatch(Event{Kind: Move, Point: Point{X: 249, Y: 200}}) // dx 0.49 -> 0
	src.Dispatch(Event{Kind: Move, Point: Point{X: 250, Y: 350}}) // dx 0.5 -> 1, dy 1.5 -> 2
	src.Dispatch(Event{Kind: Up, Point: Point{X: 999, Y: 999}})

	want := []SizeUpdate{
		{WidgetID: "history", Size: grid.Size{Width: 2, Height: 2}, Phase: Live},
		{WidgetID: "history", Size: grid.Size{Width: 3, Height: 4}, Phase: Live},
		{WidgetID: "history", Size: grid.Size{Width: 3, Height: 4}, Phase: Committed},
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d updates, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("update %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if src.Listeners() != 0 || r.State() != Idle {
		t.Errorf("After pointer-up: listeners=%d state=%s", src.Listeners(), r.State())
	}
}

func TestResizeClampsToSpan(t *testing.T) {
	tests := []struct {
		name string
		to   Point
		want grid.Size
	}{
		{"grow past max span", Point{X: 2000, Y: 2000}, grid.Size{Width: 6, Height: 6}},
		{"shrink below one cell", Point{X: -2000, Y: -2000}, grid.Size{Width: 1, Height: 1}},
		{"negative half rounds toward zero", Point{X: -50, Y: -150}, grid.Size{Width: 2, Height: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewDispatcher()
			var last SizeUpdate
			r := NewResize(src, 100, DefaultMaxSpan, func(u SizeUpdate) { last = u })

			if err := r.Begin("w", grid.Size{Width: 2, Height: 2}, Point{}); err != nil {
				t.Fatalf("Begin failed: %v", err)
			}
			src.Dispatch(Event{Kind: Move, Point: tt.to})
			if last.Size != tt.want {
				t.Errorf("Size = %+v, want %+v", last.Size, tt.want)
			}
			r.Close()
		})
	}
}

func TestResizeCancelRollsBack(t *testing.T) {
	src := NewDispatcher()
	var got []SizeUpdate
	r := NewResize(src, 100, 0, func(u SizeUpdate) { got = append(got, u) })

	start := grid.Size{Width: 1, Height: 1}
	if err := r.Begin("w", start, Point{}); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	src.Dispatch(Event{Kind: Move, Point: Point{X: 300, Y: 0}})
	src.Dispatch(Event{Kind: Cancel})

	last := got[len(got)-1]
	if last.Phase != Cancelled || last.Size != start {
		t.Errorf("Expected Cancelled update with start size, got %+v", last)
	}
	if src.Listeners() != 0 {
		t.Errorf("Listener leaked after cancel: %d", src.Listeners())
	}
}

func TestResizeCloseDuringGesture(t *testing.T) {
	src := NewDispatcher()
	var got []SizeUpdate
	r := NewResize(src, 100, 0, func(u SizeUpdate) { got = append(got, u) })

	if err := r.Begin("w", grid.Size{Width: 3, Height: 3}, Point{}); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	r.Close()

	if len(got) != 1 || got[0].Phase != Cancelled {
		t.Errorf("Expected one Cancelled update on teardown, got %+v", got)
	}
	if src.Listeners() != 0 || r.State() != Idle {
		t.Errorf("After Close: listeners=%d state=%s", src.Listeners(), r.State())
	}

	r.Close()
	if len(got) != 1 {
		t.Errorf("Close on idle resize must not emit, got %d updates", len(got))
	}
}
