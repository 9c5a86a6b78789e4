// Package gesture converts pointer input into layout edit proposals.
//
// Drag and Resize are small state machines (Idle -> Dragging -> Idle and
// Idle -> Resizing -> Idle). Begin attaches exactly one listener to the
// pointer Source; the listener is released on pointer-up, on Cancel and on
// Close, so no handler outlives its gesture.
//
// Neither engine validates anything. Drag emits a single Candidate on
// pointer-up (none when the pointer ends in the cell it started in); Resize
// emits Live updates on every move, then Committed or Cancelled. Callers run
// proposals through the grid validator and decide whether to apply them.
package gesture
