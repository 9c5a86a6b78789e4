// Package grid is the dashboard's widget layout model.
//
// A layout is a grid of Columns x Rows cells holding rectangular widgets.
// Widget rectangles are half-open: a widget at X with Width W covers columns
// X through X+W-1. The layout invariant is that every widget lies inside
// [0, Columns) x [0, Rows) and no two widgets share a cell.
//
// ValidateLayout is the pure boolean check; Diagnose lists each violation.
// Layout edits (Add, Move, Resize) validate a trial copy and only commit it
// when the invariant holds, so a rejected edit never leaves the layout in an
// invalid state.
package grid
