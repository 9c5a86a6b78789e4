// Package dashboard connects pointer gestures to a widget layout.
//
// A Board owns one layout, the active breakpoint and a pointer dispatcher.
// Gesture engines only propose; the Board runs every proposal through the
// grid validator and either commits it or leaves the layout as it was,
// recording why in LastRejection.
package dashboard
