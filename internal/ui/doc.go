// Package ui formats lumen's terminal output.
//
// Each Formatter names a kind of content rather than a colour:
//
//	ui.Code.Sprint("lumen wallet unlock")
//	ui.Highlight.Sprint(keyID)
//	ui.Change(quote.Change24h)
//
// Colour follows fatih/color's terminal detection and is switched off when
// NO_COLOR is set. Plain output keeps the meaning with markers: Code gets
// `backticks`, Highlight 'quotes' and Muted (parentheses).
//
// Fields lines up label/value blocks such as the wallet status summary.
package ui
