package ui

import "strings"

// Field is one labelled line of a status block.
type Field struct {
	Label string
	Value string
}

// Fields renders labelled values with the labels padded to a common width.
// Values are printed as given so callers can colour them first.
func Fields(fields ...Field) string {
	width := 0
	for _, f := range fields {
		if len(f.Label) > width {
			width = len(f.Label)
		}
	}

	var b strings.Builder
	for _, f := range fields {
		b.WriteString("  ")
		b.WriteString(f.Label)
		b.WriteString(":")
		b.WriteString(strings.Repeat(" ", width-len(f.Label)+1))
		b.WriteString(f.Value)
		b.WriteString("\n")
	}
	return b.String()
}
