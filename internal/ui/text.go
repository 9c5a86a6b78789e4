package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

// Formatter renders one kind of CLI text. With colour it paints the text;
// without colour it wraps the text in plain markers instead.
type Formatter struct {
	paint *color.Color
	open  string
	close string
}

func newFormatter(attr color.Attribute, open, close string) Formatter {
	return Formatter{paint: color.New(attr), open: open, close: close}
}

// Sprint formats the arguments and returns the resulting string.
func (f Formatter) Sprint(a ...any) string {
	return f.render(fmt.Sprint(a...))
}

// Sprintf formats according to a format specifier and returns the resulting string.
func (f Formatter) Sprintf(format string, a ...any) string {
	return f.render(fmt.Sprintf(format, a...))
}

func (f Formatter) render(text string) string {
	if Plain() {
		return f.open + text + f.close
	}
	return f.paint.Sprint(text)
}

// Plain reports whether output must stay uncoloured: NO_COLOR is set
// (https://no-color.org/) or fatih/color found no capable terminal.
func Plain() bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return true
	}
	return color.NoColor
}

// EnsureNewline ensures the string ends with a newline character.
func EnsureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// Change renders a 24h percentage change with two decimals and an explicit
// sign, green when the price rose or held and red when it fell.
func Change(pct decimal.Decimal) string {
	text := pct.StringFixed(2) + "%"
	if pct.IsNegative() {
		return Loss.Sprint(text)
	}
	return Gain.Sprint("+" + text)
}

// Semantic formatters for different types of CLI output.
var (
	// Code formats runnable commands. `backticks` without colour.
	Code = newFormatter(color.FgYellow, "`", "`")

	// Path formats file or directory paths.
	Path = newFormatter(color.FgYellow, "", "")

	// Flag formats CLI flags and config keys.
	Flag = newFormatter(color.FgYellow, "", "")

	Success = newFormatter(color.FgGreen, "", "")
	Error   = newFormatter(color.FgRed, "", "")
	Warning = newFormatter(color.FgYellow, "", "")

	// Info formats hints and directional arrows.
	Info = newFormatter(color.FgCyan, "", "")

	// Highlight formats user values: key ids, public keys, widget ids.
	// 'single quotes' without colour.
	Highlight = newFormatter(color.FgCyan, "'", "'")

	// Muted formats secondary text. (parentheses) without colour.
	Muted = newFormatter(color.FgHiBlack, "(", ")")

	// Gain and Loss format price movements.
	Gain = newFormatter(color.FgGreen, "", "")
	Loss = newFormatter(color.FgRed, "", "")
)
