package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Logger prints leveled console messages for one CLI invocation.
type Logger struct {
	Verbose bool
	Debug   bool
	// Scope prefixes every line, usually the command path ("lumen wallet unlock").
	Scope string
}

var (
	infoTag  = color.New(color.FgGreen)
	debugTag = color.New(color.FgCyan)
	warnTag  = color.New(color.FgYellow)
	errorTag = color.New(color.FgRed)
)

func (l Logger) emit(w io.Writer, tag *color.Color, level, msg string, args ...any) {
	line := fmt.Sprintf(msg, args...)
	if l.Scope != "" {
		line = l.Scope + ": " + line
	}
	fmt.Fprintln(w, tag.Sprint("["+level+"] ")+line)
}

func (l Logger) Infof(msg string, args ...any) {
	if l.Verbose || l.Debug {
		l.emit(os.Stdout, infoTag, "info", msg, args...)
	}
}

func (l Logger) Debugf(msg string, args ...any) {
	if l.Debug {
		l.emit(os.Stdout, debugTag, "debug", msg, args...)
	}
}

func (l Logger) Warnf(msg string, args ...any) {
	if l.Verbose || l.Debug {
		l.emit(os.Stderr, warnTag, "warn", msg, args...)
	}
}

// WarnfAlways prints a warning regardless of verbosity.
func (l Logger) WarnfAlways(msg string, args ...any) {
	l.emit(os.Stderr, warnTag, "warn", msg, args...)
}

func (l Logger) Errorf(msg string, args ...any) {
	if l.Debug {
		l.emit(os.Stderr, errorTag, "error", msg, args...)
	}
}

// ErrorfAndReturn logs the error in debug mode and returns it so commands can
// `return Logger.ErrorfAndReturn(...)` in one line. %w verbs keep wrapping.
func (l Logger) ErrorfAndReturn(msg string, args ...any) error {
	err := fmt.Errorf(msg, args...)
	l.Errorf("%s", err.Error())
	return err
}
