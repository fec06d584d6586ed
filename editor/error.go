package editor

import (
	"regexp"
	"strconv"
	"strings"
)

// diagnosticLine matches the "ERROR: <column>:<line>:" prefix emitted by
// WebGL shader compilers.
var diagnosticLine = regexp.MustCompile(`ERROR: \d+:(\d+):`)

// ErrorLine extracts the 1-based line from a compiler diagnostic, or 0.
func ErrorLine(message string) int {
	m := diagnosticLine.FindStringSubmatch(message)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// ErrorState is what the diagnostic panel and line indicator show.
type ErrorState struct {
	Message          string
	PanelVisible     bool
	PanelFocused     bool
	IndicatorVisible bool
	IndicatorTop     float64
}

// SetError shows message in the panel and moves the indicator to the line
// it names.
func (e *Editor) SetError(message string) {
	e.err.Message = message
	e.err.PanelVisible = true

	probe := strings.Repeat("\n", ErrorLine(message))
	e.err.IndicatorTop = e.metrics.TextHeight(probe)
	e.err.IndicatorVisible = true
}

// ClearError hides the panel and indicator.
func (e *Editor) ClearError() {
	e.err = ErrorState{}
}

// Error returns the current diagnostic state.
func (e *Editor) Error() ErrorState {
	return e.err
}

// FocusError gives the diagnostic panel focus, e.g. to copy its text.
func (e *Editor) FocusError() {
	if e.err.PanelVisible {
		e.err.PanelFocused = true
		e.focused = false
	}
}
