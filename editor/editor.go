// Package editor models a plain-text code editing surface: the buffer,
// selection and scroll position plus the diagnostic panel that shows shader
// compiler errors. Drawing is left to the host.
package editor

import (
	"strings"
	"unicode/utf8"
)

const indentUnit = "\t"

// Editor is the text area model. Offsets are byte offsets into Text.
type Editor struct {
	text     string
	selStart int
	selEnd   int

	scrollTop    float64
	clientHeight float64

	hidden  bool
	focused bool

	err      ErrorState
	metrics  Measurer
	onChange []func(string)
}

// New returns an empty editor measuring lines with m.
func New(m Measurer) *Editor {
	if m == nil {
		m = NewFaceMetrics(nil)
	}
	return &Editor{metrics: m}
}

// Metrics returns the measurer the editor lays out with.
func (e *Editor) Metrics() Measurer {
	return e.metrics
}

// OnChange registers f to run after every user edit of the buffer.
func (e *Editor) OnChange(f func(text string)) {
	e.onChange = append(e.onChange, f)
}

func (e *Editor) changed() {
	for _, f := range e.onChange {
		f(e.text)
	}
}

func (e *Editor) Text() string {
	return e.text
}

// SetText replaces the whole buffer and puts the cursor at the start.
// Like assigning a text area's value, it does not notify OnChange.
func (e *Editor) SetText(text string) {
	e.text = text
	e.selStart, e.selEnd = 0, 0
}

// Selection returns the selected byte range; start == end is a caret.
func (e *Editor) Selection() (int, int) {
	return e.selStart, e.selEnd
}

// SetSelection clamps and orders the range before applying it.
func (e *Editor) SetSelection(start, end int) {
	start, end = e.clamp(start), e.clamp(end)
	if end < start {
		start, end = end, start
	}
	e.selStart, e.selEnd = start, end
}

func (e *Editor) clamp(i int) int {
	return max(0, min(i, len(e.text)))
}

func (e *Editor) selectedText() string {
	return e.text[e.selStart:e.selEnd]
}

func (e *Editor) ScrollTop() float64 {
	return e.scrollTop
}

func (e *Editor) SetScrollTop(v float64) {
	e.scrollTop = max(0, v)
}

// SetClientHeight sets the visible height of the text area in pixels.
func (e *Editor) SetClientHeight(h float64) {
	e.clientHeight = h
}

func (e *Editor) ClientHeight() float64 {
	return e.clientHeight
}

func (e *Editor) Hidden() bool {
	return e.hidden
}

// Focused reports whether the text area has input focus.
func (e *Editor) Focused() bool {
	return e.focused
}

// SetHidden hides or shows the text area, panel and indicator together.
// Showing also focuses the text area.
func (e *Editor) SetHidden(hidden bool) {
	e.hidden = hidden
	if hidden {
		e.focused = false
		return
	}
	e.Focus()
}

func (e *Editor) Focus() {
	e.focused = true
	e.err.PanelFocused = false
}

// replaceSelection behaves like inserting text into a focused text area: the
// selection is replaced and the caret lands after the insertion.
func (e *Editor) replaceSelection(s string) {
	e.text = e.text[:e.selStart] + s + e.text[e.selEnd:]
	e.selStart += len(s)
	e.selEnd = e.selStart
	e.changed()
}

// Insert types s at the caret, replacing any selection.
func (e *Editor) Insert(s string) {
	e.replaceSelection(s)
}

// Backspace removes the selection or the rune before the caret.
func (e *Editor) Backspace() {
	if e.selStart == e.selEnd {
		if e.selStart == 0 {
			return
		}
		_, size := utf8.DecodeLastRuneInString(e.text[:e.selStart])
		e.selStart -= size
	}
	e.replaceSelection("")
}

// Delete removes the selection or the rune after the caret.
func (e *Editor) Delete() {
	if e.selStart == e.selEnd {
		if e.selEnd == len(e.text) {
			return
		}
		_, size := utf8.DecodeRuneInString(e.text[e.selEnd:])
		e.selEnd += size
	}
	e.replaceSelection("")
}

// HandleTab indents at the caret, or indents / unindents every line of the
// selection when shift is held.
func (e *Editor) HandleTab(shift bool) {
	if e.selectedText() == "" {
		e.indentAtCursor()
		return
	}
	if shift {
		e.unindentSelection()
		return
	}
	e.indentSelection()
}

func (e *Editor) indentAtCursor() {
	e.replaceSelection(indentUnit)
}

func (e *Editor) indentSelection() {
	start := e.selStart
	lines := strings.Split(e.selectedText(), "\n")
	for i, l := range lines {
		lines[i] = indentUnit + l
	}
	e.replaceSelection(strings.Join(lines, "\n"))
	e.selStart = start
}

func (e *Editor) unindentSelection() {
	start := e.selStart
	lines := strings.Split(e.selectedText(), "\n")
	for i, l := range lines {
		if strings.HasPrefix(l, "\t") {
			lines[i] = l[1:]
		} else {
			lines[i] = strings.TrimPrefix(l, " ")
		}
	}
	e.replaceSelection(strings.Join(lines, "\n"))
	e.selStart = start
}

// HandleEnter breaks the line, carries the current line's leading
// whitespace over and keeps the caret line in view.
func (e *Editor) HandleEnter() {
	visibleTop := e.scrollTop
	cursor := e.selStart

	lineStart := strings.LastIndexByte(e.text[:cursor], '\n') + 1
	indent := leadingWhitespace(e.text[lineStart:cursor])

	e.replaceSelection("\n" + indent)
	e.scrollTop = visibleTop

	lineHeight := e.metrics.LineHeight()
	line := strings.Count(e.text[:cursor], "\n") + 1
	visibleBottom := e.scrollTop + e.clientHeight
	lineTop := lineHeight * float64(line-1)
	lineBottom := lineHeight * float64(line+2)

	if lineTop < visibleTop {
		e.scrollTop = lineTop
	}
	if lineBottom > visibleBottom {
		e.scrollTop = lineBottom - e.clientHeight
	}
}

func leadingWhitespace(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[:i]
}
