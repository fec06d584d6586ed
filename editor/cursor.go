package editor

import (
	"strings"
	"unicode/utf8"
)

// MoveLeft collapses the selection to its start or steps one rune back.
func (e *Editor) MoveLeft() {
	if e.selStart != e.selEnd {
		e.selEnd = e.selStart
		return
	}
	if e.selStart > 0 {
		_, size := utf8.DecodeLastRuneInString(e.text[:e.selStart])
		e.selStart -= size
	}
	e.selEnd = e.selStart
}

// MoveRight collapses the selection to its end or steps one rune forward.
func (e *Editor) MoveRight() {
	if e.selStart != e.selEnd {
		e.selStart = e.selEnd
		return
	}
	if e.selEnd < len(e.text) {
		_, size := utf8.DecodeRuneInString(e.text[e.selEnd:])
		e.selEnd += size
	}
	e.selStart = e.selEnd
}

// Home moves the caret to the start of its line.
func (e *Editor) Home() {
	e.caret(lineStart(e.text, e.selStart))
}

// End moves the caret to the end of its line.
func (e *Editor) End() {
	e.caret(lineEnd(e.text, e.selEnd))
}

// MoveUp moves the caret to the same rune column on the previous line.
func (e *Editor) MoveUp() {
	start := lineStart(e.text, e.selStart)
	if start == 0 {
		e.caret(0)
		return
	}
	col := utf8.RuneCountInString(e.text[start:e.selStart])
	prev := lineStart(e.text, start-1)
	e.caret(columnOffset(e.text, prev, start-1, col))
}

// MoveDown moves the caret to the same rune column on the next line.
func (e *Editor) MoveDown() {
	end := lineEnd(e.text, e.selEnd)
	if end == len(e.text) {
		e.caret(end)
		return
	}
	col := utf8.RuneCountInString(e.text[lineStart(e.text, e.selEnd):e.selEnd])
	next := end + 1
	e.caret(columnOffset(e.text, next, lineEnd(e.text, next), col))
}

// CaretLine returns the 1-based line and rune column of the caret.
func (e *Editor) CaretLine() (line, col int) {
	start := lineStart(e.text, e.selEnd)
	return strings.Count(e.text[:e.selEnd], "\n") + 1, utf8.RuneCountInString(e.text[start:e.selEnd])
}

func (e *Editor) caret(i int) {
	e.selStart, e.selEnd = i, i
}

func lineStart(text string, i int) int {
	return strings.LastIndexByte(text[:i], '\n') + 1
}

func lineEnd(text string, i int) int {
	if n := strings.IndexByte(text[i:], '\n'); n >= 0 {
		return i + n
	}
	return len(text)
}

// columnOffset returns the offset of rune column col within [start, end).
func columnOffset(text string, start, end, col int) int {
	i := start
	for n := 0; n < col && i < end; n++ {
		_, size := utf8.DecodeRuneInString(text[i:end])
		i += size
	}
	return i
}

// ScrollToCaret scrolls the least amount that brings the caret line into view.
func (e *Editor) ScrollToCaret() {
	lh := e.metrics.LineHeight()
	line, _ := e.CaretLine()
	top := lh * float64(line-1)
	bottom := lh * float64(line)
	switch {
	case top < e.scrollTop:
		e.scrollTop = top
	case bottom > e.scrollTop+e.clientHeight:
		e.scrollTop = bottom - e.clientHeight
	}
}
