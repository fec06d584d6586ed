package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedLines float64

func (f fixedLines) LineHeight() float64 { return float64(f) }
func (f fixedLines) TextHeight(text string) float64 {
	return float64(lineCount(text)) * float64(f)
}

func TestTabAtCursor(t *testing.T) {
	e := New(fixedLines(10))
	e.SetText("ab")
	e.SetSelection(1, 1)

	e.HandleTab(false)

	assert.Equal(t, "a\tb", e.Text())
	start, end := e.Selection()
	assert.Equal(t, 2, start)
	assert.Equal(t, 2, end)
}

func TestTabIndentRoundTrip(t *testing.T) {
	const original = "void main() {\nfloat a = 1.;\n  O = vec4(a);\n}"
	e := New(fixedLines(10))
	e.SetText(original)
	// select lines 1-3
	e.SetSelection(0, len("void main() {\nfloat a = 1.;\n  O = vec4(a);"))

	e.HandleTab(false)
	assert.Equal(t, "\tvoid main() {\n\tfloat a = 1.;\n\t  O = vec4(a);\n}", e.Text())
	start, end := e.Selection()
	assert.Equal(t, 0, start)
	assert.Equal(t, len("\tvoid main() {\n\tfloat a = 1.;\n\t  O = vec4(a);"), end)

	e.HandleTab(true)
	assert.Equal(t, original, e.Text())
}

func TestUnindentRemovesOneUnitPerLine(t *testing.T) {
	e := New(fixedLines(10))
	e.SetText("\t\tx\n  y\nz")
	e.SetSelection(0, len(e.Text()))

	e.HandleTab(true)

	assert.Equal(t, "\tx\n y\nz", e.Text())
}

func TestShiftTabWithoutSelectionIndents(t *testing.T) {
	e := New(fixedLines(10))
	e.SetText("x")

	e.HandleTab(true)

	assert.Equal(t, "\tx", e.Text())
}

func TestEnterCarriesIndent(t *testing.T) {
	e := New(fixedLines(10))
	e.SetClientHeight(1000)
	e.SetText("{\n\t  foo")
	e.SetSelection(len(e.Text()), len(e.Text()))

	e.HandleEnter()

	assert.Equal(t, "{\n\t  foo\n\t  ", e.Text())
	start, end := e.Selection()
	assert.Equal(t, len(e.Text()), start)
	assert.Equal(t, start, end)
}

func TestEnterIndentStopsAtCursor(t *testing.T) {
	e := New(fixedLines(10))
	e.SetClientHeight(1000)
	e.SetText("    x")
	e.SetSelection(2, 2)

	e.HandleEnter()

	assert.Equal(t, "  \n    x", e.Text())
}

func TestEnterScrollsMinimally(t *testing.T) {
	text := "1\n2\n3\n4\n5\n6\n7\n8\n9\n10"
	endOfLine5 := len("1\n2\n3\n4\n5")

	t.Run("down", func(t *testing.T) {
		e := New(fixedLines(10))
		e.SetClientHeight(30)
		e.SetText(text)
		e.SetSelection(endOfLine5, endOfLine5)

		e.HandleEnter()
		// line 5 bottom edge (+2 lines) is 70px, minus the 30px viewport
		assert.Equal(t, 40.0, e.ScrollTop())
	})

	t.Run("up", func(t *testing.T) {
		e := New(fixedLines(10))
		e.SetClientHeight(30)
		e.SetText(text)
		e.SetScrollTop(100)
		e.SetSelection(2, 2)

		e.HandleEnter()
		assert.Equal(t, 10.0, e.ScrollTop())
	})

	t.Run("visible", func(t *testing.T) {
		e := New(fixedLines(10))
		e.SetClientHeight(100)
		e.SetText(text)
		e.SetSelection(2, 2)

		e.HandleEnter()
		assert.Equal(t, 0.0, e.ScrollTop())
	})
}

func TestErrorLine(t *testing.T) {
	cases := map[string]int{
		"ERROR: 0:5: 'foo' : undeclared identifier":          5,
		"translation failed: ERROR: 0:12: syntax error\n":     12,
		"WARNING: 0:3: nothing\nERROR: 1:7: 'x' : redefined": 7,
		"link failed":                                         0,
		"":                                                    0,
	}
	for msg, want := range cases {
		assert.Equal(t, want, ErrorLine(msg), msg)
	}
}

func TestSetErrorPositionsIndicator(t *testing.T) {
	e := New(NewFaceMetrics(nil))

	e.SetError("ERROR: 0:5: 'foo' : undeclared identifier")

	st := e.Error()
	assert.True(t, st.PanelVisible)
	assert.True(t, st.IndicatorVisible)
	assert.Equal(t, "ERROR: 0:5: 'foo' : undeclared identifier", st.Message)
	// basicfont.Face7x13 lines are 13px tall
	assert.Equal(t, 65.0, st.IndicatorTop)

	e.SetError("something unparseable")
	assert.Equal(t, 0.0, e.Error().IndicatorTop)
}

func TestClearErrorRestoresInitialState(t *testing.T) {
	e := New(fixedLines(10))
	initial := e.Error()

	e.SetError("ERROR: 0:2: bad")
	e.FocusError()
	require.True(t, e.Error().PanelFocused)

	e.ClearError()
	assert.Equal(t, initial, e.Error())

	e.ClearError()
	assert.Equal(t, initial, e.Error())
}

func TestHiddenTogglesAsUnit(t *testing.T) {
	e := New(fixedLines(10))

	e.SetHidden(true)
	assert.True(t, e.Hidden())
	assert.False(t, e.Focused())

	e.SetHidden(false)
	assert.False(t, e.Hidden())
	assert.True(t, e.Focused())
}

func TestOnChange(t *testing.T) {
	e := New(fixedLines(10))
	var got []string
	e.OnChange(func(text string) { got = append(got, text) })

	e.SetText("ab")
	assert.Empty(t, got)

	e.SetSelection(2, 2)
	e.Insert("c")
	e.Backspace()
	e.HandleTab(false)
	assert.Equal(t, []string{"abc", "ab", "ab\t"}, got)
}

func TestBackspaceAndDelete(t *testing.T) {
	e := New(fixedLines(10))
	e.SetText("héllo")

	e.SetSelection(3, 3)
	e.Backspace()
	assert.Equal(t, "hllo", e.Text())

	e.Delete()
	assert.Equal(t, "hlo", e.Text())

	e.SetSelection(0, 2)
	e.Delete()
	assert.Equal(t, "o", e.Text())

	e.SetSelection(0, 0)
	e.Backspace()
	assert.Equal(t, "o", e.Text())
}

func TestCaretMovement(t *testing.T) {
	e := New(fixedLines(10))
	e.SetText("abcd\nx\nefgh")
	e.SetSelection(3, 3)

	e.MoveDown()
	line, col := e.CaretLine()
	assert.Equal(t, 2, line)
	assert.Equal(t, 1, col)

	e.MoveDown()
	line, col = e.CaretLine()
	assert.Equal(t, 3, line)
	assert.Equal(t, 1, col)

	e.End()
	_, col = e.CaretLine()
	assert.Equal(t, 4, col)

	e.MoveUp()
	e.MoveUp()
	line, col = e.CaretLine()
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)

	e.Home()
	e.MoveLeft()
	start, _ := e.Selection()
	assert.Equal(t, 0, start)

	e.MoveRight()
	start, _ = e.Selection()
	assert.Equal(t, 1, start)
}

func TestScrollToCaret(t *testing.T) {
	e := New(fixedLines(10))
	e.SetText("1\n2\n3\n4\n5\n6\n7\n8")
	e.SetClientHeight(30)

	e.SetSelection(len(e.Text()), len(e.Text()))
	e.ScrollToCaret()
	assert.Equal(t, 50.0, e.ScrollTop())

	e.SetSelection(0, 0)
	e.ScrollToCaret()
	assert.Equal(t, 0.0, e.ScrollTop())

	e.SetSelection(2, 2)
	e.ScrollToCaret()
	assert.Equal(t, 0.0, e.ScrollTop(), "visible line does not scroll")
}
