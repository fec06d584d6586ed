package editor

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Measurer reports how tall a block of text renders in the editor font.
type Measurer interface {
	LineHeight() float64
	TextHeight(text string) float64
}

// FaceMetrics measures text with a font.Face.
type FaceMetrics struct {
	face font.Face
}

// NewFaceMetrics returns metrics for face. A nil face selects basicfont.Face7x13.
func NewFaceMetrics(face font.Face) *FaceMetrics {
	if face == nil {
		face = basicfont.Face7x13
	}
	return &FaceMetrics{face: face}
}

// Face returns the measured face so renderers can draw with the same font.
func (m *FaceMetrics) Face() font.Face {
	return m.face
}

func (m *FaceMetrics) LineHeight() float64 {
	return float64(m.face.Metrics().Height) / 64
}

// TextHeight mirrors a preformatted block: each newline ends a line and a
// trailing newline does not open another one.
func (m *FaceMetrics) TextHeight(text string) float64 {
	return float64(lineCount(text)) * m.LineHeight()
}

// Advance is the width of one glyph run in pixels.
func (m *FaceMetrics) Advance(text string) float64 {
	return float64(font.MeasureString(m.face, text)) / 64
}

func lineCount(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
