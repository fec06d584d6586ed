// Package overlay draws the code editor over the shader output: the editor
// model is rasterized on the CPU with golang.org/x/image/font and blitted as a
// single alpha-blended texture.
package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/richinsley/goshaderplay/editor"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	padding  = 8
	tabWidth = 4
)

var (
	backgroundColor = color.RGBA{0x00, 0x00, 0x00, 0x80}
	textColor       = color.RGBA{0xf0, 0xf0, 0xf0, 0xff}
	selectionColor  = color.RGBA{0x30, 0x50, 0x90, 0xc0}
	caretColor      = color.RGBA{0xff, 0xcc, 0x00, 0xff}
	indicatorColor  = color.RGBA{0xa0, 0x10, 0x10, 0x80}
	panelColor      = color.RGBA{0x60, 0x00, 0x00, 0xe0}
	panelFocusColor = color.RGBA{0x90, 0x00, 0x00, 0xf0}
)

// Raster renders an editor into an RGBA image the size of the window.
type Raster struct {
	metrics *editor.FaceMetrics
	img     *image.RGBA
}

// NewRaster draws with the face the editor measures with.
func NewRaster(metrics *editor.FaceMetrics) *Raster {
	return &Raster{metrics: metrics, img: image.NewRGBA(image.Rect(0, 0, 1, 1))}
}

// Image is the most recent rendering.
func (r *Raster) Image() *image.RGBA {
	return r.img
}

// Resize reallocates the target when the window size changes.
func (r *Raster) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if b := r.img.Bounds(); b.Dx() == width && b.Dy() == height {
		return
	}
	r.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

// ClientHeight is the part of the target that shows buffer text.
func (r *Raster) ClientHeight() float64 {
	return float64(r.img.Bounds().Dy() - 2*padding)
}

// Draw renders e. A hidden editor leaves the target fully transparent.
func (r *Raster) Draw(e *editor.Editor) {
	bounds := r.img.Bounds()
	draw.Draw(r.img, bounds, image.Transparent, image.Point{}, draw.Src)
	if e.Hidden() {
		return
	}
	draw.Draw(r.img, bounds, image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	lh := r.metrics.LineHeight()
	top := float64(padding) - e.ScrollTop()
	errState := e.Error()

	if errState.IndicatorVisible && errState.IndicatorTop > 0 {
		y := top + errState.IndicatorTop - lh
		r.fill(image.Rect(0, round(y), bounds.Dx(), round(y+lh)), indicatorColor)
	}

	text := e.Text()
	selStart, selEnd := e.Selection()
	offset := 0
	for i, line := range strings.Split(text, "\n") {
		y := top + float64(i)*lh
		lineStart, lineEnd := offset, offset+len(line)
		offset = lineEnd + 1
		if y+lh < 0 || y > float64(bounds.Dy()) {
			continue
		}
		if selStart < selEnd && selStart <= lineEnd && selEnd > lineStart {
			from := max(selStart, lineStart) - lineStart
			to := min(selEnd, lineEnd) - lineStart
			x0 := padding + r.advance(line[:from])
			x1 := padding + r.advance(line[:to])
			if selEnd > lineEnd {
				x1 += r.advance(" ")
			}
			r.fill(image.Rect(round(x0), round(y), round(x1), round(y+lh)), selectionColor)
		}
		r.text(line, padding, y)
		if e.Focused() && selStart == selEnd && selEnd >= lineStart && selEnd <= lineEnd {
			x := padding + r.advance(line[:selEnd-lineStart])
			r.fill(image.Rect(round(x), round(y), round(x)+1, round(y+lh)), caretColor)
		}
	}

	if errState.PanelVisible {
		r.panel(errState)
	}
}

func panelLines(s editor.ErrorState) []string {
	return strings.Split(strings.TrimRight(s.Message, "\n"), "\n")
}

// panelTop is where the diagnostic panel starts; it is pinned to the bottom
// edge and grows with the message.
func (r *Raster) panelTop(s editor.ErrorState) float64 {
	height := float64(len(panelLines(s)))*r.metrics.LineHeight() + 2*padding
	return float64(r.img.Bounds().Dy()) - height
}

// PanelAt reports whether (x, y) in window coordinates falls on the visible
// diagnostic panel of e.
func (r *Raster) PanelAt(e *editor.Editor, x, y float64) bool {
	s := e.Error()
	if e.Hidden() || !s.PanelVisible {
		return false
	}
	bounds := r.img.Bounds()
	return x >= 0 && x < float64(bounds.Dx()) && y >= r.panelTop(s) && y < float64(bounds.Dy())
}

func (r *Raster) panel(s editor.ErrorState) {
	bounds := r.img.Bounds()
	lh := r.metrics.LineHeight()
	y := r.panelTop(s)

	c := panelColor
	if s.PanelFocused {
		c = panelFocusColor
	}
	r.fill(image.Rect(0, round(y), bounds.Dx(), bounds.Dy()), c)
	for i, line := range panelLines(s) {
		r.text(line, padding, y+padding+float64(i)*lh)
	}
}

func (r *Raster) fill(rect image.Rectangle, c color.Color) {
	draw.Draw(r.img, rect.Intersect(r.img.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

func (r *Raster) text(line string, x, y float64) {
	face := r.metrics.Face()
	d := font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(textColor),
		Face: face,
		Dot:  fixed.P(round(x), round(y)+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(expandTabs(line))
}

func (r *Raster) advance(prefix string) float64 {
	return r.metrics.Advance(expandTabs(prefix))
}

// expandTabs replaces tabs with spaces up to the next tab stop; the bitmap
// faces have no tab glyph.
func expandTabs(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var b strings.Builder
	col := 0
	for _, c := range s {
		if c == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(c)
		col++
	}
	return b.String()
}

func round(v float64) int {
	return int(math.Round(v))
}
