package overlay

import (
	"fmt"
	"log"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshaderplay/editor"
	"github.com/richinsley/goshaderplay/renderer"
	"github.com/richinsley/goshaderplay/shader"
)

// Overlay composites each frame: the shader draws into an offscreen target
// at the backing resolution, which is then stretched over the window with
// the rasterized editor blended on top. It needs the window's GL context to
// be current.
type Overlay struct {
	dev    renderer.Device
	raster *Raster

	blit       uint32
	blitTexLoc int32
	text       uint32
	textTexLoc int32
	vao, vbo   uint32

	fbo           uint32
	target        uint32
	targetW       int32
	targetH       int32
	editorTexture uint32
	editorW       int32
	editorH       int32
}

// New compiles the blit programs on dev and allocates the textures.
func New(dev renderer.Device, metrics *editor.FaceMetrics) (*Overlay, error) {
	vs := shader.VertexShader()
	blit, err := newProgram(dev, vs, shader.BlitFragmentShader(false))
	if err != nil {
		return nil, fmt.Errorf("overlay blit: %w", err)
	}
	text, err := newProgram(dev, vs, shader.BlitFragmentShader(true))
	if err != nil {
		dev.DeleteProgram(blit)
		return nil, fmt.Errorf("overlay text: %w", err)
	}

	o := &Overlay{
		dev:        dev,
		raster:     NewRaster(metrics),
		blit:       blit,
		blitTexLoc: dev.UniformLocation(blit, "u_texture"),
		text:       text,
		textTexLoc: dev.UniformLocation(text, "u_texture"),
	}
	o.vao, o.vbo = dev.CreateQuad(shader.QuadVertices)

	o.target = newTexture(gl.NEAREST)
	o.editorTexture = newTexture(gl.LINEAR)
	gl.GenFramebuffers(1, &o.fbo)

	return o, nil
}

// newProgram links a blit program. The shader objects are released once
// linked since the program is never rebuilt.
func newProgram(dev renderer.Device, vertex, fragment string) (uint32, error) {
	p, err := renderer.BuildProgram(dev, vertex, fragment)
	if err != nil {
		return 0, err
	}
	dev.DeleteShader(p.Vertex)
	dev.DeleteShader(p.Fragment)
	return p.ID, nil
}

func newTexture(filter int32) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

// Raster exposes the CPU side, e.g. for ClientHeight.
func (o *Overlay) Raster() *Raster {
	return o.raster
}

// Resize sets the editor raster size in window coordinates.
func (o *Overlay) Resize(width, height int) {
	o.raster.Resize(width, height)
}

// Begin redirects drawing into the offscreen target sized width x height.
func (o *Overlay) Begin(width, height int) {
	w, h := int32(max(width, 1)), int32(max(height, 1))
	gl.BindFramebuffer(gl.FRAMEBUFFER, o.fbo)
	if w != o.targetW || h != o.targetH {
		gl.BindTexture(gl.TEXTURE_2D, o.target)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
		gl.BindTexture(gl.TEXTURE_2D, 0)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, o.target, 0)
		if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
			log.Printf("Warning: overlay framebuffer incomplete: 0x%x", status)
		}
		o.targetW, o.targetH = w, h
	}
	o.dev.Viewport(0, 0, w, h)
}

// Present draws the target and the editor to the window framebuffer.
func (o *Overlay) Present(e *editor.Editor, fbWidth, fbHeight int) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	o.dev.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
	o.dev.BindQuad(o.vao)
	gl.ActiveTexture(gl.TEXTURE0)

	o.dev.UseProgram(o.blit)
	gl.BindTexture(gl.TEXTURE_2D, o.target)
	o.dev.Uniform1i(o.blitTexLoc, 0)
	o.dev.DrawTriangleStrip(0, 4)

	if !e.Hidden() {
		o.drawEditor(e)
	}

	gl.BindTexture(gl.TEXTURE_2D, 0)
	o.dev.BindQuad(0)
}

func (o *Overlay) drawEditor(e *editor.Editor) {
	o.raster.Draw(e)
	img := o.raster.Image()
	w, h := int32(img.Rect.Dx()), int32(img.Rect.Dy())

	gl.BindTexture(gl.TEXTURE_2D, o.editorTexture)
	if w != o.editorW || h != o.editorH {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
		o.editorW, o.editorH = w, h
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, w, h, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	o.dev.UseProgram(o.text)
	o.dev.Uniform1i(o.textTexLoc, 0)
	o.dev.DrawTriangleStrip(0, 4)
	gl.Disable(gl.BLEND)
}

// Destroy releases the GL objects.
func (o *Overlay) Destroy() {
	gl.DeleteFramebuffers(1, &o.fbo)
	gl.DeleteTextures(1, &o.target)
	gl.DeleteTextures(1, &o.editorTexture)
	o.dev.DeleteQuad(o.vao, o.vbo)
	o.dev.DeleteProgram(o.blit)
	o.dev.DeleteProgram(o.text)
}

// PanelAt reports whether a click at (x, y) hits the diagnostic panel.
func (o *Overlay) PanelAt(e *editor.Editor, x, y float64) bool {
	return o.raster.PanelAt(e, x, y)
}

// ClientHeight is the editor area that shows buffer text.
func (o *Overlay) ClientHeight() float64 {
	return o.raster.ClientHeight()
}
