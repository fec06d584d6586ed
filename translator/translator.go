// Package translator validates WebGL2 fragment shaders and rewrites them as
// desktop GLSL with goshadertranslator.
package translator

import (
	"context"
	"fmt"
	"sync"

	"github.com/richinsley/goshaderplay/renderer"
	gst "github.com/richinsley/goshadertranslator"
)

var (
	shared     *gst.ShaderTranslator
	sharedErr  error
	sharedOnce sync.Once
)

// GetTranslator returns the process-wide translator, creating it on first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	sharedOnce.Do(func() {
		shared, sharedErr = gst.NewShaderTranslator(context.Background())
	})
	return shared, sharedErr
}

// WebGL2 adapts goshadertranslator to renderer.Translator. Sources are
// validated as WebGL2 GLSL ES 3.00 and emitted as GLSL 4.10.
type WebGL2 struct {
	t *gst.ShaderTranslator
}

// New returns a WebGL2 translator backed by the shared instance.
func New() (*WebGL2, error) {
	t, err := GetTranslator()
	if err != nil {
		return nil, fmt.Errorf("creating shader translator: %w", err)
	}
	return &WebGL2{t: t}, nil
}

func (w *WebGL2) Translate(source string) (*renderer.Translation, error) {
	out, err := w.t.TranslateShader(source, "fragment", gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		// the compiler log is the whole message; the editor parses it
		return nil, err
	}
	names := make(map[string]string, len(out.Variables))
	for name, v := range out.Variables {
		names[name] = v.MappedName
	}
	return &renderer.Translation{Code: out.Code, Names: names}, nil
}
