package renderer

// Translation is a fragment shader rewritten for the desktop GL driver.
type Translation struct {
	Code string
	// Names maps uniform names in the user's source to the names the
	// translated code declares them under.
	Names map[string]string
}

// Translator validates WebGL2 fragment sources and rewrites them for the
// driver. A failed translation returns the compiler log as its error text.
type Translator interface {
	Translate(source string) (*Translation, error)
}

func (t *Translation) mapped(name string) string {
	if t == nil {
		return name
	}
	if m, ok := t.Names[name]; ok && m != "" {
		return m
	}
	return name
}
