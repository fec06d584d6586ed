package renderer

// Program is a linked program together with the shader objects attached to
// it.
type Program struct {
	ID       uint32
	Vertex   uint32
	Fragment uint32
}

// BuildProgram compiles vertex and fragment and links them on dev. A failed
// stage returns a *CompileError and a failed link a *LinkError; either way no
// GL objects are left behind.
func BuildProgram(dev Device, vertex, fragment string) (Program, error) {
	vs := dev.CreateShader(VertexStage)
	if ok, infoLog := dev.CompileShader(vs, vertex); !ok {
		dev.DeleteShader(vs)
		return Program{}, &CompileError{Log: infoLog}
	}
	fs := dev.CreateShader(FragmentStage)
	if ok, infoLog := dev.CompileShader(fs, fragment); !ok {
		dev.DeleteShader(vs)
		dev.DeleteShader(fs)
		return Program{}, &CompileError{Log: infoLog}
	}

	program := dev.CreateProgram()
	dev.AttachShader(program, vs)
	dev.AttachShader(program, fs)
	if ok, infoLog := dev.LinkProgram(program); !ok {
		dev.DetachShader(program, vs)
		dev.DetachShader(program, fs)
		dev.DeleteShader(vs)
		dev.DeleteShader(fs)
		dev.DeleteProgram(program)
		return Program{}, &LinkError{Log: infoLog}
	}
	return Program{ID: program, Vertex: vs, Fragment: fs}, nil
}
