package renderer

// ShaderStage selects the pipeline stage a shader object is compiled for.
type ShaderStage int

const (
	VertexStage ShaderStage = iota
	FragmentStage
)

// Device is the set of GL entry points the renderer drives. GLDevice
// implements it with go-gl; tests substitute a recording fake.
type Device interface {
	CreateShader(stage ShaderStage) uint32
	// CompileShader uploads source and compiles it, returning the info log
	// when compilation fails.
	CompileShader(shader uint32, source string) (ok bool, infoLog string)
	DeleteShader(shader uint32)
	ShaderDeletePending(shader uint32) bool

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32) (ok bool, infoLog string)
	DeleteProgram(program uint32)
	ProgramDeletePending(program uint32) bool
	UseProgram(program uint32)
	UniformLocation(program uint32, name string) int32

	// CreateQuad uploads vertices (xy pairs) into a vertex array bound to
	// attribute location 0.
	CreateQuad(vertices []float32) (vao, vbo uint32)
	BindQuad(vao uint32)
	DeleteQuad(vao, vbo uint32)

	Viewport(x, y, width, height int32)
	Clear(r, g, b, a float32)
	Uniform1f(location int32, v float32)
	Uniform1i(location int32, v int32)
	Uniform2f(location int32, x, y float32)
	Uniform2fv(location int32, values []float32)
	DrawTriangleStrip(first, count int32)
}
