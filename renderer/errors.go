package renderer

import "errors"

// ErrNoContext means no WebGL2-class GL context could be acquired.
var ErrNoContext = errors.New("renderer: no OpenGL 3.3+ context")

// CompileError carries a shader compiler log. Error returns the log
// unchanged so its "ERROR: <col>:<line>:" prefixes survive.
type CompileError struct {
	Log string
}

func (e *CompileError) Error() string {
	return e.Log
}

// LinkError carries a program link log.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return "link failed: " + e.Log
}
