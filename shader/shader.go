// Package shader holds the fixed GLSL sources the playground draws with
// besides the user's fragment shader.
package shader

const vertexShaderSource = `#version 410 core
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const blitFragmentShaderSourceFlip = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, vec2(frag_uv.x, 1.0 - frag_uv.y)); }
`

const blitFragmentShaderSource = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, frag_uv); }
`

// QuadVertices is the full-screen triangle strip for the blit vertex shader.
var QuadVertices = []float32{
	-1, -1,
	1, -1,
	-1, 1,
	1, 1,
}

// VertexShader passes the quad through and derives frag_uv from it.
func VertexShader() string {
	return vertexShaderSource
}

// BlitFragmentShader samples u_texture across the viewport. flip turns
// top-down images (image.RGBA rows) the right way up.
func BlitFragmentShader(flip bool) string {
	if flip {
		return blitFragmentShaderSourceFlip
	}
	return blitFragmentShaderSource
}
