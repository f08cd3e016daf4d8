package shader

import (
	"fmt"
	"strconv"
	"strings"
)

// Attribute locations bound before linking.
const (
	AttribPosition = 0
	AttribUV       = 1
)

// Sampler uniform names.
const (
	UniformLuma   = "texY"
	UniformChroma = "texUV"
	UniformImage  = "tex"
)

// VertexStride is the byte stride of FullscreenTriangle (3 position + 2 uv floats).
const VertexStride = 5 * 4

// FullscreenTriangle is one triangle larger than the viewport. Clipped to
// the viewport it covers it exactly, with uv (0,0) at the top-left corner
// so texture row 0 (the first row ffmpeg writes) is drawn at the top.
var FullscreenTriangle = [15]float32{
	// x, y, z, u, v
	-1, -1, 0, 0, 1,
	3, -1, 0, 2, 1,
	-1, 3, 0, 0, -1,
}

// Vertex is shared by the video and menu programs (GLSL 1.10, GL 2.1).
const Vertex = `#version 110
attribute vec3 pos;
attribute vec2 uv;
varying vec2 vUv;
void main() {
    gl_Position = vec4(pos, 1.0);
    vUv = uv;
}
`

// Image samples an RGBA texture unchanged; used for the menu.
const Image = `#version 110
uniform sampler2D tex;
varying vec2 vUv;
void main() {
    gl_FragColor = texture2D(tex, vUv);
}
`

// NV12 returns the fragment source converting the luma (GL_LUMINANCE) and
// chroma (GL_LUMINANCE_ALPHA, Cb in .r, Cr in .a) textures with cs.
func NV12(cs ColorSpace) string {
	var b strings.Builder
	b.WriteString("#version 110\n")
	b.WriteString("uniform sampler2D " + UniformLuma + ";\n")
	b.WriteString("uniform sampler2D " + UniformChroma + ";\n")
	b.WriteString("varying vec2 vUv;\n")
	fmt.Fprintf(&b, "const mat3 YUV2RGB = mat3(\n    %s\n);\n", mat3Literal(cs.Matrix))
	fmt.Fprintf(&b, "const float LUMA_BIAS = %s;\n", glslFloat(cs.LumaBias))
	fmt.Fprintf(&b, "const float CHROMA_BIAS = %s;\n", glslFloat(cs.ChromaBias))
	b.WriteString(`void main() {
    float y = texture2D(` + UniformLuma + `, vUv).r - LUMA_BIAS;
    vec2 c = texture2D(` + UniformChroma + `, vUv).ra - vec2(CHROMA_BIAS);
    gl_FragColor = vec4(YUV2RGB * vec3(y, c), 1.0);
}
`)
	return b.String()
}

// mat3Literal writes m in GLSL's column-major constructor order.
func mat3Literal(m [3][3]float32) string {
	cols := make([]string, 0, 3)
	for c := 0; c < 3; c++ {
		cols = append(cols, fmt.Sprintf("%s, %s, %s", glslFloat(m[0][c]), glslFloat(m[1][c]), glslFloat(m[2][c])))
	}
	return strings.Join(cols, ",\n    ")
}

// glslFloat formats v with the shortest exact float32 representation and
// always a decimal point, as GLSL 1.10 has no implicit int to float.
func glslFloat(v float32) string {
	s := strconv.FormatFloat(float64(v), 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
