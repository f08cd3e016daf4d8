// Package shader holds the GLSL sources and the constants they are built
// from: the YCbCr to RGB conversion and the full-screen triangle.
package shader

// ColorSpace is the fixed YCbCr to RGB conversion applied in the fragment
// stage:
//
//	y      = luma - LumaBias
//	cb, cr = chroma - ChromaBias
//	rgb    = Matrix * (y, cb, cr)
//
// Matrix is row-major: Matrix[0] produces R.
type ColorSpace struct {
	Matrix     [3][3]float32
	LumaBias   float32
	ChromaBias float32
}

// BT601 is the limited-range BT.601 conversion used for all playback.
//
//	| 1.164  0.000  1.596 |
//	| 1.164 -0.392 -0.813 |
//	| 1.164  2.017  0.000 |
//
// with LumaBias 16/255 and ChromaBias 0.5. These values are configuration,
// not derived, and must not be rounded or recomputed.
var BT601 = ColorSpace{
	Matrix: [3][3]float32{
		{1.164, 0.000, 1.596},
		{1.164, -0.392, -0.813},
		{1.164, 2.017, 0.000},
	},
	LumaBias:   16.0 / 255.0,
	ChromaBias: 0.5,
}

// Convert applies the conversion to normalised samples (0..1), exactly as
// the fragment shader does before clamping to the framebuffer range.
func (cs ColorSpace) Convert(luma, cb, cr float32) (r, g, b float32) {
	y := luma - cs.LumaBias
	u := cb - cs.ChromaBias
	v := cr - cs.ChromaBias
	m := cs.Matrix
	r = m[0][0]*y + m[0][1]*u + m[0][2]*v
	g = m[1][0]*y + m[1][1]*u + m[1][2]*v
	b = m[2][0]*y + m[2][1]*u + m[2][2]*v
	return r, g, b
}

// ConvertBytes converts 8-bit samples the way the GPU samples them from
// unsigned normalised textures, clamped to 0..1.
func (cs ColorSpace) ConvertBytes(luma, cb, cr byte) (r, g, b float32) {
	r, g, b = cs.Convert(float32(luma)/255, float32(cb)/255, float32(cr)/255)
	return clamp01(r), clamp01(g), clamp01(b)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
