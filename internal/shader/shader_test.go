package shader

import (
	"math"
	"strings"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestBT601BlackAndWhite(t *testing.T) {
	tests := []struct {
		name    string
		luma    byte
		r, g, b float32
	}{
		{"black at luma bias", 16, 0, 0, 0},
		{"white at 235", 235, 1, 1, 1},
	}
	for _, tt := range tests {
		r, g, b := BT601.ConvertBytes(tt.luma, 128, 128)
		if !near(r, tt.r) || !near(g, tt.g) || !near(b, tt.b) {
			t.Errorf("%s: ConvertBytes(%d,128,128) = (%.4f, %.4f, %.4f), want ≈(%v, %v, %v)",
				tt.name, tt.luma, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}

func TestBT601ExactBias(t *testing.T) {
	r, g, b := BT601.Convert(16.0/255.0, 0.5, 0.5)
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("Convert(bias, 0.5, 0.5) = (%v, %v, %v), want exactly 0", r, g, b)
	}
}

func TestBT601Primaries(t *testing.T) {
	// strong Cr pushes red up and green down, strong Cb pushes blue up
	r, g, _ := BT601.Convert(0.5, 0.5, 0.9)
	if r <= g {
		t.Errorf("high Cr: r=%v g=%v, want r > g", r, g)
	}
	_, g, b := BT601.Convert(0.5, 0.9, 0.5)
	if b <= g {
		t.Errorf("high Cb: b=%v g=%v, want b > g", b, g)
	}
}

func TestBT601Constants(t *testing.T) {
	want := [3][3]float32{
		{1.164, 0.000, 1.596},
		{1.164, -0.392, -0.813},
		{1.164, 2.017, 0.000},
	}
	if BT601.Matrix != want {
		t.Errorf("Matrix = %v, want %v", BT601.Matrix, want)
	}
	if BT601.LumaBias != float32(16.0/255.0) {
		t.Errorf("LumaBias = %v, want 16/255", BT601.LumaBias)
	}
	if BT601.ChromaBias != 0.5 {
		t.Errorf("ChromaBias = %v, want 0.5", BT601.ChromaBias)
	}
}

func TestNV12SourceCarriesConstants(t *testing.T) {
	src := NV12(BT601)
	for _, want := range []string{
		"#version 110",
		"uniform sampler2D texY;",
		"uniform sampler2D texUV;",
		// column-major: Y column, Cb column, Cr column
		"1.164, 1.164, 1.164",
		"0.0, -0.392, 2.017",
		"1.596, -0.813, 0.0",
		"const float LUMA_BIAS = 0.0627451;",
		"const float CHROMA_BIAS = 0.5;",
		".ra - vec2(CHROMA_BIAS)",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("NV12 source missing %q:\n%s", want, src)
		}
	}
}

func TestGLSLFloat(t *testing.T) {
	tests := []struct {
		in   float32
		want string
	}{
		{0, "0.0"},
		{1, "1.0"},
		{-0.392, "-0.392"},
		{2.017, "2.017"},
		{0.5, "0.5"},
	}
	for _, tt := range tests {
		if got := glslFloat(tt.in); got != tt.want {
			t.Errorf("glslFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// interpolate returns the uv the rasteriser assigns at clip-space (x, y).
func interpolate(x, y float32) (u, v float32) {
	tri := FullscreenTriangle
	x0, y0 := tri[0], tri[1]
	x1, y1 := tri[5], tri[6]
	x2, y2 := tri[10], tri[11]
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	l0 := ((y1-y2)*(x-x2) + (x2-x1)*(y-y2)) / det
	l1 := ((y2-y0)*(x-x2) + (x0-x2)*(y-y2)) / det
	l2 := 1 - l0 - l1
	u = l0*tri[3] + l1*tri[8] + l2*tri[13]
	v = l0*tri[4] + l1*tri[9] + l2*tri[14]
	return u, v
}

func TestFullscreenTriangleCoversViewport(t *testing.T) {
	corners := []struct {
		x, y float32
		u, v float32
	}{
		{-1, 1, 0, 0}, // top-left shows the first texture row
		{1, 1, 1, 0},
		{-1, -1, 0, 1},
		{1, -1, 1, 1},
	}
	for _, c := range corners {
		u, v := interpolate(c.x, c.y)
		if !near(u, c.u) || !near(v, c.v) {
			t.Errorf("corner (%v,%v): uv = (%v,%v), want (%v,%v)", c.x, c.y, u, v, c.u, c.v)
		}
	}
}
