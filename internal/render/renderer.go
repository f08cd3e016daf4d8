// Package render owns every GL object of the process: the luma and chroma
// textures, the NV12 conversion program, the menu texture and program, and
// the full-screen triangle. All methods must be called from the goroutine
// that owns the GL context.
package render

import (
	"fmt"
	"image"

	"github.com/bryanchriswhite/clipkiosk/internal/frame"
	"github.com/bryanchriswhite/clipkiosk/internal/logger"
	"github.com/bryanchriswhite/clipkiosk/internal/shader"
	"github.com/go-gl/gl/v2.1/gl"
)

// Config fixes texture and viewport sizes for the life of the process.
type Config struct {
	VideoWidth    int
	VideoHeight   int
	SurfaceWidth  int
	SurfaceHeight int
	ColorSpace    shader.ColorSpace
}

// Renderer draws decoded frames and the menu.
type Renderer struct {
	cfg Config

	videoProgram uint32
	lumaLoc      int32
	chromaLoc    int32
	texY         uint32
	texUV        uint32

	menuProgram uint32
	menuLoc     int32
	texMenu     uint32

	vbo uint32
}

// New loads GL entry points and creates all GPU resources. Any failure
// here leaves the process without a usable video path.
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	log := logger.WithComponent("render")
	log.Info().
		Str("version", gl.GoStr(gl.GetString(gl.VERSION))).
		Str("renderer", gl.GoStr(gl.GetString(gl.RENDERER))).
		Msg("OpenGL context ready")

	r := &Renderer{cfg: cfg}

	var err error
	r.videoProgram, err = newProgram(shader.Vertex, shader.NV12(cfg.ColorSpace))
	if err != nil {
		return nil, fmt.Errorf("video program: %w", err)
	}
	r.lumaLoc = uniform(r.videoProgram, shader.UniformLuma)
	r.chromaLoc = uniform(r.videoProgram, shader.UniformChroma)

	r.menuProgram, err = newProgram(shader.Vertex, shader.Image)
	if err != nil {
		gl.DeleteProgram(r.videoProgram)
		return nil, fmt.Errorf("menu program: %w", err)
	}
	r.menuLoc = uniform(r.menuProgram, shader.UniformImage)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	r.texY = newTexture(gl.LUMINANCE, cfg.VideoWidth, cfg.VideoHeight)
	r.texUV = newTexture(gl.LUMINANCE_ALPHA, cfg.VideoWidth/2, cfg.VideoHeight/2)
	r.texMenu = newTexture(gl.RGBA, cfg.SurfaceWidth, cfg.SurfaceHeight)

	tri := shader.FullscreenTriangle
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(tri)*4, gl.Ptr(&tri[0]), gl.STATIC_DRAW)

	gl.Viewport(0, 0, int32(cfg.SurfaceWidth), int32(cfg.SurfaceHeight))
	gl.ClearColor(0, 0, 0, 1)

	log.Debug().
		Int("video_width", cfg.VideoWidth).
		Int("video_height", cfg.VideoHeight).
		Msg("Textures and programs created")

	return r, nil
}

// UploadAndDraw uploads f into the luma and chroma textures and draws it.
// f must be exactly one frame at the configured video size.
func (r *Renderer) UploadAndDraw(f frame.Frame) {
	w, h := r.cfg.VideoWidth, r.cfg.VideoHeight
	luma, chroma := frame.Planes(f, w, h)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.texY)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(w), int32(h), gl.LUMINANCE, gl.UNSIGNED_BYTE, gl.Ptr(&luma[0]))

	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, r.texUV)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(w/2), int32(h/2), gl.LUMINANCE_ALPHA, gl.UNSIGNED_BYTE, gl.Ptr(&chroma[0]))

	r.Redraw()
}

// Redraw draws whatever the video textures currently hold.
func (r *Renderer) Redraw() {
	gl.UseProgram(r.videoProgram)
	gl.Uniform1i(r.lumaLoc, 0)
	gl.Uniform1i(r.chromaLoc, 1)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.texY)
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, r.texUV)

	r.drawTriangle()
}

// Clear fills the surface with black.
func (r *Renderer) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// SetMenu uploads a rendered menu image. img must match the surface size.
func (r *Renderer) SetMenu(img *image.RGBA) {
	b := img.Bounds()
	if b.Dx() != r.cfg.SurfaceWidth || b.Dy() != r.cfg.SurfaceHeight {
		panic(fmt.Sprintf("render: menu image %dx%d, surface is %dx%d", b.Dx(), b.Dy(), r.cfg.SurfaceWidth, r.cfg.SurfaceHeight))
	}
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.texMenu)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(b.Dx()), int32(b.Dy()), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&img.Pix[0]))
}

// DrawMenu draws the last image passed to SetMenu.
func (r *Renderer) DrawMenu() {
	gl.UseProgram(r.menuProgram)
	gl.Uniform1i(r.menuLoc, 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.texMenu)
	r.drawTriangle()
}

func (r *Renderer) drawTriangle() {
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.EnableVertexAttribArray(shader.AttribPosition)
	gl.VertexAttribPointer(shader.AttribPosition, 3, gl.FLOAT, false, shader.VertexStride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(shader.AttribUV)
	gl.VertexAttribPointer(shader.AttribUV, 2, gl.FLOAT, false, shader.VertexStride, gl.PtrOffset(3*4))
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
}

// Delete releases every GL object. Only called at shutdown.
func (r *Renderer) Delete() {
	textures := []uint32{r.texY, r.texUV, r.texMenu}
	gl.DeleteTextures(int32(len(textures)), &textures[0])
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteProgram(r.videoProgram)
	gl.DeleteProgram(r.menuProgram)
	logger.WithComponent("render").Debug().Msg("GPU resources released")
}
