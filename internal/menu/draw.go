package menu

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	xdraw "golang.org/x/image/draw"
)

// Style holds the menu colors and label sizing.
type Style struct {
	Background   color.RGBA
	ButtonColor  color.RGBA
	LabelColor   color.RGBA
	CornerRadius int
	LabelScale   int // integer upscale of the 7x13 bitmap font
	LabelPadding int
}

// DefaultStyle is dark grey with blue rounded buttons and white labels.
var DefaultStyle = Style{
	Background:   color.RGBA{30, 30, 30, 255},
	ButtonColor:  color.RGBA{0, 150, 255, 255},
	LabelColor:   color.RGBA{255, 255, 255, 255},
	CornerRadius: 12,
	LabelScale:   3,
	LabelPadding: 8,
}

// Render draws the grid onto a new width x height image.
func (g Grid) Render(width, height int, style Style) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{style.Background}, image.Point{}, draw.Src)

	for _, b := range g.Buttons {
		FillRoundedRect(img, b.Rect, style.CornerRadius, style.ButtonColor)
		DrawLabel(img, b.Rect, b.Source.Name(), style)
	}
	return img
}

// FillRoundedRect fills r with c, leaving the corners outside radius unset.
func FillRoundedRect(dst *image.RGBA, r image.Rectangle, radius int, c color.RGBA) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	if limit := min(r.Dx(), r.Dy()) / 2; radius > limit {
		radius = limit
	}

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if insideCorner(x, y, r, radius) {
				dst.SetRGBA(x, y, c)
			}
		}
	}
}

func insideCorner(x, y int, r image.Rectangle, radius int) bool {
	if radius <= 0 {
		return true
	}
	// distance from the nearest corner circle center, if in a corner box
	cx, cy := x, y
	switch {
	case x < r.Min.X+radius:
		cx = r.Min.X + radius
	case x >= r.Max.X-radius:
		cx = r.Max.X - radius - 1
	}
	switch {
	case y < r.Min.Y+radius:
		cy = r.Min.Y + radius
	case y >= r.Max.Y-radius:
		cy = r.Max.Y - radius - 1
	}
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= radius*radius
}

// DrawLabel draws text centered in r, scaled up by style.LabelScale and
// shortened with "..." when it does not fit.
func DrawLabel(dst *image.RGBA, r image.Rectangle, text string, style Style) {
	scale := style.LabelScale
	if scale < 1 {
		scale = 1
	}
	face := basicfont.Face7x13
	maxWidth := (r.Dx() - 2*style.LabelPadding) / scale
	text = fitText(face, text, maxWidth)
	if text == "" {
		return
	}

	textWidth := font.MeasureString(face, text).Ceil()
	textHeight := face.Metrics().Height.Ceil()

	// Render at native size, then scale up onto dst
	textImg := image.NewRGBA(image.Rect(0, 0, textWidth, textHeight))
	d := &font.Drawer{
		Dst:  textImg,
		Src:  image.NewUniform(style.LabelColor),
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: face.Metrics().Ascent},
	}
	d.DrawString(text)

	w, h := textWidth*scale, textHeight*scale
	x := r.Min.X + (r.Dx()-w)/2
	y := r.Min.Y + (r.Dy()-h)/2
	xdraw.NearestNeighbor.Scale(dst, image.Rect(x, y, x+w, y+h), textImg, textImg.Bounds(), xdraw.Over, nil)
}

// fitText trims text until it is at most maxWidth pixels wide.
func fitText(face font.Face, text string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if font.MeasureString(face, text).Ceil() <= maxWidth {
		return text
	}
	runes := []rune(text)
	for n := len(runes) - 1; n > 0; n-- {
		s := string(runes[:n]) + "..."
		if font.MeasureString(face, s).Ceil() <= maxWidth {
			return s
		}
	}
	return ""
}
