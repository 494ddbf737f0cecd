package render

import (
	"image"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"label_detection/internal/feature/labeldetection/domain/entity"
)

var captionFace font.Face = basicfont.Face7x13

// Compose draws every annotation onto a copy of img, in order.
func Compose(img *entity.DecodedImage, annotations []entity.Annotation, style Style) *image.NRGBA {
	dst := imaging.Clone(img.Pixels)
	for _, a := range annotations {
		drawRect(dst, a.Box, style)
		x, y := a.Box.CaptionOrigin()
		drawCaption(dst, int(math.Round(x)), int(math.Round(y)), a.Caption, style)
	}
	return dst
}

// drawRect draws an unfilled rectangle with a 1-pixel border.
func drawRect(dst *image.NRGBA, box entity.PixelBox, style Style) {
	x0 := int(math.Round(box.Left))
	y0 := int(math.Round(box.Top))
	x1 := int(math.Round(box.Right()))
	y1 := int(math.Round(box.Bottom()))
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}

	hline(dst, x0, x1, y0, style)
	hline(dst, x0, x1, y1, style)
	vline(dst, x0, y0, y1, style)
	vline(dst, x1, y0, y1, style)
}

func hline(dst *image.NRGBA, x0, x1, y int, style Style) {
	b := dst.Bounds()
	if y < b.Min.Y || y >= b.Max.Y {
		return
	}
	for x := max(x0, b.Min.X); x <= min(x1, b.Max.X-1); x++ {
		dst.Set(x, y, style.Box)
	}
}

func vline(dst *image.NRGBA, x, y0, y1 int, style Style) {
	b := dst.Bounds()
	if x < b.Min.X || x >= b.Max.X {
		return
	}
	for y := max(y0, b.Min.Y); y <= min(y1, b.Max.Y-1); y++ {
		dst.Set(x, y, style.Box)
	}
}

// drawCaption draws text with its baseline at (x, y) over a translucent background.
func drawCaption(dst *image.NRGBA, x, y int, text string, style Style) {
	if text == "" {
		return
	}
	metrics := captionFace.Metrics()
	width := font.MeasureString(captionFace, text).Ceil()
	bg := image.Rect(x-1, y-metrics.Ascent.Ceil(), x+width+1, y+metrics.Descent.Ceil())
	draw.Draw(dst, bg.Intersect(dst.Bounds()), image.NewUniform(style.backgroundFill()), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(style.Text),
		Face: captionFace,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
