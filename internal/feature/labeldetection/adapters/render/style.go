package render

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	DefaultBoxColor        = "#ff0000"
	DefaultTextColor       = "#ff0000"
	DefaultBackgroundColor = "#ffffff"
	DefaultBackgroundAlpha = 0.7
)

// Style controls overlay colors.
type Style struct {
	Box             color.Color
	Text            color.Color
	Background      color.Color
	BackgroundAlpha float64 // 0 transparent, 1 opaque
}

// DefaultStyle is a red box and red caption on a semi-opaque white background.
func DefaultStyle() Style {
	s, _ := ParseStyle(DefaultBoxColor, DefaultTextColor)
	return s
}

// ParseStyle builds a Style from "#rrggbb" colors.
func ParseStyle(boxHex, textHex string) (Style, error) {
	box, err := colorful.Hex(boxHex)
	if err != nil {
		return Style{}, fmt.Errorf("invalid box color %q: %w", boxHex, err)
	}
	text, err := colorful.Hex(textHex)
	if err != nil {
		return Style{}, fmt.Errorf("invalid text color %q: %w", textHex, err)
	}
	bg, _ := colorful.Hex(DefaultBackgroundColor)
	return Style{
		Box:             box,
		Text:            text,
		Background:      bg,
		BackgroundAlpha: DefaultBackgroundAlpha,
	}, nil
}

// backgroundFill returns the caption background as a non-premultiplied color.
func (s Style) backgroundFill() color.NRGBA {
	c, ok := colorful.MakeColor(s.Background)
	if !ok {
		c = colorful.Color{R: 1, G: 1, B: 1}
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(s.BackgroundAlpha*255 + 0.5)}
}
