package entity

import "image"

// DecodedImage はデコード済みのRGB画像です。レンダリング処理のみが所有し、変更しません。
type DecodedImage struct {
	Pixels *image.NRGBA
}

// Width は画像の幅（ピクセル）です。
func (d *DecodedImage) Width() int { return d.Pixels.Bounds().Dx() }

// Height は画像の高さ（ピクセル）です。
func (d *DecodedImage) Height() int { return d.Pixels.Bounds().Dy() }

// Annotation は画像に重ねる1つの矩形とキャプションです。
type Annotation struct {
	Box     PixelBox
	Caption string
}

// Analysis は検出・取得・デコード・座標変換までの結果です。
type Analysis struct {
	Request     DetectionRequest
	Labels      []Label
	Image       *DecodedImage
	Annotations []Annotation
}
