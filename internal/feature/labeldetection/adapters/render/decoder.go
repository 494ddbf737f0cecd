package render

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"

	"label_detection/internal/feature/labeldetection/domain"
	"label_detection/internal/feature/labeldetection/domain/entity"
	"label_detection/internal/feature/labeldetection/usecase"
)

// ErrEmptyImage is returned when there are no bytes to decode.
var ErrEmptyImage = errors.New("image data is empty")

// Decoder converts raw bytes to a 3-channel image.
type Decoder struct{}

var _ usecase.ImageDecoder = Decoder{}

// NewDecoder returns a Decoder.
func NewDecoder() Decoder {
	return Decoder{}
}

// Decode decodes JPEG, PNG, GIF, BMP or TIFF data into an opaque NRGBA image.
// Pixels keep their stored layout; EXIF orientation tags are ignored.
func (Decoder) Decode(data []byte) (*entity.DecodedImage, error) {
	if len(data) == 0 {
		return nil, domain.NewError(domain.KindDecode, "decoder", "", ErrEmptyImage)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, domain.NewError(domain.KindDecode, "decoder", "", fmt.Errorf("failed to decode image: %w", err))
	}

	pixels := imaging.Clone(img)
	// drop alpha
	for i := 3; i < len(pixels.Pix); i += 4 {
		pixels.Pix[i] = 0xff
	}
	return &entity.DecodedImage{Pixels: pixels}, nil
}
