package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"

	"label_detection/internal/feature/labeldetection/domain/entity"
	"label_detection/internal/feature/labeldetection/usecase"
)

// FilePresenter saves the composed image to Path. The format follows the
// file extension (.png, .jpg, .gif, .tif, .bmp).
type FilePresenter struct {
	Path  string
	Style Style
}

var _ usecase.ImagePresenter = (*FilePresenter)(nil)

// NewFilePresenter returns a FilePresenter using the default style.
func NewFilePresenter(path string) *FilePresenter {
	return &FilePresenter{Path: path, Style: DefaultStyle()}
}

// Present composes the overlays and writes the file.
func (p *FilePresenter) Present(_ context.Context, img *entity.DecodedImage, annotations []entity.Annotation) error {
	if err := imaging.Save(Compose(img, annotations, p.Style), p.Path); err != nil {
		return fmt.Errorf("failed to save annotated image: %w", err)
	}
	slog.Info("annotated image saved", "path", p.Path, "boxes", len(annotations))
	return nil
}

// NopPresenter discards the image. Used in headless runs and tests.
type NopPresenter struct{}

var _ usecase.ImagePresenter = NopPresenter{}

// Present does nothing.
func (NopPresenter) Present(context.Context, *entity.DecodedImage, []entity.Annotation) error {
	return nil
}

// Encoder streams composed images as PNG.
type Encoder struct {
	Style Style
}

// NewEncoder returns an Encoder using the default style.
func NewEncoder() Encoder {
	return Encoder{Style: DefaultStyle()}
}

// ContentType is the MIME type written by Encode.
func (Encoder) ContentType() string {
	return "image/png"
}

// Encode composes the overlays and writes PNG bytes to w.
func (e Encoder) Encode(w io.Writer, img *entity.DecodedImage, annotations []entity.Annotation) error {
	if err := imgio.PNGEncoder()(w, Compose(img, annotations, e.Style)); err != nil {
		return fmt.Errorf("failed to encode annotated image: %w", err)
	}
	return nil
}
