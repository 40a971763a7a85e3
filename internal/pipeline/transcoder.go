package pipeline

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"storefront-media/internal/domain"

	"github.com/disintegration/imaging"
	_ "github.com/gen2brain/avif"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// NormalizedExtension is the extension of every master and rendition. The
// whole system normalizes to a single output format.
const NormalizedExtension = ".jpg"

// NormalizedContentType is the content type of every stored asset.
const NormalizedContentType = "image/jpeg"

// Transcoder decodes supported inputs, corrects EXIF rotation so the master
// always renders upright, optionally draws the profile watermark, and
// re-encodes at the profile quality.
type Transcoder struct {
	watermarker *Watermarker
}

func NewTranscoder() *Transcoder {
	return &Transcoder{
		watermarker: NewWatermarker(),
	}
}

func (t *Transcoder) Transcode(data []byte, profile domain.Profile) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	img = applyOrientation(img, orientationTag(data))

	if profile.Watermark != nil {
		img, err = t.watermarker.Apply(img, *profile.Watermark)
		if err != nil {
			return nil, fmt.Errorf("failed to apply watermark: %w", err)
		}
	}

	return encodeJPEG(img, profile.Quality)
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// orientationTag reads the EXIF orientation (1-8), defaulting to 1 when the
// source carries no usable metadata.
func orientationTag(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	o, err := tag.Int(0)
	if err != nil || o < 1 || o > 8 {
		return 1
	}
	return o
}

func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}
