package pipeline

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"storefront-media/internal/domain"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Watermarker draws the profile's text overlay in the bottom-right corner
// of a master before encoding.
type Watermarker struct {
	font *truetype.Font
}

func NewWatermarker() *Watermarker {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return &Watermarker{}
	}
	return &Watermarker{font: f}
}

func (w *Watermarker) Apply(img image.Image, spec domain.WatermarkSpec) (image.Image, error) {
	if spec.Text == "" {
		return img, nil
	}
	if w.font == nil {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("failed to load font: %w", err)
		}
		w.font = f
	}

	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	opacity := spec.Opacity
	if opacity <= 0 || opacity > 1 {
		opacity = 0.5
	}

	// Font size tracks the image width so the overlay stays legible on
	// renditions and masters alike.
	fontSize := float64(bounds.Dx()) * 0.04
	if fontSize < 12 {
		fontSize = 12
	}

	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(w.font)
	c.SetFontSize(fontSize)
	c.SetClip(result.Bounds())
	c.SetDst(result)
	c.SetSrc(image.NewUniform(color.RGBA{255, 255, 255, uint8(255 * opacity)}))
	c.SetHinting(font.HintingFull)

	margin := 20
	textWidth := int(float64(len(spec.Text)) * fontSize * 0.6)
	pt := freetype.Pt(bounds.Dx()-textWidth-margin, bounds.Dy()-margin)

	if _, err := c.DrawString(spec.Text, pt); err != nil {
		return nil, fmt.Errorf("failed to draw watermark text: %w", err)
	}

	return result, nil
}
