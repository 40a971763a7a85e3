package pipeline

import (
	"bytes"
	"fmt"
	"image"

	"storefront-media/internal/domain"

	xdraw "golang.org/x/image/draw"
)

// VersionGenerator derives named renditions from a transcoded master by
// constrained resize: aspect-preserving, longest-edge bound, never
// upscaling. Derivation is deterministic so repeated runs over the same
// master produce identical bytes.
type VersionGenerator struct{}

func NewVersionGenerator() *VersionGenerator {
	return &VersionGenerator{}
}

// Derive returns a mapping of version name to encoded bytes, or nil when
// the profile requests no renditions.
func (g *VersionGenerator) Derive(master []byte, profile domain.Profile) (map[string][]byte, error) {
	if len(profile.Versions) == 0 {
		return nil, nil
	}

	img, _, err := image.Decode(bytes.NewReader(master))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	out := make(map[string][]byte, len(profile.Versions))
	for _, v := range profile.Versions {
		quality := v.Quality
		if quality == 0 {
			quality = profile.Quality
		}

		resized := fitWithin(img, v.MaxEdge)
		encoded, err := encodeJPEG(resized, quality)
		if err != nil {
			return nil, fmt.Errorf("failed to encode version %q: %w", v.Name, err)
		}
		out[v.Name] = encoded
	}

	return out, nil
}

// fitWithin scales img so its longest edge does not exceed maxEdge,
// preserving aspect ratio. Images already within the bound pass through
// untouched.
func fitWithin(img image.Image, maxEdge int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	longest := width
	if height > longest {
		longest = height
	}
	if longest <= maxEdge {
		return img
	}

	scale := float64(maxEdge) / float64(longest)
	newWidth := int(float64(width) * scale)
	newHeight := int(float64(height) * scale)
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	return resizeImage(img, newWidth, newHeight)
}

func resizeImage(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return dst
}
