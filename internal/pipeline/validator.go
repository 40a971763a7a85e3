package pipeline

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"storefront-media/internal/domain"

	"github.com/gabriel-vasile/mimetype"
)

// Validator checks an inbound file against its profile before any
// processing happens. It is a pure check: nothing is persisted and at most
// the header bytes are decoded.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate applies the profile rules in order, first failure wins:
// extension allow-list, sniffed MIME, byte-size ceiling, then optional
// pixel-dimension bounds.
func (v *Validator) Validate(data []byte, filename string, profile domain.Profile) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !containsFold(profile.Extensions, ext) {
		return newValidationError(ErrInvalidFormat,
			fmt.Sprintf("unsupported file extension %q, allowed: %s", ext, strings.Join(profile.Extensions, ", ")))
	}

	mime := mimetype.Detect(data)
	if !acceptedMIME(profile.MIMETypes, mime) {
		return newValidationError(ErrInvalidFormat,
			fmt.Sprintf("file content %s is not an accepted image type", mime.String()))
	}

	if int64(len(data)) > profile.MaxBytes {
		return newValidationError(ErrFileTooLarge,
			fmt.Sprintf("file size %d exceeds the %d byte limit", len(data), profile.MaxBytes))
	}

	if profile.Bounds.Empty() {
		return nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return newValidationError(ErrInvalidFormat, "unreadable image header")
	}
	return checkBounds(cfg, profile.Bounds)
}

func checkBounds(cfg image.Config, b domain.Bounds) error {
	if b.MinWidth > 0 && cfg.Width < b.MinWidth {
		return newValidationError(ErrBadDimensions,
			fmt.Sprintf("width %dpx is below the %dpx minimum", cfg.Width, b.MinWidth))
	}
	if b.MinHeight > 0 && cfg.Height < b.MinHeight {
		return newValidationError(ErrBadDimensions,
			fmt.Sprintf("height %dpx is below the %dpx minimum", cfg.Height, b.MinHeight))
	}
	if b.MaxWidth > 0 && cfg.Width > b.MaxWidth {
		return newValidationError(ErrBadDimensions,
			fmt.Sprintf("width %dpx exceeds the %dpx maximum", cfg.Width, b.MaxWidth))
	}
	if b.MaxHeight > 0 && cfg.Height > b.MaxHeight {
		return newValidationError(ErrBadDimensions,
			fmt.Sprintf("height %dpx exceeds the %dpx maximum", cfg.Height, b.MaxHeight))
	}
	return nil
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

func acceptedMIME(accepted []string, mime *mimetype.MIME) bool {
	for _, m := range accepted {
		if mime.Is(m) {
			return true
		}
	}
	return false
}
