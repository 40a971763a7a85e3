package pipeline

import (
	"errors"
	"testing"

	"storefront-media/internal/domain"
)

func TestValidateAcceptsValidJPEG(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(testJPEG(t, 400, 300), "photo.jpg", testProfile()); err != nil {
		t.Fatalf("expected valid file to pass, got %v", err)
	}
}

func TestValidateRejectsExtension(t *testing.T) {
	v := NewValidator()

	err := v.Validate(testJPEG(t, 10, 10), "document.pdf", testProfile())
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if verr.Field != "image" {
		t.Errorf("expected field %q, got %q", "image", verr.Field)
	}
}

func TestValidateRejectsMismatchedContent(t *testing.T) {
	v := NewValidator()

	// Plain text wearing an image extension.
	err := v.Validate([]byte("definitely not pixels"), "photo.jpg", testProfile())
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestValidateRejectsOversizedFile(t *testing.T) {
	v := NewValidator()

	profile := testProfile()
	profile.MaxBytes = 64

	err := v.Validate(testJPEG(t, 100, 100), "photo.jpg", profile)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestValidateDimensionBounds(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		bounds  domain.Bounds
		width   int
		height  int
		wantErr bool
	}{
		{"within bounds", domain.Bounds{MaxWidth: 500, MaxHeight: 500}, 400, 300, false},
		{"too wide", domain.Bounds{MaxWidth: 300}, 400, 300, true},
		{"too tall", domain.Bounds{MaxHeight: 200}, 400, 300, true},
		{"too narrow", domain.Bounds{MinWidth: 500}, 400, 300, true},
		{"too short", domain.Bounds{MinHeight: 400}, 400, 300, true},
		{"unbounded", domain.Bounds{}, 4000, 3000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := testProfile()
			profile.MaxBytes = 64 * domain.MiB
			profile.Bounds = tt.bounds

			err := v.Validate(testJPEG(t, tt.width, tt.height), "photo.jpg", profile)
			if tt.wantErr && !errors.Is(err, ErrBadDimensions) {
				t.Fatalf("expected ErrBadDimensions, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected pass, got %v", err)
			}
		})
	}
}

func TestValidateRuleOrder(t *testing.T) {
	v := NewValidator()

	// A file failing extension and size checks must report the extension
	// first.
	profile := testProfile()
	profile.MaxBytes = 1

	err := v.Validate(testJPEG(t, 50, 50), "photo.pdf", profile)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected extension failure to win, got %v", err)
	}
}
