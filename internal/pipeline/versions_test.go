package pipeline

import (
	"bytes"
	"testing"

	"storefront-media/internal/domain"
)

func productProfile() domain.Profile {
	return domain.DefaultProfiles()[domain.TypeProduct]
}

func TestDeriveProductVersions(t *testing.T) {
	g := NewVersionGenerator()
	tr := NewTranscoder()

	master, err := tr.Transcode(testJPEG(t, 1200, 800), productProfile())
	if err != nil {
		t.Fatalf("transcode master: %v", err)
	}

	derived, err := g.Derive(master, productProfile())
	if err != nil {
		t.Fatalf("derive versions: %v", err)
	}
	if len(derived) != 3 {
		t.Fatalf("expected 3 versions, got %d", len(derived))
	}

	want := map[string][2]int{
		domain.VersionThumbnail: {200, 133},
		domain.VersionMedium:    {600, 400},
		// Already within the large bound, passes through untouched.
		domain.VersionLarge: {1200, 800},
	}

	for name, dims := range want {
		data, ok := derived[name]
		if !ok {
			t.Fatalf("missing version %q", name)
		}
		w, h := decodeDims(t, data)
		if w != dims[0] || h != dims[1] {
			t.Errorf("version %q: expected %dx%d, got %dx%d", name, dims[0], dims[1], w, h)
		}
	}
}

func TestDeriveNeverUpscales(t *testing.T) {
	g := NewVersionGenerator()

	master, err := NewTranscoder().Transcode(testJPEG(t, 100, 50), productProfile())
	if err != nil {
		t.Fatalf("transcode master: %v", err)
	}

	derived, err := g.Derive(master, productProfile())
	if err != nil {
		t.Fatalf("derive versions: %v", err)
	}

	for name, data := range derived {
		w, h := decodeDims(t, data)
		if w != 100 || h != 50 {
			t.Errorf("version %q upscaled to %dx%d", name, w, h)
		}
	}
}

func TestDeriveIsDeterministic(t *testing.T) {
	g := NewVersionGenerator()

	master, err := NewTranscoder().Transcode(testJPEG(t, 1000, 700), productProfile())
	if err != nil {
		t.Fatalf("transcode master: %v", err)
	}

	first, err := g.Derive(master, productProfile())
	if err != nil {
		t.Fatalf("first derive: %v", err)
	}
	second, err := g.Derive(master, productProfile())
	if err != nil {
		t.Fatalf("second derive: %v", err)
	}

	for name := range first {
		if !bytes.Equal(first[name], second[name]) {
			t.Errorf("version %q differs between runs", name)
		}
	}
}

func TestDeriveSkipsProfilesWithoutVersions(t *testing.T) {
	g := NewVersionGenerator()

	derived, err := g.Derive(testJPEG(t, 400, 300), testProfile())
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if derived != nil {
		t.Errorf("expected nil version map for a profile without versions, got %v", derived)
	}
}

func TestFitWithinPreservesAspectRatio(t *testing.T) {
	img := testImage(900, 300)

	resized := fitWithin(img, 300)
	bounds := resized.Bounds()
	if bounds.Dx() != 300 || bounds.Dy() != 100 {
		t.Errorf("expected 300x100, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}
