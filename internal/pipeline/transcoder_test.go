package pipeline

import (
	"bytes"
	"errors"
	"image"
	"testing"

	"storefront-media/internal/domain"
)

func TestTranscodeNormalizesPNG(t *testing.T) {
	tr := NewTranscoder()

	out, err := tr.Transcode(testPNG(t, 400, 300), testProfile())
	if err != nil {
		t.Fatalf("transcode: %v", err)
	}

	_, format, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode master: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected normalized jpeg output, got %q", format)
	}

	w, h := decodeDims(t, out)
	if w != 400 || h != 300 {
		t.Errorf("expected 400x300 master, got %dx%d", w, h)
	}
}

func TestTranscodeIsDeterministic(t *testing.T) {
	tr := NewTranscoder()
	src := testJPEG(t, 320, 240)

	first, err := tr.Transcode(src, testProfile())
	if err != nil {
		t.Fatalf("first transcode: %v", err)
	}
	second, err := tr.Transcode(src, testProfile())
	if err != nil {
		t.Fatalf("second transcode: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("identical input produced different master bytes")
	}
}

func TestTranscodeRejectsCorruptBytes(t *testing.T) {
	tr := NewTranscoder()

	_, err := tr.Transcode([]byte("corrupt image payload"), testProfile())
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestTranscodeAppliesWatermark(t *testing.T) {
	tr := NewTranscoder()

	profile := testProfile()
	profile.Watermark = &domain.WatermarkSpec{Text: "Acme Store", Opacity: 0.5}

	out, err := tr.Transcode(testJPEG(t, 800, 600), profile)
	if err != nil {
		t.Fatalf("transcode with watermark: %v", err)
	}

	w, h := decodeDims(t, out)
	if w != 800 || h != 600 {
		t.Errorf("watermark must not change dimensions, got %dx%d", w, h)
	}
}
