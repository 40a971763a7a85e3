package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"storefront-media/internal/repository/blob"
)

func TestWriteReadRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()
	data := []byte("image bytes")

	if err := s.Write(ctx, "products/a.jpg", bytes.NewReader(data), int64(len(data)), "image/jpeg"); err != nil {
		t.Fatalf("write: %v", err)
	}

	rc, err := s.Read(ctx, "products/a.jpg")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("read back %q, want %q", got, data)
	}

	exists, err := s.Exists(ctx, "products/a.jpg")
	if err != nil || !exists {
		t.Errorf("expected object to exist, got %v, %v", exists, err)
	}
}

func TestReadMissingKey(t *testing.T) {
	s := New()

	_, err := s.Read(context.Background(), "products/missing.jpg")
	if !errors.Is(err, blob.ErrNotFound) {
		t.Fatalf("expected blob.ErrNotFound, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Write(ctx, "k", bytes.NewReader([]byte("x")), 1, "image/jpeg"); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("second delete: %v", err)
	}

	exists, err := s.Exists(ctx, "k")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Error("object still exists after delete")
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store, have %d objects", s.Len())
	}
}
