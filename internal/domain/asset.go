package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// PublicPrefix roots every path returned to callers so they can build
// browser-facing URLs uniformly.
const PublicPrefix = "storage/"

var ErrInvalidPublicPath = errors.New("path is not rooted at the public storage prefix")

// PublicPath converts an object key into the public-facing path string.
func PublicPath(key string) string {
	return PublicPrefix + key
}

// ObjectKey strips the public prefix from a path. Paths not rooted at the
// prefix are rejected rather than passed through to storage.
func ObjectKey(path string) (string, error) {
	key := strings.TrimPrefix(path, PublicPrefix)
	if key == path || key == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidPublicPath, path)
	}
	return key, nil
}

// StoredAsset describes one durably stored image.
type StoredAsset struct {
	Path        string
	Width       int
	Height      int
	SizeBytes   int64
	ContentType string
}

// VersionSet maps a rendition name to its stored asset. Each member has an
// independent lifecycle.
type VersionSet map[string]StoredAsset

// AssetRecord is the media-library bookkeeping row for a stored asset.
// Records never gate the pipeline; they exist so the back office can list
// media per type.
type AssetRecord struct {
	ID          string
	Type        ImageType
	Version     string
	Path        string
	Width       int
	Height      int
	SizeBytes   int64
	ContentType string
	CreatedAt   time.Time
}
