package domain

import "time"

const (
	EventAssetStored  = "asset.stored"
	EventAssetDeleted = "asset.deleted"
)

// AssetEvent is published to the events topic after storage commits, for
// downstream storefront consumers (cache invalidation, search indexing).
type AssetEvent struct {
	Kind        string    `json:"kind"`
	Type        ImageType `json:"type,omitempty"`
	Version     string    `json:"version,omitempty"`
	Path        string    `json:"path"`
	Width       int       `json:"width,omitempty"`
	Height      int       `json:"height,omitempty"`
	SizeBytes   int64     `json:"size_bytes,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
