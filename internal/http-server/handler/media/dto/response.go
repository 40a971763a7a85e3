package dto

import "time"

type AssetResponse struct {
	Path        string `json:"path"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	SizeBytes   int64  `json:"size_bytes"`
	ContentType string `json:"content_type"`
}

type UploadResponse struct {
	Asset    AssetResponse            `json:"asset"`
	Versions map[string]AssetResponse `json:"versions,omitempty"`
}

type BatchItemResponse struct {
	Filename string         `json:"filename"`
	Asset    *AssetResponse `json:"asset,omitempty"`
	Error    string         `json:"error,omitempty"`
}

type BatchResponse struct {
	Stored []BatchItemResponse `json:"stored"`
	Failed []BatchItemResponse `json:"failed"`
}

type ReplaceResponse struct {
	Path     string                   `json:"path"`
	Asset    *AssetResponse           `json:"asset,omitempty"`
	Versions map[string]AssetResponse `json:"versions,omitempty"`
}

type AssetRecordResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Version     string    `json:"version,omitempty"`
	Path        string    `json:"path"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	SizeBytes   int64     `json:"size_bytes"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListResponse struct {
	Type   string                `json:"type"`
	Assets []AssetRecordResponse `json:"assets"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
