package blob

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotFound = errors.New("object not found")
	ErrStorage  = errors.New("storage error")
)

// Storage is the durable backend behind public paths. The pipeline depends
// on this interface only, so it can run against MinIO in production and the
// in-memory backend in tests and local development.
type Storage interface {
	Write(ctx context.Context, key string, data io.Reader, size int64, contentType string) error
	Read(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
