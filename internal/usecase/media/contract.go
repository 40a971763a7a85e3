package media

import (
	"context"
	"io"

	"storefront-media/internal/domain"
)

type blobStorage interface {
	Write(ctx context.Context, key string, data io.Reader, size int64, contentType string) error
	Read(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

type assetRepository interface {
	Save(ctx context.Context, rec *domain.AssetRecord) error
	DeleteByPath(ctx context.Context, path string) error
	ListByType(ctx context.Context, t domain.ImageType) ([]domain.AssetRecord, error)
}

type eventProducer interface {
	Send(ctx context.Context, key, value []byte) error
}
