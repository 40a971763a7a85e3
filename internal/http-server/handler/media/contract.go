package media

import (
	"context"

	"storefront-media/internal/domain"
	media_uc "storefront-media/internal/usecase/media"
)

type mediaUsecase interface {
	Upload(ctx context.Context, file media_uc.UploadFile, t domain.ImageType) (*domain.StoredAsset, domain.VersionSet, error)
	Replace(ctx context.Context, file *media_uc.UploadFile, oldPath string, t domain.ImageType) (*domain.StoredAsset, domain.VersionSet, error)
	StoreMany(ctx context.Context, files []media_uc.UploadFile, t domain.ImageType) []media_uc.BatchItem
	Inspect(ctx context.Context, path string) (*domain.StoredAsset, error)
	Delete(ctx context.Context, path string) error
	List(ctx context.Context, t domain.ImageType) ([]domain.AssetRecord, error)
}
