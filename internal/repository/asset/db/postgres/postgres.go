package postgres

import (
	"context"
	"fmt"

	"storefront-media/internal/domain"
	"storefront-media/internal/repository/asset"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
)

// AssetsRepository keeps the media-library rows: one row per stored asset,
// master and renditions alike, keyed by public path.
type AssetsRepository struct {
	db      *dbpg.DB
	retries retry.Strategy
}

func NewAssetsRepository(db *dbpg.DB, retries retry.Strategy) *AssetsRepository {
	return &AssetsRepository{
		db:      db,
		retries: retries,
	}
}

func (r *AssetsRepository) Save(ctx context.Context, rec *domain.AssetRecord) error {
	query := `
		INSERT INTO media_assets (
			id, image_type, version, path, width, height,
			size_bytes, content_type, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecWithRetry(ctx, r.retries, query,
		rec.ID,
		rec.Type,
		rec.Version,
		rec.Path,
		rec.Width,
		rec.Height,
		rec.SizeBytes,
		rec.ContentType,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to save asset record: %v", asset.ErrDatabaseError, err)
	}

	return nil
}

func (r *AssetsRepository) DeleteByPath(ctx context.Context, path string) error {
	query := `DELETE FROM media_assets WHERE path = $1`

	res, err := r.db.ExecWithRetry(ctx, r.retries, query, path)
	if err != nil {
		return fmt.Errorf("%w: failed to delete asset record: %v", asset.ErrDatabaseError, err)
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return asset.ErrRecordNotFound
	}

	return nil
}

func (r *AssetsRepository) ListByType(ctx context.Context, t domain.ImageType) ([]domain.AssetRecord, error) {
	query := `
		SELECT id, image_type, version, path, width, height,
		       size_bytes, content_type, created_at
		FROM media_assets
		WHERE image_type = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryWithRetry(ctx, r.retries, query, t)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list asset records: %v", asset.ErrDatabaseError, err)
	}
	defer rows.Close()

	var records []domain.AssetRecord
	for rows.Next() {
		var rec domain.AssetRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.Type,
			&rec.Version,
			&rec.Path,
			&rec.Width,
			&rec.Height,
			&rec.SizeBytes,
			&rec.ContentType,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan asset record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read asset records: %w", err)
	}

	return records, nil
}
