package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"storefront-media/internal/domain"
	"storefront-media/internal/pipeline"
	repo_asset "storefront-media/internal/repository/asset"
	"storefront-media/internal/repository/blob"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
)

// UploadFile is one inbound file: the declared name and its bytes. It lives
// for the duration of a single request.
type UploadFile struct {
	Name string
	Data []byte
}

// BatchItem is the outcome of one file in a batch upload. A nil Err means
// Asset and Versions are populated.
type BatchItem struct {
	Filename string
	Asset    *domain.StoredAsset
	Versions domain.VersionSet
	Err      error
}

// MediaUsecase runs the upload pipeline: validate, transcode, store, derive
// renditions, then best-effort bookkeeping (library records, asset events).
type MediaUsecase struct {
	profiles   map[domain.ImageType]domain.Profile
	blobs      blobStorage
	records    assetRepository
	producer   eventProducer
	validator  *pipeline.Validator
	transcoder *pipeline.Transcoder
	versions   *pipeline.VersionGenerator
	logger     *zlog.Zerolog
}

func NewMediaUsecase(
	profiles map[domain.ImageType]domain.Profile,
	blobs blobStorage,
	records assetRepository,
	producer eventProducer,
	logger *zlog.Zerolog,
) (*MediaUsecase, error) {
	if err := domain.ValidateProfiles(profiles); err != nil {
		return nil, err
	}
	return &MediaUsecase{
		profiles:   profiles,
		blobs:      blobs,
		records:    records,
		producer:   producer,
		validator:  pipeline.NewValidator(),
		transcoder: pipeline.NewTranscoder(),
		versions:   pipeline.NewVersionGenerator(),
		logger:     logger,
	}, nil
}

// Upload runs the full pipeline for one file and returns the master asset
// plus the profile's renditions.
func (u *MediaUsecase) Upload(ctx context.Context, file UploadFile, t domain.ImageType) (*domain.StoredAsset, domain.VersionSet, error) {
	profile, ok := u.profiles[t]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrUnknownImageType, t)
	}

	if err := u.validator.Validate(file.Data, file.Name, profile); err != nil {
		return nil, nil, err
	}

	master, err := u.transcoder.Transcode(file.Data, profile)
	if err != nil {
		u.logger.Error().Err(err).Str("filename", file.Name).Str("type", string(t)).Msg("Failed to transcode image")
		return nil, nil, err
	}

	id := uuid.New().String()
	masterKey := fmt.Sprintf("%s/%s%s", profile.Directory, id, pipeline.NormalizedExtension)

	if err := u.blobs.Write(ctx, masterKey, bytes.NewReader(master), int64(len(master)), pipeline.NormalizedContentType); err != nil {
		u.logger.Error().Err(err).Str("key", masterKey).Msg("Failed to store master asset")
		return nil, nil, err
	}

	asset, err := describe(domain.PublicPath(masterKey), master)
	if err != nil {
		u.cleanup(ctx, masterKey)
		return nil, nil, err
	}

	derived, err := u.versions.Derive(master, profile)
	if err != nil {
		u.cleanup(ctx, masterKey)
		return nil, nil, err
	}

	stored := []string{masterKey}
	versionSet := make(domain.VersionSet, len(derived))
	for _, v := range profile.Versions {
		data := derived[v.Name]
		key := fmt.Sprintf("%s/%s_%s%s", profile.Directory, v.Name, id, pipeline.NormalizedExtension)

		if err := u.blobs.Write(ctx, key, bytes.NewReader(data), int64(len(data)), pipeline.NormalizedContentType); err != nil {
			u.logger.Error().Err(err).Str("key", key).Str("version", v.Name).Msg("Failed to store rendition")
			u.cleanup(ctx, stored...)
			return nil, nil, err
		}
		stored = append(stored, key)

		va, err := describe(domain.PublicPath(key), data)
		if err != nil {
			u.cleanup(ctx, stored...)
			return nil, nil, err
		}
		versionSet[v.Name] = *va
	}
	if len(versionSet) == 0 {
		versionSet = nil
	}

	u.record(ctx, id, t, "", asset)
	u.publishStored(ctx, t, "", asset)
	for _, v := range profile.Versions {
		va := versionSet[v.Name]
		u.record(ctx, uuid.New().String(), t, v.Name, &va)
		u.publishStored(ctx, t, v.Name, &va)
	}

	u.logger.Info().
		Str("type", string(t)).
		Str("path", asset.Path).
		Int("versions", len(versionSet)).
		Msg("Image stored")

	return asset, versionSet, nil
}

// Replace is a two-phase swap: commit the new asset first, then
// garbage-collect the old path. An absent file keeps the current image with
// zero writes or deletes; a failure while processing the new file leaves
// the old asset untouched.
func (u *MediaUsecase) Replace(ctx context.Context, file *UploadFile, oldPath string, t domain.ImageType) (*domain.StoredAsset, domain.VersionSet, error) {
	if file == nil {
		return &domain.StoredAsset{Path: oldPath}, nil, nil
	}

	asset, versions, err := u.Upload(ctx, *file, t)
	if err != nil {
		return nil, nil, err
	}

	u.collectOld(ctx, oldPath, asset.Path)
	return asset, versions, nil
}

// collectOld removes the superseded asset. The new asset is already
// committed, so failures here orphan storage at worst and are logged, not
// escalated.
func (u *MediaUsecase) collectOld(ctx context.Context, oldPath, newPath string) {
	if oldPath == "" || oldPath == newPath {
		return
	}
	if err := u.Delete(ctx, oldPath); err != nil {
		u.logger.Error().Err(err).Str("path", oldPath).Msg("Failed to delete replaced asset")
	}
}

// StoreMany uploads each file independently. One file's failure never
// aborts the batch; the caller receives a result per file and decides how
// to report the failed ones.
func (u *MediaUsecase) StoreMany(ctx context.Context, files []UploadFile, t domain.ImageType) []BatchItem {
	items := make([]BatchItem, 0, len(files))
	for _, file := range files {
		asset, versions, err := u.Upload(ctx, file, t)
		if err != nil {
			u.logger.Warn().Err(err).Str("filename", file.Name).Str("type", string(t)).Msg("Skipping file in batch upload")
			items = append(items, BatchItem{Filename: file.Name, Err: err})
			continue
		}
		items = append(items, BatchItem{Filename: file.Name, Asset: asset, Versions: versions})
	}
	return items
}

// Inspect reads the stored asset back and reports its metadata without
// mutating anything.
func (u *MediaUsecase) Inspect(ctx context.Context, path string) (*domain.StoredAsset, error) {
	key, err := domain.ObjectKey(path)
	if err != nil {
		return nil, err
	}

	rc, err := u.blobs.Read(ctx, key)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, path)
		}
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read object %s: %v", blob.ErrStorage, key, err)
	}

	return describe(path, data)
}

// Delete removes the asset at path. Deleting an already-absent asset is a
// success: the end state is the same.
func (u *MediaUsecase) Delete(ctx context.Context, path string) error {
	key, err := domain.ObjectKey(path)
	if err != nil {
		return err
	}

	if err := u.blobs.Delete(ctx, key); err != nil {
		return err
	}

	if err := u.records.DeleteByPath(ctx, path); err != nil && !errors.Is(err, repo_asset.ErrRecordNotFound) {
		u.logger.Error().Err(err).Str("path", path).Msg("Failed to delete asset record")
	}
	u.publish(ctx, domain.AssetEvent{
		Kind:       domain.EventAssetDeleted,
		Path:       path,
		OccurredAt: time.Now().UTC(),
	})

	return nil
}

// List returns the media-library records for a type.
func (u *MediaUsecase) List(ctx context.Context, t domain.ImageType) ([]domain.AssetRecord, error) {
	if _, ok := u.profiles[t]; !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownImageType, t)
	}
	return u.records.ListByType(ctx, t)
}

func (u *MediaUsecase) cleanup(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := u.blobs.Delete(ctx, key); err != nil {
			u.logger.Error().Err(err).Str("key", key).Msg("Failed to clean up partial upload")
		}
	}
}

func (u *MediaUsecase) record(ctx context.Context, id string, t domain.ImageType, version string, asset *domain.StoredAsset) {
	rec := &domain.AssetRecord{
		ID:          id,
		Type:        t,
		Version:     version,
		Path:        asset.Path,
		Width:       asset.Width,
		Height:      asset.Height,
		SizeBytes:   asset.SizeBytes,
		ContentType: asset.ContentType,
		CreatedAt:   time.Now().UTC(),
	}
	if err := u.records.Save(ctx, rec); err != nil {
		u.logger.Error().Err(err).Str("path", asset.Path).Msg("Failed to save asset record")
	}
}

func (u *MediaUsecase) publishStored(ctx context.Context, t domain.ImageType, version string, asset *domain.StoredAsset) {
	u.publish(ctx, domain.AssetEvent{
		Kind:        domain.EventAssetStored,
		Type:        t,
		Version:     version,
		Path:        asset.Path,
		Width:       asset.Width,
		Height:      asset.Height,
		SizeBytes:   asset.SizeBytes,
		ContentType: asset.ContentType,
		OccurredAt:  time.Now().UTC(),
	})
}

func (u *MediaUsecase) publish(ctx context.Context, event domain.AssetEvent) {
	value, err := json.Marshal(event)
	if err != nil {
		u.logger.Error().Err(err).Str("path", event.Path).Msg("Failed to marshal asset event")
		return
	}
	if err := u.producer.Send(ctx, []byte(event.Path), value); err != nil {
		u.logger.Error().Err(err).Str("path", event.Path).Str("kind", event.Kind).Msg("Failed to publish asset event")
	}
}

// describe extracts the stored asset metadata from encoded bytes: header
// dimensions, byte size and sniffed content type.
func describe(path string, data []byte) (*domain.StoredAsset, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pipeline.ErrDecode, err)
	}
	return &domain.StoredAsset{
		Path:        path,
		Width:       cfg.Width,
		Height:      cfg.Height,
		SizeBytes:   int64(len(data)),
		ContentType: mimetype.Detect(data).String(),
	}, nil
}
