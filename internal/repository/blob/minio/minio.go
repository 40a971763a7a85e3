package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"storefront-media/internal/config"
	"storefront-media/internal/repository/blob"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

// Storage stores objects in a MinIO bucket. Writes go through the shared
// retry strategy; reads and deletes map NoSuchKey onto blob.ErrNotFound.
type Storage struct {
	client  *minio.Client
	bucket  string
	retries retry.Strategy
	logger  *zlog.Zerolog
}

func New(cfg *config.Config, retries retry.Strategy, logger *zlog.Zerolog) (*Storage, error) {
	client, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	s := &Storage{
		client:  client,
		bucket:  cfg.Minio.Bucket,
		retries: retries,
		logger:  logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket %q: %w", cfg.Minio.Bucket, err)
	}

	return s, nil
}

func (s *Storage) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	s.logger.Info().Str("bucket", s.bucket).Msg("Creating bucket")
	return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
}

func (s *Storage) Write(ctx context.Context, key string, data io.Reader, size int64, contentType string) error {
	// Buffer once so each retry attempt replays the same bytes.
	buf, err := io.ReadAll(data)
	if err != nil {
		return fmt.Errorf("%w: failed to read object data: %v", blob.ErrStorage, err)
	}

	err = retry.Do(func() error {
		_, putErr := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(buf), size, minio.PutObjectOptions{
			ContentType: contentType,
		})
		return putErr
	}, s.retries)
	if err != nil {
		return fmt.Errorf("%w: failed to put object %s: %v", blob.ErrStorage, key, err)
	}

	return nil
}

func (s *Storage) Read(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get object %s: %v", blob.ErrStorage, key, err)
	}

	// GetObject is lazy; Stat surfaces missing keys before the caller reads.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if isNotFound(err) {
			return nil, blob.ErrNotFound
		}
		return nil, fmt.Errorf("%w: failed to stat object %s: %v", blob.ErrStorage, key, err)
	}

	return obj, nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("%w: failed to remove object %s: %v", blob.ErrStorage, key, err)
	}
	return nil
}

func (s *Storage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: failed to stat object %s: %v", blob.ErrStorage, key, err)
	}
	return true, nil
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
}
