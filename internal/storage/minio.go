package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"reviewapi/internal/config"
)

const bucketCheckTimeout = 10 * time.Second

// minioStore is an ObjectStore on any S3-compatible backend (MinIO, AWS S3, ...).
// It is safe for concurrent use.
type minioStore struct {
	client *minio.Client
	bucket string
}

var _ ObjectStore = (*minioStore)(nil)

func validateMinIO(cfg config.MinIOConfig) error {
	switch {
	case cfg.Endpoint == "":
		return errors.New("minio endpoint is required")
	case cfg.AccessKey == "" || cfg.SecretKey == "":
		return errors.New("minio credentials are required")
	case cfg.Bucket == "":
		return errors.New("minio bucket is required")
	}
	return nil
}

// NewMinIO connects to the media bucket, creating it when missing.
func NewMinIO(ctx context.Context, cfg config.MinIOConfig) (ObjectStore, error) {
	if err := validateMinIO(cfg); err != nil {
		return nil, err
	}

	tr, err := minio.DefaultTransport(cfg.UseSSL)
	if err != nil {
		return nil, fmt.Errorf("create minio transport: %w", err)
	}

	// Every S3 call becomes a client span under the calling request.
	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Transport: otelhttp.NewTransport(tr),
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	s := &minioStore{client: cli, bucket: cfg.Bucket}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *minioStore) ensureBucket(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, bucketCheckTimeout)
	defer cancel()

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *minioStore) PutObject(ctx context.Context, key string, r io.Reader, opt PutOptions) (StoredObject, error) {
	info, err := s.client.PutObject(ctx, s.bucket, key, r, opt.Size, minio.PutObjectOptions{
		ContentType:  opt.ContentType,
		UserMetadata: opt.Metadata,
	})
	if err != nil {
		return StoredObject{}, err
	}
	return StoredObject{Key: key, Size: info.Size, ETag: info.ETag}, nil
}

// RemoveObject stats the key first because S3 deletes succeed silently on
// missing keys, and callers count a missing object separately.
func (s *minioStore) RemoveObject(ctx context.Context, key string) error {
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return err
	}
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if isNoSuchKey(err) {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	return err
}

func isNoSuchKey(err error) bool {
	return err != nil && minio.ToErrorResponse(err).Code == "NoSuchKey"
}

// PublicURL returns the base URL media references are built from.
// An explicit cfg.PublicURL wins; otherwise it is derived from the endpoint and bucket.
func PublicURL(cfg config.MinIOConfig) string {
	if cfg.PublicURL != "" {
		return cfg.PublicURL
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
}
