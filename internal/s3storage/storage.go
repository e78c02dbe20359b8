package s3storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dharsanguruparan/DocFlow/internal/config"
)

// Storage wraps MinIO/S3 interactions for generated documents and uploads
// attached to signing requests.
type Storage struct {
	client          *minio.Client
	documentsBucket string
	uploadsBucket   string
	region          string
}

// New creates a MinIO client from the storage config.
func New(cfg config.StorageConfig) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}
	return &Storage{
		client:          client,
		documentsBucket: cfg.DocumentsBucket,
		uploadsBucket:   cfg.UploadsBucket,
		region:          cfg.Region,
	}, nil
}

// EnsureBuckets makes sure both buckets exist before use.
func (s *Storage) EnsureBuckets(ctx context.Context) error {
	for _, bucket := range []string{s.documentsBucket, s.uploadsBucket} {
		exists, err := s.client.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("check bucket %s: %w", bucket, err)
		}
		if !exists {
			if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
				return fmt.Errorf("make bucket %s: %w", bucket, err)
			}
		}
	}
	return nil
}

// PutObject uploads a generated document into the documents bucket.
func (s *Storage) PutObject(ctx context.Context, objectKey, contentType string, data []byte) error {
	opts := minio.PutObjectOptions{ContentType: contentType}
	_, err := s.client.PutObject(ctx, s.documentsBucket, objectKey, bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		return fmt.Errorf("upload document: %w", err)
	}
	return nil
}

// PresignedURL returns a signed GET URL for a generated document.
func (s *Storage) PresignedURL(ctx context.Context, objectKey string, ttl time.Duration) (string, error) {
	params := url.Values{}
	params.Set("response-content-disposition", "attachment")
	u, err := s.client.PresignedGetObject(ctx, s.documentsBucket, objectKey, ttl, params)
	if err != nil {
		return "", fmt.Errorf("presign document: %w", err)
	}
	return u.String(), nil
}

// UploadSignFile stores a file a user wants signed.
func (s *Storage) UploadSignFile(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error {
	opts := minio.PutObjectOptions{ContentType: contentType}
	_, err := s.client.PutObject(ctx, s.uploadsBucket, objectKey, reader, size, opts)
	if err != nil {
		return fmt.Errorf("upload sign file: %w", err)
	}
	return nil
}

// DownloadSignFile fetches an uploaded file's bytes.
func (s *Storage) DownloadSignFile(ctx context.Context, objectKey string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.uploadsBucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get sign file: %w", err)
	}
	defer obj.Close()
	buf, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read sign file: %w", err)
	}
	return buf, nil
}

// PresignSignFile returns a signed GET URL for an uploaded file.
func (s *Storage) PresignSignFile(ctx context.Context, objectKey string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.uploadsBucket, objectKey, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign sign file: %w", err)
	}
	return u.String(), nil
}
