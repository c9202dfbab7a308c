package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/config"
)

// FileStore keeps uploaded documents (dispatch proofs, transport documents,
// spare images) in a MinIO bucket and hands back the object path stored on
// the owning row.
type FileStore struct {
	client *minio.Client
	bucket string
}

func NewFileStore(cfg config.MinIOConfig) (*FileStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect minio: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &FileStore{client: client, bucket: cfg.Bucket}, nil
}

// Save stores the stream under <folder>/<uuid><ext> and returns the object
// path.
func (fs *FileStore) Save(ctx context.Context, folder, filename string, r io.Reader, size int64, contentType string) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	objectName := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), ext)

	opts := minio.PutObjectOptions{ContentType: contentType}
	if opts.ContentType == "" {
		opts.ContentType = "application/octet-stream"
	}
	if _, err := fs.client.PutObject(ctx, fs.bucket, objectName, r, size, opts); err != nil {
		return "", fmt.Errorf("upload %s: %w", objectName, err)
	}
	return objectName, nil
}

// PresignedURL returns a short-lived download URL for a stored object.
func (fs *FileStore) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	u, err := fs.client.PresignedGetObject(ctx, fs.bucket, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", objectName, err)
	}
	return u.String(), nil
}

func (fs *FileStore) Remove(ctx context.Context, objectName string) error {
	return fs.client.RemoveObject(ctx, fs.bucket, objectName, minio.RemoveObjectOptions{})
}
