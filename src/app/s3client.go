package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type ClientMinio interface {
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
}

// MinioS3Client fetches model weights from a bucket on hosts where the
// checkpoint is not shipped with the deployment.
type MinioS3Client struct {
	endpoint   string
	bucketName string
	client     ClientMinio
}

// NewMinioS3Client creates a new MinioS3Client instance.
func NewMinioS3Client(endpoint, accessKeyID, secretAccessKey, bucketName string, useSSL bool) (*MinioS3Client, error) {
	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Minio S3 client: %v", err)
	}

	return &MinioS3Client{
		endpoint:   endpoint,
		bucketName: bucketName,
		client:     minioClient,
	}, nil
}

// FetchObject downloads an object into destPath, creating parent
// directories as needed.
func (s3 *MinioS3Client) FetchObject(ctx context.Context, objectName, destPath string) error {
	object, err := s3.client.GetObject(ctx, s3.bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("get object %s: %w", objectName, err)
	}
	defer object.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, object); err != nil {
		return fmt.Errorf("download %s: %w", objectName, err)
	}
	return nil
}
