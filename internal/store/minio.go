package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ayush/devconnector/backend/internal/models"
)

// MinioArchive keeps JSON snapshots of deleted posts in a MinIO bucket.
type MinioArchive struct {
	client *minio.Client
	bucket string
}

func NewMinioArchive(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioArchive, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	// Ensure bucket exists
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}

	return &MinioArchive{client: client, bucket: bucket}, nil
}

// archiveKey is the object key a post snapshot is stored under.
func archiveKey(post *models.Post) string {
	return fmt.Sprintf("posts/%s.json", post.ID.Hex())
}

// Archive uploads the post as JSON.
func (s *MinioArchive) Archive(ctx context.Context, post *models.Post) error {
	data, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("archive encode: %w", err)
	}
	_, err = s.client.PutObject(ctx, s.bucket, archiveKey(post), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return err
}
