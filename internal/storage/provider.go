package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
)

type Provider interface {
	CreateBucket(ctx context.Context, bucket string) error

	GetObject(ctx context.Context, bucket, key string) ([]byte, error)

	PutObject(ctx context.Context, bucket, key string, data io.Reader) error
}

const s3Scheme = "s3://"

func IsS3URI(uri string) bool {
	return strings.HasPrefix(uri, s3Scheme)
}

// ParseS3URI splits s3://bucket/key into its bucket and key.
func ParseS3URI(uri string) (string, string, error) {
	if !IsS3URI(uri) {
		return "", "", fmt.Errorf("invalid s3 uri '%s': must start with %s", uri, s3Scheme)
	}
	bucket, key, ok := strings.Cut(strings.TrimPrefix(uri, s3Scheme), "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 uri '%s': expected s3://bucket/key", uri)
	}
	return bucket, key, nil
}
