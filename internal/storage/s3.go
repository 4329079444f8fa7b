// Package storage fetches note and board images from S3-compatible object
// storage. The handler layer only sees the narrow ObjectFetcher interface so
// tests can substitute a fake.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"noteboard/internal/config"
)

// Object is one fetched object stream plus its content type.
type Object struct {
	Body        io.ReadCloser
	ContentType string
}

type ObjectFetcher interface {
	Fetch(ctx context.Context, key string) (*Object, error)
}

type s3Fetcher struct {
	client *s3.Client
	bucket string
	logger *zap.Logger
}

// NewS3Fetcher builds an S3-backed fetcher from the storage config. A custom
// endpoint switches the client to path-style addressing for MinIO and friends.
func NewS3Fetcher(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ObjectFetcher, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Storage.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &s3Fetcher{client: client, bucket: cfg.Storage.Bucket, logger: logger}, nil
}

func (f *s3Fetcher) Fetch(ctx context.Context, key string) (*Object, error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		f.logger.Error("Failed to fetch object", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	contentType := "application/octet-stream"
	if out.ContentType != nil && *out.ContentType != "" {
		contentType = *out.ContentType
	}
	return &Object{Body: out.Body, ContentType: contentType}, nil
}
