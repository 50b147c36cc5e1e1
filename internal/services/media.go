package services

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/daleel-sa/daleel-backend/pkg/logger"
)

// MediaStore accepts raw media bytes and returns a stable retrieval URL
type MediaStore interface {
	Upload(ctx context.Context, fileNameHint string, data []byte, mimeType string) (string, error)
}

// S3MediaStore uploads media to an S3 bucket and serves it by object URL
type S3MediaStore struct {
	client *s3.Client
	bucket string
	region string
	log    logger.Logger
}

// NewS3MediaStore builds an S3-backed media store using the default AWS
// credential chain.
func NewS3MediaStore(ctx context.Context, bucket, region string, log logger.Logger) (*S3MediaStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("media bucket not configured")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &S3MediaStore{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
		log:    log,
	}, nil
}

// Upload stores the bytes under a collision-free object key and returns the
// public object URL.
func (s *S3MediaStore) Upload(ctx context.Context, fileNameHint string, data []byte, mimeType string) (string, error) {
	key := fmt.Sprintf("%d_%s_%s", time.Now().UnixMilli(), uuid.NewString(), fileNameHint)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("upload media: %w", err)
	}

	s.log.Debug("media uploaded", "key", key, "bytes", len(data), "mime", mimeType)
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, url.PathEscape(key)), nil
}
