package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/apcaballes87/cake-genie/config"
	"github.com/apcaballes87/cake-genie/internal/entity"
)

// ObjectStorage is the remote bucket uploaded artifacts land in.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	PublicURL(key string) string
}

type s3Storage struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewS3Storage builds an S3-compatible client (MinIO, Supabase storage and
// friends via a custom base endpoint). Missing endpoint or credentials is a
// configuration error, not a crash.
func NewS3Storage(ctx context.Context, cfg config.StorageConfig) (ObjectStorage, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" {
		return nil, entity.ErrConfiguration
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrConfiguration, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	logrus.Infof("Object storage configured for bucket %q at %s", cfg.Bucket, cfg.Endpoint)

	return &s3Storage{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: cfg.PublicBaseURL,
	}, nil
}

func (s *s3Storage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrStorageFailure, err)
	}
	return s.PublicURL(key), nil
}

func (s *s3Storage) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, key)
}

// BuildKey produces a collision-resistant object key:
// uploads/{unixMillis}-{randomToken}{ext}
func BuildKey(ext string) string {
	return fmt.Sprintf("uploads/%d-%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], ext)
}
