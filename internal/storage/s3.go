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
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Seweryn1777/Image/internal/config"
)

// BlobStore is the port to the binary object store. Put writes the body
// under a fresh globally-unique key and returns it; SignURL issues a
// time-limited read URL for an existing key.
type BlobStore interface {
	Put(ctx context.Context, prefix string, body []byte, fileName, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	SignURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type s3Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	cfg     *config.S3Config
	log     *zap.Logger
}

func NewS3Store(cfg *config.S3Config, log *zap.Logger) (BlobStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	store := &s3Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		cfg:     cfg,
		log:     log,
	}

	if err := store.ensureBucketExists(context.Background()); err != nil {
		log.Warn("Failed to ensure bucket exists", zap.Error(err))
	}

	return store, nil
}

func (s *s3Store) ensureBucketExists(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.cfg.Bucket),
	})
	if err == nil {
		return nil
	}

	s.log.Info("Creating bucket", zap.String("bucket", s.cfg.Bucket))

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.cfg.Bucket),
		CreateBucketConfiguration: &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.cfg.Region),
		},
	})
	if err != nil {
		return err
	}

	s.log.Info("Bucket created successfully", zap.String("bucket", s.cfg.Bucket))

	return nil
}

// Put stores body under <prefix>/<uuid>/<fileName>. The random segment
// makes repeated uploads of the same file land on distinct keys.
func (s *s3Store) Put(ctx context.Context, prefix string, body []byte, fileName, contentType string) (string, error) {
	key := fmt.Sprintf("%s/%s/%s", prefix, uuid.NewString(), fileName)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		s.log.Error("Failed to upload object to S3",
			zap.String("key", key),
			zap.Error(err))
		return "", err
	}

	s.log.Info("Object uploaded to S3",
		zap.String("key", key),
		zap.Int("size", len(body)))

	return key, nil
}

func (s *s3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		s.log.Error("Failed to delete object from S3",
			zap.String("key", key),
			zap.Error(err))
		return err
	}

	s.log.Info("Object deleted from S3", zap.String("key", key))

	return nil
}

func (s *s3Store) SignURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	out, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignOptions) {
		o.Expires = ttl
	})
	if err != nil {
		s.log.Error("Failed to presign object URL",
			zap.String("key", key),
			zap.Error(err))
		return "", err
	}

	return out.URL, nil
}
