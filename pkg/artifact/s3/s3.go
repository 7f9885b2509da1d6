// Package s3 stores artifacts in an S3 compatible bucket, including
// Cloudflare R2.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/papercomputeco/resumini/pkg/artifact"
)

// Client is the subset of *s3.Client the store needs.
type Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Config struct {
	Bucket string

	// Endpoint overrides the S3 endpoint. When empty and AccountID is set,
	// the Cloudflare R2 endpoint for that account is used.
	Endpoint  string
	AccountID string

	// Region defaults to "auto", which is what R2 expects.
	Region string

	// AccessKey and SecretKey select static credentials. When empty the
	// default AWS credential chain applies.
	AccessKey string
	SecretKey string
}

type Store struct {
	client Client
	bucket string
	logger *slog.Logger
}

// NewStore loads the AWS config and builds an S3 client.
func NewStore(ctx context.Context, c Config, logger *slog.Logger) (*Store, error) {
	if c.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	region := c.Region
	if region == "" {
		region = "auto"
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if c.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, ""),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	endpoint := Endpoint(c)
	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	logger.Info("s3 artifact store initialized", "bucket", c.Bucket, "endpoint", endpoint, "region", region)
	return NewStoreWithClient(client, c.Bucket, logger), nil
}

func NewStoreWithClient(client Client, bucket string, logger *slog.Logger) *Store {
	return &Store{client: client, bucket: bucket, logger: logger}
}

// Endpoint resolves the base endpoint for c.
func Endpoint(c Config) string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	if c.AccountID != "" {
		return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.AccountID)
	}
	return ""
}

// Put uploads data. The Location is an s3:// URI.
func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) (*artifact.Ref, error) {
	cleaned, ok := artifact.CleanKey(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", artifact.ErrInvalidKey, key)
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(cleaned),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("%w: put s3://%s/%s: %v", artifact.ErrStore, s.bucket, cleaned, err)
	}

	s.logger.Debug("uploaded artifact", "bucket", s.bucket, "key", cleaned, "bytes", len(data))

	return &artifact.Ref{
		Key:         cleaned,
		Location:    fmt.Sprintf("s3://%s/%s", s.bucket, cleaned),
		ContentType: contentType,
		Size:        len(data),
	}, nil
}

var _ artifact.Store = (*Store)(nil)
