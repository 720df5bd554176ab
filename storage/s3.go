package storage

import (
	"context"
	"fmt"
	"io"
	"poolcare_server/structs"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// S3Store keeps attachments in an S3 bucket or an S3-compatible service.
type S3Store struct {
	client  s3iface.S3API
	bucket  string
	acl     string
	baseURL string
}

// NewS3Store creates a client from config. Static keys are used when set,
// otherwise the default AWS credential chain applies.
func NewS3Store(cfg *structs.StorageConfig) (*S3Store, error) {
	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage session: %w", err)
	}

	return NewS3StoreWithClient(s3.New(sess), cfg), nil
}

func NewS3StoreWithClient(client s3iface.S3API, cfg *structs.StorageConfig) *S3Store {
	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL(cfg)
	}
	return &S3Store{
		client:  client,
		bucket:  cfg.Bucket,
		acl:     cfg.ACL,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func defaultBaseURL(cfg *structs.StorageConfig) string {
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

func (s *S3Store) Upload(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	}
	if s.acl != "" {
		input.ACL = aws.String(s.acl)
	}

	if _, err := s.client.PutObjectWithContext(ctx, input); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) PublicURL(key string) string {
	return s.baseURL + "/" + key
}
