package utils

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3PutAPI is the slice of the S3 client the uploader needs.
type S3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader stores generated documents and returns their public URL.
type S3Uploader struct {
	client  S3PutAPI
	bucket  string
	baseURL string // CloudFront distribution in front of the bucket
	now     func() time.Time
}

func NewS3Uploader(client S3PutAPI, bucket, cloudFrontURL string) *S3Uploader {
	return &S3Uploader{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(cloudFrontURL, "/"),
		now:     time.Now,
	}
}

// NewS3UploaderFromEnv loads the default AWS config for region.
func NewS3UploaderFromEnv(ctx context.Context, region, bucket, cloudFrontURL string) (*S3Uploader, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config for S3: %w", err)
	}
	return NewS3Uploader(s3.NewFromConfig(cfg), bucket, cloudFrontURL), nil
}

// Upload writes data under prefix/name-<unixnano>.ext and returns its URL.
func (u *S3Uploader) Upload(ctx context.Context, prefix, name, ext, contentType string, data []byte) (string, error) {
	if u.bucket == "" {
		return "", fmt.Errorf("S3 bucket not configured")
	}
	key := path.Join(prefix, fmt.Sprintf("%s-%d%s", name, u.now().UnixNano(), ext))

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return fmt.Sprintf("%s/%s", u.baseURL, key), nil
}
