package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	internalConfig "github.com/sefazor/ticketgate-backend/internal/config"
)

// CloudflareStorage holds event avatar and banner images in an R2 bucket
// behind the S3 API.
type CloudflareStorage struct {
	client    *s3.Client
	bucket    string
	accountID string
	publicURL string
}

func NewCloudflareStorage(cfg *internalConfig.Config) (*CloudflareStorage, error) {
	r2Resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2.AccountID),
		}, nil
	})

	awsCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(r2Resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.R2.AccessKeyID,
			cfg.R2.SecretAccessKey,
			"",
		)),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &CloudflareStorage{
		client:    s3.NewFromConfig(awsCfg),
		bucket:    cfg.R2.Bucket,
		accountID: cfg.R2.AccountID,
		publicURL: cfg.R2.PublicURL,
	}, nil
}

func (s *CloudflareStorage) Upload(key string, src io.Reader) error {
	// Seekable sources (multipart file handles) can be sized without
	// buffering the whole body.
	if rs, ok := src.(io.ReadSeeker); ok {
		size, err := rs.Seek(0, io.SeekEnd)
		if err != nil {
			return fmt.Errorf("failed to seek to end: %w", err)
		}
		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("failed to seek back to start: %w", err)
		}

		_, err = s.client.PutObject(context.TODO(), &s3.PutObjectInput{
			Bucket:        aws.String(s.bucket),
			Key:           aws.String(key),
			Body:          src,
			ContentLength: aws.Int64(size),
		})
		if err != nil {
			return fmt.Errorf("failed to upload to R2: %w", err)
		}
		return nil
	}

	buf, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("failed to read file content: %w", err)
	}

	_, err = s.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf),
		ContentLength: aws.Int64(int64(len(buf))),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to R2: %w", err)
	}
	return nil
}

func (s *CloudflareStorage) Delete(key string) error {
	_, err := s.client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *CloudflareStorage) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	return strings.TrimRight(s.publicURL, "/") + "/" + key
}
