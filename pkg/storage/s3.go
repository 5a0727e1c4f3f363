package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store implements BlobStore using S3-compatible object storage.
// Each blob is one object under "{prefix}/{key}".
type S3Store struct {
	client *s3.Client
	cfg    Config
}

// NewS3 creates a new S3Store with the given configuration.
func NewS3(cfg Config) (*S3Store, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opts := []func(*s3.Options){
		func(o *s3.Options) {
			o.Region = cfg.Region
			o.Credentials = credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			)
		},
	}

	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		})
	}

	return &S3Store{
		client: s3.New(s3.Options{}, opts...),
		cfg:    cfg,
	}, nil
}

// Read downloads the object for key.
func (s *S3Store) Read(ctx context.Context, key string) ([]byte, error) {
	objectKey, err := joinKey(s.cfg.Prefix, key)
	if err != nil {
		return nil, err
	}

	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return nil, wrapS3Error(err, ErrReadFailed)
	}
	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	return data, nil
}

// Write uploads data as the object for key, replacing any previous version.
func (s *S3Store) Write(ctx context.Context, key string, data []byte) error {
	objectKey, err := joinKey(s.cfg.Prefix, key)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(DefaultContentType),
	})
	if err != nil {
		return wrapS3Error(err, ErrWriteFailed)
	}
	return nil
}

// Delete removes the object for key.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	objectKey, err := joinKey(s.cfg.Prefix, key)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return wrapS3Error(err, ErrDeleteFailed)
	}
	return nil
}

// Healthcheck returns a closure that verifies the bucket is reachable.
func (s *S3Store) Healthcheck() func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
			Bucket: aws.String(s.cfg.Bucket),
		})
		if err != nil {
			return wrapS3Error(err, ErrReadFailed)
		}
		return nil
	}
}

var _ BlobStore = (*S3Store)(nil)
