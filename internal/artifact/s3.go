package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client the store uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store keeps the artifacts as two objects under a key prefix.
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Store returns a store writing to bucket under prefix.
func NewS3Store(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

var _ Store = (*S3Store)(nil)

func (s *S3Store) key(name string) string {
	return path.Join(s.prefix, name)
}

// Save uploads both artifacts, overwriting the previous objects.
func (s *S3Store) Save(ctx context.Context, b *Bundle) error {
	model, scaler, err := encodeBundle(b)
	if err != nil {
		return err
	}
	if err := s.put(ctx, ScalerFile, scaler); err != nil {
		return err
	}
	return s.put(ctx, ModelFile, model)
}

// Load downloads and decodes both artifacts.
func (s *S3Store) Load(ctx context.Context) (*Bundle, error) {
	model, err := s.get(ctx, ModelFile)
	if err != nil {
		return nil, err
	}
	scaler, err := s.get(ctx, ScalerFile)
	if err != nil {
		return nil, err
	}
	return decodeBundle(model, scaler)
}

func (s *S3Store) put(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(name)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/octet-stream"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to s3://%s/%s: %w", name, s.bucket, s.key(name), err)
	}
	return nil
}

func (s *S3Store) get(ctx context.Context, name string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var noSuchKey *s3types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrArtifactMissing, s.bucket, s.key(name))
		}
		return nil, fmt.Errorf("failed to download s3://%s/%s: %w", s.bucket, s.key(name), err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3://%s/%s: %w", s.bucket, s.key(name), err)
	}
	return data, nil
}
