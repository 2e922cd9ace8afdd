package artifact

import (
	"context"

	"github.com/sugarsense/backend/config"
)

// NewStoreFromConfig returns the S3 store when a bucket is configured and the local
// directory store otherwise.
func NewStoreFromConfig(ctx context.Context, cfg *config.Config) (Store, error) {
	if cfg.S3Bucket == "" {
		return NewFileStore(cfg.ArtifactDir), nil
	}
	s3cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewS3Store(s3cfg.Client, s3cfg.BucketName, s3cfg.Prefix), nil
}
