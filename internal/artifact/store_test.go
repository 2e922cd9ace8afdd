package artifact

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugarsense/backend/config"
)

func TestNewStoreFromConfig(t *testing.T) {
	t.Run("local directory", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewStoreFromConfig(context.Background(), &config.Config{ArtifactDir: dir})
		require.NoError(t, err)
		fs, ok := store.(*FileStore)
		require.True(t, ok)
		assert.Equal(t, dir, fs.Dir)
	})

	t.Run("s3 bucket", func(t *testing.T) {
		t.Setenv("AWS_ACCESS_KEY_ID", "test")
		t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
		store, err := NewStoreFromConfig(context.Background(), &config.Config{
			S3Bucket:   "models",
			S3Prefix:   "diabetes-model",
			S3Endpoint: "http://localhost:9000",
			AWSRegion:  "us-east-1",
		})
		require.NoError(t, err)
		s3store, ok := store.(*S3Store)
		require.True(t, ok)
		assert.Equal(t, "diabetes-model/"+ModelFile, s3store.key(ModelFile))
	})
}
