package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "memory", cfg.StorageBackend)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("STORAGE_BACKEND", "fs")
	t.Setenv("FS_BASE_DIR", "/var/lib/catalog")
	t.Setenv("FS_MAX_UPLOAD_BYTES", "1024")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "fs", cfg.StorageBackend)
	assert.Equal(t, "/var/lib/catalog", cfg.FSBaseDir)
	assert.Equal(t, int64(1024), cfg.FSMaxBytes)
}

func TestValidate(t *testing.T) {
	t.Run("UnknownBackend", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "tape")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("S3RequiresBucket", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "s3")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("S3WithBucket", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "s3")
		t.Setenv("S3_BUCKET", "catalog-media")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "catalog-media", cfg.S3Bucket)
	})
}

func TestBuildServiceMemory(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	svc, err := cfg.BuildService(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestBuildServiceFS(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "fs")
	t.Setenv("FS_BASE_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	svc, err := cfg.BuildService(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
