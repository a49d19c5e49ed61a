package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-catalog/pkg/catalog"
	repomemory "github.com/tendant/simple-catalog/pkg/catalog/repo/memory"
	repopg "github.com/tendant/simple-catalog/pkg/catalog/repo/postgres"
	fsstorage "github.com/tendant/simple-catalog/pkg/catalog/storage/fs"
	memorystorage "github.com/tendant/simple-catalog/pkg/catalog/storage/memory"
	s3storage "github.com/tendant/simple-catalog/pkg/catalog/storage/s3"
)

// ServerConfig represents server configuration for the catalog service
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"` // development, production, testing

	// Database configuration. Empty means the in-memory repository.
	DatabaseURL string `env:"DATABASE_URL"`

	// Storage configuration
	StorageBackend string `env:"STORAGE_BACKEND" env-default:"memory"` // "memory", "fs", "s3"

	// Filesystem backend (deployment variant storing covers on local disk
	// and payloads inline)
	FSBaseDir   string `env:"FS_BASE_DIR" env-default:"./data"`
	FSURLPrefix string `env:"FS_URL_PREFIX" env-default:"/static"`
	FSMaxBytes  int64  `env:"FS_MAX_UPLOAD_BYTES" env-default:"16777216"`

	// S3 backend (deployment variant storing both binaries externally)
	S3Region          string `env:"S3_REGION" env-default:"us-east-1"`
	S3Bucket          string `env:"S3_BUCKET"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3PublicURL       string `env:"S3_PUBLIC_URL"`
	S3UsePathStyle    bool   `env:"S3_USE_PATH_STYLE" env-default:"false"`
	S3CreateBucket    bool   `env:"S3_CREATE_BUCKET" env-default:"false"`
}

// Load reads the server configuration from the environment.
func Load() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	switch c.StorageBackend {
	case "memory", "fs":
	case "s3":
		if c.S3Bucket == "" {
			return errors.New("s3_bucket is required when using the s3 backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q (use 'memory', 'fs' or 's3')", c.StorageBackend)
	}

	return nil
}

// BuildService creates a catalog.Service from the server configuration.
func (c *ServerConfig) BuildService(ctx context.Context) (catalog.Service, error) {
	repo, err := c.buildRepository(ctx)
	if err != nil {
		return nil, err
	}

	store, err := c.buildBlobStore()
	if err != nil {
		return nil, err
	}

	return catalog.New(
		catalog.WithRepository(repo),
		catalog.WithBlobStore(store),
	)
}

func (c *ServerConfig) buildRepository(ctx context.Context) (catalog.Repository, error) {
	if c.DatabaseURL == "" {
		return repomemory.New(), nil
	}

	pool, err := pgxpool.New(ctx, c.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := repopg.Migrate(ctx, pool); err != nil {
		return nil, err
	}

	return repopg.NewWithPool(pool), nil
}

func (c *ServerConfig) buildBlobStore() (catalog.BlobStore, error) {
	switch c.StorageBackend {
	case "memory":
		return memorystorage.New(), nil
	case "fs":
		return fsstorage.New(fsstorage.Config{
			BaseDir:   c.FSBaseDir,
			URLPrefix: c.FSURLPrefix,
			MaxBytes:  c.FSMaxBytes,
		})
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:                 c.S3Region,
			Bucket:                 c.S3Bucket,
			AccessKeyID:            c.S3AccessKeyID,
			SecretAccessKey:        c.S3SecretAccessKey,
			Endpoint:               c.S3Endpoint,
			PublicURL:              c.S3PublicURL,
			UsePathStyle:           c.S3UsePathStyle,
			CreateBucketIfNotExist: c.S3CreateBucket,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}
