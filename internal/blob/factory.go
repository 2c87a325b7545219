package blob

import (
	"fmt"

	"depot/internal/config"
	"depot/internal/depot"
)

// NewStoreFromConfig creates a BlobStore implementation based on the blob config type.
func NewStoreFromConfig(cfg config.BlobConfig) (depot.BlobStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(cfg.Name), nil
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("s3 store requires s3_bucket to be set")
		}
		return NewS3Store(cfg.Name, cfg.S3Bucket, cfg.S3Prefix, cfg.S3Region,
			cfg.S3AccessKeyID, cfg.S3SecretAccessKey)
	case "filesystem":
		if cfg.FSRoot == "" {
			return nil, fmt.Errorf("filesystem store requires fs_root to be set")
		}
		return NewFileSystemStore(cfg.Name, cfg.FSRoot)
	default:
		return nil, fmt.Errorf("unknown blob store type: %s", cfg.Type)
	}
}
