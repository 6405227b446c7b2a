package artifactstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nitishsanghi/SegAuditSegCI/pkg/config"
)

// New opens the store selected by cfg.Store.Type.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	logger := slog.Default().With("component", "artifactstore")

	switch cfg.Store.Type {
	case config.StoreFS, "":
		dir := cfg.ArtifactDir()
		logger.Debug("opening file store", "dir", dir)
		return NewFileStore(dir)
	case config.StoreS3:
		if cfg.Store.S3.Bucket == "" {
			return nil, fmt.Errorf("SEGAUDIT_S3_BUCKET is required for S3 storage")
		}
		logger.Debug("opening s3 store", "bucket", cfg.Store.S3.Bucket, "region", cfg.Store.S3.Region)
		return NewS3Store(ctx, cfg.Store.S3)
	case config.StoreGCS:
		if cfg.Store.GCS.Bucket == "" {
			return nil, fmt.Errorf("SEGAUDIT_GCS_BUCKET is required for GCS storage")
		}
		logger.Debug("opening gcs store", "bucket", cfg.Store.GCS.Bucket)
		return newGCSStore(ctx, cfg.Store.GCS)
	default:
		return nil, fmt.Errorf("unsupported artifact storage type: %s", cfg.Store.Type)
	}
}
