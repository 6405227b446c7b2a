//go:build gcp

package artifactstore

import (
	"context"

	"github.com/nitishsanghi/SegAuditSegCI/pkg/config"
)

func newGCSStore(ctx context.Context, cfg config.GCSConfig) (Store, error) {
	return NewGCSStore(ctx, cfg)
}
