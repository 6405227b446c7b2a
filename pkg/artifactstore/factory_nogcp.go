//go:build !gcp

package artifactstore

import (
	"context"
	"fmt"

	"github.com/nitishsanghi/SegAuditSegCI/pkg/config"
)

func newGCSStore(ctx context.Context, cfg config.GCSConfig) (Store, error) {
	return nil, fmt.Errorf("GCS storage is not enabled in this build (use -tags gcp)")
}
