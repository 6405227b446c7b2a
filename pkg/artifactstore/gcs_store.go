//go:build gcp

package artifactstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"

	"github.com/nitishsanghi/SegAuditSegCI/pkg/canonicalize"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/config"
)

// GCSStore is a Store on Google Cloud Storage.
type GCSStore struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSStore creates a client from application default credentials.
func NewGCSStore(ctx context.Context, cfg config.GCSConfig) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &GCSStore{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (s *GCSStore) object(digest string) (*storage.ObjectHandle, error) {
	name, err := blobName(digest)
	if err != nil {
		return nil, err
	}
	return s.client.Bucket(s.bucket).Object(s.prefix + name), nil
}

// Put uploads data under its content hash and returns the hash.
func (s *GCSStore) Put(ctx context.Context, data []byte) (string, error) {
	digest := canonicalize.HashBytes(data)
	obj, err := s.object(digest)
	if err != nil {
		return "", err
	}

	// DoesNotExist makes concurrent writers of the same blob safe.
	w := obj.If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs write failed: %w", err)
	}
	if err := w.Close(); err != nil {
		if exists, _ := s.Exists(ctx, digest); exists {
			return digest, nil
		}
		return "", fmt.Errorf("gcs close failed: %w", err)
	}
	return digest, nil
}

// Get downloads the blob for digest.
// It returns ErrNotFound for a missing object.
func (s *GCSStore) Get(ctx context.Context, digest string) ([]byte, error) {
	obj, err := s.object(digest)
	if err != nil {
		return nil, err
	}
	r, err := obj.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, digest)
		}
		return nil, fmt.Errorf("gcs get failed for %s: %w", digest, err)
	}
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gcs read failed for %s: %w", digest, err)
	}
	return data, nil
}

// Exists reports whether the object for digest is present.
func (s *GCSStore) Exists(ctx context.Context, digest string) (bool, error) {
	obj, err := s.object(digest)
	if err != nil {
		return false, err
	}
	if _, err := obj.Attrs(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("gcs attrs error: %w", err)
	}
	return true, nil
}

// Delete removes the object for digest.
func (s *GCSStore) Delete(ctx context.Context, digest string) error {
	obj, err := s.object(digest)
	if err != nil {
		return err
	}
	if err := obj.Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("gcs delete failed for %s: %w", digest, err)
	}
	return nil
}

// Close closes the GCS client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
