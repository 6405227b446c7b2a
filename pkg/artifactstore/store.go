// Package artifactstore keeps canonical artifact bytes in content-addressed
// storage. Blobs are keyed by the sha256 of their bytes and written once.
package artifactstore

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nitishsanghi/SegAuditSegCI/pkg/canonicalize"
)

// ErrNotFound is returned by Get when no blob has the requested digest.
var ErrNotFound = errors.New("artifact not found")

const blobExt = ".json"

// Store is a content-addressed blob store.
type Store interface {
	// Put persists data and returns its "sha256:<hex>" digest. Putting the
	// same bytes twice is a no-op.
	Put(ctx context.Context, data []byte) (string, error)
	// Get returns the bytes stored under digest.
	Get(ctx context.Context, digest string) ([]byte, error)
	Exists(ctx context.Context, digest string) (bool, error)
	Delete(ctx context.Context, digest string) error
}

// blobName validates a prefixed digest and returns its object name.
func blobName(digest string) (string, error) {
	raw, ok := strings.CutPrefix(digest, canonicalize.HashPrefix)
	if !ok {
		return "", fmt.Errorf("invalid digest format: %s", digest)
	}
	if len(raw) != 64 {
		return "", fmt.Errorf("invalid digest length: %s", digest)
	}
	if _, err := hex.DecodeString(raw); err != nil {
		return "", fmt.Errorf("invalid digest hex: %w", err)
	}
	return raw + blobExt, nil
}

// FileStore is a filesystem-backed Store.
type FileStore struct {
	baseDir string
	mu      sync.RWMutex
}

// NewFileStore creates the store directory if needed.
func NewFileStore(baseDir string) (*FileStore, error) {
	//nolint:gosec // G301: shared artifact directory
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure artifact dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Dir returns the store root.
func (s *FileStore) Dir() string { return s.baseDir }

// Put writes data under its content hash and returns the hash.
// Existing blobs are not rewritten.
func (s *FileStore) Put(ctx context.Context, data []byte) (string, error) {
	digest := canonicalize.HashBytes(data)
	name, err := blobName(digest)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.baseDir, name)
	if _, err := os.Stat(path); err == nil {
		return digest, nil
	}

	// Write to a temp file, then rename into place.
	tmp, err := os.CreateTemp(s.baseDir, name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create blob: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	//nolint:gosec // G302: blobs are world-readable
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to commit blob: %w", err)
	}
	return digest, nil
}

// Get reads the blob for digest.
// It returns ErrNotFound when no such blob exists.
func (s *FileStore) Get(ctx context.Context, digest string) ([]byte, error) {
	name, err := blobName(digest)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(s.baseDir, name)) //nolint:gosec // name validated as hex
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, digest)
		}
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}
	return data, nil
}

// Exists reports whether a blob for digest is stored.
func (s *FileStore) Exists(ctx context.Context, digest string) (bool, error) {
	name, err := blobName(digest)
	if err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err = os.Stat(filepath.Join(s.baseDir, name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat blob: %w", err)
}

// Delete removes the blob for digest.
func (s *FileStore) Delete(ctx context.Context, digest string) error {
	name, err := blobName(digest)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(filepath.Join(s.baseDir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete artifact: %w", err)
	}
	return nil
}
