package artifactstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nitishsanghi/SegAuditSegCI/pkg/canonicalize"
)

const gateJSON = `{"checks":[],"exit_code":0,"result":"pass","schema_version":"1.0"}`

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "artifacts"))
	require.NoError(t, err)

	digest, err := s.Put(ctx, []byte(gateJSON))
	require.NoError(t, err)
	assert.Equal(t, canonicalize.HashBytes([]byte(gateJSON)), digest)

	data, err := s.Get(ctx, digest)
	require.NoError(t, err)
	assert.Equal(t, gateJSON, string(data))

	ok, err := s.Exists(ctx, digest)
	require.NoError(t, err)
	assert.True(t, ok)

	blob := filepath.Join(s.Dir(), strings.TrimPrefix(digest, canonicalize.HashPrefix)+".json")
	_, err = os.Stat(blob)
	assert.NoError(t, err)
}

func TestFileStore_PutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	d1, err := s.Put(ctx, []byte(gateJSON))
	require.NoError(t, err)
	d2, err := s.Put(ctx, []byte(gateJSON))
	require.NoError(t, err)
	assert.Equal(t, d1, d2)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_ConcurrentPut(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	digests := make([]string, 16)
	for i := range digests {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := s.Put(ctx, []byte(gateJSON))
			assert.NoError(t, err)
			digests[i] = d
		}()
	}
	wg.Wait()
	for _, d := range digests {
		assert.Equal(t, digests[0], d)
	}
}

func TestFileStore_NotFoundAndDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	missing := canonicalize.HashBytes([]byte("never stored"))
	_, err = s.Get(ctx, missing)
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := s.Exists(ctx, missing)
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting a missing blob is not an error.
	assert.NoError(t, s.Delete(ctx, missing))

	digest, err := s.Put(ctx, []byte(gateJSON))
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, digest))
	ok, err = s.Exists(ctx, digest)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBlobName_RejectsBadDigests(t *testing.T) {
	for _, d := range []string{
		"",
		"deadbeef",
		"md5:" + strings.Repeat("a", 64),
		"sha256:" + strings.Repeat("a", 63),
		"sha256:" + strings.Repeat("z", 64),
		"sha256:../../etc/passwd",
	} {
		_, err := blobName(d)
		assert.Error(t, err, d)
	}

	name, err := blobName("sha256:" + strings.Repeat("ab", 32))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("ab", 32)+".json", name)
}

func TestFileStore_InvalidDigest(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get(ctx, "sha256:nothex")
	assert.ErrorContains(t, err, "invalid digest")
	_, err = s.Exists(ctx, "bad")
	assert.ErrorContains(t, err, "invalid digest format")
	assert.ErrorContains(t, s.Delete(ctx, "bad"), "invalid digest format")
}
