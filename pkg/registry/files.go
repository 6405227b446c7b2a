package registry

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/nitishsanghi/SegAuditSegCI/pkg/artifact"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/contract"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/jsonvalue"
)

// ReadFile reads path and parses it as a JSON object. Read failures,
// malformed JSON and non-object documents are reported as violations
// naming the path.
func ReadFile(path string) (jsonvalue.Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, contract.Newf(contract.CodeFile, path, "Cannot read '%s': %v", path, err)
	}
	v, err := jsonvalue.Parse(data)
	if err != nil {
		return nil, contract.Newf(contract.CodeFile, path, "Invalid JSON in '%s': %v", path, err)
	}
	obj, ok := v.(jsonvalue.Object)
	if !ok {
		return nil, contract.Newf(contract.CodeShape, path, "Top-level JSON payload in '%s' must be a mapping.", path)
	}
	return obj, nil
}

// LoadFile reads and validates the artifact at path and returns the raw
// object as it was read.
func LoadFile(path, kind string) (jsonvalue.Object, error) {
	obj, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := Validate(obj, kind); err != nil {
		return nil, err
	}
	return obj, nil
}

// DecodeFile reads the artifact at path and returns the typed entity.
func DecodeFile(path, kind string) (artifact.Artifact, error) {
	obj, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(obj, kind)
}

// FileResult is the outcome of loading one file with LoadFiles.
type FileResult struct {
	Path     string
	Artifact artifact.Artifact
	Err      error
}

// LoadFiles decodes every path as kind using at most parallelism workers.
// Results are returned in input order and each carries its own error, so
// one bad file does not stop the others. Files not yet started when ctx is
// canceled report ctx.Err().
func LoadFiles(ctx context.Context, kind string, paths []string, parallelism int) ([]FileResult, error) {
	if _, err := artifact.ParseKind(kind); err != nil {
		return nil, err
	}
	if parallelism < 1 {
		parallelism = 1
	}

	results := make([]FileResult, len(paths))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, path := range paths {
		g.Go(func() error {
			results[i].Path = path
			if err := gCtx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Artifact, results[i].Err = DecodeFile(path, kind)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("registry: load files: %w", err)
	}
	return results, ctx.Err()
}
