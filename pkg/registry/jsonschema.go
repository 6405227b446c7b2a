package registry

import (
	"bytes"
	"embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nitishsanghi/SegAuditSegCI/pkg/artifact"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/jsonvalue"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

const schemaBaseURL = "https://segaudit.schemas.local/"

var (
	compileOnce sync.Once
	compiled    map[artifact.Kind]*jsonschema.Schema
	compileErr  error
)

// JSONSchema returns the published JSON Schema (draft 2020-12) document
// for kind. The Go decoders remain the authority; the documents are for
// tools in other languages.
func JSONSchema(kind string) ([]byte, error) {
	k, err := artifact.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	data, err := schemaFS.ReadFile(schemaFile(k))
	if err != nil {
		return nil, fmt.Errorf("registry: schema for %s missing: %w", k, err)
	}
	return data, nil
}

// CheckDocument validates payload against the published JSON Schema for
// kind. It is a best-effort interoperability check and its messages are the
// jsonschema library's own. Validate stays the authority; the documents are
// looser in two known places:
//
//   - JSON Schema "integer" accepts 1.0, so exit_code 1.0 passes here.
//   - The "\S" pattern is ASCII-only, so a value made only of Unicode
//     spaces such as U+00A0 passes here although Validate trims it to "".
func CheckDocument(kind string, payload jsonvalue.Value) error {
	k, err := artifact.ParseKind(kind)
	if err != nil {
		return err
	}
	compileOnce.Do(compileAll)
	if compileErr != nil {
		return compileErr
	}
	if err := compiled[k].Validate(jsonvalue.ToAny(payload)); err != nil {
		return fmt.Errorf("registry: %s document check failed: %w", k, err)
	}
	return nil
}

func schemaFile(k artifact.Kind) string {
	return "schemas/" + string(k) + ".schema.json"
}

func compileAll() {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	for _, k := range artifact.Kinds() {
		data, err := schemaFS.ReadFile(schemaFile(k))
		if err != nil {
			compileErr = fmt.Errorf("registry: schema for %s missing: %w", k, err)
			return
		}
		if err := c.AddResource(schemaBaseURL+string(k)+".schema.json", bytes.NewReader(data)); err != nil {
			compileErr = fmt.Errorf("registry: schema load failed: %w", err)
			return
		}
	}
	out := make(map[artifact.Kind]*jsonschema.Schema, len(artifact.Kinds()))
	for _, k := range artifact.Kinds() {
		s, err := c.Compile(schemaBaseURL + string(k) + ".schema.json")
		if err != nil {
			compileErr = fmt.Errorf("registry: schema compile failed: %w", err)
			return
		}
		out[k] = s
	}
	compiled = out
}
