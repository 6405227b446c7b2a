package artifact

import (
	"fmt"
	"strings"

	"github.com/nitishsanghi/SegAuditSegCI/pkg/canonicalize"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/contract"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/jsonvalue"
)

const fieldSchemaVersion = "schema_version"

// layout names the top-level fields of one artifact kind. Required fields
// are listed in declaration order; that order drives error messages.
type layout struct {
	kind     Kind
	required []string
	optional []string
}

func (l layout) known(key string) bool {
	for _, k := range l.required {
		if k == key {
			return true
		}
	}
	for _, k := range l.optional {
		if k == key {
			return true
		}
	}
	return false
}

// extras returns copies of the fields the layout does not name, or nil.
func (l layout) extras(data jsonvalue.Object) jsonvalue.Object {
	var out jsonvalue.Object
	for k, v := range data {
		if l.known(k) {
			continue
		}
		if out == nil {
			out = jsonvalue.Object{}
		}
		out[k] = jsonvalue.Clone(v)
	}
	return out
}

// header is embedded in every artifact entity.
type header struct {
	version Version
	extra   jsonvalue.Object
}

// SchemaVersion returns the decoded schema_version.
func (h header) SchemaVersion() Version { return h.version }

// Extra returns a copy of the top-level fields this schema generation does
// not define. They are written back unchanged by ToObject.
func (h header) Extra() jsonvalue.Object { return jsonvalue.CloneObject(h.extra) }

func (h header) object() jsonvalue.Object {
	out := make(jsonvalue.Object, len(h.extra)+8)
	for k, v := range h.extra {
		out[k] = jsonvalue.Clone(v)
	}
	out[fieldSchemaVersion] = jsonvalue.String(h.version)
	return out
}

// decoder builds one entity generation from a payload whose required keys
// and schema_version have already been checked.
type decoder[T any] func(data jsonvalue.Object, h header) (T, error)

// decode runs the checks shared by every kind, then hands off to the
// decoder registered for the payload's schema_version.
func decode[T any](payload jsonvalue.Value, l layout, table map[Version]decoder[T]) (T, error) {
	var zero T
	data, err := contract.MappingOf(payload, string(l.kind))
	if err != nil {
		return zero, err
	}
	if err := contract.RequireKeys(data, l.required, string(l.kind)); err != nil {
		return zero, err
	}
	version, err := parseVersion(data[fieldSchemaVersion], versionsOf(table))
	if err != nil {
		return zero, err
	}
	return table[version](data, header{version: version, extra: l.extras(data)})
}

// optionalMapping treats absent and null alike.
func optionalMapping(data jsonvalue.Object, field string) (jsonvalue.Object, error) {
	v := data[field]
	if jsonvalue.IsNull(v) {
		return nil, nil
	}
	return contract.MappingOf(v, field)
}

func optionalMappingSequence(data jsonvalue.Object, field string) ([]jsonvalue.Object, error) {
	v := data[field]
	if jsonvalue.IsNull(v) {
		return nil, nil
	}
	return contract.MappingSequenceOf(v, field)
}

func arrayOf(objs []jsonvalue.Object) jsonvalue.Array {
	out := make(jsonvalue.Array, len(objs))
	for i, o := range objs {
		out[i] = jsonvalue.CloneObject(o)
	}
	return out
}

func putOptional(out jsonvalue.Object, field string, obj jsonvalue.Object) {
	if obj != nil {
		out[field] = jsonvalue.CloneObject(obj)
	}
}

func putOptionalSequence(out jsonvalue.Object, field string, objs []jsonvalue.Object) {
	if objs != nil {
		out[field] = arrayOf(objs)
	}
}

func canonicalJSON(a Artifact) []byte {
	return canonicalize.Marshal(a.ToObject())
}

// Digest returns the content digest of an artifact's canonical form.
func Digest(a Artifact) (string, error) {
	return canonicalize.Digest(a.ToObject())
}

// Equal reports whether two artifacts are of the same kind and hold
// structurally equal canonical forms.
func Equal(a, b Artifact) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Kind() == b.Kind() && jsonvalue.Equal(a.ToObject(), b.ToObject())
}

func unmarshalInto[T any](data []byte, parse func(jsonvalue.Value) (*T, error), dst *T) error {
	v, err := jsonvalue.Parse(data)
	if err != nil {
		return fmt.Errorf("artifact: %w", err)
	}
	parsed, err := parse(v)
	if err != nil {
		return err
	}
	*dst = *parsed
	return nil
}

func joinNames(ns []string) string {
	return strings.Join(ns, ", ")
}
