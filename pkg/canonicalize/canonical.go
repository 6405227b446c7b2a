// Package canonicalize produces the byte-stable JSON form of SegAudit
// artifacts and the content digests derived from it.
//
// Canonical form:
//  1. Object keys are sorted lexicographically by UTF-8 bytes.
//  2. No insignificant whitespace.
//  3. '<', '>' and '&' are written as-is; encoding/json would escape them.
//  4. Number literals are emitted exactly as they were parsed.
package canonicalize

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/gowebpki/jcs"

	"github.com/nitishsanghi/SegAuditSegCI/pkg/jsonvalue"
)

// HashPrefix tags every digest produced by this package.
const HashPrefix = "sha256:"

// Marshal returns the canonical JSON encoding of v. An absent (nil) value
// encodes as null.
func Marshal(v jsonvalue.Value) []byte {
	var buf bytes.Buffer
	writeValue(&buf, v)
	return buf.Bytes()
}

// MarshalAny converts v with jsonvalue.FromAny and returns its canonical form.
func MarshalAny(v any) ([]byte, error) {
	jv, err := jsonvalue.FromAny(v)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	return Marshal(jv), nil
}

// String returns the canonical form as a string.
func String(v jsonvalue.Value) string {
	return string(Marshal(v))
}

// Digest returns the sha256 digest of the RFC 8785 form of v.
//
// RFC 8785 normalizes number spelling, so {"a":1.0} and {"a":1} share a
// digest even though their canonical bytes differ.
func Digest(v jsonvalue.Value) (string, error) {
	normalized, err := jcs.Transform(Marshal(v))
	if err != nil {
		return "", fmt.Errorf("canonicalize: jcs transform failed: %w", err)
	}
	return HashBytes(normalized), nil
}

// HashBytes returns the prefixed sha256 hex digest of raw bytes.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return HashPrefix + hex.EncodeToString(sum[:])
}

func writeValue(buf *bytes.Buffer, v jsonvalue.Value) {
	switch t := v.(type) {
	case nil, jsonvalue.Null:
		buf.WriteString("null")
	case jsonvalue.Bool:
		if t {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case jsonvalue.Number:
		buf.WriteString(string(t))
	case jsonvalue.String:
		writeString(buf, string(t))
	case jsonvalue.Array:
		buf.WriteByte('[')
		for i, elem := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeValue(buf, elem)
		}
		buf.WriteByte(']')
	case jsonvalue.Object:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(buf, k)
			buf.WriteByte(':')
			writeValue(buf, t[k])
		}
		buf.WriteByte('}')
	}
}

func writeString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))
}
