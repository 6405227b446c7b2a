package canonicalize

import (
	"bytes"
	"testing"

	"github.com/nitishsanghi/SegAuditSegCI/pkg/jsonvalue"
)

func FuzzMarshal(f *testing.F) {
	f.Add([]byte(`{"a":1,"b":2}`))
	f.Add([]byte(`{"z":{"y":"foo","x":"bar"},"a":1}`))
	f.Add([]byte(`{"html":"<script>alert('xss')</script> &"}`))
	f.Add([]byte(`{"num":123.456,"bool":true,"null":null}`))
	f.Add([]byte(`{"pred":[[0,1],[1,0]],"meta":{"sample_id":"img_1"}}`))
	f.Add([]byte(`{}`))
	f.Add([]byte(`{"unicode":"こんにちは","emoji":"🚀"}`))

	f.Fuzz(func(t *testing.T, data []byte) {
		v, err := jsonvalue.Parse(data)
		if err != nil {
			t.Skip("invalid JSON input")
		}

		b1 := Marshal(v)
		b2 := Marshal(v)
		if !bytes.Equal(b1, b2) {
			t.Fatalf("non-deterministic output: %s vs %s", b1, b2)
		}

		// Canonical bytes must parse back to an equal value and be a fixpoint.
		back, err := jsonvalue.Parse(b1)
		if err != nil {
			t.Fatalf("canonical output is not valid JSON: %s: %v", b1, err)
		}
		if !bytes.Equal(Marshal(back), b1) {
			t.Fatalf("canonical form is not a fixpoint: %s", b1)
		}
	})
}
