package sample

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nitishsanghi/SegAuditSegCI/pkg/contract"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/jsonvalue"
)

const fullPayload = `{"pred":[[1,1],[0,0]],"gt":[[1,0],[0,0]],"logits":[[[0.1,0.9],[0.7,0.3]]],"meta":{"sample_id":"img_0042","domain":"medical","sensor":"ct","spacing":[1.0,1.0,5.0]}}`

func mustParse(t *testing.T, s string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(s))
	require.NoError(t, err)
	return v
}

func requireMessage(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	v, ok := contract.AsViolation(err)
	require.True(t, ok, "expected *contract.Violation, got %T", err)
	assert.Equal(t, message, v.Message)
}

func TestFromValue_Full(t *testing.T) {
	s, err := FromValue(mustParse(t, fullPayload))
	require.NoError(t, err)

	assert.Equal(t, "img_0042", s.SampleID())
	assert.Equal(t, DomainMedical, s.Domain())
	assert.Equal(t, "ct", s.Sensor())
	assert.True(t, s.HasGT())

	_, ok := s.Logits()
	assert.True(t, ok)

	// Extra meta keys survive.
	spacing, ok := s.Meta().Get("spacing")
	require.True(t, ok)
	assert.Equal(t, jsonvalue.Array{jsonvalue.Number("1.0"), jsonvalue.Number("1.0"), jsonvalue.Number("5.0")}, spacing)
}

func TestFromValue_TrimsMetaAndOmitsOptional(t *testing.T) {
	payload := mustParse(t, `{"pred":[[0,1],[1,0]],"meta":{"sample_id":" img_1 ","domain":" none ","sensor":" rgb "}}`)

	s, err := FromValue(payload)
	require.NoError(t, err)

	want := jsonvalue.Object{
		"sample_id": jsonvalue.String("img_1"),
		"domain":    jsonvalue.String("none"),
		"sensor":    jsonvalue.String("rgb"),
	}
	if diff := cmp.Diff(want, s.Meta()); diff != "" {
		t.Errorf("meta mismatch (-want +got):\n%s", diff)
	}

	out := s.ToObject()
	assert.False(t, out.Has("gt"))
	assert.False(t, out.Has("logits"))
	assert.ElementsMatch(t, []string{"meta", "pred"}, out.Keys())
}

func TestFromValue_NullOptionalIsAbsent(t *testing.T) {
	s, err := FromValue(mustParse(t, `{"pred":0,"gt":null,"logits":null,"meta":{"sample_id":"a","domain":"adas","sensor":"cam"}}`))
	require.NoError(t, err)
	assert.False(t, s.HasGT())
	assert.False(t, s.ToObject().Has("gt"))
	assert.False(t, s.ToObject().Has("logits"))
}

func TestFromValue_ZeroPredIsAccepted(t *testing.T) {
	s, err := FromValue(mustParse(t, `{"pred":[[0,0],[0,0]],"meta":{"sample_id":"a","domain":"industrial","sensor":"line"}}`))
	require.NoError(t, err)
	assert.Equal(t, jsonvalue.Array{
		jsonvalue.Array{jsonvalue.Number("0"), jsonvalue.Number("0")},
		jsonvalue.Array{jsonvalue.Number("0"), jsonvalue.Number("0")},
	}, s.Pred())
}

func TestFromValue_MissingKeys(t *testing.T) {
	_, err := FromValue(mustParse(t, `{"meta":{"sample_id":"a","domain":"none","sensor":"rgb"}}`))
	requireMessage(t, err, "Sample payload is missing required field 'pred'.")

	_, err = FromValue(mustParse(t, `{"pred":1}`))
	requireMessage(t, err, "Sample payload is missing required field 'meta'.")

	v, _ := contract.AsViolation(err)
	assert.Equal(t, contract.CodeMissingField, v.Code)
	assert.Equal(t, "meta", v.Field)
}

func TestFromValue_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		message string
	}{
		{"payload not mapping", `[1]`, "'payload' must be a mapping."},
		{"meta not mapping", `{"pred":1,"meta":[]}`, "'meta' must be a mapping."},
		{"sample_id missing", `{"pred":1,"meta":{"domain":"none","sensor":"rgb"}}`, "'meta.sample_id' must be a non-empty string."},
		{"sample_id blank", `{"pred":1,"meta":{"sample_id":"  ","domain":"none","sensor":"rgb"}}`, "'meta.sample_id' must be a non-empty string."},
		{"domain not string", `{"pred":1,"meta":{"sample_id":"a","domain":3,"sensor":"rgb"}}`, "'meta.domain' must be a non-empty string."},
		{"sensor blank", `{"pred":1,"meta":{"sample_id":"a","domain":"none","sensor":""}}`, "'meta.sensor' must be a non-empty string."},
		{"domain unknown", `{"pred":1,"meta":{"sample_id":"a","domain":"space","sensor":"rgb"}}`, "'meta.domain' must be one of {adas, industrial, medical, none}, got 'space'."},
		{"pred null", `{"pred":null,"meta":{"sample_id":"a","domain":"none","sensor":"rgb"}}`, "'pred' is required and cannot be null."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromValue(mustParse(t, tc.payload))
			requireMessage(t, err, tc.message)
		})
	}
}

func TestNew_AbsentPred(t *testing.T) {
	_, err := New(Fields{Meta: jsonvalue.Object{
		"sample_id": jsonvalue.String("a"),
		"domain":    jsonvalue.String("none"),
		"sensor":    jsonvalue.String("rgb"),
	}})
	requireMessage(t, err, "'pred' is required and cannot be null.")
}

func TestNew_InputIsolation(t *testing.T) {
	pred := jsonvalue.Array{jsonvalue.Number("1")}
	meta := jsonvalue.Object{
		"sample_id": jsonvalue.String("a"),
		"domain":    jsonvalue.String("adas"),
		"sensor":    jsonvalue.String("cam"),
		"extra":     jsonvalue.Object{"k": jsonvalue.String("v")},
	}
	s, err := New(Fields{Pred: pred, Meta: meta})
	require.NoError(t, err)
	before := string(s.CanonicalJSON())

	pred[0] = jsonvalue.Number("9")
	meta["sample_id"] = jsonvalue.String("changed")
	meta["extra"].(jsonvalue.Object)["k"] = jsonvalue.String("changed")

	assert.Equal(t, before, string(s.CanonicalJSON()))
}

func TestToObject_OutputIsolation(t *testing.T) {
	s, err := FromValue(mustParse(t, fullPayload))
	require.NoError(t, err)

	out := s.ToObject()
	out["meta"].(jsonvalue.Object)["sample_id"] = jsonvalue.String("mutated")
	out["pred"].(jsonvalue.Array)[0] = jsonvalue.Null{}

	gt, _ := s.GT()
	gt.(jsonvalue.Array)[0] = jsonvalue.Null{}

	assert.Equal(t, "img_0042", s.SampleID())
	again := s.ToObject()
	assert.Equal(t, jsonvalue.String("img_0042"), again["meta"].(jsonvalue.Object)["sample_id"])
	assert.NotEqual(t, jsonvalue.Null{}, again["pred"].(jsonvalue.Array)[0])
	assert.NotEqual(t, jsonvalue.Null{}, again["gt"].(jsonvalue.Array)[0])
}

func TestRoundTrip(t *testing.T) {
	s, err := FromValue(mustParse(t, fullPayload))
	require.NoError(t, err)

	again, err := FromValue(s.ToObject())
	require.NoError(t, err)
	assert.True(t, s.Equal(again))

	fromJSON, err := Parse(s.CanonicalJSON())
	require.NoError(t, err)
	if diff := cmp.Diff(s.ToObject(), fromJSON.ToObject()); diff != "" {
		t.Errorf("JSON round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONMarshalers(t *testing.T) {
	var s Sample
	require.NoError(t, json.Unmarshal([]byte(fullPayload), &s))
	assert.Equal(t, DomainMedical, s.Domain())

	out, err := json.Marshal(&s)
	require.NoError(t, err)
	assert.Equal(t, string(s.CanonicalJSON()), string(out))

	var bad Sample
	err = json.Unmarshal([]byte(`{"pred":1,"meta":{"sample_id":"a","domain":"x","sensor":"b"}}`), &bad)
	assert.ErrorIs(t, err, contract.ErrViolation)
}

func TestFromAny(t *testing.T) {
	s, err := FromAny(map[string]any{
		"pred": [][]uint8{{0, 1}, {1, 0}},
		"meta": map[string]any{"sample_id": "img_7", "domain": "adas", "sensor": "front_cam"},
	})
	require.NoError(t, err)
	assert.Equal(t, "front_cam", s.Sensor())
	assert.Equal(t, `{"meta":{"domain":"adas","sample_id":"img_7","sensor":"front_cam"},"pred":[[0,1],[1,0]]}`, string(s.CanonicalJSON()))
}

func TestValidate(t *testing.T) {
	s, err := FromValue(mustParse(t, fullPayload))
	require.NoError(t, err)
	assert.NoError(t, s.Validate())

	var zero Sample
	requireMessage(t, zero.Validate(), "'meta' must be a mapping.")
}

func TestParseDomain(t *testing.T) {
	for _, d := range Domains() {
		got, err := ParseDomain(string(d))
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}
	_, err := ParseDomain("Medical")
	requireMessage(t, err, "'meta.domain' must be one of {adas, industrial, medical, none}, got 'Medical'.")
}

func TestNew_RejectsNonJSONContent(t *testing.T) {
	meta := jsonvalue.Object{
		"sample_id": jsonvalue.String("a"),
		"domain":    jsonvalue.String("adas"),
		"sensor":    jsonvalue.String("cam"),
	}
	cases := []struct {
		name    string
		fields  Fields
		message string
	}{
		{"nan pred", Fields{Pred: jsonvalue.Number("NaN"), Meta: meta},
			`'pred' is not valid JSON: invalid number literal "NaN".`},
		{"plus in gt", Fields{Pred: jsonvalue.Number("0"), GT: jsonvalue.Array{jsonvalue.Number("+1")}, Meta: meta},
			`'gt[0]' is not valid JSON: invalid number literal "+1".`},
		{"empty logits literal", Fields{Pred: jsonvalue.Number("0"), Logits: jsonvalue.Number(""), Meta: meta},
			`'logits' is not valid JSON: invalid number literal "".`},
		{"nil pred element", Fields{Pred: jsonvalue.Array{nil}, Meta: meta},
			"'pred[0]' is not valid JSON: absent value."},
		{"nil meta member", Fields{Pred: jsonvalue.Number("0"), Meta: jsonvalue.Object{
			"sample_id": jsonvalue.String("a"), "domain": jsonvalue.String("adas"), "sensor": jsonvalue.String("cam"), "x": nil,
		}}, "'meta.x' is not valid JSON: absent value."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.fields)
			requireMessage(t, err, tc.message)
		})
	}
}

func TestCanonicalJSON_AlwaysParses(t *testing.T) {
	s, err := FromValue(mustParse(t, fullPayload))
	require.NoError(t, err)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.True(t, json.Valid(out))
}
