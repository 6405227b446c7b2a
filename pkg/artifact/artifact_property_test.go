package artifact

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/nitishsanghi/SegAuditSegCI/pkg/jsonvalue"
)

// gateSummaryText renders a gate summary whose metadata keys are written in
// the given order.
func gateSummaryText(keys []string, values map[string]string) []byte {
	var buf bytes.Buffer
	buf.WriteString(`{"schema_version":"1.0","result":"fail","exit_code":1,"checks":[{"name":"overall_miou","status":"fail"}],"metadata":{`)
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(k)
		vb, _ := json.Marshal(values[k])
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteString(`}}`)
	return buf.Bytes()
}

func metadataFrom(keys, values []string) map[string]string {
	m := make(map[string]string)
	for i := 0; i < len(keys) && i < len(values); i++ {
		m[keys[i]] = values[i]
	}
	return m
}

// TestCanonicalJSONKeyOrderInvariance verifies canonical bytes do not depend
// on the key order of the input document.
// Property: canon(parse(asc(m))) == canon(parse(desc(m)))
func TestCanonicalJSONKeyOrderInvariance(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("canonical JSON ignores input key order", prop.ForAll(
		func(keys []string, values []string) bool {
			m := metadataFrom(keys, values)
			asc := make([]string, 0, len(m))
			for k := range m {
				asc = append(asc, k)
			}
			sort.Strings(asc)
			desc := make([]string, len(asc))
			for i, k := range asc {
				desc[len(asc)-1-i] = k
			}

			va, err := jsonvalue.Parse(gateSummaryText(asc, m))
			if err != nil {
				return false
			}
			vd, err := jsonvalue.Parse(gateSummaryText(desc, m))
			if err != nil {
				return false
			}
			ga, err := ParseGateSummary(va)
			if err != nil {
				return false
			}
			gd, err := ParseGateSummary(vd)
			if err != nil {
				return false
			}
			return bytes.Equal(ga.CanonicalJSON(), gd.CanonicalJSON())
		},
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.AnyString()),
	))

	properties.TestingRun(t)
}

// TestRoundTripIdentity verifies decode(encode(x)) == x.
// Property: Parse(x.ToObject()) == x and Parse(json(x)).ToObject() == x.ToObject()
func TestRoundTripIdentity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("report round trip", prop.ForAll(
		func(keys []string, values []string, pixels int64) bool {
			run := jsonvalue.Object{}
			for k, v := range metadataFrom(keys, values) {
				run[k] = jsonvalue.String(v)
			}
			payload := jsonvalue.Object{
				"schema_version":    jsonvalue.String("1.0"),
				"run_info":          run,
				"dataset":           jsonvalue.Object{"num_images": jsonvalue.Number(strconv.FormatInt(pixels, 10))},
				"metric_config":     jsonvalue.Object{},
				"summary_metrics":   jsonvalue.Object{"miou": jsonvalue.Number("0.5")},
				"per_class_metrics": jsonvalue.Object{},
				"slices":            jsonvalue.Array{jsonvalue.Object{"support": jsonvalue.Object{"pixels": jsonvalue.Number(strconv.FormatInt(pixels, 10))}}},
			}
			r, err := ParseReport(payload)
			if err != nil {
				return false
			}
			again, err := ParseReport(r.ToObject())
			if err != nil || !again.Equal(r) {
				return false
			}
			parsed, err := jsonvalue.Parse(r.CanonicalJSON())
			if err != nil {
				return false
			}
			fromJSON, err := ParseReport(parsed)
			if err != nil {
				return false
			}
			return jsonvalue.Equal(fromJSON.ToObject(), r.ToObject())
		},
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.AlphaString()),
		gen.Int64(),
	))

	properties.TestingRun(t)
}

// TestExitCodeClosedSet verifies only 0, 1 and 2 are accepted.
// Property: ParseGateSummary(exit_code=n) succeeds iff n in {0, 1, 2}
func TestExitCodeClosedSet(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("exit_code closed set", prop.ForAll(
		func(n int) bool {
			payload := jsonvalue.Object{
				"schema_version": jsonvalue.String("1.0"),
				"result":         jsonvalue.String("error"),
				"checks":         jsonvalue.Array{},
				"exit_code":      jsonvalue.Number(strconv.Itoa(n)),
			}
			_, err := ParseGateSummary(payload)
			return (err == nil) == (n >= 0 && n <= 2)
		},
		gen.IntRange(-50, 50),
	))

	properties.TestingRun(t)
}
