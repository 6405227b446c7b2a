package jsonvalue

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_KeepsNumberLiterals(t *testing.T) {
	v, err := Parse([]byte(`{"a":1,"b":1.0,"c":-2.5e3,"d":[true,null,"x"]}`))
	require.NoError(t, err)

	want := Object{
		"a": Number("1"),
		"b": Number("1.0"),
		"c": Number("-2.5e3"),
		"d": Array{Bool(true), Null{}, String("x")},
	}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_RejectsDuplicateKeys(t *testing.T) {
	_, err := Parse([]byte(`{"a":1,"a":2}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate object key")
}

func TestParse_RejectsTrailingData(t *testing.T) {
	_, err := Parse([]byte(`{} {}`))
	require.Error(t, err)

	_, err = Parse([]byte(`{"a":`))
	require.Error(t, err)

	_, err = Parse([]byte(``))
	require.Error(t, err)
}

func TestParse_EmptyContainersAreNotNil(t *testing.T) {
	v, err := Parse([]byte(`{"a":[],"b":{}}`))
	require.NoError(t, err)
	obj := v.(Object)
	assert.NotNil(t, obj["a"].(Array))
	assert.NotNil(t, obj["b"].(Object))
}

func TestNumber_IsInteger(t *testing.T) {
	cases := map[Number]bool{
		"0":     true,
		"-12":   true,
		"1.0":   false,
		"1e3":   false,
		"2E-1":  false,
		"":      false,
		"12345": true,
	}
	for n, want := range cases {
		assert.Equal(t, want, n.IsInteger(), "literal %q", string(n))
	}

	i, ok := Number("42").Int64()
	assert.True(t, ok)
	assert.Equal(t, int64(42), i)

	_, ok = Number("99999999999999999999").Int64()
	assert.False(t, ok)
}

func TestFromAny_GoValues(t *testing.T) {
	type label string
	v, err := FromAny(map[string]any{
		"ints":   []int{0, 1},
		"mask":   [][]uint8{{0, 1}, {1, 0}},
		"float":  1.0,
		"label":  label("road"),
		"nested": map[string]string{"k": "v"},
		"nil":    nil,
		"num":    json.Number("7"),
	})
	require.NoError(t, err)

	want := Object{
		"ints":   Array{Number("0"), Number("1")},
		"mask":   Array{Array{Number("0"), Number("1")}, Array{Number("1"), Number("0")}},
		"float":  Number("1.0"),
		"label":  String("road"),
		"nested": Object{"k": String("v")},
		"nil":    Null{},
		"num":    Number("7"),
	}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("FromAny mismatch (-want +got):\n%s", diff)
	}
}

func TestFromAny_Structs(t *testing.T) {
	type window struct {
		NumSamples int `json:"num_samples"`
	}
	v, err := FromAny(window{NumSamples: 256})
	require.NoError(t, err)
	assert.Equal(t, Object{"num_samples": Number("256")}, v)
}

func TestFromAny_RejectsNonJSON(t *testing.T) {
	_, err := FromAny(math.NaN())
	require.Error(t, err)

	_, err = FromAny(map[string]any{"x": math.Inf(1)})
	require.Error(t, err)

	_, err = FromAny(json.Number("true"))
	require.Error(t, err)

	_, err = FromAny(make(chan int))
	require.Error(t, err)
}

func TestFromAny_CopiesValues(t *testing.T) {
	src := Object{"list": Array{Number("1")}}
	v, err := FromAny(src)
	require.NoError(t, err)

	src["list"].(Array)[0] = Number("9")
	src["extra"] = Null{}

	assert.Equal(t, Object{"list": Array{Number("1")}}, v)
}

func TestClone_IsDeep(t *testing.T) {
	orig := Object{"a": Object{"b": Array{String("x")}}}
	cp := CloneObject(orig)
	require.True(t, Equal(orig, cp))

	cp["a"].(Object)["b"].(Array)[0] = String("y")
	assert.Equal(t, String("x"), orig["a"].(Object)["b"].(Array)[0])
	assert.False(t, Equal(orig, cp))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(nil, Null{}))
	assert.False(t, Equal(Number("1"), Number("1.0")))
	assert.True(t, Equal(Array{}, Array(nil)))
	assert.False(t, Equal(Object{"a": Null{}}, Object{"b": Null{}}))
}

func TestToAny_RoundTrip(t *testing.T) {
	v := Object{"a": Array{Number("1"), Bool(false), Null{}, String("s")}}
	back, err := FromAny(ToAny(v))
	require.NoError(t, err)
	assert.True(t, Equal(v, back))
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "absent", TypeName(nil))
	assert.Equal(t, "null", TypeName(Null{}))
	assert.Equal(t, "object", TypeName(Object{}))
	assert.True(t, IsNull(nil))
	assert.True(t, IsNull(Null{}))
	assert.False(t, IsNull(String("")))
}

func TestNumber_InvalidLiterals(t *testing.T) {
	for _, lit := range []Number{"", "NaN", "Infinity", "+1", "01", "1.", ".5", "1e", "-", " 1", "1 ", "0x10"} {
		assert.False(t, lit.Valid(), "literal %q", string(lit))
		assert.False(t, lit.IsInteger(), "literal %q", string(lit))
		_, ok := lit.Int64()
		assert.False(t, ok, "literal %q", string(lit))
	}
	for _, lit := range []Number{"0", "-0", "1.5", "-2.5e3", "1E+2"} {
		assert.True(t, lit.Valid(), "literal %q", string(lit))
	}
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(nil))
	assert.NoError(t, Check(Object{"a": Array{Number("1"), Null{}, String("ü")}}))

	cases := []struct {
		name   string
		v      Value
		path   string
		reason string
	}{
		{"nan", Number("NaN"), "", `invalid number literal "NaN"`},
		{"nested plus", Object{"a": Array{Number("1"), Number("+1")}}, "a[1]", `invalid number literal "+1"`},
		{"nil member", Object{"x": nil}, "x", "absent value"},
		{"nil element", Array{nil}, "[0]", "absent value"},
		{"bad utf8 string", Object{"s": String("ab\xffcd")}, "s", "string is not valid UTF-8"},
		{"bad utf8 key", Object{"k\xff": Null{}}, "", "object key is not valid UTF-8"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Check(tc.v)
			var ce *CheckError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tc.path, ce.Path)
			assert.Equal(t, tc.reason, ce.Reason)
		})
	}
}

func TestParse_RejectsInvalidUTF8(t *testing.T) {
	_, err := Parse([]byte("{\"a\":\"ab\xffcd\"}"))
	assert.ErrorContains(t, err, "not valid UTF-8")
}

func TestFromAny_ChecksValues(t *testing.T) {
	_, err := FromAny(Object{"n": Number("NaN")})
	var ce *CheckError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "n", ce.Path)
}
