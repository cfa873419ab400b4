package canon

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int", 42, "42"},
		{"negative int64", int64(-100), "-100"},
		{"max uint64", uint64(math.MaxUint64), "18446744073709551615"},
		{"bool", true, "true"},
		{"null", nil, "null"},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"floats", []float64{0, 1, 0.5, -2.25}, "[0,1,0.5,-2.25]"},
		{"strings", []string{"a", "b"}, `["a","b"]`},
		{"no html escape", "<a&b>", `"<a&b>"`},
		{"control chars", "a\nb\u0001", `"a\nb\u0001"`},
		{"quote and backslash", `"\`, `"\"\\"`},
		{"line separator literal", "\u2028", "\"\u2028\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(got))
		})
	}
}

func TestMarshalSortedKeys(t *testing.T) {
	obj := map[string]any{
		"zebra": 1,
		"alpha": map[string]any{"b": 1, "a": 2},
		"beta":  3,
	}

	got, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":{"a":2,"b":1},"beta":3,"zebra":1}`, string(got))
}

func TestMarshalUTF16KeyOrder(t *testing.T) {
	// U+1F600 encodes as surrogates 0xD83D 0xDE00, which sort before
	// U+FF61 in UTF-16 but after it in UTF-8.
	obj := map[string]any{"\uFF61": 1, "\U0001F600": 2}

	got, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":2,\"\uFF61\":1}", string(got))
}

func TestMarshalNFC(t *testing.T) {
	decomposed := "e\u0301"
	got, err := Marshal(decomposed)
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(got))
}

func TestMarshalRejectsNonFinite(t *testing.T) {
	_, err := Marshal(math.NaN())
	assert.Error(t, err)

	_, err = Marshal([]any{1, math.Inf(1)})
	assert.ErrorContains(t, err, "[1]")

	_, err = Marshal(struct{}{})
	assert.ErrorContains(t, err, "unsupported type")
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{1, "1"},
		{1e6, "1000000"},
		{5e-14, "5e-14"},
		{1e21, "1e+21"},
		{1.5e-7, "1.5e-7"},
		{0.000001, "0.000001"},
		{6.0221415e14, "602214150000000"},
		{math.Nextafter(0.3, 1), "0.30000000000000004"},
	}

	for _, tt := range tests {
		got, err := FormatFloat(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "FormatFloat(%v)", tt.in)
	}
}

func TestMarshalValue(t *testing.T) {
	type inner struct {
		Volume float64 `json:"vol"`
	}
	type cfg struct {
		Model string  `json:"model"`
		Seed  uint64  `json:"seed"`
		Vols  inner   `json:"vols"`
		Times []int64 `json:"times,omitempty"`
	}

	got, err := MarshalValue(cfg{Model: "calmodulin", Seed: math.MaxUint64, Vols: inner{Volume: 5e-14}})
	require.NoError(t, err)
	assert.Equal(t, `{"model":"calmodulin","seed":18446744073709551615,"vols":{"vol":5e-14}}`, string(got))
}

func TestMarshalJSONNumber(t *testing.T) {
	got, err := Marshal([]any{json.Number("1.50"), json.Number("7"), json.Number("1e3")})
	require.NoError(t, err)
	assert.Equal(t, "[1.5,7,1000]", string(got))
}
