package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    Value
		expected string
	}{
		{"string", Str("hello"), `"hello"`},
		{"empty string", Str(""), `""`},
		{"int", Int(42), "42"},
		{"negative int", Int(-100), "-100"},
		{"zero", Int(0), "0"},
		{"max int64", Int(9223372036854775807), "9223372036854775807"},
		{"bool true", Bool(true), "true"},
		{"bool false", Bool(false), "false"},
		{"empty array", Arr{}, "[]"},
		{"empty object", Obj{}, "{}"},
		{"array of ints", Arr{Int(1), Int(2), Int(3)}, "[1,2,3]"},
		{"simple object", Obj{"a": Int(1)}, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalSortedKeys(t *testing.T) {
	obj := Obj{
		"zebra": Int(1),
		"alpha": Int(2),
		"beta":  Int(3),
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"beta":3,"zebra":1}`, string(result))
}

func TestMarshalCanonicalNestedSortedKeys(t *testing.T) {
	obj := Obj{
		"z": Obj{
			"b": Int(1),
			"a": Int(2),
		},
		"a": Int(3),
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"a":3,"z":{"a":2,"b":1}}`, string(result))
}

func TestMarshalCanonicalUTF16Ordering(t *testing.T) {
	// U+E000 vs U+10000 - UTF-16 order differs from UTF-8.
	// This is THE critical test for RFC 8785 compliance.
	obj := Obj{
		"": Int(1), // UTF-16: 0xE000
		"𐀀":      Int(2), // UTF-16: 0xD800, 0xDC00 (surrogate pair)
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)

	// UTF-16 order: 0xD800 < 0xE000, so the surrogate pair sorts first.
	expected := `{"𐀀":2,"` + "" + `":1}`
	assert.Equal(t, expected, string(result))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	tests := []struct {
		name     string
		input    Value
		expected string
	}{
		{"less than", Str("a < b"), `"a < b"`},
		{"greater than", Str("a > b"), `"a > b"`},
		{"ampersand", Str("a & b"), `"a & b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalStringEscapes(t *testing.T) {
	tests := []struct {
		name     string
		input    Value
		expected string
	}{
		{"quote", Str(`say "hi"`), `"say \"hi\""`},
		{"backslash", Str(`a\b`), `"a\\b"`},
		{"newline", Str("a\nb"), `"a\nb"`},
		{"tab", Str("a\tb"), `"a\tb"`},
		{"control", Str("a\x01b"), `"a\u0001b"`},
		{"line separator unescaped", Str("a b"), "\"a b\""},
		{"paragraph separator unescaped", Str("a b"), "\"a b\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalNFCNormalization(t *testing.T) {
	// U+0065 U+0301 (e + combining acute) normalizes to U+00E9.
	decomposed := Str("café")
	composed := Str("café")

	a, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	b, err := MarshalCanonical(composed)
	require.NoError(t, err)
	assert.Equal(t, string(b), string(a))
}

func TestMarshalCanonicalNilForbidden(t *testing.T) {
	_, err := MarshalCanonical(Obj{"a": nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null is forbidden")
}
