package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    IRValue
		expected string
	}{
		{"string", IRString("hello"), `"hello"`},
		{"empty string", IRString(""), `""`},
		{"int", IRInt(42), "42"},
		{"negative int", IRInt(-100), "-100"},
		{"bool true", IRBool(true), "true"},
		{"bool false", IRBool(false), "false"},
		{"empty array", IRArray{}, "[]"},
		{"empty object", IRObject{}, "{}"},
		{"nested", IRObject{"z": IRObject{"b": IRInt(1), "a": IRInt(2)}, "a": IRInt(3)}, `{"a":3,"z":{"a":2,"b":1}}`},
		{"no html escaping", IRString("<a&b>"), `"<a&b>"`},
		{"control chars", IRString("a\nb\t\x01"), `"a\nb\t\u0001"`},
		{"quote and backslash", IRString(`"\`), `"\"\\"`},
		{"line separator literal", IRString("\u2028"), "\"\u2028\""},
		{"section sign", IRString("§9B"), `"§9B"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalUTF16Ordering(t *testing.T) {
	obj := IRObject{
		"\uE000":     IRInt(1),
		"\U00010000": IRInt(2),
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)

	// surrogate 0xD800 sorts before 0xE000
	expected := "{\"\U00010000\":2,\"\uE000\":1}"
	assert.Equal(t, expected, string(result))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	a, err := MarshalCanonical(IRString("e\u0301"))
	require.NoError(t, err)
	b, err := MarshalCanonical(IRString("\u00e9"))
	require.NoError(t, err)
	assert.Equal(t, b, a)
}

func TestMarshalCanonicalRejectsNull(t *testing.T) {
	_, err := MarshalCanonical(IRNull{})
	assert.Error(t, err)

	_, err = MarshalCanonical(IRObject{"a": IRArray{IRNull{}}})
	assert.Error(t, err)
}

func TestIRObjectUnmarshalRejectsFloats(t *testing.T) {
	var obj IRObject
	require.NoError(t, obj.UnmarshalJSON([]byte(`{"amount":30000,"is_chair":true,"tag":"x","list":[1]}`)))
	amount, ok := obj.Int("amount")
	assert.True(t, ok)
	assert.Equal(t, int64(30000), amount)
	chair, ok := obj.Bool("is_chair")
	assert.True(t, ok)
	assert.True(t, chair)

	assert.Error(t, obj.UnmarshalJSON([]byte(`{"factor":1.5}`)))
}
