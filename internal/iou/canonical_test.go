package iou

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortsKeys(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"borrower":  "bob",
		"lender":    "alice",
		"principal": int64(100),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"borrower":"bob","lender":"alice","principal":100}`, string(got))
}

func TestMarshalCanonical_NoHTMLEscaping(t *testing.T) {
	got, err := MarshalCanonical("a<b>&c")
	require.NoError(t, err)
	assert.Equal(t, `"a<b>&c"`, string(got))
}

func TestMarshalCanonical_NFCNormalization(t *testing.T) {
	// "é" as combining sequence (e + U+0301) must normalize to the
	// precomposed form U+00E9.
	decomposed := "é"
	precomposed := "é"

	a, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	b, err := MarshalCanonical(precomposed)
	require.NoError(t, err)
	assert.Equal(t, string(b), string(a))
}

func TestMarshalCanonical_FloatsForbidden(t *testing.T) {
	_, err := MarshalCanonical(1.5)
	assert.Error(t, err)

	_, err = MarshalCanonical(map[string]any{"rate": 0.1})
	assert.Error(t, err)
}

func TestMarshalCanonical_NullForbidden(t *testing.T) {
	_, err := MarshalCanonical(nil)
	assert.Error(t, err)

	_, err = MarshalCanonical(map[string]any{"lender": nil})
	assert.Error(t, err)
}

func TestMarshalCanonical_DomainTypes(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"party":  Party("alice"),
		"id":     LinearID("iou-1"),
		"status": StatusCreated,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"id":"iou-1","party":"alice","status":"created"}`, string(got))
}

func TestMarshalCanonical_NestedStructures(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"signers": []string{"alice", "bob"},
		"meta": map[string]any{
			"ok":  true,
			"seq": int64(3),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"meta":{"ok":true,"seq":3},"signers":["alice","bob"]}`, string(got))
}

func TestMarshalCanonical_ControlCharactersEscaped(t *testing.T) {
	got, err := MarshalCanonical("a\nbc")
	require.NoError(t, err)
	assert.Equal(t, `"a\nbc"`, string(got))
}

func TestCompareKeysRFC8785_UTF16Order(t *testing.T) {
	// U+FB33 (Hebrew presentation form, BMP) vs U+1D7D8 (mathematical
	// double-struck zero, encoded as a surrogate pair). In UTF-16 code
	// unit order the surrogate (0xD835...) sorts BEFORE 0xFB33, which is
	// the opposite of UTF-8 byte order.
	a := "\U0001d7d8"
	b := "דּ"
	assert.Equal(t, -1, compareKeysRFC8785(a, b))
	assert.Equal(t, 1, compareKeysRFC8785(b, a))
	assert.Equal(t, 0, compareKeysRFC8785(a, a))
}

func TestCompareKeysRFC8785_PrefixOrdering(t *testing.T) {
	assert.Equal(t, -1, compareKeysRFC8785("len", "lender"))
	assert.Equal(t, 1, compareKeysRFC8785("lender", "len"))
}
