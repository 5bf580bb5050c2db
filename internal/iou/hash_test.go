package iou

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashWithDomain_DomainSeparation(t *testing.T) {
	data := []byte(`{"linear_id":"iou-1"}`)

	a := HashWithDomain(DomainTransaction, data)
	b := HashWithDomain(DomainInstrument, data)
	assert.NotEqual(t, a, b, "same payload under different domains must hash differently")
}

func TestHashWithDomain_Stable(t *testing.T) {
	data := []byte("payload")
	assert.Equal(t, HashWithDomain(DomainInstrument, data), HashWithDomain(DomainInstrument, data))
	assert.Len(t, HashWithDomain(DomainInstrument, data), 64)
}

func TestHashWithDomain_BoundaryUnambiguous(t *testing.T) {
	// Without the null separator, ("ab", "c") and ("a", "bc") would
	// collide.
	assert.NotEqual(t, HashWithDomain("ab", []byte("c")), HashWithDomain("a", []byte("bc")))
}

func TestInstrumentFingerprint_EqualValuesEqualHashes(t *testing.T) {
	a := testInstrument()
	b := testInstrument()

	fpA, err := InstrumentFingerprint(a)
	require.NoError(t, err)
	fpB, err := InstrumentFingerprint(b)
	require.NoError(t, err)
	assert.Equal(t, fpA, fpB)
}

func TestInstrumentFingerprint_DifferentValuesDifferentHashes(t *testing.T) {
	a := testInstrument()
	b := a.WithPayment(100)

	assert.NotEqual(t, MustInstrumentFingerprint(a), MustInstrumentFingerprint(b))
}
