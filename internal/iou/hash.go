package iou

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for a future algorithm migration.
const (
	DomainTransaction = "tally/transaction/v1"
	DomainInstrument  = "tally/instrument/v1"
)

// HashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain || 0x00 || data). The null separator prevents
// domain/data boundary ambiguity.
func HashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// InstrumentFingerprint computes the content-addressed identity of one
// instrument revision. Two instruments with identical field values hash
// identically regardless of where or when they were serialized.
func InstrumentFingerprint(in Instrument) (string, error) {
	canonical, err := MarshalCanonical(in.CanonicalMap())
	if err != nil {
		return "", fmt.Errorf("InstrumentFingerprint: %w", err)
	}
	return HashWithDomain(DomainInstrument, canonical), nil
}

// MustInstrumentFingerprint is like InstrumentFingerprint but panics on
// error. Use only in tests or when inputs are known to be valid.
func MustInstrumentFingerprint(in Instrument) string {
	fp, err := InstrumentFingerprint(in)
	if err != nil {
		panic(err)
	}
	return fp
}
