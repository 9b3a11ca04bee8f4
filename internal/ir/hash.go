package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainProgram = "warren/program/v1"
	DomainTerm    = "warren/term/v1"
	DomainRecord  = "warren/record/v1"
)

// ContentHash computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func ContentHash(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// TermHash computes the content-addressed identity of a term.
func TermHash(t Term) (string, error) {
	canonical, err := MarshalCanonical(t)
	if err != nil {
		return "", fmt.Errorf("TermHash: failed to marshal: %w", err)
	}
	return ContentHash(DomainTerm, canonical), nil
}

// MustTermHash is like TermHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustTermHash(t Term) string {
	h, err := TermHash(t)
	if err != nil {
		panic(err)
	}
	return h
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
