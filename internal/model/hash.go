package model

import (
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// CanonicalJSON returns the canonical encoding of v: compact
// (no insignificant whitespace), UTF-8, field order equal to the
// struct's declared field order. This is exactly what encoding/json.Marshal
// already produces for a struct, provided MarshalIndent is never used
// and map-typed fields are avoided in signed records.
func CanonicalJSON(v interface{}) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("model: canonical encoding: %w", err)
	}
	return b, nil
}

// Hash returns the hex-encoded SHA-512 digest of v's canonical JSON
// encoding. Used for every *Hash field on Statement records.
func Hash(v interface{}) (string, error) {
	b, err := CanonicalJSON(v)
	if err != nil {
		return "", err
	}
	sum := sha512.Sum512(b)
	return hex.EncodeToString(sum[:]), nil
}
