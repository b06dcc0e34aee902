package model

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// BigInt wraps math/big.Int so artifact and statement records keep
// canonical decimal-string JSON encoding (never base64 blobs) while
// still giving callers a real *big.Int to do group arithmetic with.
type BigInt struct {
	*big.Int
}

// NewBigInt wraps an existing *big.Int. A nil value is preserved so
// zero-value BigInt fields round-trip as JSON null.
func NewBigInt(v *big.Int) BigInt { return BigInt{v} }

// MarshalJSON renders the wrapped integer as a quoted base-10 string.
func (b BigInt) MarshalJSON() ([]byte, error) {
	if b.Int == nil {
		return []byte("null"), nil
	}
	return json.Marshal(b.Int.String())
}

// UnmarshalJSON parses a quoted base-10 string into the wrapped integer.
func (b *BigInt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		b.Int = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("model: BigInt must be a JSON string: %w", err)
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return fmt.Errorf("model: BigInt: invalid decimal string %q", s)
	}
	b.Int = v
	return nil
}
