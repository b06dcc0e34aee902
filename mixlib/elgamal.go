package mixlib

import (
	"fmt"
	"math/big"
)

// Ciphertext is a standard ElGamal ciphertext (C1, C2) = (g^r, m*y^r).
type Ciphertext struct {
	C1 *big.Int
	C2 *big.Int
}

// Encrypt encrypts group element m under public key y, returning the
// ciphertext and the randomness used (the randomness is returned so
// callers performing a shuffle can track the cumulative re-encryption
// factor; production callers typically discard it).
func Encrypt(grp *Group, y, m *big.Int) (Ciphertext, *big.Int, error) {
	r, err := grp.RandomExponent()
	if err != nil {
		return Ciphertext{}, nil, err
	}
	return EncryptWith(grp, y, m, r), r, nil
}

// EncryptWith encrypts with caller-supplied randomness r.
func EncryptWith(grp *Group, y, m, r *big.Int) Ciphertext {
	c1 := grp.Exp(grp.G, r)
	c2 := grp.Mul(m, grp.Exp(y, r))
	return Ciphertext{C1: c1, C2: c2}
}

// ReEncrypt multiplies in a fresh encryption of the identity, i.e.
// re-randomizes ct under the same plaintext without decrypting it.
func ReEncrypt(grp *Group, y *big.Int, ct Ciphertext, r *big.Int) Ciphertext {
	return Ciphertext{
		C1: grp.Mul(ct.C1, grp.Exp(grp.G, r)),
		C2: grp.Mul(ct.C2, grp.Exp(y, r)),
	}
}

// Decrypt recovers the plaintext group element given the full private key.
// Used only by tests and the single-trustee sanity paths; the
// distributed protocol instead uses PartialDecrypt/CombineDecryptions.
func Decrypt(grp *Group, x *big.Int, ct Ciphertext) *big.Int {
	s := grp.Exp(ct.C1, x)
	return grp.Mul(ct.C2, grp.Inv(s))
}

// EncodeMessage maps a byte payload to a member of the order-Q
// subgroup: with v = payload+1, exactly one of {v, P-v} is a quadratic
// residue (a subgroup member) for a safe prime P, so the embedding
// picks whichever is. The payload must satisfy payload+1 <= Q so the
// decoder can tell the two apart: v <= Q and P-v > Q, which makes the
// "<= Q" test the inverse of the choice made here.
func EncodeMessage(grp *Group, payload []byte) (*big.Int, error) {
	v := new(big.Int).SetBytes(payload)
	v.Add(v, big.NewInt(1))
	if v.Cmp(grp.Q) > 0 {
		return nil, fmt.Errorf("mixlib: payload too large for group order")
	}
	if grp.IsMember(v) {
		return v, nil
	}
	alt := new(big.Int).Sub(grp.P, v)
	if grp.IsMember(alt) {
		return alt, nil
	}
	return nil, fmt.Errorf("mixlib: message embedding failed")
}

// DecodeMessage inverts EncodeMessage: a group element <= Q was
// embedded directly, anything above Q was embedded as P-v.
func DecodeMessage(grp *Group, m *big.Int) ([]byte, error) {
	if m.Sign() <= 0 || m.Cmp(grp.P) >= 0 {
		return nil, fmt.Errorf("mixlib: group element out of range")
	}
	v := m
	if m.Cmp(grp.Q) > 0 {
		v = new(big.Int).Sub(grp.P, m)
	}
	payload := new(big.Int).Sub(v, big.NewInt(1))
	if payload.Sign() < 0 {
		return nil, fmt.Errorf("mixlib: message decoding failed")
	}
	return payload.Bytes(), nil
}
