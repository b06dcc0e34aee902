package mixlib

import (
	"crypto/sha256"
	"fmt"
	"math/big"
)

// SigmaProof is a Chaum-Pedersen proof of equality of discrete logs,
// proving that the partial decryption factors d_i = c1_i^x were formed
// with the same private x as the trustee's published public share
// y = g^x, without revealing x.
type SigmaProof struct {
	T1, T2   []*big.Int // per-ciphertext commitments g^v_i, c1_i^v_i
	Response *big.Int   // s = v + c*x mod Q (single shared v across the batch)
}

func decryptionChallenge(grp *Group, y *big.Int, cts []Ciphertext, parts []*big.Int, t1, t2 []*big.Int) *big.Int {
	h := sha256.New()
	h.Write(y.Bytes())
	for i, ct := range cts {
		h.Write(ct.C1.Bytes())
		h.Write(ct.C2.Bytes())
		h.Write(parts[i].Bytes())
		h.Write(t1[i].Bytes())
		h.Write(t2[i].Bytes())
	}
	c := new(big.Int).SetBytes(h.Sum(nil))
	return c.Mod(c, grp.Q)
}

// PartialDecrypt computes the trustee's partial decryption factors
// (c1_i^x for each ciphertext) and a single batched Σ-proof that every
// factor used the same private key x underlying the trustee's public
// share y = g^x.
func PartialDecrypt(grp *Group, x *big.Int, cts []Ciphertext) ([]*big.Int, SigmaProof, error) {
	if len(cts) == 0 {
		return nil, SigmaProof{}, fmt.Errorf("mixlib: cannot partially decrypt an empty list")
	}
	y := grp.Exp(grp.G, x)

	parts := make([]*big.Int, len(cts))
	for i, ct := range cts {
		parts[i] = grp.Exp(ct.C1, x)
	}

	v, err := grp.RandomExponent()
	if err != nil {
		return nil, SigmaProof{}, fmt.Errorf("mixlib: partial decryption commitment: %w", err)
	}
	t1 := make([]*big.Int, len(cts))
	t2 := make([]*big.Int, len(cts))
	for i, ct := range cts {
		t1[i] = grp.Exp(grp.G, v)
		t2[i] = grp.Exp(ct.C1, v)
	}

	c := decryptionChallenge(grp, y, cts, parts, t1, t2)
	s := new(big.Int).Mul(c, x)
	s.Add(s, v)
	s.Mod(s, grp.Q)

	return parts, SigmaProof{T1: t1, T2: t2, Response: s}, nil
}

// VerifyPartialDecryption checks a trustee's Σ-proof against its
// published public share y and the ciphertext list it claims to have
// partially decrypted.
func VerifyPartialDecryption(grp *Group, y *big.Int, cts []Ciphertext, parts []*big.Int, proof SigmaProof) bool {
	if len(cts) == 0 || len(cts) != len(parts) {
		return false
	}
	if len(proof.T1) != len(cts) || len(proof.T2) != len(cts) || proof.Response == nil {
		return false
	}
	for _, p := range parts {
		if !grp.IsMember(p) {
			return false
		}
	}

	c := decryptionChallenge(grp, y, cts, parts, proof.T1, proof.T2)

	for i, ct := range cts {
		lhs1 := grp.Exp(grp.G, proof.Response)
		rhs1 := grp.Mul(proof.T1[i], grp.Exp(y, c))
		if lhs1.Cmp(rhs1) != 0 {
			return false
		}
		lhs2 := grp.Exp(ct.C1, proof.Response)
		rhs2 := grp.Mul(proof.T2[i], grp.Exp(parts[i], c))
		if lhs2.Cmp(rhs2) != 0 {
			return false
		}
	}
	return true
}

// CombineDecryptions multiplies each trustee's partial decryption
// factors together position-wise across all n trustees, yielding the
// combined factor to divide out of each ciphertext's C2.
func CombineDecryptions(grp *Group, parts [][]*big.Int) []*big.Int {
	if len(parts) == 0 {
		return nil
	}
	n := len(parts[0])
	combined := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		combined[i] = big.NewInt(1)
	}
	for _, trusteeParts := range parts {
		for i, p := range trusteeParts {
			combined[i] = grp.Mul(combined[i], p)
		}
	}
	return combined
}

// Decode divides the combined decryption factor out of each
// ciphertext's C2 and decodes the resulting group element to bytes.
func Decode(grp *Group, combined []*big.Int, cts []Ciphertext) ([][]byte, error) {
	if len(combined) != len(cts) {
		return nil, fmt.Errorf("mixlib: combined decryption count mismatch")
	}
	out := make([][]byte, len(cts))
	for i, ct := range cts {
		m := grp.Mul(ct.C2, grp.Inv(combined[i]))
		decoded, err := DecodeMessage(grp, m)
		if err != nil {
			return nil, fmt.Errorf("mixlib: decode ciphertext %d: %w", i, err)
		}
		out[i] = decoded
	}
	return out, nil
}
