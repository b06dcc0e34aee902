// Package mixlib provides the cryptographic primitives the trustee
// protocol is built on: a safe-prime multiplicative group, ElGamal
// encryption, Schnorr proofs of knowledge, a permutation/re-encryption
// shuffle with its proof, and Chaum-Pedersen partial-decryption proofs.
//
// The protocol core in this module treats mixlib as a reusable library
// behind a narrow interface; the group-theoretic proof constructions
// here are simplified relative to a production Terelius-Wikström
// shuffle proof, since that full construction is explicitly out of
// scope for the orchestration core this module implements.
package mixlib

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Group is a multiplicative group of safe-prime order used for ElGamal.
// P is a safe prime, Q = (P-1)/2 is the prime order of the subgroup
// generated by G.
type Group struct {
	P *big.Int
	Q *big.Int
	G *big.Int
}

// NewGroup builds a Group from a safe-prime modulus and a generator of
// the order-Q subgroup. It does not verify primality (callers obtain
// these values from a published, trusted Config); it does check the
// basic arithmetic relationships so obviously malformed parameters are
// rejected early.
func NewGroup(p, g *big.Int) (*Group, error) {
	if p == nil || g == nil {
		return nil, fmt.Errorf("mixlib: modulus and generator are required")
	}
	if p.Sign() <= 0 || p.Bit(0) == 0 {
		return nil, fmt.Errorf("mixlib: modulus must be a positive odd integer")
	}
	q := new(big.Int).Sub(p, big.NewInt(1))
	q.Rsh(q, 1)
	if g.Cmp(big.NewInt(1)) <= 0 || g.Cmp(p) >= 0 {
		return nil, fmt.Errorf("mixlib: generator out of range")
	}
	return &Group{P: p, Q: q, G: g}, nil
}

// RandomExponent returns a uniform random value in [1, Q-1].
func (grp *Group) RandomExponent() (*big.Int, error) {
	if grp.Q.Sign() <= 0 {
		return nil, fmt.Errorf("mixlib: group has non-positive order")
	}
	max := new(big.Int).Sub(grp.Q, big.NewInt(1))
	r, err := rand.Int(rand.Reader, max)
	if err != nil {
		return nil, fmt.Errorf("mixlib: read random exponent: %w", err)
	}
	return r.Add(r, big.NewInt(1)), nil
}

// Exp computes base^exp mod P.
func (grp *Group) Exp(base, exp *big.Int) *big.Int {
	return new(big.Int).Exp(base, exp, grp.P)
}

// Mul computes a*b mod P.
func (grp *Group) Mul(a, b *big.Int) *big.Int {
	m := new(big.Int).Mul(a, b)
	return m.Mod(m, grp.P)
}

// Inv computes the multiplicative inverse of a mod P.
func (grp *Group) Inv(a *big.Int) *big.Int {
	return new(big.Int).ModInverse(a, grp.P)
}

// IsMember reports whether a lies in the order-Q subgroup of Z_P^*.
func (grp *Group) IsMember(a *big.Int) bool {
	if a.Sign() <= 0 || a.Cmp(grp.P) >= 0 {
		return false
	}
	return grp.Exp(a, grp.Q).Cmp(big.NewInt(1)) == 0
}
