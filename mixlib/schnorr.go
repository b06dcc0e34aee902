package mixlib

import (
	"crypto/sha256"
	"fmt"
	"math/big"
)

// SchnorrProof is a non-interactive Schnorr proof of knowledge of the
// discrete log x of a public value y = g^x, domain-separated by a
// caller-supplied identifier (the proving trustee's RSA modulus bytes,
// per the protocol's use in AddShare).
type SchnorrProof struct {
	Commitment *big.Int // t = g^v
	Response   *big.Int // s = v + c*x mod Q
}

func schnorrChallenge(grp *Group, domainID []byte, y, t *big.Int) *big.Int {
	h := sha256.New()
	h.Write(domainID)
	h.Write([]byte{0})
	h.Write(grp.G.Bytes())
	h.Write([]byte{0})
	h.Write(y.Bytes())
	h.Write([]byte{0})
	h.Write(t.Bytes())
	c := new(big.Int).SetBytes(h.Sum(nil))
	return c.Mod(c, grp.Q)
}

// ProveSchnorr produces a proof of knowledge of x for y = g^x mod P.
func ProveSchnorr(grp *Group, domainID []byte, x *big.Int) (*big.Int, SchnorrProof, error) {
	y := grp.Exp(grp.G, x)
	v, err := grp.RandomExponent()
	if err != nil {
		return nil, SchnorrProof{}, err
	}
	t := grp.Exp(grp.G, v)
	c := schnorrChallenge(grp, domainID, y, t)

	s := new(big.Int).Mul(c, x)
	s.Add(s, v)
	s.Mod(s, grp.Q)

	return y, SchnorrProof{Commitment: t, Response: s}, nil
}

// VerifySchnorr checks a Schnorr proof of knowledge for public value y.
func VerifySchnorr(grp *Group, domainID []byte, y *big.Int, proof SchnorrProof) bool {
	if y == nil || proof.Commitment == nil || proof.Response == nil {
		return false
	}
	if !grp.IsMember(y) || !grp.IsMember(proof.Commitment) {
		return false
	}
	c := schnorrChallenge(grp, domainID, y, proof.Commitment)

	lhs := grp.Exp(grp.G, proof.Response)
	rhs := grp.Mul(proof.Commitment, grp.Exp(y, c))
	return lhs.Cmp(rhs) == 0
}

// KeyShare is a trustee's public ElGamal key share plus its Schnorr
// proof of knowledge of the matching private share.
type KeyShare struct {
	Public *big.Int
	Proof  SchnorrProof
}

// GenerateShare creates a fresh private/public ElGamal key share for
// one trustee, proving knowledge of the private share bound to
// domainID (the trustee's RSA modulus bytes, per spec).
func GenerateShare(grp *Group, domainID []byte) (priv *big.Int, share KeyShare, err error) {
	x, err := grp.RandomExponent()
	if err != nil {
		return nil, KeyShare{}, fmt.Errorf("mixlib: generate share: %w", err)
	}
	y, proof, err := ProveSchnorr(grp, domainID, x)
	if err != nil {
		return nil, KeyShare{}, fmt.Errorf("mixlib: generate share: %w", err)
	}
	return x, KeyShare{Public: y, Proof: proof}, nil
}

// VerifyShare checks a trustee's public share and POK.
func VerifyShare(grp *Group, domainID []byte, share KeyShare) bool {
	return VerifySchnorr(grp, domainID, share.Public, share.Proof)
}

// CombineShares multiplies public shares together to form the joint
// ElGamal public key, mod P.
func CombineShares(grp *Group, shares []*big.Int) *big.Int {
	product := big.NewInt(1)
	for _, s := range shares {
		product = grp.Mul(product, s)
	}
	return product
}
