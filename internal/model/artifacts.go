// Package model defines the canonical wire representation of every
// protocol artifact and statement: the payloads trustees publish to
// the board, and the small signed Statement records that attest to
// their hashes. Field order in every struct below is the canonical
// JSON field order (encoding/json.Marshal follows Go struct
// declaration order), so these declarations ARE the wire format.
package model

import (
	"fmt"
	"math/big"

	"github.com/voteosis/trustee/mixlib"
)

// Ciphertext is the JSON-safe form of mixlib.Ciphertext.
type Ciphertext struct {
	C1 BigInt `json:"c1"`
	C2 BigInt `json:"c2"`
}

// ToMixlib converts to the arithmetic type mixlib operates on.
func (c Ciphertext) ToMixlib() mixlib.Ciphertext {
	return mixlib.Ciphertext{C1: c.C1.Int, C2: c.C2.Int}
}

// CiphertextFromMixlib wraps a mixlib.Ciphertext for JSON storage.
func CiphertextFromMixlib(ct mixlib.Ciphertext) Ciphertext {
	return Ciphertext{C1: NewBigInt(ct.C1), C2: NewBigInt(ct.C2)}
}

// CiphertextsToMixlib converts a slice in one pass.
func CiphertextsToMixlib(cts []Ciphertext) []mixlib.Ciphertext {
	out := make([]mixlib.Ciphertext, len(cts))
	for i, c := range cts {
		out[i] = c.ToMixlib()
	}
	return out
}

// CiphertextsFromMixlib wraps a slice in one pass.
func CiphertextsFromMixlib(cts []mixlib.Ciphertext) []Ciphertext {
	out := make([]Ciphertext, len(cts))
	for i, c := range cts {
		out[i] = CiphertextFromMixlib(c)
	}
	return out
}

// Config is the immutable election configuration published by the
// authority. Field order fixes the canonical JSON encoding.
type Config struct {
	ElectionID         string   `json:"electionId"`
	Name               string   `json:"name"`
	Modulus            BigInt   `json:"modulus"`
	Generator          BigInt   `json:"generator"`
	ItemCount          int      `json:"itemCount"`
	BallotboxPublicKey string   `json:"ballotboxPublicKey"`
	Trustees           []string `json:"trustees"`
}

// Group builds the mixlib.Group described by this Config.
func (c Config) Group() (*mixlib.Group, error) {
	grp, err := mixlib.NewGroup(c.Modulus.Int, c.Generator.Int)
	if err != nil {
		return nil, fmt.Errorf("model: config group: %w", err)
	}
	return grp, nil
}

// TrusteeCount is the number of trustees listed in Config.Trustees.
func (c Config) TrusteeCount() int { return len(c.Trustees) }

// SchnorrProof is the JSON-safe form of mixlib.SchnorrProof.
type SchnorrProof struct {
	Commitment BigInt `json:"commitment"`
	Response   BigInt `json:"response"`
}

func (p SchnorrProof) ToMixlib() mixlib.SchnorrProof {
	return mixlib.SchnorrProof{Commitment: p.Commitment.Int, Response: p.Response.Int}
}

func SchnorrProofFromMixlib(p mixlib.SchnorrProof) SchnorrProof {
	return SchnorrProof{Commitment: NewBigInt(p.Commitment), Response: NewBigInt(p.Response)}
}

// Share is a trustee's per-item ElGamal key share: the public share
// with its Schnorr proof of knowledge, plus the AES-wrapped private
// share. EncryptedPrivate and IV are raw bytes, base64-encoded by the
// default []byte JSON marshaling.
type Share struct {
	Public           BigInt       `json:"public"`
	Proof            SchnorrProof `json:"proof"`
	EncryptedPrivate []byte       `json:"encryptedPrivate"`
	IV               []byte       `json:"iv"`
}

// PublicKey is the combined per-item ElGamal public key.
type PublicKey struct {
	Value BigInt `json:"value"`
}

// Ballots is the ordered ciphertext list delivered by the ballotbox
// for one item.
type Ballots struct {
	Ciphertexts []Ciphertext `json:"ciphertexts"`
}

// PreShuffleData is the LOCAL-only (never published) precomputed
// permutation and blinding values for one trustee's online shuffle
// phase of one item.
type PreShuffleData struct {
	Permutation []int    `json:"permutation"`
	Blinders    []BigInt `json:"blinders"`
}

// ToMixlib converts to the offline-phase type mixlib's online shuffle
// step consumes.
func (d PreShuffleData) ToMixlib() *mixlib.OfflineShuffleData {
	blinders := make([]*big.Int, len(d.Blinders))
	for i, b := range d.Blinders {
		blinders[i] = b.Int
	}
	return &mixlib.OfflineShuffleData{Permutation: d.Permutation, Blinders: blinders}
}

// PreShuffleDataFromMixlib wraps offline shuffle data for local storage.
func PreShuffleDataFromMixlib(d *mixlib.OfflineShuffleData) PreShuffleData {
	blinders := make([]BigInt, len(d.Blinders))
	for i, b := range d.Blinders {
		blinders[i] = NewBigInt(b)
	}
	return PreShuffleData{Permutation: d.Permutation, Blinders: blinders}
}

// ShuffleProof is the JSON-safe form of mixlib.ShuffleProof.
type ShuffleProof struct {
	T1        BigInt `json:"t1"`
	T2        BigInt `json:"t2"`
	Response  BigInt `json:"response"`
	Challenge BigInt `json:"challenge"`
}

func (p ShuffleProof) ToMixlib() mixlib.ShuffleProof {
	return mixlib.ShuffleProof{
		T1:        p.T1.Int,
		T2:        p.T2.Int,
		Response:  p.Response.Int,
		Challenge: p.Challenge.Int,
	}
}

func ShuffleProofFromMixlib(p mixlib.ShuffleProof) ShuffleProof {
	return ShuffleProof{
		T1:        NewBigInt(p.T1),
		T2:        NewBigInt(p.T2),
		Response:  NewBigInt(p.Response),
		Challenge: NewBigInt(p.Challenge),
	}
}

// Mix is one trustee's published re-encryption shuffle of the mix
// chain's parent ciphertexts for one item, binding to its parent by
// hash in the matching MixStatement.
type Mix struct {
	Ciphertexts []Ciphertext `json:"ciphertexts"`
	Proof       ShuffleProof `json:"proof"`
}

// SigmaProof is the JSON-safe form of mixlib.SigmaProof.
type SigmaProof struct {
	T1       []BigInt `json:"t1"`
	T2       []BigInt `json:"t2"`
	Response BigInt   `json:"response"`
}

func (p SigmaProof) ToMixlib() mixlib.SigmaProof {
	t1 := make([]*big.Int, len(p.T1))
	for i, v := range p.T1 {
		t1[i] = v.Int
	}
	t2 := make([]*big.Int, len(p.T2))
	for i, v := range p.T2 {
		t2[i] = v.Int
	}
	return mixlib.SigmaProof{T1: t1, T2: t2, Response: p.Response.Int}
}

func SigmaProofFromMixlib(p mixlib.SigmaProof) SigmaProof {
	t1 := make([]BigInt, len(p.T1))
	for i, v := range p.T1 {
		t1[i] = NewBigInt(v)
	}
	t2 := make([]BigInt, len(p.T2))
	for i, v := range p.T2 {
		t2[i] = NewBigInt(v)
	}
	return SigmaProof{T1: t1, T2: t2, Response: NewBigInt(p.Response)}
}

// PartialDecryption is one trustee's partial-decryption contribution
// for one item, bound to the final mix hash in the matching
// DecryptionStatement.
type PartialDecryption struct {
	Parts []BigInt   `json:"parts"`
	Proof SigmaProof `json:"proof"`
}

func (d PartialDecryption) PartsToMixlib() []*big.Int {
	out := make([]*big.Int, len(d.Parts))
	for i, p := range d.Parts {
		out[i] = p.Int
	}
	return out
}

func PartsFromMixlib(parts []*big.Int) []BigInt {
	out := make([]BigInt, len(parts))
	for i, p := range parts {
		out[i] = NewBigInt(p)
	}
	return out
}

// Plaintexts is the decoded message list for one item.
type Plaintexts struct {
	Messages [][]byte `json:"messages"`
}
