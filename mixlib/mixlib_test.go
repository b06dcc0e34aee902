package mixlib

import (
	"bytes"
	"math/big"
	"testing"
)

// small safe prime for fast tests: p = 2*q+1 with p, q both prime.
// p = 2*11+1 = 23 (q=11), generator 4 has order 11 in Z_23^*.
func testGroup(t *testing.T) *Group {
	t.Helper()
	g, err := NewGroup(big.NewInt(23), big.NewInt(4))
	if err != nil {
		t.Fatalf("NewGroup: %v", err)
	}
	return g
}

func TestElGamalRoundTrip(t *testing.T) {
	grp := testGroup(t)
	x, err := grp.RandomExponent()
	if err != nil {
		t.Fatal(err)
	}
	y := grp.Exp(grp.G, x)

	m, err := EncodeMessage(grp, []byte{7})
	if err != nil {
		t.Fatal(err)
	}
	ct, _, err := Encrypt(grp, y, m)
	if err != nil {
		t.Fatal(err)
	}
	got := Decrypt(grp, x, ct)
	if got.Cmp(m) != 0 {
		t.Fatalf("decrypt mismatch: got %v want %v", got, m)
	}
}

func TestMessageEmbeddingRoundTrip(t *testing.T) {
	grp := testGroup(t)
	// Q = 11, so payloads 0..10 are encodable; the set covers both the
	// direct (v is a residue) and the mirrored (P-v) embedding branch.
	for payload := byte(0); payload <= 10; payload++ {
		m, err := EncodeMessage(grp, []byte{payload})
		if err != nil {
			t.Fatalf("EncodeMessage(%d): %v", payload, err)
		}
		if !grp.IsMember(m) {
			t.Fatalf("EncodeMessage(%d) = %v, not a subgroup member", payload, m)
		}
		got, err := DecodeMessage(grp, m)
		if err != nil {
			t.Fatalf("DecodeMessage(%d): %v", payload, err)
		}
		want := new(big.Int).SetBytes([]byte{payload})
		if new(big.Int).SetBytes(got).Cmp(want) != 0 {
			t.Fatalf("round trip of payload %d yielded %v", payload, got)
		}
	}

	if _, err := EncodeMessage(grp, []byte{11}); err == nil {
		t.Fatal("expected payload above Q-1 to be rejected")
	}
}

func TestSchnorrProof(t *testing.T) {
	grp := testGroup(t)
	domain := []byte("trustee-1-modulus")
	x, err := grp.RandomExponent()
	if err != nil {
		t.Fatal(err)
	}
	y, proof, err := ProveSchnorr(grp, domain, x)
	if err != nil {
		t.Fatal(err)
	}
	if !VerifySchnorr(grp, domain, y, proof) {
		t.Fatal("expected valid Schnorr proof to verify")
	}

	// Tampered response must fail.
	bad := proof
	bad.Response = new(big.Int).Add(proof.Response, big.NewInt(1))
	if VerifySchnorr(grp, domain, y, bad) {
		t.Fatal("expected tampered Schnorr proof to fail")
	}

	// Wrong domain must fail (domain separation).
	if VerifySchnorr(grp, []byte("other-domain"), y, proof) {
		t.Fatal("expected mismatched domain to fail verification")
	}
}

func TestShuffleRoundTrip(t *testing.T) {
	grp := testGroup(t)
	x, err := grp.RandomExponent()
	if err != nil {
		t.Fatal(err)
	}
	y := grp.Exp(grp.G, x)

	var in []Ciphertext
	for _, v := range []byte{1, 2, 3} {
		m, err := EncodeMessage(grp, []byte{v})
		if err != nil {
			t.Fatal(err)
		}
		ct, _, err := Encrypt(grp, y, m)
		if err != nil {
			t.Fatal(err)
		}
		in = append(in, ct)
	}

	result, err := Shuffle(grp, y, in)
	if err != nil {
		t.Fatal(err)
	}
	if !VerifyShuffle(grp, y, in, result.Ciphertexts, result.Proof) {
		t.Fatal("expected valid shuffle proof to verify")
	}

	// Decrypting the shuffled output should still yield the same
	// multiset of plaintexts as the input, just permuted.
	var gotSum, wantSum big.Int
	for _, ct := range result.Ciphertexts {
		gotSum.Add(&gotSum, Decrypt(grp, x, ct))
	}
	for _, ct := range in {
		wantSum.Add(&wantSum, Decrypt(grp, x, ct))
	}
	if gotSum.Cmp(&wantSum) != 0 {
		t.Fatalf("shuffled plaintext sum mismatch: got %v want %v", &gotSum, &wantSum)
	}

	// Dropping a ciphertext from the output must fail verification.
	if VerifyShuffle(grp, y, in, result.Ciphertexts[:len(result.Ciphertexts)-1], result.Proof) {
		t.Fatal("expected truncated output to fail shuffle verification")
	}
}

func TestPartialDecryptionRoundTrip(t *testing.T) {
	grp := testGroup(t)
	x, err := grp.RandomExponent()
	if err != nil {
		t.Fatal(err)
	}
	y := grp.Exp(grp.G, x)

	m, err := EncodeMessage(grp, []byte{9})
	if err != nil {
		t.Fatal(err)
	}
	ct, _, err := Encrypt(grp, y, m)
	if err != nil {
		t.Fatal(err)
	}
	cts := []Ciphertext{ct}

	parts, proof, err := PartialDecrypt(grp, x, cts)
	if err != nil {
		t.Fatal(err)
	}
	if !VerifyPartialDecryption(grp, y, cts, parts, proof) {
		t.Fatal("expected valid partial decryption proof to verify")
	}

	combined := CombineDecryptions(grp, [][]*big.Int{parts})
	decoded, err := Decode(grp, combined, cts)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decoded[0], []byte{9}) {
		t.Fatalf("decoded payload = %v, want [9]", decoded[0])
	}

	// Tampered part must fail verification.
	badParts := []*big.Int{new(big.Int).Add(parts[0], big.NewInt(1))}
	if VerifyPartialDecryption(grp, y, cts, badParts, proof) {
		t.Fatal("expected tampered partial decryption to fail")
	}
}
