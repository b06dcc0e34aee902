package model

import (
	"bytes"
	"encoding/json"
	"math/big"
	"testing"
)

func TestConfigJSONRoundTrip(t *testing.T) {
	cfg := Config{
		ElectionID:         "e1",
		Name:               "Test Election",
		Modulus:            NewBigInt(big.NewInt(23)),
		Generator:          NewBigInt(big.NewInt(4)),
		ItemCount:          3,
		BallotboxPublicKey: "-----BEGIN PUBLIC KEY-----\n...",
		Trustees:           []string{"pem1", "pem2"},
	}
	b, err := CanonicalJSON(cfg)
	if err != nil {
		t.Fatal(err)
	}
	var got Config
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if got.ElectionID != cfg.ElectionID || got.Modulus.Cmp(cfg.Modulus.Int) != 0 {
		t.Fatalf("round trip mismatch: got %+v", got)
	}
}

func TestCanonicalJSONFieldOrderIsDeterministic(t *testing.T) {
	s := ConfigStatement{ConfigHash: "abc"}
	b1, err := CanonicalJSON(s)
	if err != nil {
		t.Fatal(err)
	}
	b2, err := CanonicalJSON(s)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b1, b2) {
		t.Fatal("canonical encoding must be deterministic for identical input")
	}
	if bytes.Contains(b1, []byte("\n")) || bytes.Contains(b1, []byte("  ")) {
		t.Fatal("canonical encoding must not contain insignificant whitespace")
	}
}

func TestHashChangesWithContent(t *testing.T) {
	h1, err := Hash(ConfigStatement{ConfigHash: "a"})
	if err != nil {
		t.Fatal(err)
	}
	h2, err := Hash(ConfigStatement{ConfigHash: "b"})
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h2 {
		t.Fatal("distinct statements must hash differently")
	}
	h3, err := Hash(ConfigStatement{ConfigHash: "a"})
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h3 {
		t.Fatal("identical statements must hash identically")
	}
}

func sampleMix() Mix {
	return Mix{
		Ciphertexts: []Ciphertext{
			{C1: NewBigInt(big.NewInt(11)), C2: NewBigInt(big.NewInt(19))},
			{C1: NewBigInt(big.NewInt(7)), C2: NewBigInt(big.NewInt(3))},
		},
		Proof: ShuffleProof{
			T1:        NewBigInt(big.NewInt(5)),
			T2:        NewBigInt(big.NewInt(9)),
			Response:  NewBigInt(big.NewInt(13)),
			Challenge: NewBigInt(big.NewInt(2)),
		},
	}
}

func TestMixFlatRoundTrip(t *testing.T) {
	m := sampleMix()
	var buf bytes.Buffer
	if err := m.WriteFlat(&buf); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFlatMix(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Ciphertexts) != len(m.Ciphertexts) {
		t.Fatalf("ciphertext count mismatch: got %d want %d", len(got.Ciphertexts), len(m.Ciphertexts))
	}
	for i := range m.Ciphertexts {
		if got.Ciphertexts[i].C1.Cmp(m.Ciphertexts[i].C1.Int) != 0 ||
			got.Ciphertexts[i].C2.Cmp(m.Ciphertexts[i].C2.Int) != 0 {
			t.Fatalf("ciphertext %d mismatch", i)
		}
	}
	if got.Proof.Response.Cmp(m.Proof.Response.Int) != 0 {
		t.Fatal("proof response mismatch after round trip")
	}
}

func TestMixStreamHashMatchesWriterAndReader(t *testing.T) {
	m := sampleMix()
	writerHash, err := m.StreamHash()
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := m.WriteFlat(&buf); err != nil {
		t.Fatal(err)
	}
	readBack, err := ReadFlatMix(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	readerHash, err := readBack.StreamHash()
	if err != nil {
		t.Fatal(err)
	}

	if writerHash != readerHash {
		t.Fatalf("hash(write(x)) = %s, hash(read(write(x))) = %s", writerHash, readerHash)
	}
}

func samplePartialDecryption() PartialDecryption {
	return PartialDecryption{
		Parts: []BigInt{NewBigInt(big.NewInt(4)), NewBigInt(big.NewInt(8))},
		Proof: SigmaProof{
			T1:       []BigInt{NewBigInt(big.NewInt(1)), NewBigInt(big.NewInt(2))},
			T2:       []BigInt{NewBigInt(big.NewInt(3)), NewBigInt(big.NewInt(6))},
			Response: NewBigInt(big.NewInt(10)),
		},
	}
}

func TestPartialDecryptionFlatRoundTripAndHash(t *testing.T) {
	d := samplePartialDecryption()
	var buf bytes.Buffer
	if err := d.WriteFlat(&buf); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFlatPartialDecryption(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Parts) != len(d.Parts) {
		t.Fatalf("parts count mismatch: got %d want %d", len(got.Parts), len(d.Parts))
	}
	for i := range d.Parts {
		if got.Parts[i].Cmp(d.Parts[i].Int) != 0 {
			t.Fatalf("part %d mismatch", i)
		}
	}

	writerHash, err := d.StreamHash()
	if err != nil {
		t.Fatal(err)
	}
	readerHash, err := got.StreamHash()
	if err != nil {
		t.Fatal(err)
	}
	if writerHash != readerHash {
		t.Fatal("partial decryption hash must match between writer and reader")
	}
}

func TestBigIntJSONNullRoundTrip(t *testing.T) {
	var b BigInt
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "null" {
		t.Fatalf("zero-value BigInt must marshal to null, got %s", data)
	}
	var back BigInt
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Int != nil {
		t.Fatal("null must round trip to a nil *big.Int")
	}
}
