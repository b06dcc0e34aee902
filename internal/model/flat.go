package model

import (
	"bufio"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
)

// WriteFlat and ReadFlatMix/ReadFlatPartialDecryption implement the
// newline-delimited flat encoding of Mix and PartialDecryption: large
// artifacts whose hash must be identical whether computed by the writer
// while emitting or by the reader while consuming the same bytes.
// StreamHash hashes this encoding; the localfs board stores these
// artifacts as JSON, not in this flat form. Both directions share this
// file's line-splitting helpers so there is one source of truth for the
// field order.
//
// Mix's line order is: proof fields (T1,T2,Response,Challenge, one
// field per line), then a ciphertext count line, then one "C1,C2" line
// per ciphertext. This is a
// flattened stand-in for the Terelius-Wikström mix-proof/permutation-
// proof/permutation-commitment triple the original field order names;
// the simplified ShuffleProof carried by this module folds those three
// into the single proof already described in mixlib.

func writeBigIntLine(w *bufio.Writer, v *big.Int) error {
	_, err := w.WriteString(v.String() + "\n")
	return err
}

func readBigIntLine(s *bufio.Scanner) (*big.Int, error) {
	if !s.Scan() {
		if err := s.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("model: unexpected end of flat encoding")
	}
	v, ok := new(big.Int).SetString(strings.TrimSpace(s.Text()), 10)
	if !ok {
		return nil, fmt.Errorf("model: invalid integer line %q", s.Text())
	}
	return v, nil
}

// WriteFlat writes m in the canonical flat encoding.
func (m Mix) WriteFlat(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, v := range []*big.Int{m.Proof.T1.Int, m.Proof.T2.Int, m.Proof.Response.Int, m.Proof.Challenge.Int} {
		if err := writeBigIntLine(bw, v); err != nil {
			return fmt.Errorf("model: write mix proof: %w", err)
		}
	}
	if _, err := fmt.Fprintf(bw, "%d\n", len(m.Ciphertexts)); err != nil {
		return fmt.Errorf("model: write mix ciphertext count: %w", err)
	}
	for i, ct := range m.Ciphertexts {
		if _, err := fmt.Fprintf(bw, "%s,%s\n", ct.C1.String(), ct.C2.String()); err != nil {
			return fmt.Errorf("model: write mix ciphertext %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// ReadFlatMix parses a Mix previously written by WriteFlat.
func ReadFlatMix(r io.Reader) (Mix, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	t1, err := readBigIntLine(s)
	if err != nil {
		return Mix{}, err
	}
	t2, err := readBigIntLine(s)
	if err != nil {
		return Mix{}, err
	}
	resp, err := readBigIntLine(s)
	if err != nil {
		return Mix{}, err
	}
	chal, err := readBigIntLine(s)
	if err != nil {
		return Mix{}, err
	}
	if !s.Scan() {
		return Mix{}, fmt.Errorf("model: missing mix ciphertext count")
	}
	n, err := strconv.Atoi(strings.TrimSpace(s.Text()))
	if err != nil {
		return Mix{}, fmt.Errorf("model: invalid mix ciphertext count: %w", err)
	}
	cts := make([]Ciphertext, n)
	for i := 0; i < n; i++ {
		if !s.Scan() {
			return Mix{}, fmt.Errorf("model: missing mix ciphertext line %d", i)
		}
		parts := strings.SplitN(strings.TrimSpace(s.Text()), ",", 2)
		if len(parts) != 2 {
			return Mix{}, fmt.Errorf("model: malformed mix ciphertext line %d", i)
		}
		c1, ok := new(big.Int).SetString(parts[0], 10)
		if !ok {
			return Mix{}, fmt.Errorf("model: malformed mix ciphertext c1 on line %d", i)
		}
		c2, ok := new(big.Int).SetString(parts[1], 10)
		if !ok {
			return Mix{}, fmt.Errorf("model: malformed mix ciphertext c2 on line %d", i)
		}
		cts[i] = Ciphertext{C1: NewBigInt(c1), C2: NewBigInt(c2)}
	}
	if err := s.Err(); err != nil {
		return Mix{}, err
	}
	return Mix{
		Ciphertexts: cts,
		Proof: ShuffleProof{
			T1:        NewBigInt(t1),
			T2:        NewBigInt(t2),
			Response:  NewBigInt(resp),
			Challenge: NewBigInt(chal),
		},
	}, nil
}

// StreamHash hashes the same bytes WriteFlat would emit, without
// buffering them: the hasher IS the writer.
func (m Mix) StreamHash() (string, error) {
	h := sha512.New()
	if err := m.WriteFlat(h); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// WriteFlat writes d in the canonical flat encoding: a response line,
// a count line, then one "T1,T2,Part" line per ciphertext position.
func (d PartialDecryption) WriteFlat(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if err := writeBigIntLine(bw, d.Proof.Response.Int); err != nil {
		return fmt.Errorf("model: write decryption response: %w", err)
	}
	if len(d.Proof.T1) != len(d.Parts) || len(d.Proof.T2) != len(d.Parts) {
		return fmt.Errorf("model: partial decryption proof/parts length mismatch")
	}
	if _, err := fmt.Fprintf(bw, "%d\n", len(d.Parts)); err != nil {
		return fmt.Errorf("model: write decryption count: %w", err)
	}
	for i := range d.Parts {
		if _, err := fmt.Fprintf(bw, "%s,%s,%s\n",
			d.Proof.T1[i].String(), d.Proof.T2[i].String(), d.Parts[i].String()); err != nil {
			return fmt.Errorf("model: write decryption line %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// ReadFlatPartialDecryption parses a PartialDecryption previously
// written by WriteFlat.
func ReadFlatPartialDecryption(r io.Reader) (PartialDecryption, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	resp, err := readBigIntLine(s)
	if err != nil {
		return PartialDecryption{}, err
	}
	if !s.Scan() {
		return PartialDecryption{}, fmt.Errorf("model: missing decryption count")
	}
	n, err := strconv.Atoi(strings.TrimSpace(s.Text()))
	if err != nil {
		return PartialDecryption{}, fmt.Errorf("model: invalid decryption count: %w", err)
	}
	t1 := make([]BigInt, n)
	t2 := make([]BigInt, n)
	parts := make([]BigInt, n)
	for i := 0; i < n; i++ {
		if !s.Scan() {
			return PartialDecryption{}, fmt.Errorf("model: missing decryption line %d", i)
		}
		fields := strings.SplitN(strings.TrimSpace(s.Text()), ",", 3)
		if len(fields) != 3 {
			return PartialDecryption{}, fmt.Errorf("model: malformed decryption line %d", i)
		}
		v1, ok := new(big.Int).SetString(fields[0], 10)
		if !ok {
			return PartialDecryption{}, fmt.Errorf("model: malformed decryption t1 on line %d", i)
		}
		v2, ok := new(big.Int).SetString(fields[1], 10)
		if !ok {
			return PartialDecryption{}, fmt.Errorf("model: malformed decryption t2 on line %d", i)
		}
		v3, ok := new(big.Int).SetString(fields[2], 10)
		if !ok {
			return PartialDecryption{}, fmt.Errorf("model: malformed decryption part on line %d", i)
		}
		t1[i], t2[i], parts[i] = NewBigInt(v1), NewBigInt(v2), NewBigInt(v3)
	}
	if err := s.Err(); err != nil {
		return PartialDecryption{}, err
	}
	return PartialDecryption{
		Parts: parts,
		Proof: SigmaProof{T1: t1, T2: t2, Response: NewBigInt(resp)},
	}, nil
}

// StreamHash hashes the same bytes WriteFlat would emit.
func (d PartialDecryption) StreamHash() (string, error) {
	h := sha512.New()
	if err := d.WriteFlat(h); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
