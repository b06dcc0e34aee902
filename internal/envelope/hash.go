package envelope

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
)

// StreamingDigest wraps a SHA-512 hash.Hash so large artifacts can be
// fingerprinted while being written or read rather than buffered in
// full first.
type StreamingDigest struct {
	h hash.Hash
}

// NewStreamingDigest returns a fresh SHA-512 streaming digest.
func NewStreamingDigest() *StreamingDigest {
	return &StreamingDigest{h: sha512.New()}
}

// Write implements io.Writer so a StreamingDigest can sit in an
// io.MultiWriter alongside the real destination writer.
func (d *StreamingDigest) Write(p []byte) (int, error) { return d.h.Write(p) }

// Sum returns the hex-encoded digest accumulated so far.
func (d *StreamingDigest) Sum() string { return hex.EncodeToString(d.h.Sum(nil)) }

// HashReader streams r through a SHA-512 digest and returns the
// hex-encoded result without buffering r's contents.
func HashReader(r io.Reader) (string, error) {
	d := NewStreamingDigest()
	if _, err := io.Copy(d, r); err != nil {
		return "", fmt.Errorf("envelope: hash reader: %w", err)
	}
	return d.Sum(), nil
}

// HashBytes is a convenience wrapper for already-buffered content.
func HashBytes(b []byte) string {
	sum := sha512.Sum512(b)
	return hex.EncodeToString(sum[:])
}
