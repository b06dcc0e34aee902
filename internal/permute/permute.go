// Package permute implements the cyclic permutation scheme mapping
// (trustee, item) to mix-chain position, spreading the expensive
// "mixes first" position across trustees as the item index varies.
package permute

// Position returns the mix-chain position (1-indexed) at which
// trustee t mixes for item p, among n trustees.
func Position(t, p, n int) int {
	return mod(t-1+p-1, n) + 1
}

// Inverse returns the trustee (1-indexed) mixing at position k for
// item p, among n trustees. It is the exact inverse of Position: for
// all valid t, Inverse(Position(t, p, n), p, n) == t.
func Inverse(k, p, n int) int {
	return mod(k-1+n-mod(p-1, n), n) + 1
}

// Decryptor returns the trustee (1-indexed) designated to assemble and
// first-sign Plaintexts for item p, among n trustees.
func Decryptor(p, n int) int {
	return mod(p-1, n) + 1
}

// mod is Euclidean mod: always in [0, n), unlike Go's %, which can be
// negative for a negative dividend.
func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
