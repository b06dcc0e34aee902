package permute

import "testing"

func TestPositionInverseRoundTrip(t *testing.T) {
	for n := 2; n <= 6; n++ {
		for p := 1; p <= 5; p++ {
			for tr := 1; tr <= n; tr++ {
				k := Position(tr, p, n)
				if got := Inverse(k, p, n); got != tr {
					t.Fatalf("Inverse(Position(%d,%d,%d)=%d,%d,%d) = %d, want %d",
						tr, p, n, k, p, n, got, tr)
				}
			}
		}
	}
}

func TestInversePositionRoundTrip(t *testing.T) {
	for n := 2; n <= 6; n++ {
		for p := 1; p <= 5; p++ {
			for k := 1; k <= n; k++ {
				tr := Inverse(k, p, n)
				if got := Position(tr, p, n); got != k {
					t.Fatalf("Position(Inverse(%d,%d,%d)=%d,%d,%d) = %d, want %d",
						k, p, n, tr, p, n, got, k)
				}
			}
		}
	}
}

func TestPositionIsBijectiveForFixedItem(t *testing.T) {
	for n := 2; n <= 6; n++ {
		for p := 1; p <= 5; p++ {
			seen := make(map[int]bool)
			for tr := 1; tr <= n; tr++ {
				k := Position(tr, p, n)
				if k < 1 || k > n {
					t.Fatalf("Position(%d,%d,%d) = %d out of range [1,%d]", tr, p, n, k, n)
				}
				if seen[k] {
					t.Fatalf("Position(_,%d,%d) is not injective: position %d produced twice", p, n, k)
				}
				seen[k] = true
			}
		}
	}
}

func TestDecryptorInRange(t *testing.T) {
	for n := 2; n <= 6; n++ {
		for p := 1; p <= 10; p++ {
			d := Decryptor(p, n)
			if d < 1 || d > n {
				t.Fatalf("Decryptor(%d,%d) = %d out of range [1,%d]", p, n, d, n)
			}
		}
	}
}

func TestDecryptorSpreadsAcrossItems(t *testing.T) {
	n := 3
	seen := make(map[int]bool)
	for p := 1; p <= n; p++ {
		seen[Decryptor(p, n)] = true
	}
	if len(seen) != n {
		t.Fatalf("expected decryptor to cover all %d trustees across %d consecutive items, got %d distinct", n, n, len(seen))
	}
}
