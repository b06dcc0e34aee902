package names

import "testing"

func TestKeysAreParameterizedAndStable(t *testing.T) {
	if Share(1, 2) != Share(1, 2) {
		t.Fatal("Share should be a pure function of its arguments")
	}
	if Share(1, 2) == Share(1, 3) {
		t.Fatal("Share keys must differ by trustee")
	}
	if Share(1, 2) == Share(2, 2) {
		t.Fatal("Share keys must differ by item")
	}
	if Mix(1, 2) == ShareStmt(1, 2) {
		t.Fatal("different kinds must not collide")
	}
}

func TestMixSigDistinguishesMixerFromSigner(t *testing.T) {
	self := MixSig(1, 2, 2)
	co := MixSig(1, 2, 3)
	if self == co {
		t.Fatal("self-signature and co-signature keys must differ")
	}
}

func TestGlobalSentinelsAreConstant(t *testing.T) {
	if Pause() != "PAUSE" {
		t.Fatalf("Pause() = %q, want PAUSE", Pause())
	}
	if Error() != "ERROR" {
		t.Fatalf("Error() = %q, want ERROR", Error())
	}
	if ErrorAuth(1) == ErrorAuth(2) {
		t.Fatal("per-trustee error keys must differ")
	}
}
