package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voteosis/trustee/internal/actions"
	"github.com/voteosis/trustee/internal/model"
	"github.com/voteosis/trustee/internal/names"
)

func keySet(keys ...names.Key) map[names.Key]struct{} {
	fs := make(map[names.Key]struct{}, len(keys))
	for _, k := range keys {
		fs[k] = struct{}{}
	}
	return fs
}

func TestGlobalPauseWinsOverEverything(t *testing.T) {
	fs := keySet(names.Pause(), names.Config())
	act, ok := Global(Snapshot{FileSet: fs, N: 3})
	assert.True(t, ok)
	assert.Equal(t, actions.KindStop, act.Kind)
}

func TestGlobalErrorAuthScansAllTrustees(t *testing.T) {
	fs := keySet(names.ErrorAuth(2))
	act, ok := Global(Snapshot{FileSet: fs, N: 3})
	assert.True(t, ok)
	assert.Equal(t, actions.KindStop, act.Kind)
	assert.Contains(t, act.Msg, "ERROR(2)")
}

func TestGlobalValidateConfigFiresWhenOwnSigMissing(t *testing.T) {
	fs := keySet(names.Config(), names.ConfigStmt())
	act, ok := Global(Snapshot{FileSet: fs, Auth: 2, N: 3})
	assert.True(t, ok)
	assert.Equal(t, actions.KindValidateConfig, act.Kind)
}

func TestGlobalValidateConfigFiresWhenAuthUnresolved(t *testing.T) {
	// Auth == 0: self not (yet) resolved in Config. ValidateConfig must
	// still be selectable so it can surface exactly why.
	fs := keySet(names.Config(), names.ConfigStmt())
	act, ok := Global(Snapshot{FileSet: fs, Auth: 0, N: 3})
	assert.True(t, ok)
	assert.Equal(t, actions.KindValidateConfig, act.Kind)
}

func TestGlobalNoneFireOnCleanBoard(t *testing.T) {
	_, ok := Global(Snapshot{FileSet: keySet(), N: 3})
	assert.False(t, ok)
}

func TestGlobalSkipsValidateConfigOnceOwnSigPresent(t *testing.T) {
	fs := keySet(names.Config(), names.ConfigStmt(), names.ConfigSig(2))
	_, ok := Global(Snapshot{FileSet: fs, Auth: 2, N: 3})
	assert.False(t, ok)
}

func baseSnapshot(fs map[names.Key]struct{}, auth, n int) Snapshot {
	return Snapshot{FileSet: fs, Config: model.Config{ItemCount: 1}, Auth: auth, N: n}
}

func TestPerItemNoOpWithoutResolvedAuth(t *testing.T) {
	_, ok := PerItem(Snapshot{FileSet: keySet(), Auth: 0, N: 3}, 1)
	assert.False(t, ok)
}

func TestPerItemAddShareRequiresAllConfigSigs(t *testing.T) {
	item := 1
	fs := keySet(names.ConfigSig(1), names.ConfigSig(2))
	_, ok := PerItem(baseSnapshot(fs, 1, 3), item)
	assert.False(t, ok, "rule 1 must not fire until every trustee's ConfigSig is present")

	fs[names.ConfigSig(3)] = struct{}{}
	act, ok := PerItem(baseSnapshot(fs, 1, 3), item)
	assert.True(t, ok)
	assert.Equal(t, actions.KindAddShare, act.Kind)
	assert.Equal(t, item, act.Item)
}

func allConfigSigs(n int) map[names.Key]struct{} {
	fs := make(map[names.Key]struct{})
	for a := 1; a <= n; a++ {
		fs[names.ConfigSig(a)] = struct{}{}
	}
	return fs
}

func TestPerItemAddShareSkippedWhenOwnShareAlreadyPosted(t *testing.T) {
	item, n := 1, 3
	fs := allConfigSigs(n)
	fs[names.Share(item, 2)] = struct{}{}
	_, ok := PerItem(baseSnapshot(fs, 2, n), item)
	assert.False(t, ok)
}

func TestPerItemPublicKeyOriginationIsTrusteeOne(t *testing.T) {
	item, n := 1, 3
	fs := allConfigSigs(n)
	for a := 1; a <= n; a++ {
		fs[names.Share(item, a)] = struct{}{}
	}

	act, ok := PerItem(baseSnapshot(fs, 1, n), item)
	assert.True(t, ok)
	assert.Equal(t, actions.KindAddOrSignPublicKey, act.Kind)

	// Trustee 2 has nothing to do yet: no PublicKey exists, and only
	// trustee 1 originates it.
	_, ok = PerItem(baseSnapshot(fs, 2, n), item)
	assert.False(t, ok)
}

func TestPerItemPublicKeyCoSignAfterOrigination(t *testing.T) {
	item, n := 1, 3
	fs := allConfigSigs(n)
	for a := 1; a <= n; a++ {
		fs[names.Share(item, a)] = struct{}{}
	}
	fs[names.PublicKey(item)] = struct{}{}

	act, ok := PerItem(baseSnapshot(fs, 2, n), item)
	assert.True(t, ok)
	assert.Equal(t, actions.KindAddOrSignPublicKey, act.Kind)

	fs[names.PublicKeySig(item, 2)] = struct{}{}
	_, ok = PerItem(baseSnapshot(fs, 2, n), item)
	assert.False(t, ok)
}

func TestPerItemVerifyMixFiresForUnsignedPeerMix(t *testing.T) {
	item, n, auth := 1, 3, 3
	fs := allConfigSigs(n)
	for a := 1; a <= n; a++ {
		fs[names.Share(item, a)] = struct{}{}
	}
	fs[names.PublicKey(item)] = struct{}{}
	for a := 1; a <= n; a++ {
		fs[names.PublicKeySig(item, a)] = struct{}{}
	}
	fs[names.Ballots(item)] = struct{}{}

	// Self has already mixed; a peer's mix is up but not yet co-signed.
	fs[names.Mix(item, auth)] = struct{}{}
	fs[names.Mix(item, 1)] = struct{}{}

	act, ok := PerItem(baseSnapshot(fs, auth, n), item)
	assert.True(t, ok)
	assert.Equal(t, actions.KindVerifyMix, act.Kind)
	assert.Equal(t, 1, act.Mixer)
}

func TestPerItemDecryptorSelection(t *testing.T) {
	// Decryptor(item, n) = ((item-1) mod n) + 1: confirm PerItem picks
	// this exact trustee to originate Plaintexts once every Decryption
	// is present, and no one else.
	item, n := 2, 3
	fs := keySet()
	for a := 1; a <= n; a++ {
		fs[names.Decryption(item, a)] = struct{}{}
	}

	decryptorAuth := 2 // ((2-1) mod 3) + 1 == 2
	act, ok := PerItem(baseSnapshot(fs, decryptorAuth, n), item)
	assert.True(t, ok)
	assert.Equal(t, actions.KindAddOrSignPlaintexts, act.Kind)

	_, ok = PerItem(baseSnapshot(fs, 1, n), item)
	assert.False(t, ok)
}

func TestPerItemPlaintextsCoSignAfterOrigination(t *testing.T) {
	item, n := 2, 3
	fs := keySet()
	for a := 1; a <= n; a++ {
		fs[names.Decryption(item, a)] = struct{}{}
	}
	fs[names.Plaintexts(item)] = struct{}{}

	act, ok := PerItem(baseSnapshot(fs, 1, n), item)
	assert.True(t, ok)
	assert.Equal(t, actions.KindAddOrSignPlaintexts, act.Kind)

	fs[names.PlaintextsSig(item, 1)] = struct{}{}
	_, ok = PerItem(baseSnapshot(fs, 1, n), item)
	assert.False(t, ok)
}
