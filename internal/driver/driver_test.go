package driver

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"math/big"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voteosis/trustee/internal/actions"
	"github.com/voteosis/trustee/internal/board/localfs"
	"github.com/voteosis/trustee/internal/model"
	"github.com/voteosis/trustee/internal/names"
)

func pemEncode(t *testing.T, pub *rsa.PublicKey) string {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)
	block := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return string(block)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel) // keep test output clean
	return log
}

// newTrustee wires a TrusteeContext for one trustee against a shared
// localfs remote, trusting every PEM in peers (stored normalized, as
// TrusteeContext.Peers expects).
func newTrustee(t *testing.T, remote *localfs.Remote, peers []string) *actions.TrusteeContext {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	peerSet := make(map[string]struct{}, len(peers))
	for _, p := range peers {
		peerSet[strings.TrimSpace(p)] = struct{}{}
	}

	return &actions.TrusteeContext{
		Board:        localfs.New(remote),
		PrivateKey:   key,
		PublicKeyPEM: pemEncode(t, &key.PublicKey),
		AESMasterKey: []byte("test-master-key-material"),
		Peers:        peerSet,
		PoolSize:     4,
	}
}

// TestCycleValidatesConfigAndPublishesShares drives two trustees
// through their first several cycles against a Config seeded directly
// on the board (as the external authority would), and checks that
// ValidateConfig, then AddShare, then AddOrSignPublicKey fire in the
// order the rule tables demand, ending with a combined PublicKey on
// the board for the single configured item.
func TestCycleValidatesConfigAndPublishesShares(t *testing.T) {
	ctx := context.Background()
	remote := localfs.NewRemote()

	// Build two trustee identities before the Config exists, so their
	// public keys can be listed in it.
	keyA, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	keyB, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	ballotKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pemA := pemEncode(t, &keyA.PublicKey)
	pemB := pemEncode(t, &keyB.PublicKey)
	pemBallot := pemEncode(t, &ballotKey.PublicKey)
	peers := []string{pemA, pemB, pemBallot}

	cfg := model.Config{
		ElectionID:         "e1",
		Name:               "test election",
		Modulus:            model.NewBigInt(big.NewInt(23)),
		Generator:          model.NewBigInt(big.NewInt(4)),
		ItemCount:          1,
		BallotboxPublicKey: pemBallot,
		Trustees:           []string{pemA, pemB},
	}
	hash, err := model.Hash(cfg)
	require.NoError(t, err)
	stmt := model.ConfigStatement{ConfigHash: hash}

	seedBoard := localfs.New(remote)
	require.NoError(t, seedBoard.SeedConfig(ctx, cfg, stmt))

	tcA := newTrustee(t, remote, peers)
	tcA.PrivateKey = keyA
	tcA.PublicKeyPEM = pemA
	tcB := newTrustee(t, remote, peers)
	tcB.PrivateKey = keyB
	tcB.PublicKeyPEM = pemB

	log := quietLogger()
	dA := New(tcA, log)
	dB := New(tcB, log)

	// Cycle 1: both trustees self-sign the Config.
	require.NoError(t, dA.Cycle(ctx))
	require.NoError(t, dB.Cycle(ctx))

	require.NoError(t, seedBoard.Sync(ctx))
	fs, err := seedBoard.FileSet(ctx)
	require.NoError(t, err)
	assert.Contains(t, fs, names.ConfigSig(1))
	assert.Contains(t, fs, names.ConfigSig(2))

	// Cycle 2: both trustees publish their shares for item 1.
	require.NoError(t, dA.Cycle(ctx))
	require.NoError(t, dB.Cycle(ctx))

	require.NoError(t, seedBoard.Sync(ctx))
	fs, err = seedBoard.FileSet(ctx)
	require.NoError(t, err)
	assert.Contains(t, fs, names.Share(1, 1))
	assert.Contains(t, fs, names.Share(1, 2))

	// Cycle 3: trustee 1 originates the combined PublicKey.
	require.NoError(t, dA.Cycle(ctx))
	require.NoError(t, seedBoard.Sync(ctx))
	fs, err = seedBoard.FileSet(ctx)
	require.NoError(t, err)
	assert.Contains(t, fs, names.PublicKey(1))
	assert.Contains(t, fs, names.PublicKeySig(1, 1))

	// Cycle 4: trustee 2 co-signs it.
	require.NoError(t, dB.Cycle(ctx))
	require.NoError(t, seedBoard.Sync(ctx))
	fs, err = seedBoard.FileSet(ctx)
	require.NoError(t, err)
	assert.Contains(t, fs, names.PublicKeySig(1, 2))

	// No error sentinel should ever have been posted along the way.
	assert.NotContains(t, fs, names.Error())
	assert.NotContains(t, fs, names.ErrorAuth(1))
	assert.NotContains(t, fs, names.ErrorAuth(2))

	pk, ok, err := seedBoard.GetPublicKey(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotNil(t, pk.Value.Int)
}

// TestCycleHaltsOnUntrustedBallotbox confirms that a Config naming a
// key outside this trustee's peer set makes ValidateConfig error,
// lands as ERROR(self) on the board (the Config parsed and this
// trustee is listed, so there is something to bind to), and halts
// every subsequent cycle via the global error rule.
func TestCycleHaltsOnUntrustedBallotbox(t *testing.T) {
	ctx := context.Background()
	remote := localfs.NewRemote()

	keyA, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	keyB, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	ballotKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pemA := pemEncode(t, &keyA.PublicKey)
	pemB := pemEncode(t, &keyB.PublicKey)
	pemBallot := pemEncode(t, &ballotKey.PublicKey)

	cfg := model.Config{
		ElectionID:         "e1",
		Modulus:            model.NewBigInt(big.NewInt(23)),
		Generator:          model.NewBigInt(big.NewInt(4)),
		ItemCount:          1,
		BallotboxPublicKey: pemBallot,
		Trustees:           []string{pemA, pemB},
	}
	hash, err := model.Hash(cfg)
	require.NoError(t, err)
	stmt := model.ConfigStatement{ConfigHash: hash}

	seedBoard := localfs.New(remote)
	require.NoError(t, seedBoard.SeedConfig(ctx, cfg, stmt))

	// Trustee A's peer set omits the ballotbox key entirely.
	tcA := newTrustee(t, remote, []string{pemA, pemB})
	tcA.PrivateKey = keyA
	tcA.PublicKeyPEM = pemA

	d := New(tcA, quietLogger())
	require.NoError(t, d.Cycle(ctx))

	require.NoError(t, seedBoard.Sync(ctx))
	fs, err := seedBoard.FileSet(ctx)
	require.NoError(t, err)
	assert.NotContains(t, fs, names.ConfigSig(1))
	assert.Contains(t, fs, names.ErrorAuth(1))

	// The sticky error halts the next cycle before ValidateConfig can
	// fire again: still no ConfigSig.
	require.NoError(t, d.Cycle(ctx))
	require.NoError(t, seedBoard.Sync(ctx))
	fs, err = seedBoard.FileSet(ctx)
	require.NoError(t, err)
	assert.NotContains(t, fs, names.ConfigSig(1))
}

// TestCycleReportsUnlistedTrusteeLocallyOnly confirms the
// configuration-error class: a trustee whose own key is not listed in
// the Config reports the failure locally and never writes to the
// board.
func TestCycleReportsUnlistedTrusteeLocallyOnly(t *testing.T) {
	ctx := context.Background()
	remote := localfs.NewRemote()

	keyA, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	keyB, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	keyC, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	ballotKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pemA := pemEncode(t, &keyA.PublicKey)
	pemB := pemEncode(t, &keyB.PublicKey)
	pemC := pemEncode(t, &keyC.PublicKey)
	pemBallot := pemEncode(t, &ballotKey.PublicKey)

	// Config lists only A and B; trustee C is the one running.
	cfg := model.Config{
		ElectionID:         "e1",
		Modulus:            model.NewBigInt(big.NewInt(23)),
		Generator:          model.NewBigInt(big.NewInt(4)),
		ItemCount:          1,
		BallotboxPublicKey: pemBallot,
		Trustees:           []string{pemA, pemB},
	}
	hash, err := model.Hash(cfg)
	require.NoError(t, err)

	seedBoard := localfs.New(remote)
	require.NoError(t, seedBoard.SeedConfig(ctx, cfg, model.ConfigStatement{ConfigHash: hash}))

	tcC := newTrustee(t, remote, []string{pemA, pemB, pemC, pemBallot})
	tcC.PrivateKey = keyC
	tcC.PublicKeyPEM = pemC

	d := New(tcC, quietLogger())
	require.NoError(t, d.Cycle(ctx))

	require.NoError(t, seedBoard.Sync(ctx))
	fs, err := seedBoard.FileSet(ctx)
	require.NoError(t, err)
	assert.NotContains(t, fs, names.Error())
	for a := 1; a <= 3; a++ {
		assert.NotContains(t, fs, names.ErrorAuth(a))
	}
}
