package actions

import (
	"context"
	"crypto/rsa"
	"fmt"
	"strings"

	"github.com/voteosis/trustee/internal/board"
	"github.com/voteosis/trustee/internal/envelope"
	"github.com/voteosis/trustee/internal/model"
	"github.com/voteosis/trustee/mixlib"
)

// TrusteeContext holds one trustee's identity and configuration: its
// own RSA keypair, AES master key for unwrapping private shares, the
// set of trusted peer public keys, and the board it talks to. Every
// Action takes one of these plus the board-agnostic item/auth
// parameters it needs. Nothing here is mutated once the driver starts.
type TrusteeContext struct {
	Board Board

	PrivateKey   *rsa.PrivateKey
	PublicKeyPEM string // this trustee's own public key as PEM text; normalized before comparison

	AESMasterKey []byte

	// Peers holds every RSA public key (normalized PEM text) this
	// trustee is willing to trust: every trustee in Config plus the
	// ballotbox must appear here before ValidateConfig will sign.
	Peers map[string]struct{}

	OfflineSplit bool
	PoolSize     int
}

// Board is an alias for board.Board: the actions package depends on
// the full interface, and any board.Board implementation can be used.
type Board = board.Board

// Base is the Config-bound context every action other than
// ValidateConfig operates within: the published Config, its
// recomputed hash, this trustee's resolved 1-based position, the
// trustee count, and the group it defines.
type Base struct {
	Config     model.Config
	ConfigHash string
	Auth       int
	N          int
	Group      *mixlib.Group
}

func normalizePEM(s string) string {
	return strings.TrimSpace(s)
}

// resolveAuth finds tc's own position (1-based) in cfg.Trustees by
// exact PEM match. Position 0 ("not a trustee") is fatal.
func resolveAuth(cfg model.Config, ownPEM string) (int, error) {
	own := normalizePEM(ownPEM)
	for i, pem := range cfg.Trustees {
		if normalizePEM(pem) == own {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("own public key not listed among configured trustees")
}

// configCheck loads Config and its Statement and verifies the
// Statement matches recomputation, without requiring a self-signature
// to already exist. Used by ValidateConfig (which produces that
// signature) and as the first half of checkBase.
func configCheck(ctx context.Context, tc *TrusteeContext) (model.Config, model.ConfigStatement, Result) {
	cfg, ok, err := tc.Board.GetConfig(ctx)
	if err != nil {
		return model.Config{}, model.ConfigStatement{}, LocalErrorf("read config: %v", err)
	}
	if !ok {
		return model.Config{}, model.ConfigStatement{}, LocalErrorf("no Config published")
	}
	stmt, ok, err := tc.Board.GetConfigStatement(ctx)
	if err != nil {
		return model.Config{}, model.ConfigStatement{}, LocalErrorf("read config statement: %v", err)
	}
	if !ok {
		return model.Config{}, model.ConfigStatement{}, LocalErrorf("no ConfigStatement published")
	}
	hash, err := model.Hash(cfg)
	if err != nil {
		return model.Config{}, model.ConfigStatement{}, LocalErrorf("hash config: %v", err)
	}
	if hash != stmt.ConfigHash {
		return model.Config{}, model.ConfigStatement{}, Errorf("config statement mismatch: recomputed %s, published %s", hash, stmt.ConfigHash)
	}
	return cfg, stmt, nil
}

// checkBase implements getValidConfigHash: every
// action but ValidateConfig and StopAction calls this first and aborts
// with Error if it fails, so all subsequent crypto is bound to an
// approved Config.
func checkBase(ctx context.Context, tc *TrusteeContext) (*Base, Result) {
	cfg, stmt, res := configCheck(ctx, tc)
	if res != nil {
		return nil, res
	}

	auth, err := resolveAuth(cfg, tc.PublicKeyPEM)
	if err != nil {
		return nil, LocalErrorf("%v", err)
	}

	sig, ok, err := tc.Board.GetConfigSignature(ctx, auth)
	if err != nil {
		return nil, Errorf("read own config signature: %v", err)
	}
	if !ok {
		return nil, Errorf("own config self-signature not yet published")
	}

	ownPub, err := envelope.ParseRSAPublicKeyFromPEM([]byte(cfg.Trustees[auth-1]))
	if err != nil {
		return nil, Errorf("parse own trustee public key: %v", err)
	}
	stmtBytes, err := model.CanonicalJSON(stmt)
	if err != nil {
		return nil, Errorf("encode config statement: %v", err)
	}
	if !envelope.Verify(ownPub, stmtBytes, sig) {
		return nil, Errorf("own config self-signature does not verify")
	}

	grp, err := cfg.Group()
	if err != nil {
		return nil, Errorf("build group from config: %v", err)
	}

	return &Base{Config: cfg, ConfigHash: stmt.ConfigHash, Auth: auth, N: cfg.TrusteeCount(), Group: grp}, nil
}

// ResolveAuth exposes resolveAuth to callers outside this package (the
// rules/driver layer) that need a trustee's own position in Config
// before checkBase's self-signature requirement can be satisfied,
// notably the global rule that decides whether to run ValidateConfig.
func ResolveAuth(cfg model.Config, ownPEM string) (int, error) {
	return resolveAuth(cfg, ownPEM)
}

// trusteePublicKey parses the RSA public key for trustee index auth
// (1-based) from cfg.Trustees.
func trusteePublicKey(cfg model.Config, auth int) (*rsa.PublicKey, error) {
	if auth < 1 || auth > len(cfg.Trustees) {
		return nil, fmt.Errorf("trustee index %d out of range", auth)
	}
	return envelope.ParseRSAPublicKeyFromPEM([]byte(cfg.Trustees[auth-1]))
}

// signStatement encodes stmt canonically and signs it with tc's key.
func signStatement(tc *TrusteeContext, stmt interface{}) ([]byte, error) {
	b, err := model.CanonicalJSON(stmt)
	if err != nil {
		return nil, err
	}
	return envelope.Sign(tc.PrivateKey, b)
}

// verifyStatementSig checks sig over stmt's canonical bytes under pub.
func verifyStatementSig(pub *rsa.PublicKey, stmt interface{}, sig []byte) (bool, error) {
	b, err := model.CanonicalJSON(stmt)
	if err != nil {
		return false, err
	}
	return envelope.Verify(pub, b, sig), nil
}

// hashList hashes a deterministic ordered list of hex digests, for
// statement fields that bind to "the set of N things" (the share set,
// the decryption set) without re-embedding their full payloads.
func hashList(items []string) (string, error) {
	return model.Hash(items)
}
