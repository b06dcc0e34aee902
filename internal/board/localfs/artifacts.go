package localfs

import (
	"context"
	"fmt"

	"github.com/voteosis/trustee/internal/model"
	"github.com/voteosis/trustee/internal/names"
)

// GetConfig returns the published Config, if any.
func (b *Board) GetConfig(ctx context.Context) (model.Config, bool, error) {
	var v model.Config
	ok, err := b.getJSON(names.Config(), &v)
	return v, ok, err
}

// GetConfigStatement returns the published ConfigStatement, if any.
func (b *Board) GetConfigStatement(ctx context.Context) (model.ConfigStatement, bool, error) {
	var v model.ConfigStatement
	ok, err := b.getJSON(names.ConfigStmt(), &v)
	return v, ok, err
}

// GetConfigSignature returns auth's signature over ConfigStatement.
func (b *Board) GetConfigSignature(ctx context.Context, auth int) ([]byte, bool, error) {
	v, ok := b.get(names.ConfigSig(auth))
	return v, ok, nil
}

// AddConfigSignature publishes auth's signature over ConfigStatement.
func (b *Board) AddConfigSignature(ctx context.Context, auth int, sig []byte) error {
	return b.commit(ctx, map[names.Key][]byte{names.ConfigSig(auth): sig})
}

// SeedConfig bootstraps a board with a published Config + statement,
// bypassing the retry path: only the external authority/test harness
// does this, never a trustee action.
func (b *Board) SeedConfig(ctx context.Context, cfg model.Config, stmt model.ConfigStatement) error {
	cfgJSON, err := marshalJSON(cfg)
	if err != nil {
		return fmt.Errorf("localfs: seed config: %w", err)
	}
	stmtJSON, err := marshalJSON(stmt)
	if err != nil {
		return fmt.Errorf("localfs: seed config statement: %w", err)
	}
	return b.commit(ctx, map[names.Key][]byte{
		names.Config():     cfgJSON,
		names.ConfigStmt(): stmtJSON,
	})
}

// GetShare returns trustee auth's Share for item, if any.
func (b *Board) GetShare(ctx context.Context, item, auth int) (model.Share, bool, error) {
	var v model.Share
	ok, err := b.getJSON(names.Share(item, auth), &v)
	return v, ok, err
}

// GetShareStatement returns the ShareStatement for (item, auth).
func (b *Board) GetShareStatement(ctx context.Context, item, auth int) (model.ShareStatement, bool, error) {
	var v model.ShareStatement
	ok, err := b.getJSON(names.ShareStmt(item, auth), &v)
	return v, ok, err
}

// GetShareSignature returns auth's self-signature over its ShareStatement.
func (b *Board) GetShareSignature(ctx context.Context, item, auth int) ([]byte, bool, error) {
	v, ok := b.get(names.ShareSig(item, auth))
	return v, ok, nil
}

// AddShare publishes (share, statement, signature) for (item, auth) atomically.
func (b *Board) AddShare(ctx context.Context, item, auth int, share model.Share, stmt model.ShareStatement, sig []byte) error {
	shareJSON, err := marshalJSON(share)
	if err != nil {
		return fmt.Errorf("localfs: add share: %w", err)
	}
	stmtJSON, err := marshalJSON(stmt)
	if err != nil {
		return fmt.Errorf("localfs: add share statement: %w", err)
	}
	return b.commit(ctx, map[names.Key][]byte{
		names.Share(item, auth):     shareJSON,
		names.ShareStmt(item, auth): stmtJSON,
		names.ShareSig(item, auth):  sig,
	})
}

// GetPublicKey returns the combined PublicKey for item, if any.
func (b *Board) GetPublicKey(ctx context.Context, item int) (model.PublicKey, bool, error) {
	var v model.PublicKey
	ok, err := b.getJSON(names.PublicKey(item), &v)
	return v, ok, err
}

// GetPublicKeyStatement returns the PublicKeyStatement for item.
func (b *Board) GetPublicKeyStatement(ctx context.Context, item int) (model.PublicKeyStatement, bool, error) {
	var v model.PublicKeyStatement
	ok, err := b.getJSON(names.PublicKeyStmt(item), &v)
	return v, ok, err
}

// GetPublicKeySignature returns auth's (co-)signature over the PublicKeyStatement.
func (b *Board) GetPublicKeySignature(ctx context.Context, item, auth int) ([]byte, bool, error) {
	v, ok := b.get(names.PublicKeySig(item, auth))
	return v, ok, nil
}

// AddPublicKey publishes (publicKey, statement, auth's signature) atomically.
// Used both by trustee #1 originating the artifact and by co-signers.
func (b *Board) AddPublicKey(ctx context.Context, item int, pk model.PublicKey, stmt model.PublicKeyStatement, sig []byte, auth int) error {
	kv := map[names.Key][]byte{
		names.PublicKeySig(item, auth): sig,
	}
	pkJSON, err := marshalJSON(pk)
	if err != nil {
		return fmt.Errorf("localfs: add public key: %w", err)
	}
	stmtJSON, err := marshalJSON(stmt)
	if err != nil {
		return fmt.Errorf("localfs: add public key statement: %w", err)
	}
	kv[names.PublicKey(item)] = pkJSON
	kv[names.PublicKeyStmt(item)] = stmtJSON
	return b.commit(ctx, kv)
}

// GetBallots returns the ballotbox-delivered Ballots for item, if any.
func (b *Board) GetBallots(ctx context.Context, item int) (model.Ballots, bool, error) {
	var v model.Ballots
	ok, err := b.getJSON(names.Ballots(item), &v)
	return v, ok, err
}

// GetBallotsStatement returns the BallotsStatement for item.
func (b *Board) GetBallotsStatement(ctx context.Context, item int) (model.BallotsStatement, bool, error) {
	var v model.BallotsStatement
	ok, err := b.getJSON(names.BallotsStmt(item), &v)
	return v, ok, err
}

// GetBallotsSignature returns the ballotbox's signature over BallotsStatement.
func (b *Board) GetBallotsSignature(ctx context.Context, item int) ([]byte, bool, error) {
	v, ok := b.get(names.BallotsSig(item))
	return v, ok, nil
}

// SeedBallots bootstraps a board with ballotbox-delivered Ballots:
// only the ballotbox/test harness does this, never a trustee action.
func (b *Board) SeedBallots(ctx context.Context, item int, ballots model.Ballots, stmt model.BallotsStatement, sig []byte) error {
	ballotsJSON, err := marshalJSON(ballots)
	if err != nil {
		return fmt.Errorf("localfs: seed ballots: %w", err)
	}
	stmtJSON, err := marshalJSON(stmt)
	if err != nil {
		return fmt.Errorf("localfs: seed ballots statement: %w", err)
	}
	return b.commit(ctx, map[names.Key][]byte{
		names.Ballots(item):     ballotsJSON,
		names.BallotsStmt(item): stmtJSON,
		names.BallotsSig(item):  sig,
	})
}

// GetMix returns trustee auth's Mix for item, if any.
func (b *Board) GetMix(ctx context.Context, item, auth int) (model.Mix, bool, error) {
	var v model.Mix
	ok, err := b.getJSON(names.Mix(item, auth), &v)
	return v, ok, err
}

// GetMixStatement returns the MixStatement for (item, auth).
func (b *Board) GetMixStatement(ctx context.Context, item, auth int) (model.MixStatement, bool, error) {
	var v model.MixStatement
	ok, err := b.getJSON(names.MixStmt(item, auth), &v)
	return v, ok, err
}

// GetMixSignature returns signer's signature over mixer's MixStatement
// for item (self-signature when signer==mixer, co-signature otherwise).
func (b *Board) GetMixSignature(ctx context.Context, item, mixer, signer int) ([]byte, bool, error) {
	v, ok := b.get(names.MixSig(item, mixer, signer))
	return v, ok, nil
}

// AddMix publishes (mix, statement, self-signature) for (item, auth) atomically.
func (b *Board) AddMix(ctx context.Context, item, auth int, mix model.Mix, stmt model.MixStatement, sig []byte) error {
	mixJSON, err := marshalJSON(mix)
	if err != nil {
		return fmt.Errorf("localfs: add mix: %w", err)
	}
	stmtJSON, err := marshalJSON(stmt)
	if err != nil {
		return fmt.Errorf("localfs: add mix statement: %w", err)
	}
	return b.commit(ctx, map[names.Key][]byte{
		names.Mix(item, auth):          mixJSON,
		names.MixStmt(item, auth):      stmtJSON,
		names.MixSig(item, auth, auth): sig,
	})
}

// AddMixSignature publishes signer's co-signature over mixer's
// MixStatement for item.
func (b *Board) AddMixSignature(ctx context.Context, item, mixer, signer int, sig []byte) error {
	return b.commit(ctx, map[names.Key][]byte{
		names.MixSig(item, mixer, signer): sig,
	})
}

// GetDecryption returns trustee auth's PartialDecryption for item, if any.
func (b *Board) GetDecryption(ctx context.Context, item, auth int) (model.PartialDecryption, bool, error) {
	var v model.PartialDecryption
	ok, err := b.getJSON(names.Decryption(item, auth), &v)
	return v, ok, err
}

// GetDecryptionStatement returns the DecryptionStatement for (item, auth).
func (b *Board) GetDecryptionStatement(ctx context.Context, item, auth int) (model.DecryptionStatement, bool, error) {
	var v model.DecryptionStatement
	ok, err := b.getJSON(names.DecryptionStmt(item, auth), &v)
	return v, ok, err
}

// GetDecryptionSignature returns auth's self-signature over its DecryptionStatement.
func (b *Board) GetDecryptionSignature(ctx context.Context, item, auth int) ([]byte, bool, error) {
	v, ok := b.get(names.DecryptionSig(item, auth))
	return v, ok, nil
}

// AddDecryption publishes (decryption, statement, self-signature) for
// (item, auth) atomically. This is the privacy-critical write path:
// callers must have already verified the mix chain before calling it.
func (b *Board) AddDecryption(ctx context.Context, item, auth int, dec model.PartialDecryption, stmt model.DecryptionStatement, sig []byte) error {
	decJSON, err := marshalJSON(dec)
	if err != nil {
		return fmt.Errorf("localfs: add decryption: %w", err)
	}
	stmtJSON, err := marshalJSON(stmt)
	if err != nil {
		return fmt.Errorf("localfs: add decryption statement: %w", err)
	}
	return b.commit(ctx, map[names.Key][]byte{
		names.Decryption(item, auth):     decJSON,
		names.DecryptionStmt(item, auth): stmtJSON,
		names.DecryptionSig(item, auth):  sig,
	})
}

// GetPlaintexts returns the decoded Plaintexts for item, if any.
func (b *Board) GetPlaintexts(ctx context.Context, item int) (model.Plaintexts, bool, error) {
	var v model.Plaintexts
	ok, err := b.getJSON(names.Plaintexts(item), &v)
	return v, ok, err
}

// GetPlaintextsStatement returns the PlaintextsStatement for item.
func (b *Board) GetPlaintextsStatement(ctx context.Context, item int) (model.PlaintextsStatement, bool, error) {
	var v model.PlaintextsStatement
	ok, err := b.getJSON(names.PlaintextsStmt(item), &v)
	return v, ok, err
}

// GetPlaintextsSignature returns auth's (co-)signature over the PlaintextsStatement.
func (b *Board) GetPlaintextsSignature(ctx context.Context, item, auth int) ([]byte, bool, error) {
	v, ok := b.get(names.PlaintextsSig(item, auth))
	return v, ok, nil
}

// AddPlaintexts publishes (plaintexts, statement, auth's signature)
// atomically. Used both by the item's decryptor originating the
// artifact and by co-signers.
func (b *Board) AddPlaintexts(ctx context.Context, item int, pt model.Plaintexts, stmt model.PlaintextsStatement, sig []byte, auth int) error {
	kv := map[names.Key][]byte{
		names.PlaintextsSig(item, auth): sig,
	}
	ptJSON, err := marshalJSON(pt)
	if err != nil {
		return fmt.Errorf("localfs: add plaintexts: %w", err)
	}
	stmtJSON, err := marshalJSON(stmt)
	if err != nil {
		return fmt.Errorf("localfs: add plaintexts statement: %w", err)
	}
	kv[names.Plaintexts(item)] = ptJSON
	kv[names.PlaintextsStmt(item)] = stmtJSON
	return b.commit(ctx, kv)
}
