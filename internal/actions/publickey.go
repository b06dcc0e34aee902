package actions

import (
	"context"
	"math/big"

	"github.com/voteosis/trustee/internal/model"
	"github.com/voteosis/trustee/mixlib"
)

// runAddOrSignPublicKey implements the AddOrSignPublicKey protocol step.
// Every trustee independently re-derives the combined public key from
// the posted shares; trustee #1 originates the artifact if it is
// missing, everyone else (including #1 on later cycles) just co-signs
// once their recomputation matches what is posted.
func runAddOrSignPublicKey(ctx context.Context, tc *TrusteeContext, item int) Result {
	base, res := checkBase(ctx, tc)
	if res != nil {
		return res
	}

	shareHashes := make([]string, base.N)
	shares := make([]*big.Int, base.N)
	for t := 1; t <= base.N; t++ {
		share, ok, err := tc.Board.GetShare(ctx, item, t)
		if err != nil {
			return Errorf("read share(%d,%d): %v", item, t, err)
		}
		if !ok {
			return Errorf("share(%d,%d) missing", item, t)
		}
		stmt, ok, err := tc.Board.GetShareStatement(ctx, item, t)
		if err != nil {
			return Errorf("read share statement(%d,%d): %v", item, t, err)
		}
		if !ok {
			return Errorf("share statement(%d,%d) missing", item, t)
		}
		sig, ok, err := tc.Board.GetShareSignature(ctx, item, t)
		if err != nil {
			return Errorf("read share signature(%d,%d): %v", item, t, err)
		}
		if !ok {
			return Errorf("share signature(%d,%d) missing", item, t)
		}

		hash, err := model.Hash(share)
		if err != nil {
			return Errorf("hash share(%d,%d): %v", item, t, err)
		}
		if hash != stmt.ShareHash {
			return Errorf("share(%d,%d) hash mismatch", item, t)
		}

		pub, err := trusteePublicKey(base.Config, t)
		if err != nil {
			return Errorf("parse trustee %d public key: %v", t, err)
		}
		ok, err = verifyStatementSig(pub, stmt, sig)
		if err != nil {
			return Errorf("encode share statement(%d,%d): %v", item, t, err)
		}
		if !ok {
			return Errorf("share(%d,%d) signature does not verify", item, t)
		}

		domainID := pub.N.Bytes()
		if !mixlib.VerifySchnorr(base.Group, domainID, share.Public.Int, share.Proof.ToMixlib()) {
			return Errorf("share(%d,%d) proof of knowledge does not verify", item, t)
		}

		shareHashes[t-1] = hash
		shares[t-1] = share.Public.Int
	}

	combined := mixlib.CombineShares(base.Group, shares)
	pkModel := model.PublicKey{Value: model.NewBigInt(combined)}
	pkHash, err := model.Hash(pkModel)
	if err != nil {
		return Errorf("hash public key: %v", err)
	}
	sharesHash, err := hashList(shareHashes)
	if err != nil {
		return Errorf("hash share set: %v", err)
	}
	stmt := model.PublicKeyStatement{
		PublicKeyHash: pkHash,
		SharesHash:    sharesHash,
		ConfigHash:    base.ConfigHash,
		Item:          item,
	}

	posted, exists, err := tc.Board.GetPublicKey(ctx, item)
	if err != nil {
		return Errorf("read public key(%d): %v", item, err)
	}

	if !exists {
		if base.Auth != 1 {
			// Not yet posted and we are not the originator; nothing
			// to do this cycle (rule 2 only fires for trustee #1).
			return Ok{}
		}
		sig, err := signStatement(tc, stmt)
		if err != nil {
			return Errorf("sign public key statement: %v", err)
		}
		if err := tc.Board.AddPublicKey(ctx, item, pkModel, stmt, sig, base.Auth); err != nil {
			return Errorf("publish public key: %v", err)
		}
		return Ok{}
	}

	if _, alreadySigned, err := tc.Board.GetPublicKeySignature(ctx, item, base.Auth); err != nil {
		return Errorf("read own public key signature: %v", err)
	} else if alreadySigned {
		return Ok{}
	}

	postedHash, err := model.Hash(posted)
	if err != nil {
		return Errorf("hash posted public key: %v", err)
	}
	if postedHash != pkHash {
		return Errorf("recomputed public key hash %s does not match posted %s", pkHash, postedHash)
	}
	sig, err := signStatement(tc, stmt)
	if err != nil {
		return Errorf("sign public key statement: %v", err)
	}
	if err := tc.Board.AddPublicKey(ctx, item, posted, stmt, sig, base.Auth); err != nil {
		return Errorf("co-sign public key: %v", err)
	}
	return Ok{}
}
