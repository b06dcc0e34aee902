package actions

import (
	"context"

	"github.com/voteosis/trustee/internal/model"
	"github.com/voteosis/trustee/internal/permute"
	"github.com/voteosis/trustee/mixlib"
)

// runVerifyMix implements the VerifyMix protocol step for one other
// trustee's Mix: re-check the statement shape, its self-signature, and the
// shuffle proof of one other trustee's published Mix against its
// correct parent votes, then publish a co-signature.
func runVerifyMix(ctx context.Context, tc *TrusteeContext, item, mixer int) Result {
	base, res := checkBase(ctx, tc)
	if res != nil {
		return res
	}
	if mixer == base.Auth {
		return Ok{} // own mixes carry a self-signature from AddMix already
	}

	if _, already, err := tc.Board.GetMixSignature(ctx, item, mixer, base.Auth); err != nil {
		return Errorf("read own co-signature on mix(%d,%d): %v", item, mixer, err)
	} else if already {
		return Ok{}
	}

	mix, ok, err := tc.Board.GetMix(ctx, item, mixer)
	if err != nil {
		return Errorf("read mix(%d,%d): %v", item, mixer, err)
	}
	if !ok {
		return Ok{} // chain not built up to this position yet
	}
	stmt, ok, err := tc.Board.GetMixStatement(ctx, item, mixer)
	if err != nil {
		return Errorf("read mix statement(%d,%d): %v", item, mixer, err)
	}
	if !ok {
		return Errorf("mix statement(%d,%d) missing", item, mixer)
	}
	if stmt.Item != item || stmt.Auth != mixer || stmt.ConfigHash != base.ConfigHash {
		return Errorf("mix statement(%d,%d) does not match its board position", item, mixer)
	}
	selfSig, ok, err := tc.Board.GetMixSignature(ctx, item, mixer, mixer)
	if err != nil {
		return Errorf("read mix self-signature(%d,%d): %v", item, mixer, err)
	}
	if !ok {
		return Errorf("mix(%d,%d) is not yet self-signed", item, mixer)
	}
	mixerPub, err := trusteePublicKey(base.Config, mixer)
	if err != nil {
		return Errorf("parse trustee %d public key: %v", mixer, err)
	}
	verified, err := verifyStatementSig(mixerPub, stmt, selfSig)
	if err != nil {
		return Errorf("encode mix statement(%d,%d): %v", item, mixer, err)
	}
	if !verified {
		return Errorf("mix(%d,%d) self-signature does not verify", item, mixer)
	}

	mixHash, err := mix.StreamHash()
	if err != nil {
		return Errorf("hash mix(%d,%d): %v", item, mixer, err)
	}
	if mixHash != stmt.MixHash {
		return Errorf("mix(%d,%d) hash mismatch", item, mixer)
	}

	pos := permute.Position(mixer, item, base.N)
	parentCiphertexts, parentHash, res := mixParent(ctx, tc, base, item, pos)
	if res != nil {
		return res
	}
	if parentHash != stmt.ParentHash {
		return Errorf("mix(%d,%d) parent hash mismatch: recomputed %s, published %s", item, mixer, parentHash, stmt.ParentHash)
	}

	pk, ok, err := tc.Board.GetPublicKey(ctx, item)
	if err != nil {
		return Errorf("read public key(%d): %v", item, err)
	}
	if !ok {
		return Ok{}
	}

	if !mixlib.VerifyShuffle(base.Group, pk.Value.Int, parentCiphertexts, model.CiphertextsToMixlib(mix.Ciphertexts), mix.Proof.ToMixlib()) {
		return Errorf("mix(%d,%d) shuffle proof does not verify", item, mixer)
	}

	sig, err := signStatement(tc, stmt)
	if err != nil {
		return Errorf("sign mix statement(%d,%d): %v", item, mixer, err)
	}
	if err := tc.Board.AddMixSignature(ctx, item, mixer, base.Auth, sig); err != nil {
		return Errorf("co-sign mix(%d,%d): %v", item, mixer, err)
	}
	return Ok{}
}
