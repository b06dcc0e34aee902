package actions

import (
	"context"

	"github.com/voteosis/trustee/internal/envelope"
	"github.com/voteosis/trustee/internal/model"
	"github.com/voteosis/trustee/internal/permute"
	"github.com/voteosis/trustee/mixlib"
)

// mixParent resolves the ciphertext list and hash a trustee mixing at
// mix-chain position pos for item must bind to: the ballotbox's
// Ballots if pos is 1, otherwise the previous position's published
// Mix. Used identically by AddMix (to build its own MixStatement) and
// VerifyMix (to re-run the shuffle proof against the right input),
// keeping the chain rule Mix[k].parentHash = H(Mix[k-1]) with
// Mix[1].parent = H(Ballots) in one place.
func mixParent(ctx context.Context, tc *TrusteeContext, base *Base, item, pos int) ([]mixlib.Ciphertext, string, Result) {
	if pos == 1 {
		ballots, ok, err := tc.Board.GetBallots(ctx, item)
		if err != nil {
			return nil, "", Errorf("read ballots(%d): %v", item, err)
		}
		if !ok {
			return nil, "", Errorf("ballots(%d) missing", item)
		}
		stmt, ok, err := tc.Board.GetBallotsStatement(ctx, item)
		if err != nil {
			return nil, "", Errorf("read ballots statement(%d): %v", item, err)
		}
		if !ok {
			return nil, "", Errorf("ballots statement(%d) missing", item)
		}
		sig, ok, err := tc.Board.GetBallotsSignature(ctx, item)
		if err != nil {
			return nil, "", Errorf("read ballots signature(%d): %v", item, err)
		}
		if !ok {
			return nil, "", Errorf("ballots signature(%d) missing", item)
		}
		ballotboxPub, err := envelope.ParseRSAPublicKeyFromPEM([]byte(base.Config.BallotboxPublicKey))
		if err != nil {
			return nil, "", Errorf("parse ballotbox public key: %v", err)
		}
		verified, err := verifyStatementSig(ballotboxPub, stmt, sig)
		if err != nil {
			return nil, "", Errorf("encode ballots statement(%d): %v", item, err)
		}
		if !verified {
			return nil, "", Errorf("ballots(%d) signature does not verify", item)
		}
		hash, err := model.Hash(ballots)
		if err != nil {
			return nil, "", Errorf("hash ballots(%d): %v", item, err)
		}
		if hash != stmt.BallotsHash {
			return nil, "", Errorf("ballots(%d) hash mismatch", item)
		}
		return model.CiphertextsToMixlib(ballots.Ciphertexts), hash, nil
	}

	prevAuth := permute.Inverse(pos-1, item, base.N)
	prevMix, ok, err := tc.Board.GetMix(ctx, item, prevAuth)
	if err != nil {
		return nil, "", Errorf("read mix(%d,%d): %v", item, prevAuth, err)
	}
	if !ok {
		return nil, "", Errorf("mix(%d,%d) at earlier position missing", item, prevAuth)
	}
	prevStmt, ok, err := tc.Board.GetMixStatement(ctx, item, prevAuth)
	if err != nil {
		return nil, "", Errorf("read mix statement(%d,%d): %v", item, prevAuth, err)
	}
	if !ok {
		return nil, "", Errorf("mix statement(%d,%d) missing", item, prevAuth)
	}
	selfSig, ok, err := tc.Board.GetMixSignature(ctx, item, prevAuth, prevAuth)
	if err != nil {
		return nil, "", Errorf("read mix self-signature(%d,%d): %v", item, prevAuth, err)
	}
	if !ok {
		return nil, "", Errorf("mix(%d,%d) is not yet self-signed", item, prevAuth)
	}
	prevPub, err := trusteePublicKey(base.Config, prevAuth)
	if err != nil {
		return nil, "", Errorf("parse trustee %d public key: %v", prevAuth, err)
	}
	verified, err := verifyStatementSig(prevPub, prevStmt, selfSig)
	if err != nil {
		return nil, "", Errorf("encode mix statement(%d,%d): %v", item, prevAuth, err)
	}
	if !verified {
		return nil, "", Errorf("mix(%d,%d) self-signature does not verify", item, prevAuth)
	}
	hash, err := prevMix.StreamHash()
	if err != nil {
		return nil, "", Errorf("hash mix(%d,%d): %v", item, prevAuth, err)
	}
	if hash != prevStmt.MixHash {
		return nil, "", Errorf("mix(%d,%d) hash mismatch", item, prevAuth)
	}
	return model.CiphertextsToMixlib(prevMix.Ciphertexts), hash, nil
}
