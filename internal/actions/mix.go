package actions

import (
	"context"

	"github.com/voteosis/trustee/internal/model"
	"github.com/voteosis/trustee/internal/permute"
	"github.com/voteosis/trustee/mixlib"
)

// runAddMix implements the AddMix protocol step: loads this trustee's
// parent in the mix chain (Ballots at position 1, otherwise the
// previous trustee's Mix), runs the shuffle (consuming local
// PreShuffleData when offlineSplit is enabled and available, else
// running offline+online together), and publishes the result bound to
// its parent by hash.
func runAddMix(ctx context.Context, tc *TrusteeContext, item int) Result {
	base, res := checkBase(ctx, tc)
	if res != nil {
		return res
	}

	if _, already, err := tc.Board.GetMix(ctx, item, base.Auth); err != nil {
		return Errorf("read own mix(%d): %v", item, err)
	} else if already {
		return Ok{}
	}

	pk, ok, err := tc.Board.GetPublicKey(ctx, item)
	if err != nil {
		return Errorf("read public key(%d): %v", item, err)
	}
	if !ok {
		return Ok{} // gate not yet satisfied
	}

	pos := permute.Position(base.Auth, item, base.N)
	parentCiphertexts, parentHash, res := mixParent(ctx, tc, base, item, pos)
	if res != nil {
		return res
	}

	var result *mixlib.ShuffleResult
	if tc.OfflineSplit {
		data, have, err := tc.Board.GetPreShuffleDataLocal(ctx, item, base.Auth)
		if err != nil {
			return Errorf("read local pre-shuffle data(%d): %v", item, err)
		}
		if have {
			result, err = mixlib.ShuffleOnline(base.Group, pk.Value.Int, parentCiphertexts, data.ToMixlib())
			if err != nil {
				return Errorf("online shuffle(%d): %v", item, err)
			}
		}
	}
	if result == nil {
		var err error
		result, err = mixlib.Shuffle(base.Group, pk.Value.Int, parentCiphertexts)
		if err != nil {
			return Errorf("shuffle(%d): %v", item, err)
		}
	}

	mixModel := model.Mix{
		Ciphertexts: model.CiphertextsFromMixlib(result.Ciphertexts),
		Proof:       model.ShuffleProofFromMixlib(result.Proof),
	}
	mixHash, err := mixModel.StreamHash()
	if err != nil {
		return Errorf("hash mix(%d): %v", item, err)
	}
	stmt := model.MixStatement{
		MixHash:    mixHash,
		ParentHash: parentHash,
		ConfigHash: base.ConfigHash,
		Item:       item,
		Auth:       base.Auth,
	}
	sig, err := signStatement(tc, stmt)
	if err != nil {
		return Errorf("sign mix statement(%d): %v", item, err)
	}
	if err := tc.Board.AddMix(ctx, item, base.Auth, mixModel, stmt, sig); err != nil {
		return Errorf("publish mix(%d): %v", item, err)
	}
	if err := tc.Board.RmPreShuffleDataLocal(ctx, item, base.Auth); err != nil {
		return Errorf("erase local pre-shuffle data(%d): %v", item, err)
	}
	return Ok{}
}
