package actions

import (
	"context"

	"github.com/voteosis/trustee/internal/model"
	"github.com/voteosis/trustee/mixlib"
)

// runAddPreShuffleData implements the AddPreShuffleData protocol step:
// the offline phase of the shuffle, computed without looking at the
// actual ciphertext values, stored LOCAL only. Safe to run in
// parallel across items, since it touches nothing but this trustee's
// own in-memory map.
func runAddPreShuffleData(ctx context.Context, tc *TrusteeContext, item int) Result {
	base, res := checkBase(ctx, tc)
	if res != nil {
		return res
	}

	ballots, ok, err := tc.Board.GetBallots(ctx, item)
	if err != nil {
		return Errorf("read ballots(%d): %v", item, err)
	}
	if !ok {
		return Ok{} // gate not yet satisfied; nothing to do
	}

	if _, have, err := tc.Board.GetPreShuffleDataLocal(ctx, item, base.Auth); err != nil {
		return Errorf("read local pre-shuffle data(%d): %v", item, err)
	} else if have {
		return Ok{}
	}
	if _, mixed, err := tc.Board.GetMix(ctx, item, base.Auth); err != nil {
		return Errorf("read own mix(%d): %v", item, err)
	} else if mixed {
		return Ok{}
	}

	data, err := mixlib.ShuffleOffline(base.Group, len(ballots.Ciphertexts))
	if err != nil {
		return Errorf("precompute offline shuffle(%d): %v", item, err)
	}
	if err := tc.Board.AddPreShuffleDataLocal(ctx, item, base.Auth, model.PreShuffleDataFromMixlib(data)); err != nil {
		return Errorf("store local pre-shuffle data(%d): %v", item, err)
	}
	return Ok{}
}
