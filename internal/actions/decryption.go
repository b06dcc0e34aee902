package actions

import (
	"context"

	"github.com/voteosis/trustee/internal/model"
	"github.com/voteosis/trustee/internal/permute"
	"github.com/voteosis/trustee/mixlib"
)

// verifiedMixChain walks the full mix chain for item, position 1
// through base.N, and confirms that THIS trustee has personally signed
// every edge (self-signed its own mix, co-signed every other) before
// returning the final mix's ciphertexts and hash. This is the gate
// AddDecryption runs behind: a trustee must never partially decrypt a
// chain it has not itself verified link by link, since a broken link
// could hide ballot tampering a partial decryption would otherwise
// help cover up.
func verifiedMixChain(ctx context.Context, tc *TrusteeContext, base *Base, item int) ([]mixlib.Ciphertext, string, Result) {
	var finalCiphertexts []mixlib.Ciphertext
	var finalHash string

	for pos := 1; pos <= base.N; pos++ {
		mixer := permute.Inverse(pos, item, base.N)

		if _, signed, err := tc.Board.GetMixSignature(ctx, item, mixer, base.Auth); err != nil {
			return nil, "", Errorf("read own signature on mix(%d,%d): %v", item, mixer, err)
		} else if !signed {
			return nil, "", Errorf("have not personally verified mix chain position %d for item %d yet", pos, item)
		}

		mix, ok, err := tc.Board.GetMix(ctx, item, mixer)
		if err != nil {
			return nil, "", Errorf("read mix(%d,%d): %v", item, mixer, err)
		}
		if !ok {
			return nil, "", Errorf("mix(%d,%d) missing despite a signature on record", item, mixer)
		}
		stmt, ok, err := tc.Board.GetMixStatement(ctx, item, mixer)
		if err != nil {
			return nil, "", Errorf("read mix statement(%d,%d): %v", item, mixer, err)
		}
		if !ok {
			return nil, "", Errorf("mix statement(%d,%d) missing despite a signature on record", item, mixer)
		}

		_, parentHash, res := mixParent(ctx, tc, base, item, pos)
		if res != nil {
			return nil, "", res
		}
		if parentHash != stmt.ParentHash {
			return nil, "", Errorf("mix chain broken at position %d for item %d: parent hash mismatch", pos, item)
		}
		mixHash, err := mix.StreamHash()
		if err != nil {
			return nil, "", Errorf("hash mix(%d,%d): %v", item, mixer, err)
		}
		if mixHash != stmt.MixHash {
			return nil, "", Errorf("mix chain broken at position %d for item %d: mix hash mismatch", pos, item)
		}

		if pos == base.N {
			finalCiphertexts = model.CiphertextsToMixlib(mix.Ciphertexts)
			finalHash = mixHash
		}
	}

	return finalCiphertexts, finalHash, nil
}

// runAddDecryption implements the AddDecryption protocol step: reconstructs
// and verifies the entire mix chain, then publishes this trustee's
// partial decryption of the final mix's ciphertexts.
func runAddDecryption(ctx context.Context, tc *TrusteeContext, item int) Result {
	base, res := checkBase(ctx, tc)
	if res != nil {
		return res
	}

	if _, already, err := tc.Board.GetDecryption(ctx, item, base.Auth); err != nil {
		return Errorf("read own decryption(%d): %v", item, err)
	} else if already {
		return Ok{}
	}

	finalCiphertexts, mixHash, res := verifiedMixChain(ctx, tc, base, item)
	if res != nil {
		return res
	}

	share, ok, err := tc.Board.GetShare(ctx, item, base.Auth)
	if err != nil {
		return Errorf("read own share(%d): %v", item, err)
	}
	if !ok {
		return Ok{} // gate not yet satisfied
	}
	x, err := decryptPrivateShare(tc, share.EncryptedPrivate, share.IV)
	if err != nil {
		return Errorf("decrypt own share(%d): %v", item, err)
	}

	parts, proof, err := mixlib.PartialDecrypt(base.Group, x, finalCiphertexts)
	if err != nil {
		return Errorf("partial decrypt(%d): %v", item, err)
	}

	decModel := model.PartialDecryption{
		Parts: model.PartsFromMixlib(parts),
		Proof: model.SigmaProofFromMixlib(proof),
	}
	decHash, err := decModel.StreamHash()
	if err != nil {
		return Errorf("hash decryption(%d): %v", item, err)
	}
	stmt := model.DecryptionStatement{
		DecryptionHash: decHash,
		MixHash:        mixHash,
		ConfigHash:     base.ConfigHash,
		Item:           item,
	}
	sig, err := signStatement(tc, stmt)
	if err != nil {
		return Errorf("sign decryption statement(%d): %v", item, err)
	}
	if err := tc.Board.AddDecryption(ctx, item, base.Auth, decModel, stmt, sig); err != nil {
		return Errorf("publish decryption(%d): %v", item, err)
	}
	return Ok{}
}
