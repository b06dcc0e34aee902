package actions

import (
	"context"
	"math/big"

	"github.com/voteosis/trustee/internal/model"
	"github.com/voteosis/trustee/internal/permute"
	"github.com/voteosis/trustee/mixlib"
)

// runAddOrSignPlaintexts implements the AddOrSignPlaintexts protocol step:
// once every trustee's PartialDecryption for an item is posted, the
// item's designated decryptor (permute.Decryptor) combines them and
// decodes the final mix's plaintexts; every trustee, including the
// decryptor on later cycles, independently recomputes and co-signs.
func runAddOrSignPlaintexts(ctx context.Context, tc *TrusteeContext, item int) Result {
	base, res := checkBase(ctx, tc)
	if res != nil {
		return res
	}

	finalCiphertexts, finalMixHash, res := verifiedMixChain(ctx, tc, base, item)
	if res != nil {
		return res
	}

	decHashes := make([]string, base.N)
	allParts := make([][]*big.Int, base.N)
	for t := 1; t <= base.N; t++ {
		dec, ok, err := tc.Board.GetDecryption(ctx, item, t)
		if err != nil {
			return Errorf("read decryption(%d,%d): %v", item, t, err)
		}
		if !ok {
			return Ok{} // gate not yet satisfied
		}
		stmt, ok, err := tc.Board.GetDecryptionStatement(ctx, item, t)
		if err != nil {
			return Errorf("read decryption statement(%d,%d): %v", item, t, err)
		}
		if !ok {
			return Errorf("decryption statement(%d,%d) missing", item, t)
		}
		sig, ok, err := tc.Board.GetDecryptionSignature(ctx, item, t)
		if err != nil {
			return Errorf("read decryption signature(%d,%d): %v", item, t, err)
		}
		if !ok {
			return Errorf("decryption signature(%d,%d) missing", item, t)
		}
		pub, err := trusteePublicKey(base.Config, t)
		if err != nil {
			return Errorf("parse trustee %d public key: %v", t, err)
		}
		verified, err := verifyStatementSig(pub, stmt, sig)
		if err != nil {
			return Errorf("encode decryption statement(%d,%d): %v", item, t, err)
		}
		if !verified {
			return Errorf("decryption(%d,%d) signature does not verify", item, t)
		}
		if stmt.MixHash != finalMixHash {
			return Errorf("decryption(%d,%d) bound to wrong mix hash", item, t)
		}
		decHash, err := dec.StreamHash()
		if err != nil {
			return Errorf("hash decryption(%d,%d): %v", item, t, err)
		}
		if decHash != stmt.DecryptionHash {
			return Errorf("decryption(%d,%d) hash mismatch", item, t)
		}

		share, ok, err := tc.Board.GetShare(ctx, item, t)
		if err != nil {
			return Errorf("read share(%d,%d): %v", item, t, err)
		}
		if !ok {
			return Errorf("share(%d,%d) missing", item, t)
		}
		parts := dec.PartsToMixlib()
		if !mixlib.VerifyPartialDecryption(base.Group, share.Public.Int, finalCiphertexts, parts, dec.Proof.ToMixlib()) {
			return Errorf("decryption(%d,%d) proof does not verify", item, t)
		}

		decHashes[t-1] = decHash
		allParts[t-1] = parts
	}

	combined := mixlib.CombineDecryptions(base.Group, allParts)
	messages, err := mixlib.Decode(base.Group, combined, finalCiphertexts)
	if err != nil {
		return Errorf("decode plaintexts(%d): %v", item, err)
	}

	ptModel := model.Plaintexts{Messages: messages}
	ptHash, err := model.Hash(ptModel)
	if err != nil {
		return Errorf("hash plaintexts(%d): %v", item, err)
	}
	decryptionsHash, err := hashList(decHashes)
	if err != nil {
		return Errorf("hash decryption set(%d): %v", item, err)
	}
	stmt := model.PlaintextsStatement{
		PlaintextsHash:  ptHash,
		DecryptionsHash: decryptionsHash,
		ConfigHash:      base.ConfigHash,
		Item:            item,
	}

	posted, exists, err := tc.Board.GetPlaintexts(ctx, item)
	if err != nil {
		return Errorf("read plaintexts(%d): %v", item, err)
	}

	decryptor := permute.Decryptor(item, base.N)
	if !exists {
		if base.Auth != decryptor {
			return Ok{}
		}
		sig, err := signStatement(tc, stmt)
		if err != nil {
			return Errorf("sign plaintexts statement(%d): %v", item, err)
		}
		if err := tc.Board.AddPlaintexts(ctx, item, ptModel, stmt, sig, base.Auth); err != nil {
			return Errorf("publish plaintexts(%d): %v", item, err)
		}
		return Ok{}
	}

	if _, alreadySigned, err := tc.Board.GetPlaintextsSignature(ctx, item, base.Auth); err != nil {
		return Errorf("read own plaintexts signature(%d): %v", item, err)
	} else if alreadySigned {
		return Ok{}
	}

	postedHash, err := model.Hash(posted)
	if err != nil {
		return Errorf("hash posted plaintexts(%d): %v", item, err)
	}
	if postedHash != ptHash {
		return Errorf("recomputed plaintexts hash %s does not match posted %s", ptHash, postedHash)
	}
	sig, err := signStatement(tc, stmt)
	if err != nil {
		return Errorf("sign plaintexts statement(%d): %v", item, err)
	}
	if err := tc.Board.AddPlaintexts(ctx, item, posted, stmt, sig, base.Auth); err != nil {
		return Errorf("co-sign plaintexts(%d): %v", item, err)
	}
	return Ok{}
}
