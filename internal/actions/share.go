package actions

import (
	"context"

	"github.com/voteosis/trustee/internal/model"
	"github.com/voteosis/trustee/mixlib"
)

// runAddShare implements the AddShare protocol step: a fresh ElGamal key
// share with its Schnorr proof of knowledge, domain-separated by this
// trustee's own RSA modulus, with the private half AES-wrapped under
// the trustee's master key before anything touches the board.
func runAddShare(ctx context.Context, tc *TrusteeContext, item int) Result {
	base, res := checkBase(ctx, tc)
	if res != nil {
		return res
	}

	if _, ok, err := tc.Board.GetShare(ctx, item, base.Auth); err != nil {
		return Errorf("read own share: %v", err)
	} else if ok {
		return Ok{} // already posted; idempotent no-op
	}

	domainID := tc.PrivateKey.PublicKey.N.Bytes()
	priv, share, err := mixlib.GenerateShare(base.Group, domainID)
	if err != nil {
		return Errorf("generate share: %v", err)
	}

	ciphertext, iv, err := encryptPrivateShare(tc, priv)
	if err != nil {
		return Errorf("encrypt private share: %v", err)
	}

	shareModel := model.Share{
		Public:           model.NewBigInt(share.Public),
		Proof:            model.SchnorrProofFromMixlib(share.Proof),
		EncryptedPrivate: ciphertext,
		IV:               iv,
	}
	shareHash, err := model.Hash(shareModel)
	if err != nil {
		return Errorf("hash share: %v", err)
	}
	stmt := model.ShareStatement{ShareHash: shareHash, ConfigHash: base.ConfigHash, Item: item}
	sig, err := signStatement(tc, stmt)
	if err != nil {
		return Errorf("sign share statement: %v", err)
	}

	if err := tc.Board.AddShare(ctx, item, base.Auth, shareModel, stmt, sig); err != nil {
		return Errorf("publish share: %v", err)
	}
	return Ok{}
}
