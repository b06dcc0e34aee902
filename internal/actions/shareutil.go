package actions

import (
	"fmt"
	"math/big"

	"github.com/voteosis/trustee/internal/envelope"
)

// encryptPrivateShare AES-wraps a trustee's private ElGamal share
// under its master key with a fresh IV.
func encryptPrivateShare(tc *TrusteeContext, priv *big.Int) (ciphertext, iv []byte, err error) {
	return envelope.EncryptShare(tc.AESMasterKey, priv.Bytes())
}

// decryptPrivateShare reverses encryptPrivateShare. A wrong key (or a
// tampered wrapper) surfaces as a hard error only when the PKCS#7
// padding check fails; when the padding happens to look valid, a wrong
// value is returned without error.
func decryptPrivateShare(tc *TrusteeContext, ciphertext, iv []byte) (*big.Int, error) {
	plain, err := envelope.DecryptShare(tc.AESMasterKey, ciphertext, iv)
	if err != nil {
		return nil, fmt.Errorf("unwrap private share: %w", err)
	}
	return new(big.Int).SetBytes(plain), nil
}
