// Package names computes the canonical board keys for every artifact
// kind the protocol exchanges. A Key is both a condition-engine token
// and a board path segment; every function here is a pure, total
// mapping from (kind, item, trustee[, cosigner]) to a stable string so
// the driver, the condition engine, and the board agree on one naming
// scheme without ever constructing a key by hand.
package names

import "fmt"

// Key is a board/condition-engine key. It is a distinct type from
// string so a raw string literal cannot be passed where a computed key
// is expected by mistake.
type Key string

// Config is the single published election configuration.
func Config() Key { return "CONFIG" }

// ConfigStmt is the Statement record binding Config to its hash.
func ConfigStmt() Key { return "CONFIG_STMT" }

// ConfigSig is trustee auth's signature over ConfigStmt.
func ConfigSig(auth int) Key { return Key(fmt.Sprintf("CONFIG_SIG(%d)", auth)) }

// Pause is the global halt sentinel.
func Pause() Key { return "PAUSE" }

// Error is the (unattributed) global halt sentinel.
func Error() Key { return "ERROR" }

// ErrorAuth is trustee auth's own error sentinel.
func ErrorAuth(auth int) Key { return Key(fmt.Sprintf("ERROR(%d)", auth)) }

// Share is trustee auth's ElGamal key share for item.
func Share(item, auth int) Key { return Key(fmt.Sprintf("SHARE(%d,%d)", item, auth)) }

// ShareStmt is the Statement binding Share to its hash.
func ShareStmt(item, auth int) Key { return Key(fmt.Sprintf("SHARE_STMT(%d,%d)", item, auth)) }

// ShareSig is auth's self-signature over its own ShareStmt.
func ShareSig(item, auth int) Key { return Key(fmt.Sprintf("SHARE_SIG(%d,%d)", item, auth)) }

// PublicKey is the combined ElGamal public key for item.
func PublicKey(item int) Key { return Key(fmt.Sprintf("PUBLIC_KEY(%d)", item)) }

// PublicKeyStmt is the Statement binding PublicKey to its hash.
func PublicKeyStmt(item int) Key { return Key(fmt.Sprintf("PUBLIC_KEY_STMT(%d)", item)) }

// PublicKeySig is auth's (co-)signature over PublicKeyStmt(item).
func PublicKeySig(item, auth int) Key { return Key(fmt.Sprintf("PUBLIC_KEY_SIG(%d,%d)", item, auth)) }

// Ballots is the ordered ciphertext list delivered by the ballotbox.
func Ballots(item int) Key { return Key(fmt.Sprintf("BALLOTS(%d)", item)) }

// BallotsStmt is the Statement binding Ballots to its hash.
func BallotsStmt(item int) Key { return Key(fmt.Sprintf("BALLOTS_STMT(%d)", item)) }

// BallotsSig is the ballotbox's signature over BallotsStmt(item).
func BallotsSig(item int) Key { return Key(fmt.Sprintf("BALLOTS_SIG(%d)", item)) }

// PermData is trustee auth's LOCAL-only pre-shuffle data for item. Never
// published to the remote board.
func PermData(item, auth int) Key { return Key(fmt.Sprintf("PERM_DATA(%d,%d)", item, auth)) }

// Mix is trustee auth's ShuffleResult for item.
func Mix(item, auth int) Key { return Key(fmt.Sprintf("MIX(%d,%d)", item, auth)) }

// MixStmt is the Statement binding Mix to its hash and parent.
func MixStmt(item, auth int) Key { return Key(fmt.Sprintf("MIX_STMT(%d,%d)", item, auth)) }

// MixSig is signer's signature (self-signature when signer==mixer,
// co-signature otherwise) over MixStmt(item,mixer).
func MixSig(item, mixer, signer int) Key {
	return Key(fmt.Sprintf("MIX_SIG(%d,%d,%d)", item, mixer, signer))
}

// Decryption is trustee auth's partial decryption for item.
func Decryption(item, auth int) Key { return Key(fmt.Sprintf("DECRYPTION(%d,%d)", item, auth)) }

// DecryptionStmt is the Statement binding Decryption to its hash.
func DecryptionStmt(item, auth int) Key {
	return Key(fmt.Sprintf("DECRYPTION_STMT(%d,%d)", item, auth))
}

// DecryptionSig is auth's self-signature over DecryptionStmt(item,auth).
func DecryptionSig(item, auth int) Key {
	return Key(fmt.Sprintf("DECRYPTION_SIG(%d,%d)", item, auth))
}

// Plaintexts is the decoded message list for item.
func Plaintexts(item int) Key { return Key(fmt.Sprintf("PLAINTEXTS(%d)", item)) }

// PlaintextsStmt is the Statement binding Plaintexts to its hash.
func PlaintextsStmt(item int) Key { return Key(fmt.Sprintf("PLAINTEXTS_STMT(%d)", item)) }

// PlaintextsSig is auth's (co-)signature over PlaintextsStmt(item).
func PlaintextsSig(item, auth int) Key {
	return Key(fmt.Sprintf("PLAINTEXTS_SIG(%d,%d)", item, auth))
}
