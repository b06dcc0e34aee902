package model

// Statement records contain only hashes and small integers, never
// large payloads, so their canonical encoding is cheap to sign and to
// re-derive for comparison against whatever is published.

// ConfigStatement binds the published Config to its hash.
type ConfigStatement struct {
	ConfigHash string `json:"configHash"`
}

// ShareStatement binds a trustee's Share to its hash, the Config it
// was produced against, and the item it belongs to.
type ShareStatement struct {
	ShareHash  string `json:"shareHash"`
	ConfigHash string `json:"configHash"`
	Item       int    `json:"item"`
}

// PublicKeyStatement binds the combined PublicKey to its hash, the
// hash of the share set it was combined from, the Config, and the item.
type PublicKeyStatement struct {
	PublicKeyHash string `json:"publicKeyHash"`
	SharesHash    string `json:"sharesHash"`
	ConfigHash    string `json:"configHash"`
	Item          int    `json:"item"`
}

// BallotsStatement binds the ballotbox-delivered Ballots to its hash.
type BallotsStatement struct {
	BallotsHash string `json:"ballotsHash"`
	ConfigHash  string `json:"configHash"`
	Item        int    `json:"item"`
}

// MixStatement binds a trustee's Mix to its hash, its parent's hash in
// the mix chain, the Config, the item, and the mixer's trustee index.
type MixStatement struct {
	MixHash    string `json:"mixHash"`
	ParentHash string `json:"parentHash"`
	ConfigHash string `json:"configHash"`
	Item       int    `json:"item"`
	Auth       int    `json:"auth"`
}

// DecryptionStatement binds a trustee's PartialDecryption to its hash
// and the hash of the final mix it was computed against.
type DecryptionStatement struct {
	DecryptionHash string `json:"decryptionHash"`
	MixHash        string `json:"mixHash"`
	ConfigHash     string `json:"configHash"`
	Item           int    `json:"item"`
}

// PlaintextsStatement binds the item's Plaintexts to its hash and the
// hash of the combined decryption set it was produced from.
type PlaintextsStatement struct {
	PlaintextsHash  string `json:"plaintextsHash"`
	DecryptionsHash string `json:"decryptionsHash"`
	ConfigHash      string `json:"configHash"`
	Item            int    `json:"item"`
}
