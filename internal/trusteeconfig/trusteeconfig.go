// Package trusteeconfig loads the flat key/value trustee configuration
// file and resolves it into ready-to-use material: the RSA keypair,
// the AES master key, and the peer trust set. The file is read with
// godotenv.Read rather than exported into the process environment,
// so a trustee's key paths are never inherited by child processes.
package trusteeconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/voteosis/trustee/internal/envelope"
)

// File is the parsed, typed form of the flat configuration file.
type File struct {
	DataStorePath    string
	RepoBaseURI      string
	PublicKeyPath    string
	PrivateKeyPath   string
	AESKeyPath       string
	PeersPath        string
	OfflineSplit     bool
	GitNoCompression bool
	GitRemoveLock    bool
	SingletonPort    int
}

// defaults holds the values options take when omitted from the file.
func defaults() File {
	return File{
		OfflineSplit:     false,
		GitNoCompression: false,
		GitRemoveLock:    true,
		SingletonPort:    9999,
	}
}

// LoadFile parses the flat KEY=VALUE configuration file at path.
func LoadFile(path string) (File, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return File{}, fmt.Errorf("trusteeconfig: read %s: %w", path, err)
	}

	f := defaults()
	f.DataStorePath = values["dataStorePath"]
	f.RepoBaseURI = values["repoBaseUri"]
	f.PublicKeyPath = values["publicKey"]
	f.PrivateKeyPath = values["privateKey"]
	f.AESKeyPath = values["aesKey"]
	f.PeersPath = values["peers"]

	if v, ok := values["offlineSplit"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return File{}, fmt.Errorf("trusteeconfig: offlineSplit: %w", err)
		}
		f.OfflineSplit = b
	}
	if v, ok := values["gitNoCompression"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return File{}, fmt.Errorf("trusteeconfig: gitNoCompression: %w", err)
		}
		f.GitNoCompression = b
	}
	if v, ok := values["gitRemoveLock"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return File{}, fmt.Errorf("trusteeconfig: gitRemoveLock: %w", err)
		}
		f.GitRemoveLock = b
	}
	if v, ok := values["singletonPort"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return File{}, fmt.Errorf("trusteeconfig: singletonPort: %w", err)
		}
		f.SingletonPort = n
	}

	if f.DataStorePath == "" {
		return File{}, fmt.Errorf("trusteeconfig: dataStorePath is required")
	}
	if f.PublicKeyPath == "" || f.PrivateKeyPath == "" {
		return File{}, fmt.Errorf("trusteeconfig: publicKey and privateKey are required")
	}
	if f.AESKeyPath == "" {
		return File{}, fmt.Errorf("trusteeconfig: aesKey is required")
	}
	if f.PeersPath == "" {
		return File{}, fmt.Errorf("trusteeconfig: peers is required")
	}

	return f, nil
}

// Identity holds this trustee's resolved key material, loaded from the
// paths a File names.
type Identity struct {
	PrivateKeyPEM string
	PublicKeyPEM  string
	AESMasterKey  []byte
	Peers         map[string]struct{}
}

// LoadIdentity reads and parses the key material f points at. PEM
// bytes are kept (not just the parsed *rsa keys) because own-key
// resolution against Config compares normalized PEM text.
func LoadIdentity(f File) (Identity, error) {
	pubBytes, err := os.ReadFile(f.PublicKeyPath)
	if err != nil {
		return Identity{}, fmt.Errorf("trusteeconfig: read public key: %w", err)
	}
	privBytes, err := os.ReadFile(f.PrivateKeyPath)
	if err != nil {
		return Identity{}, fmt.Errorf("trusteeconfig: read private key: %w", err)
	}
	if _, err := envelope.ParseRSAPrivateKeyFromPEM(privBytes); err != nil {
		return Identity{}, fmt.Errorf("trusteeconfig: parse private key: %w", err)
	}
	if _, err := envelope.ParseRSAPublicKeyFromPEM(pubBytes); err != nil {
		return Identity{}, fmt.Errorf("trusteeconfig: parse public key: %w", err)
	}

	aesKey, err := os.ReadFile(f.AESKeyPath)
	if err != nil {
		return Identity{}, fmt.Errorf("trusteeconfig: read AES key: %w", err)
	}

	peersRaw, err := os.ReadFile(f.PeersPath)
	if err != nil {
		return Identity{}, fmt.Errorf("trusteeconfig: read peers: %w", err)
	}
	peers, err := splitPEMBlocks(string(peersRaw))
	if err != nil {
		return Identity{}, fmt.Errorf("trusteeconfig: parse peers: %w", err)
	}

	return Identity{
		PrivateKeyPEM: string(privBytes),
		PublicKeyPEM:  string(pubBytes),
		AESMasterKey:  aesKey,
		Peers:         peers,
	}, nil
}

// splitPEMBlocks splits a file concatenating multiple PEM-encoded RSA
// public keys into a trust set of normalized PEM text, one entry per
// key, matching the normalization actions.checkBase applies when
// comparing a trustee's own key to the set Config lists.
func splitPEMBlocks(raw string) (map[string]struct{}, error) {
	const marker = "-----END"
	peers := make(map[string]struct{})
	rest := raw
	for {
		idx := strings.Index(rest, marker)
		if idx == -1 {
			break
		}
		end := strings.Index(rest[idx:], "-----\n")
		if end == -1 {
			end = strings.Index(rest[idx:], "-----")
			if end == -1 {
				break
			}
			end += len("-----")
		} else {
			end += len("-----\n")
		}
		block := strings.TrimSpace(rest[:idx+end])
		if block != "" {
			peers[block] = struct{}{}
		}
		rest = rest[idx+end:]
	}
	if len(peers) == 0 {
		return nil, fmt.Errorf("trusteeconfig: no PEM blocks found")
	}
	return peers, nil
}
