// Package envelope implements the protocol's envelope cryptography:
// RSA key parsing and sign/verify over canonical statement bytes,
// AES-128-CBC-PKCS7 wrapping of private key shares, and streaming
// SHA-512 content fingerprints.
package envelope

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// ParseRSAPublicKeyFromPEM parses an RSA public key from PEM bytes.
// Supported PEM types: PUBLIC KEY (PKIX), RSA PUBLIC KEY (PKCS#1),
// CERTIFICATE (the certificate's embedded public key).
func ParseRSAPublicKeyFromPEM(pemBytes []byte) (*rsa.PublicKey, error) {
	rest := pemBytes
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			return nil, fmt.Errorf("envelope: no PEM public key found")
		}

		switch block.Type {
		case "PUBLIC KEY":
			pubAny, err := x509.ParsePKIXPublicKey(block.Bytes)
			if err != nil {
				return nil, fmt.Errorf("envelope: parse PKIX public key: %w", err)
			}
			pub, ok := pubAny.(*rsa.PublicKey)
			if !ok {
				return nil, fmt.Errorf("envelope: public key is not RSA")
			}
			return pub, nil
		case "RSA PUBLIC KEY":
			pub, err := x509.ParsePKCS1PublicKey(block.Bytes)
			if err != nil {
				return nil, fmt.Errorf("envelope: parse PKCS#1 public key: %w", err)
			}
			return pub, nil
		case "CERTIFICATE":
			cert, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return nil, fmt.Errorf("envelope: parse certificate: %w", err)
			}
			pub, ok := cert.PublicKey.(*rsa.PublicKey)
			if !ok {
				return nil, fmt.Errorf("envelope: certificate public key is not RSA")
			}
			return pub, nil
		}

		if len(rest) == 0 {
			return nil, fmt.Errorf("envelope: no supported PEM public key found")
		}
	}
}

// ParseRSAPrivateKeyFromPEM parses an RSA private key from PEM bytes.
// Supported PEM types: RSA PRIVATE KEY (PKCS#1), PRIVATE KEY (PKCS#8).
func ParseRSAPrivateKeyFromPEM(pemBytes []byte) (*rsa.PrivateKey, error) {
	rest := pemBytes
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			return nil, fmt.Errorf("envelope: no PEM private key found")
		}

		switch block.Type {
		case "RSA PRIVATE KEY":
			priv, err := x509.ParsePKCS1PrivateKey(block.Bytes)
			if err != nil {
				return nil, fmt.Errorf("envelope: parse PKCS#1 private key: %w", err)
			}
			return priv, nil
		case "PRIVATE KEY":
			key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
			if err != nil {
				return nil, fmt.Errorf("envelope: parse PKCS#8 private key: %w", err)
			}
			priv, ok := key.(*rsa.PrivateKey)
			if !ok {
				return nil, fmt.Errorf("envelope: private key is not RSA")
			}
			return priv, nil
		}

		if len(rest) == 0 {
			return nil, fmt.Errorf("envelope: no supported PEM private key found")
		}
	}
}

// Sign produces an RSA-SHA256 signature over the canonical bytes of
// message (the canonical JSON of a Statement record, per spec).
func Sign(priv *rsa.PrivateKey, message []byte) ([]byte, error) {
	digest := sha256.Sum256(message)
	sig, err := rsa.SignPKCS1v15(rand.Reader, priv, crypto.SHA256, digest[:])
	if err != nil {
		return nil, fmt.Errorf("envelope: sign: %w", err)
	}
	return sig, nil
}

// Verify checks an RSA-SHA256 signature over message's canonical bytes.
func Verify(pub *rsa.PublicKey, message, signature []byte) bool {
	digest := sha256.Sum256(message)
	return rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], signature) == nil
}
