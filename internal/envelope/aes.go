package envelope

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// deriveAESKey expands the operator-supplied master key material
// (which may be 16, 24, or 32 raw bytes, or any other length of seed
// material) to a 16-byte AES-128 key via HKDF-SHA256, so the on-disk
// master key file does not have to be exactly 16 raw bytes.
func deriveAESKey(master []byte) ([]byte, error) {
	kdf := hkdf.New(sha256.New, master, nil, []byte("trustee-share-wrap"))
	key := make([]byte, 16)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("envelope: derive AES key: %w", err)
	}
	return key, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padding := bytes.Repeat([]byte{byte(padLen)}, padLen)
	return append(data, padding...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	n := len(data)
	if n == 0 || n%blockSize != 0 {
		return nil, fmt.Errorf("envelope: ciphertext is not a multiple of the block size")
	}
	padLen := int(data[n-1])
	if padLen == 0 || padLen > blockSize || padLen > n {
		return nil, fmt.Errorf("envelope: invalid PKCS#7 padding")
	}
	for _, b := range data[n-padLen:] {
		if int(b) != padLen {
			return nil, fmt.Errorf("envelope: invalid PKCS#7 padding")
		}
	}
	return data[:n-padLen], nil
}

// EncryptShare AES-128-CBC-PKCS7-encrypts a private share under a key
// derived from master, with a fresh random IV. Returns the ciphertext
// and the IV, both of which are stored together on disk (the IV is
// public).
func EncryptShare(master, plaintext []byte) (ciphertext, iv []byte, err error) {
	key, err := deriveAESKey(master)
	if err != nil {
		return nil, nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("envelope: new cipher: %w", err)
	}
	iv = make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, nil, fmt.Errorf("envelope: read iv: %w", err)
	}
	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext = make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)
	return ciphertext, iv, nil
}

// DecryptShare reverses EncryptShare. A wrong key is detected only
// through PKCS#7 padding failure, which callers MUST treat as a hard
// error (never silently mask it). The wrapper carries no
// authentication tag, so roughly 1 in 256 wrong-key decryptions still
// end in valid-looking padding and return garbage bytes without error.
func DecryptShare(master, ciphertext, iv []byte) ([]byte, error) {
	key, err := deriveAESKey(master)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("envelope: new cipher: %w", err)
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("envelope: iv must be %d bytes", aes.BlockSize)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("envelope: ciphertext is not a multiple of the block size")
	}
	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)
	plaintext, err := pkcs7Unpad(padded, aes.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("envelope: decrypt: %w", err)
	}
	return plaintext, nil
}
