package export

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keySize          = 32 // AES-256
	nonceSize        = 12
	saltSize         = 16
	pbkdf2Iterations = 100000
)

// backupMagic prefixes every sealed backup so Open can recognise one
var backupMagic = []byte("LIFELIST1:")

var (
	ErrNotSealed     = errors.New("not an encrypted backup")
	ErrDecryptFailed = errors.New("decryption failed: wrong passphrase or corrupted data")
)

// IsSealed reports whether data looks like the output of Seal
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(data), backupMagic)
}

// Seal encrypts an export with a passphrase-derived AES-256-GCM key.
// The salt and nonce travel with the ciphertext.
func Seal(plaintext []byte, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, errors.New("passphrase is required")
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// salt + nonce + ciphertext
	raw := append(salt, nonce...)
	raw = gcm.Seal(raw, nonce, plaintext, backupMagic)

	out := make([]byte, len(backupMagic)+base64.StdEncoding.EncodedLen(len(raw)))
	copy(out, backupMagic)
	base64.StdEncoding.Encode(out[len(backupMagic):], raw)
	return out, nil
}

// Open reverses Seal
func Open(sealed []byte, passphrase string) ([]byte, error) {
	sealed = bytes.TrimSpace(sealed)
	if !bytes.HasPrefix(sealed, backupMagic) {
		return nil, ErrNotSealed
	}

	raw := make([]byte, base64.StdEncoding.DecodedLen(len(sealed)-len(backupMagic)))
	n, err := base64.StdEncoding.Decode(raw, sealed[len(backupMagic):])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotSealed, err)
	}
	raw = raw[:n]
	if len(raw) < saltSize+nonceSize {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrNotSealed)
	}

	gcm, err := newGCM(passphrase, raw[:saltSize])
	if err != nil {
		return nil, err
	}
	nonce := raw[saltSize : saltSize+nonceSize]
	plaintext, err := gcm.Open(nil, nonce, raw[saltSize+nonceSize:], backupMagic)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plaintext, nil
}

func newGCM(passphrase string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iterations, keySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
