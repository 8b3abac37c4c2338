package services

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"almoner/config"
)

const (
	keyLength  = 32 // AES-256
	saltLength = 16
	iterations = 100000
)

// sealedSecret holds the encrypted value with its salt
type sealedSecret struct {
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

func deriveKey(secret string, salt []byte) []byte {
	return pbkdf2.Key([]byte(secret), salt, iterations, keyLength, sha256.New)
}

// SealSecret encrypts a third-party API key with the server secret so it
// can sit in the config file at rest.
func SealSecret(plaintext string) ([]byte, error) {
	return sealWithKey(config.GetConfig().ServerSecret, plaintext)
}

// OpenSecret decrypts a sealed API key.
func OpenSecret(sealed []byte) (string, error) {
	return openWithKey(config.GetConfig().ServerSecret, sealed)
}

func sealWithKey(secret, plaintext string) ([]byte, error) {
	// Generate random salt
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}

	key := deriveKey(secret, salt)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	// Generate nonce
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	ciphertext := gcm.Seal(nil, nonce, []byte(plaintext), nil)

	return json.Marshal(sealedSecret{
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	})
}

func openWithKey(secret string, sealed []byte) (string, error) {
	var env sealedSecret
	if err := json.Unmarshal(sealed, &env); err != nil {
		return "", err
	}

	key := deriveKey(secret, env.Salt)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	if len(env.Nonce) != gcm.NonceSize() {
		return "", errors.New("invalid nonce size")
	}

	plaintext, err := gcm.Open(nil, env.Nonce, env.Ciphertext, nil)
	if err != nil {
		return "", errors.New("decryption failed - wrong server secret or corrupted data")
	}

	return string(plaintext), nil
}
