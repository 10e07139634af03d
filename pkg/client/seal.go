package client

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/cryptobyte"

	"github.com/dyluth/bored/pkg/address"
)

// Sealed blob layout:
//
//	uint64  content type (protocol base + version)
//	[24]byte nonce
//	[]byte  XChaCha20-Poly1305 ciphertext of the JSON bored
//
// The content type is authenticated as additional data.

// seal encrypts plaintext under key.
func seal(key address.Key, contentType uint64, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	var b cryptobyte.Builder
	b.AddUint64(contentType)
	header, err := b.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to build header: %w", err)
	}

	blob := make([]byte, 0, len(header)+len(nonce)+len(plaintext)+aead.Overhead())
	blob = append(blob, header...)
	blob = append(blob, nonce...)
	return aead.Seal(blob, nonce, plaintext, header), nil
}

// open reverses seal, returning the content type and plaintext. It fails on
// any malformed or tampered blob.
func open(key address.Key, blob []byte) (uint64, []byte, error) {
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	s := cryptobyte.String(blob)
	var contentType uint64
	var nonce []byte
	if !s.ReadUint64(&contentType) || !s.ReadBytes(&nonce, aead.NonceSize()) {
		return 0, nil, errors.New("blob too short")
	}

	plaintext, err := aead.Open(nil, nonce, s, blob[:8])
	if err != nil {
		return 0, nil, err
	}
	return contentType, plaintext, nil
}
