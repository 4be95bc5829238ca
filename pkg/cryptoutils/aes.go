package cryptoutils

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrInvalidPadding is returned when decrypted content is not PKCS#7 padded.
var ErrInvalidPadding = errors.New("invalid PKCS#7 padding")

// AESBase64 encrypts short form values with AES-CBC and PKCS#7 padding and
// encodes the ciphertext with standard base64.
type AESBase64 struct {
	block cipher.Block
	iv    []byte
}

// NewAESBase64 returns an AESBase64 for the given key and iv. The key must be
// 16, 24 or 32 bytes and the iv exactly one block long.
func NewAESBase64(key, iv string) (*AESBase64, error) {
	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	if len(iv) != block.BlockSize() {
		return nil, fmt.Errorf("iv must be %d bytes, got %d", block.BlockSize(), len(iv))
	}
	return &AESBase64{block: block, iv: []byte(iv)}, nil
}

// Encrypt returns the base64 encoded ciphertext of plaintext.
func (a *AESBase64) Encrypt(plaintext string) string {
	padded := pkcs7Pad([]byte(plaintext), a.block.BlockSize())
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(a.block, a.iv).CryptBlocks(out, padded)
	return base64.StdEncoding.EncodeToString(out)
}

// Decrypt reverses Encrypt.
func (a *AESBase64) Decrypt(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}
	bs := a.block.BlockSize()
	if len(data) == 0 || len(data)%bs != 0 {
		return "", fmt.Errorf("ciphertext is not a multiple of the block size")
	}
	out := make([]byte, len(data))
	cipher.NewCBCDecrypter(a.block, a.iv).CryptBlocks(out, data)
	plain, err := pkcs7Unpad(out, bs)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func pkcs7Pad(b []byte, bs int) []byte {
	n := bs - len(b)%bs
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, bs int) ([]byte, error) {
	n := int(b[len(b)-1])
	if n == 0 || n > bs || n > len(b) {
		return nil, ErrInvalidPadding
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, ErrInvalidPadding
		}
	}
	return b[:len(b)-n], nil
}
