package growthbook

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"strings"
)

var (
	ErrCryptoInvalidEncryptedFormat = errors.New("Crypto: encrypted data is in invalid format")
	ErrCryptoInvalidIVLength        = errors.New("Crypto: invalid IV length")
	ErrCryptoInvalidPadding         = errors.New("Crypto: invalid padding")
)

// decrypt reverses the AES-128-CBC + PKCS#7 scheme the GrowthBook API uses
// for encrypted feature payloads. encKey is base64; encrypted is
// "<base64 iv>.<base64 ciphertext>".
func decrypt(encrypted string, encKey string) (string, error) {
	key, err := base64.StdEncoding.DecodeString(encKey)
	if err != nil {
		return "", err
	}

	iv, cipherText, err := splitEncryptedPayload(encrypted)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	if len(iv) != block.BlockSize() {
		return "", ErrCryptoInvalidIVLength
	}
	if len(cipherText)%block.BlockSize() != 0 {
		return "", ErrCryptoInvalidEncryptedFormat
	}

	plainText := make([]byte, len(cipherText))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plainText, cipherText)

	unpadded, err := stripPKCS7Padding(plainText)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

func splitEncryptedPayload(encrypted string) (iv []byte, cipherText []byte, err error) {
	parts := strings.Split(encrypted, ".")
	if len(parts) != 2 {
		return nil, nil, ErrCryptoInvalidEncryptedFormat
	}
	if iv, err = base64.StdEncoding.DecodeString(parts[0]); err != nil {
		return nil, nil, err
	}
	if cipherText, err = base64.StdEncoding.DecodeString(parts[1]); err != nil {
		return nil, nil, err
	}
	return iv, cipherText, nil
}

// stripPKCS7Padding removes and validates PKCS#7 padding: the last byte
// gives the pad length, and every padding byte must repeat that value.
func stripPKCS7Padding(buf []byte) ([]byte, error) {
	n := len(buf)
	if n == 0 {
		return nil, ErrCryptoInvalidPadding
	}

	padLen := int(buf[n-1])
	if padLen == 0 || padLen > n || padLen > aes.BlockSize {
		return nil, ErrCryptoInvalidPadding
	}

	for _, b := range buf[n-padLen : n-1] {
		if int(b) != padLen {
			return nil, errors.New("crypto: invalid PKCS#7 padding")
		}
	}

	return buf[:n-padLen], nil
}
