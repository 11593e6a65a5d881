// Package credential reads API keys stored with
//
//	openssl enc -aes-256-cbc -pbkdf2 -in key.txt -out metro_api.enc -pass file:file_key.key
//
// without shelling out to openssl or writing the plaintext to disk.
package credential

import (
	"bufio"
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltMagic  = "Salted__"
	saltSize   = 8
	keySize    = 32
	iterations = 10000
)

var ErrBadCiphertext = errors.New("bad ciphertext")

func deriveKeyIV(passphrase []byte, salt []byte) ([]byte, []byte) {
	derived := pbkdf2.Key(passphrase, salt, iterations, keySize+aes.BlockSize, sha256.New)
	return derived[:keySize], derived[keySize:]
}

func Decrypt(ciphertext []byte, passphrase []byte) ([]byte, error) {
	headerSize := len(saltMagic) + saltSize
	if len(ciphertext) < headerSize+aes.BlockSize || string(ciphertext[:len(saltMagic)]) != saltMagic {
		return nil, fmt.Errorf("%w: missing %q header", ErrBadCiphertext, saltMagic)
	}

	salt := ciphertext[len(saltMagic):headerSize]
	body := ciphertext[headerSize:]
	if len(body)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of the block size", ErrBadCiphertext, len(body))
	}

	key, iv := deriveKeyIV(passphrase, salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	plaintext := make([]byte, len(body))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, body)

	return unpad(plaintext)
}

func Encrypt(plaintext []byte, passphrase []byte) ([]byte, error) {
	return encryptWithSalt(plaintext, passphrase, rand.Reader)
}

func encryptWithSalt(plaintext []byte, passphrase []byte, saltSource io.Reader) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(saltSource, salt); err != nil {
		return nil, err
	}

	key, iv := deriveKeyIV(passphrase, salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	padded := pad(plaintext)
	out := make([]byte, 0, len(saltMagic)+saltSize+len(padded))
	out = append(out, saltMagic...)
	out = append(out, salt...)

	body := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(body, padded)
	return append(out, body...), nil
}

func pad(data []byte) []byte {
	padding := aes.BlockSize - len(data)%aes.BlockSize
	return append(bytes.Clone(data), bytes.Repeat([]byte{byte(padding)}, padding)...)
}

// A wrong passphrase almost always surfaces here.
func unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty plaintext", ErrBadCiphertext)
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > aes.BlockSize || padding > len(data) {
		return nil, fmt.Errorf("%w: bad padding", ErrBadCiphertext)
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, fmt.Errorf("%w: bad padding", ErrBadCiphertext)
		}
	}
	return data[:len(data)-padding], nil
}

// ReadPassphrase follows openssl's "-pass file:" rule: the first line of the
// file, without its line ending.
func ReadPassphrase(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return []byte(firstLine(data)), nil
}

func firstLine(data []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimRight(scanner.Text(), "\r\n")
}

// DecryptKeyFile returns the first line of the decrypted key file, trimmed of
// trailing whitespace.
func DecryptKeyFile(encryptedPath string, passphrasePath string) (string, error) {
	passphrase, err := ReadPassphrase(passphrasePath)
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}

	ciphertext, err := os.ReadFile(encryptedPath)
	if err != nil {
		return "", fmt.Errorf("read key file: %w", err)
	}

	plaintext, err := Decrypt(ciphertext, passphrase)
	if err != nil {
		return "", fmt.Errorf("decrypt %s: %w", encryptedPath, err)
	}

	return strings.TrimRightFunc(firstLine(plaintext), func(r rune) bool {
		return r == ' ' || r == '\t'
	}), nil
}

func EncryptKeyFile(apiKey string, passphrasePath string, encryptedPath string) error {
	passphrase, err := ReadPassphrase(passphrasePath)
	if err != nil {
		return fmt.Errorf("read passphrase: %w", err)
	}

	ciphertext, err := Encrypt([]byte(apiKey+"\n"), passphrase)
	if err != nil {
		return err
	}

	return os.WriteFile(encryptedPath, ciphertext, 0o600)
}
