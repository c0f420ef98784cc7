package fieldcipher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
)

// Package fieldcipher seals designated record fields for at-rest
// protection, independent of transport security. Each value is
// encrypted with AES-256-CTR under the encryption key and authenticated
// with HMAC-SHA256 under the signing key (encrypt-then-MAC). The sealed
// layout is version(1) || iv(16) || ciphertext || tag(32); the tag
// covers version, iv and ciphertext.

const (
	// KeySize is the required length of both secrets.
	KeySize = 32

	keyVersion = 1
	ivSize     = aes.BlockSize
	tagSize    = sha256.Size
	overhead   = 1 + ivSize + tagSize
)

// ErrIntegrityViolation is returned when a sealed value fails
// authentication. The record must be treated as corrupt; no partial
// plaintext is ever returned.
var ErrIntegrityViolation = errors.New("field integrity violation")

// Keys carries the two process-wide secrets. It is injected at
// construction so tests can substitute deterministic material.
type Keys struct {
	Encryption []byte
	Signing    []byte
}

func (k Keys) validate() error {
	if len(k.Encryption) != KeySize {
		return fmt.Errorf("encryption key must be %d bytes, got %d", KeySize, len(k.Encryption))
	}
	if len(k.Signing) != KeySize {
		return fmt.Errorf("signing key must be %d bytes, got %d", KeySize, len(k.Signing))
	}
	return nil
}

type Cipher struct {
	encKey  []byte
	signKey []byte
}

func New(keys Keys) (*Cipher, error) {
	if err := keys.validate(); err != nil {
		return nil, err
	}
	return &Cipher{
		encKey:  append([]byte(nil), keys.Encryption...),
		signKey: append([]byte(nil), keys.Signing...),
	}, nil
}

// Seal encrypts and authenticates one field value.
func (c *Cipher) Seal(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(c.encKey)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 1+ivSize+len(plaintext), overhead+len(plaintext))
	sealed[0] = keyVersion
	iv := sealed[1 : 1+ivSize]
	if _, err := rand.Read(iv); err != nil {
		return nil, err
	}
	cipher.NewCTR(block, iv).XORKeyStream(sealed[1+ivSize:], plaintext)

	mac := hmac.New(sha256.New, c.signKey)
	mac.Write(sealed)
	return mac.Sum(sealed), nil
}

// Open authenticates and decrypts one sealed value. Any tag mismatch,
// truncation or unknown key version fails closed with
// ErrIntegrityViolation.
func (c *Cipher) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < overhead {
		return nil, ErrIntegrityViolation
	}
	if sealed[0] != keyVersion {
		return nil, ErrIntegrityViolation
	}

	body := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]

	mac := hmac.New(sha256.New, c.signKey)
	mac.Write(body)
	if !hmac.Equal(tag, mac.Sum(nil)) {
		return nil, ErrIntegrityViolation
	}

	block, err := aes.NewCipher(c.encKey)
	if err != nil {
		return nil, err
	}
	plaintext := make([]byte, len(body)-1-ivSize)
	cipher.NewCTR(block, body[1:1+ivSize]).XORKeyStream(plaintext, body[1+ivSize:])
	return plaintext, nil
}

// SealFields seals only the designated fields of a record; values not
// named in fields pass through unchanged.
func (c *Cipher) SealFields(values map[string][]byte, fields []string) (map[string][]byte, error) {
	designated := fieldSet(fields)
	out := make(map[string][]byte, len(values))
	for name, value := range values {
		if !designated[name] {
			out[name] = append([]byte(nil), value...)
			continue
		}
		sealed, err := c.Seal(value)
		if err != nil {
			return nil, fmt.Errorf("seal field %s: %w", name, err)
		}
		out[name] = sealed
	}
	return out, nil
}

// OpenFields opens the designated fields of a record. A single failed
// field fails the whole record; callers never see a partially decrypted
// result.
func (c *Cipher) OpenFields(values map[string][]byte, fields []string) (map[string][]byte, error) {
	designated := fieldSet(fields)
	out := make(map[string][]byte, len(values))
	for name, value := range values {
		if !designated[name] {
			out[name] = append([]byte(nil), value...)
			continue
		}
		plaintext, err := c.Open(value)
		if err != nil {
			return nil, err
		}
		out[name] = plaintext
	}
	return out, nil
}

func fieldSet(fields []string) map[string]bool {
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}
