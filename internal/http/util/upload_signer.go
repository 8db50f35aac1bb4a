package util

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidUploadToken = errors.New("invalid or expired upload token")
	ErrMissingSecret      = errors.New("upload secret is not configured")
)

// UploadSigner mints and checks the HMAC tokens that authorize writes
// to a specific storage key, standing in for a signed object-store URL.
type UploadSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewUploadSigner returns a signer that issues compact HMAC tokens.
func NewUploadSigner(secret []byte, ttl time.Duration) *UploadSigner {
	return &UploadSigner{
		secret: secret,
		ttl:    ttl,
	}
}

// Issue mints a token bound to the provided storage key.
func (s *UploadSigner) Issue(key string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrMissingSecret
	}

	payload := make([]byte, 12) // 4 bytes expiry + 8 random bytes
	expires := uint32(time.Now().Add(s.ttl).Unix())
	binary.BigEndian.PutUint32(payload[:4], expires)
	if _, err := rand.Read(payload[4:]); err != nil {
		return "", err
	}

	payloadEnc := base64.RawURLEncoding.EncodeToString(payload)
	signature := s.sign(key, payload)
	sigEnc := base64.RawURLEncoding.EncodeToString(signature[:16])
	return fmt.Sprintf("%s.%s", payloadEnc, sigEnc), nil
}

// Validate checks signature integrity and TTL of the token.
func (s *UploadSigner) Validate(key, token string) error {
	if len(s.secret) == 0 {
		return ErrMissingSecret
	}

	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return ErrInvalidUploadToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return ErrInvalidUploadToken
	}

	sigProvided, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return ErrInvalidUploadToken
	}
	if len(sigProvided) != 16 {
		return ErrInvalidUploadToken
	}

	expected := s.sign(key, payload)
	if !hmac.Equal(sigProvided, expected[:16]) {
		return ErrInvalidUploadToken
	}

	if len(payload) < 4 {
		return ErrInvalidUploadToken
	}
	expires := binary.BigEndian.Uint32(payload[:4])
	if time.Now().Unix() > int64(expires) {
		return ErrInvalidUploadToken
	}

	return nil
}

func (s *UploadSigner) sign(key string, payload []byte) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(key))
	mac.Write([]byte("|"))
	mac.Write(payload)
	return mac.Sum(nil)
}
