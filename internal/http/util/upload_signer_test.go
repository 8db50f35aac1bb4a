package util

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestUploadSigner_IssueAndValidate(t *testing.T) {
	signer := NewUploadSigner([]byte("secret"), time.Minute)

	token, err := signer.Issue("uploads/1-logo.png")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if err := signer.Validate("uploads/1-logo.png", token); err != nil {
		t.Fatalf("Validate rejected a fresh token: %v", err)
	}
}

func TestUploadSigner_RejectsWrongKey(t *testing.T) {
	signer := NewUploadSigner([]byte("secret"), time.Minute)

	token, err := signer.Issue("uploads/1-logo.png")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if err := signer.Validate("uploads/2-other.png", token); !errors.Is(err, ErrInvalidUploadToken) {
		t.Fatalf("expected ErrInvalidUploadToken, got %v", err)
	}
}

func TestUploadSigner_RejectsTampering(t *testing.T) {
	signer := NewUploadSigner([]byte("secret"), time.Minute)

	token, err := signer.Issue("uploads/1-logo.png")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	tampered := token[:len(token)-1]
	if strings.HasSuffix(token, "A") {
		tampered += "B"
	} else {
		tampered += "A"
	}
	if err := signer.Validate("uploads/1-logo.png", tampered); !errors.Is(err, ErrInvalidUploadToken) {
		t.Fatalf("expected ErrInvalidUploadToken, got %v", err)
	}
}

func TestUploadSigner_RejectsMalformedTokens(t *testing.T) {
	signer := NewUploadSigner([]byte("secret"), time.Minute)

	for _, token := range []string{"", "nodot", "a.b", "!!!.###"} {
		if err := signer.Validate("uploads/1-logo.png", token); !errors.Is(err, ErrInvalidUploadToken) {
			t.Fatalf("token %q: expected ErrInvalidUploadToken, got %v", token, err)
		}
	}
}

func TestUploadSigner_RejectsExpiredToken(t *testing.T) {
	signer := NewUploadSigner([]byte("secret"), -time.Minute)

	token, err := signer.Issue("uploads/1-logo.png")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if err := signer.Validate("uploads/1-logo.png", token); !errors.Is(err, ErrInvalidUploadToken) {
		t.Fatalf("expected ErrInvalidUploadToken for expired token, got %v", err)
	}
}

func TestUploadSigner_RequiresSecret(t *testing.T) {
	signer := NewUploadSigner(nil, time.Minute)

	if _, err := signer.Issue("uploads/1-logo.png"); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("Issue: expected ErrMissingSecret, got %v", err)
	}
	if err := signer.Validate("uploads/1-logo.png", "a.b"); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("Validate: expected ErrMissingSecret, got %v", err)
	}
}
