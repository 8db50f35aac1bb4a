package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"cardpress/internal/infra/kv"
)

// blobPrefix namespaces uploaded media inside the kv store.
const blobPrefix = "blob:"

var whitespace = regexp.MustCompile(`\s+`)

// ErrUploadRejected signals an upload whose token did not validate for
// the target key.
var ErrUploadRejected = errors.New("upload token rejected")

// UploadTarget is what a client needs to push one file: a pre-signed
// URL and the storage key it will be reachable under afterwards.
type UploadTarget struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
}

// TokenIssuer signs and verifies upload authorizations. Implemented by
// util.UploadSigner; an interface here keeps the service testable.
type TokenIssuer interface {
	Issue(key string) (string, error)
	Validate(key, token string) error
}

// UploadService issues upload targets and accepts the file bytes. The
// bytes land in the kv store under a blob prefix; a real deployment
// would swap this for an object store without touching callers.
type UploadService interface {
	RequestUploadTarget(ctx context.Context, filename string) (*UploadTarget, error)
	Upload(ctx context.Context, key, token string, data []byte) error
}

type uploadService struct {
	blobs  kv.Store
	tokens TokenIssuer
}

// NewUploadService returns an UploadService writing into the given
// store and signing targets with the given issuer.
func NewUploadService(blobs kv.Store, tokens TokenIssuer) UploadService {
	return &uploadService{blobs: blobs, tokens: tokens}
}

func (s *uploadService) RequestUploadTarget(ctx context.Context, filename string) (*UploadTarget, error) {
	key := fmt.Sprintf("uploads/%d-%s", time.Now().UnixMilli(),
		whitespace.ReplaceAllString(filename, "-"))

	token, err := s.tokens.Issue(key)
	if err != nil {
		return nil, fmt.Errorf("sign upload target: %w", err)
	}

	return &UploadTarget{
		UploadURL: fmt.Sprintf("/upload/%s?token=%s", key, url.QueryEscape(token)),
		Key:       key,
	}, nil
}

func (s *uploadService) Upload(ctx context.Context, key, token string, data []byte) error {
	if err := s.tokens.Validate(key, token); err != nil {
		return fmt.Errorf("%w: %v", ErrUploadRejected, err)
	}
	if err := s.blobs.Set(ctx, blobPrefix+key, data); err != nil {
		return fmt.Errorf("store upload: %w", err)
	}
	return nil
}
