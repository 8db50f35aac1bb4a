package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"

	"cardpress/internal/app/model"
	"cardpress/internal/app/repository"
)

const (
	slugAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	slugLength   = 6

	// maxMintAttempts bounds the collision-retry loop. With a 36^6 key
	// space a handful of draws is already overkill for this scale.
	maxMintAttempts = 16

	// Sizing for the slug bloom filter; false positives only cost one
	// extra store lookup.
	bloomEstimatedSlugs = 100_000
	bloomFalsePositive  = 0.01
)

// ErrSlugSpaceExhausted signals that slug minting gave up after the
// bounded number of collision retries.
var ErrSlugSpaceExhausted = errors.New("could not mint a unique slug")

// ShareService mints public share slugs and resolves them back to
// cards. A card has at most one slug; re-sharing returns it unchanged.
type ShareService interface {
	Share(ctx context.Context, cardID string) (string, error)
	Resolve(ctx context.Context, slug string) (*model.Card, error)
}

type shareService struct {
	cards repository.CardRepository
	slugs repository.SlugRepository

	// filter answers "definitely unshared" without touching the store.
	// Slugs orphaned by card deletion stay in the filter; the follow-up
	// lookup still reports not found.
	mu     sync.Mutex
	filter *bloom.BloomFilter

	// mintSlug is swappable in tests.
	mintSlug func() string
}

// NewShareService builds a ShareService and primes its bloom filter
// from the already-persisted slug map.
func NewShareService(ctx context.Context, cards repository.CardRepository, slugs repository.SlugRepository) (ShareService, error) {
	existing, err := slugs.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load slug map: %w", err)
	}

	filter := bloom.NewWithEstimates(bloomEstimatedSlugs, bloomFalsePositive)
	for slug := range existing {
		filter.AddString(slug)
	}

	return &shareService{
		cards:    cards,
		slugs:    slugs,
		filter:   filter,
		mintSlug: randomSlug,
	}, nil
}

func (s *shareService) Share(ctx context.Context, cardID string) (string, error) {
	if _, err := s.cards.Get(ctx, cardID); err != nil {
		return "", fmt.Errorf("share card: %w", err)
	}

	// Idempotent: an already-shared card keeps its slug for life.
	slug, err := s.slugs.FindByCard(ctx, cardID)
	if err == nil {
		return slug, nil
	}
	if !errors.Is(err, repository.ErrSlugNotFound) {
		return "", fmt.Errorf("share card: %w", err)
	}

	for attempt := 0; attempt < maxMintAttempts; attempt++ {
		candidate := s.mintSlug()

		_, err := s.slugs.FindCardID(ctx, candidate)
		if err == nil {
			continue // collision, draw again
		}
		if !errors.Is(err, repository.ErrSlugNotFound) {
			return "", fmt.Errorf("share card: %w", err)
		}

		if err := s.slugs.Save(ctx, candidate, cardID); err != nil {
			return "", fmt.Errorf("share card: %w", err)
		}
		s.mu.Lock()
		s.filter.AddString(candidate)
		s.mu.Unlock()
		return candidate, nil
	}

	return "", ErrSlugSpaceExhausted
}

func (s *shareService) Resolve(ctx context.Context, slug string) (*model.Card, error) {
	s.mu.Lock()
	miss := !s.filter.TestString(slug)
	s.mu.Unlock()
	if miss {
		return nil, fmt.Errorf("resolve slug: %w: %s", repository.ErrSlugNotFound, slug)
	}

	cardID, err := s.slugs.FindCardID(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("resolve slug: %w", err)
	}

	card, err := s.cards.Get(ctx, cardID)
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			// Mapping survived a card deletion through some other path;
			// treat it the same as an unknown slug.
			return nil, fmt.Errorf("resolve slug: %w: %s", repository.ErrSlugNotFound, slug)
		}
		return nil, fmt.Errorf("resolve slug: %w", err)
	}
	return card, nil
}

func randomSlug() string {
	buf := make([]byte, slugLength)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	for i, b := range buf {
		buf[i] = slugAlphabet[int(b)%len(slugAlphabet)]
	}
	return string(buf)
}
