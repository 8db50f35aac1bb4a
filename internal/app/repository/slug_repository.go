package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cardpress/internal/infra/kv"
)

// slugsKey is the kv entry holding the slug→card-id map, kept
// name-compatible with the original browser storage layout.
const slugsKey = "digitalCardSlugs"

// ErrSlugNotFound signals that no mapping exists for the given slug or
// card.
var ErrSlugNotFound = errors.New("slug not found")

// SlugRepository defines the data access contract for share-link slugs.
// At most one slug maps to a given card.
type SlugRepository interface {
	// FindCardID resolves a slug to the card id it points at.
	FindCardID(ctx context.Context, slug string) (string, error)
	// FindByCard returns the existing slug for a card, if any.
	FindByCard(ctx context.Context, cardID string) (string, error)
	Save(ctx context.Context, slug, cardID string) error
	// DeleteByCard drops any slug pointing at cardID. Absence is not an
	// error; deletion is a cascade side effect of card deletion.
	DeleteByCard(ctx context.Context, cardID string) error
	// All returns the full slug→card-id map (used to prime the bloom
	// filter at startup).
	All(ctx context.Context) (map[string]string, error)
}

type slugRepository struct {
	store kv.Store
}

// NewSlugRepository returns a SlugRepository persisting into the given
// kv store.
func NewSlugRepository(store kv.Store) SlugRepository {
	return &slugRepository{store: store}
}

func (r *slugRepository) FindCardID(ctx context.Context, slug string) (string, error) {
	slugs, err := r.load(ctx)
	if err != nil {
		return "", err
	}
	cardID, ok := slugs[slug]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSlugNotFound, slug)
	}
	return cardID, nil
}

func (r *slugRepository) FindByCard(ctx context.Context, cardID string) (string, error) {
	slugs, err := r.load(ctx)
	if err != nil {
		return "", err
	}
	for slug, id := range slugs {
		if id == cardID {
			return slug, nil
		}
	}
	return "", fmt.Errorf("%w: no slug for card %s", ErrSlugNotFound, cardID)
}

func (r *slugRepository) Save(ctx context.Context, slug, cardID string) error {
	slugs, err := r.load(ctx)
	if err != nil {
		return err
	}
	slugs[slug] = cardID
	return r.save(ctx, slugs)
}

func (r *slugRepository) DeleteByCard(ctx context.Context, cardID string) error {
	slugs, err := r.load(ctx)
	if err != nil {
		return err
	}

	changed := false
	for slug, id := range slugs {
		if id == cardID {
			delete(slugs, slug)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return r.save(ctx, slugs)
}

func (r *slugRepository) All(ctx context.Context) (map[string]string, error) {
	return r.load(ctx)
}

func (r *slugRepository) load(ctx context.Context) (map[string]string, error) {
	raw, err := r.store.Get(ctx, slugsKey)
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	slugs := make(map[string]string)
	if err := json.Unmarshal(raw, &slugs); err != nil {
		return nil, fmt.Errorf("decode slug map: %w", err)
	}
	return slugs, nil
}

func (r *slugRepository) save(ctx context.Context, slugs map[string]string) error {
	raw, err := json.Marshal(slugs)
	if err != nil {
		return fmt.Errorf("encode slug map: %w", err)
	}
	return r.store.Set(ctx, slugsKey, raw)
}
