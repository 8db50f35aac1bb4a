package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cardpress/internal/app/model"
	"cardpress/internal/infra/kv"
)

// cardsKey is the kv entry holding the full ordered card list, kept
// name-compatible with the original browser storage layout.
const cardsKey = "savedDigitalCards"

var (
	// ErrCardNotFound signals that the referenced card does not exist.
	ErrCardNotFound = errors.New("card not found")
	// ErrCardExists signals a create with an id that is already taken.
	ErrCardExists = errors.New("card id already exists")
	// ErrReorderMismatch signals a reorder sequence that is not a
	// permutation of the stored ids.
	ErrReorderMismatch = errors.New("reorder ids do not match stored cards")
)

// CardRepository defines the data access contract for cards. The
// collection order is significant and persisted explicitly.
type CardRepository interface {
	// List returns all cards in persisted order, seeding the store with
	// one default card on first-ever access.
	List(ctx context.Context) ([]model.Card, error)
	Get(ctx context.Context, id string) (*model.Card, error)
	Create(ctx context.Context, card model.Card) (*model.Card, error)
	// Update replaces the whole record matching id, preserving position.
	Update(ctx context.Context, id string, card model.Card) (*model.Card, error)
	// Delete removes the card; deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
	// Reorder rewrites the persisted order to exactly orderedIDs.
	Reorder(ctx context.Context, orderedIDs []string) error
}

type cardRepository struct {
	store kv.Store
}

// NewCardRepository returns a CardRepository persisting into the given
// kv store.
func NewCardRepository(store kv.Store) CardRepository {
	return &cardRepository{store: store}
}

func (r *cardRepository) List(ctx context.Context) ([]model.Card, error) {
	cards, err := r.load(ctx)
	if err != nil {
		if !errors.Is(err, kv.ErrKeyNotFound) {
			return nil, err
		}
		// First-ever access: seed the store once.
		seeded := []model.Card{model.DefaultCard()}
		if err := r.save(ctx, seeded); err != nil {
			return nil, fmt.Errorf("seed default card: %w", err)
		}
		return seeded, nil
	}
	return cards, nil
}

func (r *cardRepository) Get(ctx context.Context, id string) (*model.Card, error) {
	cards, err := r.loadOrEmpty(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cards {
		if cards[i].ID == id {
			return &cards[i], nil
		}
	}
	return nil, ErrCardNotFound
}

func (r *cardRepository) Create(ctx context.Context, card model.Card) (*model.Card, error) {
	cards, err := r.loadOrEmpty(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cards {
		if cards[i].ID == card.ID {
			return nil, fmt.Errorf("%w: %s", ErrCardExists, card.ID)
		}
	}

	cards = append(cards, card)
	if err := r.save(ctx, cards); err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *cardRepository) Update(ctx context.Context, id string, card model.Card) (*model.Card, error) {
	cards, err := r.loadOrEmpty(ctx)
	if err != nil {
		return nil, err
	}

	for i := range cards {
		if cards[i].ID == id {
			card.ID = id
			cards[i] = card
			if err := r.save(ctx, cards); err != nil {
				return nil, err
			}
			return &card, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrCardNotFound, id)
}

func (r *cardRepository) Delete(ctx context.Context, id string) error {
	cards, err := r.loadOrEmpty(ctx)
	if err != nil {
		return err
	}

	kept := cards[:0:0]
	for _, c := range cards {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(cards) {
		return nil
	}
	return r.save(ctx, kept)
}

func (r *cardRepository) Reorder(ctx context.Context, orderedIDs []string) error {
	cards, err := r.loadOrEmpty(ctx)
	if err != nil {
		return err
	}

	if len(orderedIDs) != len(cards) {
		return fmt.Errorf("%w: got %d ids, store holds %d cards",
			ErrReorderMismatch, len(orderedIDs), len(cards))
	}

	byID := make(map[string]model.Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}

	ordered := make([]model.Card, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		card, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: unknown id %s", ErrReorderMismatch, id)
		}
		delete(byID, id)
		ordered = append(ordered, card)
	}

	return r.save(ctx, ordered)
}

// loadOrEmpty treats a missing entry as an empty collection; only List
// is allowed to seed.
func (r *cardRepository) loadOrEmpty(ctx context.Context) ([]model.Card, error) {
	cards, err := r.load(ctx)
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return cards, nil
}

func (r *cardRepository) load(ctx context.Context) ([]model.Card, error) {
	raw, err := r.store.Get(ctx, cardsKey)
	if err != nil {
		return nil, err
	}
	var cards []model.Card
	if err := json.Unmarshal(raw, &cards); err != nil {
		return nil, fmt.Errorf("decode card list: %w", err)
	}
	return cards, nil
}

func (r *cardRepository) save(ctx context.Context, cards []model.Card) error {
	raw, err := json.Marshal(cards)
	if err != nil {
		return fmt.Errorf("encode card list: %w", err)
	}
	return r.store.Set(ctx, cardsKey, raw)
}
