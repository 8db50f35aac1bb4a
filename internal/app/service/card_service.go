package service

import (
	"context"
	"fmt"

	"cardpress/internal/app/model"
	"cardpress/internal/app/repository"
)

// CardService defines behaviour-level operations on card profiles.
type CardService interface {
	ListCards(ctx context.Context) ([]model.Card, error)
	CreateCard(ctx context.Context, card model.Card) (*model.Card, error)
	UpdateCard(ctx context.Context, id string, card model.Card) (*model.Card, error)
	DeleteCard(ctx context.Context, id string) error
	ReorderCards(ctx context.Context, orderedIDs []string) error
}

type cardService struct {
	cards repository.CardRepository
	slugs repository.SlugRepository
}

// NewCardService returns a service implementation backed by the given
// repositories. The slug repository is needed so card deletion can
// cascade to the share mapping.
func NewCardService(cards repository.CardRepository, slugs repository.SlugRepository) CardService {
	return &cardService{cards: cards, slugs: slugs}
}

func (s *cardService) ListCards(ctx context.Context) ([]model.Card, error) {
	cards, err := s.cards.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return cards, nil
}

func (s *cardService) CreateCard(ctx context.Context, card model.Card) (*model.Card, error) {
	if card.ID == "" {
		card.ID = model.NewCardID()
	}

	created, err := s.cards.Create(ctx, card)
	if err != nil {
		return nil, fmt.Errorf("create card: %w", err)
	}
	return created, nil
}

func (s *cardService) UpdateCard(ctx context.Context, id string, card model.Card) (*model.Card, error) {
	updated, err := s.cards.Update(ctx, id, card)
	if err != nil {
		return nil, fmt.Errorf("update card: %w", err)
	}
	return updated, nil
}

func (s *cardService) DeleteCard(ctx context.Context, id string) error {
	if err := s.cards.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	// Cascade: a deleted card must not stay reachable through its share
	// link. The reverse direction never cascades.
	if err := s.slugs.DeleteByCard(ctx, id); err != nil {
		return fmt.Errorf("delete card slug: %w", err)
	}
	return nil
}

func (s *cardService) ReorderCards(ctx context.Context, orderedIDs []string) error {
	if err := s.cards.Reorder(ctx, orderedIDs); err != nil {
		return fmt.Errorf("reorder cards: %w", err)
	}
	return nil
}
