package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cardpress/internal/app/model"
	"cardpress/internal/app/repository"
)

type mockCardRepository struct {
	listFn    func(ctx context.Context) ([]model.Card, error)
	getFn     func(ctx context.Context, id string) (*model.Card, error)
	createFn  func(ctx context.Context, card model.Card) (*model.Card, error)
	updateFn  func(ctx context.Context, id string, card model.Card) (*model.Card, error)
	deleteFn  func(ctx context.Context, id string) error
	reorderFn func(ctx context.Context, orderedIDs []string) error
}

func (m *mockCardRepository) List(ctx context.Context) ([]model.Card, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockCardRepository) Get(ctx context.Context, id string) (*model.Card, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, repository.ErrCardNotFound
}

func (m *mockCardRepository) Create(ctx context.Context, card model.Card) (*model.Card, error) {
	if m.createFn != nil {
		return m.createFn(ctx, card)
	}
	return &card, nil
}

func (m *mockCardRepository) Update(ctx context.Context, id string, card model.Card) (*model.Card, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, card)
	}
	return &card, nil
}

func (m *mockCardRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockCardRepository) Reorder(ctx context.Context, orderedIDs []string) error {
	if m.reorderFn != nil {
		return m.reorderFn(ctx, orderedIDs)
	}
	return nil
}

type mockSlugRepository struct {
	findCardFn     func(ctx context.Context, slug string) (string, error)
	findByCardFn   func(ctx context.Context, cardID string) (string, error)
	saveFn         func(ctx context.Context, slug, cardID string) error
	deleteByCardFn func(ctx context.Context, cardID string) error
	allFn          func(ctx context.Context) (map[string]string, error)
}

func (m *mockSlugRepository) FindCardID(ctx context.Context, slug string) (string, error) {
	if m.findCardFn != nil {
		return m.findCardFn(ctx, slug)
	}
	return "", repository.ErrSlugNotFound
}

func (m *mockSlugRepository) FindByCard(ctx context.Context, cardID string) (string, error) {
	if m.findByCardFn != nil {
		return m.findByCardFn(ctx, cardID)
	}
	return "", repository.ErrSlugNotFound
}

func (m *mockSlugRepository) Save(ctx context.Context, slug, cardID string) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, slug, cardID)
	}
	return nil
}

func (m *mockSlugRepository) DeleteByCard(ctx context.Context, cardID string) error {
	if m.deleteByCardFn != nil {
		return m.deleteByCardFn(ctx, cardID)
	}
	return nil
}

func (m *mockSlugRepository) All(ctx context.Context) (map[string]string, error) {
	if m.allFn != nil {
		return m.allFn(ctx)
	}
	return map[string]string{}, nil
}

func TestCardService_CreateMintsID(t *testing.T) {
	repo := &mockCardRepository{
		createFn: func(ctx context.Context, card model.Card) (*model.Card, error) {
			if card.ID == "" {
				t.Fatal("expected id to be minted before create")
			}
			if !strings.HasPrefix(card.ID, "card-") {
				t.Fatalf("unexpected id shape: %s", card.ID)
			}
			return &card, nil
		},
	}

	svc := NewCardService(repo, &mockSlugRepository{})
	created, err := svc.CreateCard(context.Background(), model.Card{CardName: "New Card"})
	if err != nil {
		t.Fatalf("CreateCard returned error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected created card to carry its id")
	}
}

func TestCardService_CreateKeepsCallerID(t *testing.T) {
	repo := &mockCardRepository{
		createFn: func(ctx context.Context, card model.Card) (*model.Card, error) {
			if card.ID != "card-preset" {
				t.Fatalf("caller id replaced: %s", card.ID)
			}
			return &card, nil
		},
	}

	svc := NewCardService(repo, &mockSlugRepository{})
	if _, err := svc.CreateCard(context.Background(), model.Card{ID: "card-preset"}); err != nil {
		t.Fatalf("CreateCard returned error: %v", err)
	}
}

func TestCardService_DeleteCascadesToSlug(t *testing.T) {
	cascaded := false
	slugs := &mockSlugRepository{
		deleteByCardFn: func(ctx context.Context, cardID string) error {
			if cardID != "card-a" {
				t.Fatalf("cascade targeted wrong card: %s", cardID)
			}
			cascaded = true
			return nil
		},
	}

	svc := NewCardService(&mockCardRepository{}, slugs)
	if err := svc.DeleteCard(context.Background(), "card-a"); err != nil {
		t.Fatalf("DeleteCard returned error: %v", err)
	}
	if !cascaded {
		t.Fatal("expected slug cascade on delete")
	}
}

func TestCardService_UpdatePropagatesNotFound(t *testing.T) {
	repo := &mockCardRepository{
		updateFn: func(ctx context.Context, id string, card model.Card) (*model.Card, error) {
			return nil, repository.ErrCardNotFound
		},
	}

	svc := NewCardService(repo, &mockSlugRepository{})
	_, err := svc.UpdateCard(context.Background(), "missing", model.Card{})
	if !errors.Is(err, repository.ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound, got %v", err)
	}
}

func TestCardService_ReorderPropagatesMismatch(t *testing.T) {
	repo := &mockCardRepository{
		reorderFn: func(ctx context.Context, orderedIDs []string) error {
			return repository.ErrReorderMismatch
		},
	}

	svc := NewCardService(repo, &mockSlugRepository{})
	err := svc.ReorderCards(context.Background(), []string{"card-a"})
	if !errors.Is(err, repository.ErrReorderMismatch) {
		t.Fatalf("expected ErrReorderMismatch, got %v", err)
	}
}
