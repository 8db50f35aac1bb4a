package service

import (
	"context"
	"errors"
	"testing"

	"cardpress/internal/app/model"
	"cardpress/internal/app/repository"
	"cardpress/internal/infra/kv"
)

func newShareFixture(t *testing.T) (ShareService, repository.CardRepository, repository.SlugRepository) {
	t.Helper()
	store := kv.NewMemory()
	cards := repository.NewCardRepository(store)
	slugs := repository.NewSlugRepository(store)

	svc, err := NewShareService(context.Background(), cards, slugs)
	if err != nil {
		t.Fatalf("NewShareService returned error: %v", err)
	}
	return svc, cards, slugs
}

func TestShareService_ShareIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, cards, _ := newShareFixture(t)
	cards.Create(ctx, model.Card{ID: "card-a"})

	first, err := svc.Share(ctx, "card-a")
	if err != nil {
		t.Fatalf("Share returned error: %v", err)
	}
	if len(first) != 6 {
		t.Fatalf("expected 6-char slug, got %q", first)
	}

	second, err := svc.Share(ctx, "card-a")
	if err != nil {
		t.Fatalf("second Share returned error: %v", err)
	}
	if second != first {
		t.Fatalf("re-share minted a new slug: %q != %q", second, first)
	}
}

func TestShareService_ShareUnknownCard(t *testing.T) {
	svc, _, _ := newShareFixture(t)

	if _, err := svc.Share(context.Background(), "nonexistent-id"); !errors.Is(err, repository.ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound, got %v", err)
	}
}

func TestShareService_ResolveRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, cards, _ := newShareFixture(t)
	cards.Create(ctx, model.Card{ID: "card-a", Name: "Ada Lovelace"})

	slug, err := svc.Share(ctx, "card-a")
	if err != nil {
		t.Fatalf("Share returned error: %v", err)
	}

	card, err := svc.Resolve(ctx, slug)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if card.ID != "card-a" || card.Name != "Ada Lovelace" {
		t.Fatalf("resolved wrong card: %+v", card)
	}
}

func TestShareService_ResolveUnknownSlug(t *testing.T) {
	svc, _, _ := newShareFixture(t)

	if _, err := svc.Resolve(context.Background(), "zzzzzz"); !errors.Is(err, repository.ErrSlugNotFound) {
		t.Fatalf("expected ErrSlugNotFound, got %v", err)
	}
}

func TestShareService_ResolveAfterCardDeleted(t *testing.T) {
	ctx := context.Background()
	svc, cards, slugs := newShareFixture(t)
	cards.Create(ctx, model.Card{ID: "card-a"})

	slug, _ := svc.Share(ctx, "card-a")

	// Full cascade: card and slug both removed.
	NewCardService(cards, slugs).DeleteCard(ctx, "card-a")
	if _, err := svc.Resolve(ctx, slug); !errors.Is(err, repository.ErrSlugNotFound) {
		t.Fatalf("expected ErrSlugNotFound after cascade, got %v", err)
	}
}

func TestShareService_ResolveOrphanedMapping(t *testing.T) {
	ctx := context.Background()
	svc, cards, _ := newShareFixture(t)
	cards.Create(ctx, model.Card{ID: "card-a"})

	slug, _ := svc.Share(ctx, "card-a")

	// Card removed without the slug mapping being cleaned up.
	cards.Delete(ctx, "card-a")
	if _, err := svc.Resolve(ctx, slug); !errors.Is(err, repository.ErrSlugNotFound) {
		t.Fatalf("expected ErrSlugNotFound for orphaned mapping, got %v", err)
	}
}

func TestShareService_PrimesFilterFromStore(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	cards := repository.NewCardRepository(store)
	slugs := repository.NewSlugRepository(store)
	cards.Create(ctx, model.Card{ID: "card-a"})
	slugs.Save(ctx, "abc123", "card-a")

	// A service built over pre-existing data must resolve old slugs.
	svc, err := NewShareService(ctx, cards, slugs)
	if err != nil {
		t.Fatalf("NewShareService returned error: %v", err)
	}
	card, err := svc.Resolve(ctx, "abc123")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if card.ID != "card-a" {
		t.Fatalf("resolved wrong card: %+v", card)
	}
}

func TestShareService_MintRetriesAreBounded(t *testing.T) {
	ctx := context.Background()
	svc, cards, slugs := newShareFixture(t)
	cards.Create(ctx, model.Card{ID: "card-a"})
	cards.Create(ctx, model.Card{ID: "card-b"})

	// Force every draw to collide with an existing mapping.
	slugs.Save(ctx, "stuck0", "card-a")
	impl := svc.(*shareService)
	impl.mintSlug = func() string { return "stuck0" }

	if _, err := svc.Share(ctx, "card-b"); !errors.Is(err, ErrSlugSpaceExhausted) {
		t.Fatalf("expected ErrSlugSpaceExhausted, got %v", err)
	}
}

func TestRandomSlug_AlphabetAndLength(t *testing.T) {
	for i := 0; i < 100; i++ {
		slug := randomSlug()
		if len(slug) != slugLength {
			t.Fatalf("unexpected slug length: %q", slug)
		}
		for _, r := range slug {
			if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
				t.Fatalf("slug contains invalid rune: %q", slug)
			}
		}
	}
}
