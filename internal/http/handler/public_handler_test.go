package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"cardpress/internal/app/model"
	"cardpress/internal/app/repository"
	"cardpress/internal/app/service"
	"cardpress/internal/infra/kv"
)

func newPublicApp(t *testing.T) (*fiber.App, service.CardService, service.ShareService) {
	t.Helper()

	store := kv.NewMemory()
	cardRepo := repository.NewCardRepository(store)
	slugRepo := repository.NewSlugRepository(store)
	cards := service.NewCardService(cardRepo, slugRepo)
	share, err := service.NewShareService(context.Background(), cardRepo, slugRepo)
	if err != nil {
		t.Fatalf("NewShareService returned error: %v", err)
	}

	app := fiber.New()
	NewPublicHandler(PublicDeps{Share: share}).Register(app)
	return app, cards, share
}

func TestPublicHandler_Health(t *testing.T) {
	app, _, _ := newPublicApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"status":"ok"`) {
		t.Fatalf("unexpected health body: %s", body)
	}
}

func TestPublicHandler_ViewCardInvalidSlug(t *testing.T) {
	app, _, _ := newPublicApp(t)

	for _, slug := range []string{"ABC123", "short", "toolong1", "bad-.!"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/c/"+slug, nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Fatalf("slug %q: expected 400, got %d", slug, resp.StatusCode)
		}
	}
}

func TestPublicHandler_ViewCardUnknownSlug(t *testing.T) {
	app, _, _ := newPublicApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/c/zzzzzz", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestPublicHandler_ViewCardRendersPage(t *testing.T) {
	app, cards, share := newPublicApp(t)

	created, err := cards.CreateCard(context.Background(), model.Card{
		CardName: "Work Card",
		Name:     "Atul Gupta",
		Title:    "Managing Director",
	})
	if err != nil {
		t.Fatalf("CreateCard returned error: %v", err)
	}
	slug, err := share.Share(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Share returned error: %v", err)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/c/"+slug, nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Fatalf("expected html content type, got %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Atul Gupta") {
		t.Fatal("rendered page should contain the card holder name")
	}
}
