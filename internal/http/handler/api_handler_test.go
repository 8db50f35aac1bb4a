package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"cardpress/internal/app/model"
	"cardpress/internal/app/repository"
	"cardpress/internal/app/service"
	"cardpress/internal/infra/kv"
)

func newAPIApp(t *testing.T) *fiber.App {
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
	NewAPIHandler(APIDeps{Cards: cards, Share: share}).Register(app)
	return app
}

func TestAPIHandler_ListSeedsDefaultCard(t *testing.T) {
	app := newAPIApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/cards/", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Cards []model.Card `json:"cards"`
		Count int          `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Count != 1 {
		t.Fatalf("fresh store should list exactly the default card, got %d", body.Count)
	}
	if body.Cards[0].Name != "Atul Gupta" {
		t.Fatalf("unexpected seeded card: %+v", body.Cards[0])
	}
}

func TestAPIHandler_CreateAndUpdateCard(t *testing.T) {
	app := newAPIApp(t)

	payload, _ := json.Marshal(model.Card{CardName: "Conference Card", Name: "Jane Doe"})
	req := httptest.NewRequest("POST", "/api/cards/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var created model.Card
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created card should carry a minted id")
	}

	created.Title = "Speaker"
	payload, _ = json.Marshal(created)
	req = httptest.NewRequest("PUT", "/api/cards/"+created.ID, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestAPIHandler_UpdateMissingCard(t *testing.T) {
	app := newAPIApp(t)

	payload, _ := json.Marshal(model.Card{ID: "card-missing"})
	req := httptest.NewRequest("PUT", "/api/cards/card-missing", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestAPIHandler_ReorderMismatch(t *testing.T) {
	app := newAPIApp(t)

	payload, _ := json.Marshal(ReorderRequest{OrderedIDs: []string{"card-unknown"}})
	req := httptest.NewRequest("POST", "/api/cards/order", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestAPIHandler_ShareUnknownCard(t *testing.T) {
	app := newAPIApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/cards/card-missing/share", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestAPIHandler_ShareReturnsSlug(t *testing.T) {
	app := newAPIApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/cards/", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var listing struct {
		Cards []model.Card `json:"cards"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	resp, err = app.Test(httptest.NewRequest("POST", "/api/cards/"+listing.Cards[0].ID+"/share", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Slug string `json:"slug"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Slug) != 6 {
		t.Fatalf("expected 6-character slug, got %q", body.Slug)
	}
}
