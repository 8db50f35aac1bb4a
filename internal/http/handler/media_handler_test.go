package handler

import (
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"cardpress/internal/app/service"
	"cardpress/internal/http/util"
	"cardpress/internal/infra/kv"
)

func newMediaApp(t *testing.T) *fiber.App {
	t.Helper()

	store := kv.NewMemory()
	signer := util.NewUploadSigner([]byte("test-secret"), time.Minute)
	uploads := service.NewUploadService(store, signer)

	app := fiber.New()
	NewMediaHandler(MediaDeps{Uploads: uploads}).Register(app)
	return app
}

func TestMediaHandler_UploadFlow(t *testing.T) {
	app := newMediaApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/upload-url?filename=logo.png", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var target service.UploadTarget
	if err := json.NewDecoder(resp.Body).Decode(&target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if target.Key == "" || !strings.HasPrefix(target.UploadURL, "/upload/") {
		t.Fatalf("unexpected target: %+v", target)
	}

	req := httptest.NewRequest("PUT", target.UploadURL, strings.NewReader("image-bytes"))
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for signed upload, got %d", resp.StatusCode)
	}
}

func TestMediaHandler_UploadURLRequiresFilename(t *testing.T) {
	app := newMediaApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/upload-url", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestMediaHandler_UploadRejectsForgedToken(t *testing.T) {
	app := newMediaApp(t)

	target := "/upload/uploads/1-logo.png?token=" + url.QueryEscape("forged.token")
	req := httptest.NewRequest("PUT", target, strings.NewReader("image-bytes"))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
