package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"cardpress/internal/app/model"
	"cardpress/internal/app/repository"
	"cardpress/internal/app/service"
)

// APIDeps groups dependencies required by the card management API.
type APIDeps struct {
	Logger *zap.Logger
	Cards  service.CardService
	Share  service.ShareService
}

// APIHandler implements the authenticated editor endpoints.
type APIHandler struct {
	logger *zap.Logger
	cards  service.CardService
	share  service.ShareService
}

// NewAPIHandler creates an API handler with the provided dependencies.
func NewAPIHandler(deps APIDeps) *APIHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{
		logger: logger,
		cards:  deps.Cards,
		share:  deps.Share,
	}
}

// Register wires API routes onto the provided router.
func (h *APIHandler) Register(router fiber.Router) {
	api := router.Group("/api")
	{
		cards := api.Group("/cards")
		{
			cards.Get("/", h.ListCards)
			cards.Post("/", h.CreateCard)
			cards.Post("/order", h.ReorderCards)
			cards.Put("/:id", h.UpdateCard)
			cards.Delete("/:id", h.DeleteCard)
			cards.Post("/:id/share", h.ShareCard)
		}
	}
}

// ListCards handles GET /api/cards
func (h *APIHandler) ListCards(c *fiber.Ctx) error {
	cards, err := h.cards.ListCards(requestContext(c))
	if err != nil {
		h.logger.Error("failed to list cards", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list cards",
		})
	}
	return c.JSON(fiber.Map{
		"cards": cards,
		"count": len(cards),
	})
}

// CreateCard handles POST /api/cards
func (h *APIHandler) CreateCard(c *fiber.Ctx) error {
	var card model.Card
	if err := c.BodyParser(&card); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	created, err := h.cards.CreateCard(requestContext(c), card)
	if err != nil {
		if errors.Is(err, repository.ErrCardExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "card id already exists",
			})
		}
		h.logger.Error("failed to create card", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create card",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateCard handles PUT /api/cards/:id
func (h *APIHandler) UpdateCard(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "card id is required",
		})
	}

	var card model.Card
	if err := c.BodyParser(&card); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	updated, err := h.cards.UpdateCard(requestContext(c), id, card)
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "card not found",
			})
		}
		h.logger.Error("failed to update card", zap.Error(err), zap.String("id", id))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update card",
		})
	}

	return c.JSON(updated)
}

// DeleteCard handles DELETE /api/cards/:id
func (h *APIHandler) DeleteCard(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "card id is required",
		})
	}

	if err := h.cards.DeleteCard(requestContext(c), id); err != nil {
		h.logger.Error("failed to delete card", zap.Error(err), zap.String("id", id))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to delete card",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

// ReorderRequest represents the request body for reordering cards.
type ReorderRequest struct {
	OrderedIDs []string `json:"orderedIds"`
}

// ReorderCards handles POST /api/cards/order
func (h *APIHandler) ReorderCards(c *fiber.Ctx) error {
	var req ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := h.cards.ReorderCards(requestContext(c), req.OrderedIDs); err != nil {
		if errors.Is(err, repository.ErrReorderMismatch) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "ordered ids must be a permutation of the stored cards",
			})
		}
		h.logger.Error("failed to reorder cards", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to reorder cards",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

// ShareCard handles POST /api/cards/:id/share
func (h *APIHandler) ShareCard(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "card id is required",
		})
	}

	slug, err := h.share.Share(requestContext(c), id)
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "card not found",
			})
		}
		if errors.Is(err, service.ErrSlugSpaceExhausted) {
			h.logger.Error("slug minting exhausted retries", zap.String("id", id))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "could not generate a share link, try again",
			})
		}
		h.logger.Error("failed to share card", zap.Error(err), zap.String("id", id))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to share card",
		})
	}

	return c.JSON(fiber.Map{"slug": slug})
}

// requestContext unwraps the fiber user context with a safe fallback.
func requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx
}
