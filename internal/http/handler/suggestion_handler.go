package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"cardpress/internal/app/ai"
	"cardpress/internal/app/model"
)

// SuggestionDeps groups dependencies required by the suggestion endpoint.
type SuggestionDeps struct {
	Logger    *zap.Logger
	Suggester ai.Suggester
}

// SuggestionHandler proxies the generative text-suggestion call.
type SuggestionHandler struct {
	logger    *zap.Logger
	suggester ai.Suggester
}

// NewSuggestionHandler creates a suggestion handler with the provided dependencies.
func NewSuggestionHandler(deps SuggestionDeps) *SuggestionHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuggestionHandler{
		logger:    logger,
		suggester: deps.Suggester,
	}
}

// Register wires the suggestion route onto the provided router.
func (h *SuggestionHandler) Register(router fiber.Router) {
	router.Post("/api/suggestions", h.Suggest)
}

// SuggestRequest represents the request body for field suggestions.
type SuggestRequest struct {
	Field string     `json:"field"`
	Card  model.Card `json:"card"`
}

// Suggest handles POST /api/suggestions
func (h *SuggestionHandler) Suggest(c *fiber.Ctx) error {
	var req SuggestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	suggestions, err := h.suggester.Suggest(requestContext(c), req.Field, req.Card)
	if err != nil {
		switch {
		case errors.Is(err, ai.ErrUnsupportedField):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "suggestions are not available for this field",
			})
		case errors.Is(err, ai.ErrNotConfigured):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "AI features are not available. API key is not configured.",
			})
		case errors.Is(err, ai.ErrInvalidCredential):
			h.logger.Error("suggestion credential rejected", zap.Error(err))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "The API key is invalid. Please check your configuration.",
			})
		case errors.Is(err, ai.ErrBadFormat):
			h.logger.Error("suggestion response malformed", zap.Error(err))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Received an invalid format from the AI.",
			})
		default:
			h.logger.Error("suggestion request failed", zap.Error(err), zap.String("field", req.Field))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Failed to get suggestions from AI service.",
			})
		}
	}

	return c.JSON(fiber.Map{"suggestions": suggestions})
}
