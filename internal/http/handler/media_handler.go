package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"cardpress/internal/app/service"
)

// MediaDeps groups dependencies required by the upload endpoints.
type MediaDeps struct {
	Logger  *zap.Logger
	Uploads service.UploadService
}

// MediaHandler implements the signed-upload flow for card media.
type MediaHandler struct {
	logger  *zap.Logger
	uploads service.UploadService
}

// NewMediaHandler creates a media handler with the provided dependencies.
func NewMediaHandler(deps MediaDeps) *MediaHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaHandler{
		logger:  logger,
		uploads: deps.Uploads,
	}
}

// Register wires upload routes onto the provided router.
func (h *MediaHandler) Register(router fiber.Router) {
	router.Get("/api/upload-url", h.RequestUploadTarget)
	router.Put("/upload/*", h.Upload)
}

// RequestUploadTarget handles GET /api/upload-url?filename=...
func (h *MediaHandler) RequestUploadTarget(c *fiber.Ctx) error {
	filename := c.Query("filename")
	if filename == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "filename is required",
		})
	}

	target, err := h.uploads.RequestUploadTarget(requestContext(c), filename)
	if err != nil {
		h.logger.Error("failed to sign upload target", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to prepare upload",
		})
	}

	return c.JSON(target)
}

// Upload handles PUT /upload/<key>?token=...
func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	key := c.Params("*")
	token := c.Query("token")
	if key == "" || token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing upload key or token",
		})
	}

	if err := h.uploads.Upload(requestContext(c), key, token, c.Body()); err != nil {
		if errors.Is(err, service.ErrUploadRejected) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "upload token rejected",
			})
		}
		h.logger.Error("failed to store upload", zap.Error(err), zap.String("key", key))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to store upload",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}
