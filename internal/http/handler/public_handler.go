package handler

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"cardpress/internal/app/repository"
	"cardpress/internal/app/service"
	"cardpress/internal/http/view"
	infraprometheus "cardpress/internal/infra/prometheus"
)

// slugPattern matches the 6-character base36 tokens the share resolver
// mints; anything else is an invalid link, not a lookup miss.
var slugPattern = regexp.MustCompile(`^[a-z0-9]{6}$`)

// PublicDeps groups dependencies required by the public card view.
type PublicDeps struct {
	Logger     *zap.Logger
	Share      service.ShareService
	Postgres   *pgxpool.Pool
	Visits     *service.VisitPublisher
	CDNBaseURL string
}

// PublicHandler serves the unauthenticated share-link surface.
type PublicHandler struct {
	logger     *zap.Logger
	share      service.ShareService
	postgres   *pgxpool.Pool
	visits     *service.VisitPublisher
	cdnBaseURL string
}

// NewPublicHandler creates a public handler with the provided dependencies.
func NewPublicHandler(deps PublicDeps) *PublicHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PublicHandler{
		logger:     logger,
		share:      deps.Share,
		postgres:   deps.Postgres,
		visits:     deps.Visits,
		cdnBaseURL: deps.CDNBaseURL,
	}
}

// Register wires public routes onto the provided router.
func (h *PublicHandler) Register(router fiber.Router) {
	router.Get("/", h.Health)
	router.Get("/health", h.Health)
	router.Get("/c/:slug", h.ViewCard)
}

// Health is a simple root endpoint so we know the service is running.
func (h *PublicHandler) Health(c *fiber.Ctx) error {
	body := fiber.Map{
		"service": "cardpress",
		"status":  "ok",
		"time":    time.Now().UTC().Format(time.RFC3339),
	}

	if h.postgres != nil {
		pingCtx, cancel := context.WithTimeout(requestContext(c), 2*time.Second)
		defer cancel()
		if err := h.postgres.Ping(pingCtx); err != nil {
			body["analytics_db"] = "down"
		} else {
			body["analytics_db"] = "ok"
		}
	}

	return c.JSON(body)
}

// ViewCard handles GET /c/:slug and renders the read-only card page.
func (h *PublicHandler) ViewCard(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if !slugPattern.MatchString(slug) {
		infraprometheus.SlugResolves.WithLabelValues("invalid").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "This is not a valid card link.",
		})
	}

	card, err := h.share.Resolve(requestContext(c), slug)
	if err != nil {
		if errors.Is(err, repository.ErrSlugNotFound) {
			infraprometheus.SlugResolves.WithLabelValues("miss").Inc()
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "The requested card link was not found. It may have been deleted or the link is incorrect.",
			})
		}
		infraprometheus.SlugResolves.WithLabelValues("error").Inc()
		h.logger.Error("failed to resolve slug", zap.Error(err), zap.String("slug", slug))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load the card. Please try again later.",
		})
	}
	infraprometheus.SlugResolves.WithLabelValues("hit").Inc()

	if h.visits != nil {
		// Copy request values out before the handler returns; fiber
		// recycles its context.
		ip, userAgent, cardID := c.IP(), c.Get("User-Agent"), card.ID
		go func() {
			if err := h.visits.Publish(slug, cardID, ip, userAgent); err != nil {
				h.logger.Error("failed to publish visit event",
					zap.Error(err), zap.String("slug", slug))
			}
		}()
	}

	html, err := view.RenderCardPage(view.NewCardPageData(*card, h.cdnBaseURL))
	if err != nil {
		h.logger.Error("failed to render card page", zap.Error(err), zap.String("slug", slug))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load the card. Please try again later.",
		})
	}

	return c.
		Type("html", "utf-8").
		SendString(html)
}
