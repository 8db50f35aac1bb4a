package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"cardpress/internal/app/ai"
	"cardpress/internal/app/service"
	inthttp "cardpress/internal/http/handler"
	"cardpress/internal/http/middleware"
)

// Dependencies bundles everything the HTTP server needs wired in.
type Dependencies struct {
	Logger    *zap.Logger
	Postgres  *pgxpool.Pool
	Redis     *redis.Client
	NATS      *nats.Conn
	JetStream nats.JetStreamContext

	Cards     service.CardService
	Share     service.ShareService
	Uploads   service.UploadService
	Suggester ai.Suggester
	Visits    *service.VisitPublisher

	CDNBaseURL string
}

// Server wraps the Fiber application and its dependencies.
type Server struct {
	app  *fiber.App
	deps Dependencies
}

// New creates a new HTTP server instance with default routes.
func New(deps Dependencies) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 16 * 1024 * 1024, // media uploads
	})

	s := &Server{
		app:  app,
		deps: deps,
	}

	s.registerRoutes()
	return s
}

// Listen starts the Fiber server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the Fiber server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// App exposes the underlying Fiber app (used by handler tests).
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) registerRoutes() {
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Recovery(s.deps.Logger))
	s.app.Use(middleware.Logger(s.deps.Logger))
	s.app.Use(middleware.CORS())

	if s.deps.Redis != nil {
		s.app.Use("/c", middleware.RateLimit(s.deps.Redis,
			middleware.DefaultRateLimitConfig(), s.deps.Logger))
	}

	apiHandler := inthttp.NewAPIHandler(inthttp.APIDeps{
		Logger: s.deps.Logger,
		Cards:  s.deps.Cards,
		Share:  s.deps.Share,
	})
	apiHandler.Register(s.app)

	mediaHandler := inthttp.NewMediaHandler(inthttp.MediaDeps{
		Logger:  s.deps.Logger,
		Uploads: s.deps.Uploads,
	})
	mediaHandler.Register(s.app)

	suggestionHandler := inthttp.NewSuggestionHandler(inthttp.SuggestionDeps{
		Logger:    s.deps.Logger,
		Suggester: s.deps.Suggester,
	})
	suggestionHandler.Register(s.app)

	publicHandler := inthttp.NewPublicHandler(inthttp.PublicDeps{
		Logger:     s.deps.Logger,
		Share:      s.deps.Share,
		Postgres:   s.deps.Postgres,
		Visits:     s.deps.Visits,
		CDNBaseURL: s.deps.CDNBaseURL,
	})
	publicHandler.Register(s.app)
}
