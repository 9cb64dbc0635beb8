// Package httpserver exposes the triage pipeline over HTTP: .eml upload,
// processing, and retrieval of stored records.
package httpserver

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mikey/email-triage/internal/config"
	"github.com/mikey/email-triage/internal/core"
)

// Server is the HTTP gateway
type Server struct {
	app       *fiber.App
	service   *core.TriageService
	store     core.EmailRepository
	logger    *zap.Logger
	cfg       config.ServerConfig
	listLimit int
}

// NewServer creates a new HTTP gateway
func NewServer(
	service *core.TriageService,
	store core.EmailRepository,
	logger *zap.Logger,
	cfg config.ServerConfig,
	listLimit int,
) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:             int(cfg.MaxUploadSize) + 1024*1024,
		DisableStartupMessage: true,
	})

	s := &Server{
		app:       app,
		service:   service,
		store:     store,
		logger:    logger,
		cfg:       cfg,
		listLimit: listLimit,
	}
	s.register(app)

	return s
}

func (s *Server) register(app *fiber.App) {
	api := app.Group("/api")

	api.Post("/upload", s.UploadEmail)
	api.Post("/emails/process", s.ProcessEmail)
	api.Get("/emails", s.ListEmails)
	api.Get("/emails/:fingerprint", s.GetEmail)
}

// Start begins serving in a background goroutine.
func (s *Server) Start() error {
	s.logger.Info("HTTP gateway starting", zap.String("address", s.cfg.ListenAddress))

	go func() {
		if err := s.app.Listen(s.cfg.ListenAddress); err != nil {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() error {
	s.logger.Info("HTTP gateway stopping")
	return s.app.Shutdown()
}
