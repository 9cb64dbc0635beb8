package httpserver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mikey/email-triage/internal/core"
)

// ProcessEmailRequest is the body of POST /api/emails/process.
type ProcessEmailRequest struct {
	FilePath      string        `json:"file_path"`
	KnowledgeBase core.Taxonomy `json:"knowledge_base,omitempty"`
}

// UploadEmail stores an uploaded .eml file for later processing.
// POST /api/upload
func (s *Server) UploadEmail(c *fiber.Ctx) error {
	file, err := c.FormFile("emailFile")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "no file uploaded")
	}
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".eml") {
		return errorResponse(c, fiber.StatusBadRequest, "invalid file type, only .eml files are allowed")
	}
	if file.Size > s.cfg.MaxUploadSize {
		return errorResponse(c, fiber.StatusRequestEntityTooLarge, "file exceeds upload size limit")
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		s.logger.Error("Failed to create upload directory", zap.Error(err))
		return errorResponse(c, fiber.StatusInternalServerError, "file upload failed")
	}

	stored := fmt.Sprintf("%s-%s", uuid.New().String(), filepath.Base(file.Filename))
	dest := filepath.Join(s.cfg.UploadDir, stored)
	if err := c.SaveFile(file, dest); err != nil {
		s.logger.Error("Failed to save uploaded file", zap.Error(err))
		return errorResponse(c, fiber.StatusInternalServerError, "file upload failed")
	}

	s.logger.Info("File uploaded", zap.String("path", dest))

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":  "File uploaded successfully.",
		"filePath": dest,
	})
}

// ProcessEmail runs the full pipeline on a previously uploaded file.
// POST /api/emails/process
func (s *Server) ProcessEmail(c *fiber.Ctx) error {
	var req ProcessEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.FilePath == "" {
		return errorResponse(c, fiber.StatusBadRequest, "file_path is required")
	}

	// Refuse paths outside the upload directory.
	cleaned := filepath.Clean(req.FilePath)
	uploadDir := filepath.Clean(s.cfg.UploadDir)
	if !strings.HasPrefix(cleaned, uploadDir+string(os.PathSeparator)) {
		return errorResponse(c, fiber.StatusBadRequest, "file_path must point into the upload directory")
	}

	raw, err := os.ReadFile(cleaned)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "failed to read email file")
	}

	outcome, err := s.service.ProcessEmail(c.Context(), raw, req.KnowledgeBase)
	if err != nil {
		var parseErr *core.ParseError
		if errors.As(err, &parseErr) {
			return errorResponse(c, fiber.StatusBadRequest, "failed to parse email")
		}
		var classErr *core.ClassificationError
		if errors.As(err, &classErr) {
			s.logger.Warn("Classification failed", zap.Error(err))
			return errorResponse(c, fiber.StatusBadGateway, "classification service failed")
		}
		s.logger.Error("Processing failed", zap.Error(err))
		return errorResponse(c, fiber.StatusInternalServerError, "internal server error")
	}

	message := "Email processed successfully"
	if outcome.Duplicate {
		message = "Duplicate email detected."
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":   message,
		"duplicate": outcome.Duplicate,
		"email":     outcome.Record,
	})
}

// ListEmails returns stored records, newest first.
// GET /api/emails
func (s *Server) ListEmails(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", s.listLimit)
	if limit <= 0 || limit > s.listLimit {
		limit = s.listLimit
	}

	records, err := s.store.List(c.Context(), limit)
	if err != nil {
		s.logger.Error("Failed to list records", zap.Error(err))
		return errorResponse(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"emails": records})
}

// GetEmail returns one stored record by fingerprint.
// GET /api/emails/:fingerprint
func (s *Server) GetEmail(c *fiber.Ctx) error {
	fingerprint := c.Params("fingerprint")

	record, err := s.store.FindByFingerprint(c.Context(), fingerprint)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "email not found")
		}
		s.logger.Error("Failed to fetch record", zap.Error(err))
		return errorResponse(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"email": record})
}

func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}
