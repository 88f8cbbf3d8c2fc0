package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ashwch/bol/internal/journal"
)

type ResolveRequest struct {
	Transcript  string `json:"transcript"`
	CurrentPath string `json:"currentPath"`
	Locale      string `json:"locale,omitempty"`
	SessionID   string `json:"sessionId,omitempty"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	cat := s.resolver.Catalog()
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": s.version,
		"locale":  s.resolver.Locale(),
		"routes":  len(cat.Routes),
		"fields":  len(cat.Fields),
	})
}

func (s *Server) handleRoutes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"routes": s.resolver.Catalog().Routes})
}

func (s *Server) handleFields(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"fields": s.resolver.Catalog().Fields})
}

func (s *Server) handleResolve(c *fiber.Ctx) error {
	var req ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "request body must be JSON with a transcript field")
	}
	if strings.TrimSpace(req.Transcript) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "transcript cannot be empty")
	}
	path := strings.TrimSpace(req.CurrentPath)
	if path == "" {
		path = "/"
	}

	result := s.resolve(journal.SourceHTTP, req.SessionID, req.Transcript, path, req.Locale)
	return c.JSON(result)
}
