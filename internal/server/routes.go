package server

import (
	"fmt"
	"runtime"

	"github.com/gofiber/fiber/v2"

	"sixia/internal/apperr"
	"sixia/internal/database/dto"
	"sixia/internal/identity"
)

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}

func (s *FiberServer) RegisterFiberRoutes() {
	s.App.Get("/health", s.healthHandler)
	// endpoint to monitor memory
	s.App.Get("/memory", func(c *fiber.Ctx) error {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		memoryInfo := fmt.Sprintf("Alloc = %v MiB, TotalAlloc = %v MiB, Sys = %v MiB, NumGC = %v",
			bToMb(m.Alloc), bToMb(m.TotalAlloc), bToMb(m.Sys), m.NumGC)
		return c.SendString(memoryInfo)
	})

	s.App.Post("/auth/register", s.registerUser)
	s.App.Post("/auth/login", s.login)
	s.App.Get("/auth/me", s.currentUser)

	s.App.Post("/notes", s.createNote)
	s.App.Get("/notes", s.getAllNotes)
	s.App.Get("/notes/:id", s.getSingleNote)
	s.App.Put("/notes/:id", s.updateNote)
	s.App.Delete("/notes/:id", s.deleteNote)

	s.App.Get("/settings", s.getSettings)
	s.App.Put("/settings", s.updateSettings)
}

func (s *FiberServer) healthHandler(c *fiber.Ctx) error {
	if s.db == nil {
		return c.JSON(fiber.Map{"status": "up", "store": "memory"})
	}
	health := s.db.Health(c.UserContext())
	if health["status"] != "up" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(health)
	}
	return c.JSON(health)
}

func (s *FiberServer) registerUser(c *fiber.Ctx) error {
	req := dto.RegisterRequest{}
	if err := c.BodyParser(&req); err != nil {
		return apperr.InvalidInput("malformed request body")
	}
	user, err := s.auth.Register(c.UserContext(), req.Email, req.Password, req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user})
}

func (s *FiberServer) login(c *fiber.Ctx) error {
	credentials := dto.LoginCredentials{}
	if err := c.BodyParser(&credentials); err != nil {
		return apperr.InvalidInput("malformed request body")
	}
	session, err := s.auth.Login(c.UserContext(), credentials.Email, credentials.Password)
	if err != nil {
		return err
	}
	return c.JSON(session)
}

func (s *FiberServer) currentUser(c *fiber.Ctx) error {
	user, err := s.auth.User(c.UserContext(), identity.FromCtx(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": user})
}

// noteContent returns the submitted content, or nil when the body cannot be
// parsed, leaving the rejection to the service so identity is checked first.
func noteContent(c *fiber.Ctx) any {
	req := dto.NoteRequest{}
	if err := c.BodyParser(&req); err != nil {
		return nil
	}
	return req.Content
}

func (s *FiberServer) createNote(c *fiber.Ctx) error {
	note, err := s.notes.CreateNote(c.UserContext(), identity.FromCtx(c), noteContent(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"note": note})
}

func (s *FiberServer) getAllNotes(c *fiber.Ctx) error {
	notes, err := s.notes.SearchNotes(c.UserContext(), identity.FromCtx(c), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"notes": notes})
}

func (s *FiberServer) getSingleNote(c *fiber.Ctx) error {
	note, err := s.notes.GetNote(c.UserContext(), identity.FromCtx(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"note": note})
}

func (s *FiberServer) updateNote(c *fiber.Ctx) error {
	note, err := s.notes.UpdateNote(c.UserContext(), identity.FromCtx(c), c.Params("id"), noteContent(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"note": note})
}

func (s *FiberServer) deleteNote(c *fiber.Ctx) error {
	if err := s.notes.DeleteNote(c.UserContext(), identity.FromCtx(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "note deleted"})
}

func (s *FiberServer) getSettings(c *fiber.Ctx) error {
	prefs, err := s.prefs.Get(c.UserContext(), identity.FromCtx(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"preferences": prefs})
}

func (s *FiberServer) updateSettings(c *fiber.Ctx) error {
	caller := identity.FromCtx(c)
	req := dto.PreferencesRequest{}
	if err := c.BodyParser(&req); err != nil {
		if caller == "" {
			return apperr.ErrUnauthorized
		}
		return apperr.InvalidInput("malformed request body")
	}
	prefs, err := s.prefs.Update(c.UserContext(), caller, req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"preferences": prefs})
}
