package server

import (
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetCategories handles GET /api/categories
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.categoryRepo.List(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(categories)
}

// CreateCategory handles POST /api/categories. Names are stored
// lowercase so "News" and "news" collide.
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category := &models.Category{Name: req.Name}
	if err := s.categoryRepo.Create(c.UserContext(), category); err != nil {
		return respondRepoError(c, err, "Category", req.Name)
	}

	return c.Status(fiber.StatusCreated).JSON(category)
}

// DeleteCategory handles DELETE /api/categories/:id. Posts in the
// category survive with their category cleared.
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.categoryRepo.Delete(c.UserContext(), id); err != nil {
		return respondRepoError(c, err, "Category", id)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetTags handles GET /api/tags
func (s *Server) GetTags(c *fiber.Ctx) error {
	tags, err := s.tagRepo.List(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(tags)
}

// CreateTag handles POST /api/tags. The slug is derived from the name
// when omitted.
func (s *Server) CreateTag(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tag := &models.Tag{Name: req.Name, Slug: req.Slug}
	if err := s.tagRepo.Create(c.UserContext(), tag); err != nil {
		return respondRepoError(c, err, "Tag", req.Name)
	}

	return c.Status(fiber.StatusCreated).JSON(tag)
}
