package server

import (
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// PostAction handles POST /api/posts/:id. The body selects the
// engagement action:
//
//	{"action": "like"}              toggles the requester's like
//	{"action": "rate", "rating": n} records a 1-5 rating, replacing any
//	                                earlier rating by the same user
func (s *Server) PostAction(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Action string `json:"action"`
		Rating *int   `json:"rating"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	switch req.Action {
	case "like":
		liked, err := s.engagementRepo.ToggleLike(ctx, postID, userID)
		if err != nil {
			return respondRepoError(c, err, "Post", postID)
		}
		status := "unliked"
		if liked {
			status = "liked"
		}
		return c.JSON(fiber.Map{"status": status})

	case "rate":
		if req.Rating == nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Rating is required"))
		}
		if err := s.engagementRepo.Rate(ctx, postID, userID, *req.Rating); err != nil {
			return respondRepoError(c, err, "Post", postID)
		}
		return c.JSON(fiber.Map{"status": "rated", "rating": *req.Rating})

	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Action must be 'like' or 'rate'"))
	}
}

// MostLikedPosts handles GET /api/posts/most-liked
func (s *Server) MostLikedPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 10)

	posts, err := s.engagementRepo.MostLiked(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(posts)
}

// HighestRatedPosts handles GET /api/posts/highest-rated
func (s *Server) HighestRatedPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 10)

	posts, err := s.engagementRepo.HighestRated(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(posts)
}
