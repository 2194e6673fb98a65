package server

import (
	"context"
	"fmt"

	"inkwell/internal/mail"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// SharePost handles POST /api/posts/:id/share. Delivery runs in the
// background; a failed send is logged and counted but never surfaces to
// the caller, who already got a 200.
func (s *Server) SharePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Email == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Recipient email is required"))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return respondRepoError(c, err, "Post", postID)
	}

	sender, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	body := post.Content
	if req.Message != "" {
		body = req.Message + "\n\n---\n\n" + body
	}
	msg := mail.Message{
		To:      req.Email,
		Subject: fmt.Sprintf("%s shared a post with you: %s", sender.Username, post.Title),
		Body:    body,
	}

	// Fiber recycles the request context, so the send gets its own.
	go func() {
		if sendErr := s.mailer.Send(context.Background(), msg); sendErr != nil {
			middleware.Logger.Error("share email not delivered",
				"post_id", postID,
				"error", sendErr,
			)
		}
	}()

	return c.JSON(fiber.Map{"status": "shared"})
}
