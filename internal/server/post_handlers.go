package server

import (
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts. The author is always the
// authenticated requester; any author supplied in the body is ignored.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		Title      string `json:"title"`
		Content    string `json:"content"`
		CategoryID *uint  `json:"category_id"`
		TagIDs     []uint `json:"tag_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	// Validate required fields
	if req.Title == "" || req.Content == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title and content are required"))
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *req.CategoryID); err != nil {
			return respondRepoError(c, err, "Category", *req.CategoryID)
		}
	}

	tags, err := s.tagRepo.GetByIDs(ctx, req.TagIDs)
	if err != nil {
		return respondRepoError(c, err, "Tag", req.TagIDs)
	}

	post := &models.Post{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
		AuthorID:   &userID,
	}

	if err := s.postRepo.Create(ctx, post, tags); err != nil {
		return respondRepoError(c, err, "Post", 0)
	}

	// Load relations for response
	created, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetPosts handles GET /api/posts with optional filters:
// category (ID), tags (comma-separated IDs), published_date (YYYY-MM-DD),
// search (title/content/tag name/author username) and ordering
// (published_date, -published_date, title, -title).
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	page := parsePagination(c, 20)

	in := repository.ListPostsInput{
		PublishedDate: c.Query("published_date"),
		Search:        c.Query("search"),
		Ordering:      c.Query("ordering"),
		Limit:         page.Limit,
		Offset:        page.Offset,
	}

	if category := c.QueryInt("category", 0); category > 0 {
		in.CategoryID = uint(category)
	}
	if tags := c.Query("tags"); tags != "" {
		ids, err := parseUintList(tags)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid tags filter"))
		}
		in.TagIDs = ids
	}

	posts, err := s.postRepo.List(ctx, in)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return respondRepoError(c, err, "Post", id)
	}

	return c.JSON(post)
}

// GetPostsByCategory handles GET /api/posts/category/:name. An unknown
// category yields an empty list, not an error.
func (s *Server) GetPostsByCategory(c *fiber.Ctx) error {
	ctx := c.UserContext()
	name := c.Params("name")
	page := parsePagination(c, 20)

	posts, err := s.postRepo.GetByCategoryName(ctx, name, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(posts)
}

// GetPostsByAuthor handles GET /api/posts/author/:username. An unknown
// username yields an empty list, not an error.
func (s *Server) GetPostsByAuthor(c *fiber.Ctx) error {
	ctx := c.UserContext()
	username := c.Params("username")
	page := parsePagination(c, 20)

	posts, err := s.postRepo.GetByAuthorUsername(ctx, username, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(posts)
}

// UpdatePost handles PUT /api/posts/:id. Only the author may update.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return respondRepoError(c, err, "Post", id)
	}
	if post.AuthorID == nil || *post.AuthorID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only edit your own posts"))
	}

	var req struct {
		Title      *string `json:"title"`
		Content    *string `json:"content"`
		CategoryID *uint   `json:"category_id"`
		TagIDs     []uint  `json:"tag_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Title != nil {
		if *req.Title == "" {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Title cannot be empty"))
		}
		post.Title = *req.Title
	}
	if req.Content != nil {
		if *req.Content == "" {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Content cannot be empty"))
		}
		post.Content = *req.Content
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *req.CategoryID); err != nil {
			return respondRepoError(c, err, "Category", *req.CategoryID)
		}
		post.CategoryID = req.CategoryID
	}

	var tags []models.Tag
	replaceTags := req.TagIDs != nil
	if replaceTags {
		tags, err = s.tagRepo.GetByIDs(ctx, req.TagIDs)
		if err != nil {
			return respondRepoError(c, err, "Tag", req.TagIDs)
		}
	}

	if err := s.postRepo.Update(ctx, post, tags, replaceTags); err != nil {
		return respondRepoError(c, err, "Post", id)
	}

	updated, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(updated)
}

// DeletePost handles DELETE /api/posts/:id. Only the author may delete;
// comments, likes and ratings go with the post.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return respondRepoError(c, err, "Post", id)
	}
	if post.AuthorID == nil || *post.AuthorID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only delete your own posts"))
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		return respondRepoError(c, err, "Post", id)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
