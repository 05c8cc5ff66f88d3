package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"blogapi/internal/errors"
	"blogapi/internal/middleware"
	"blogapi/internal/service"
)

// PostHandler handles post endpoints.
type PostHandler struct {
	postService service.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// PostRequest represents a post create/update payload.
type PostRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

// LikeResponse reports the like toggle outcome.
type LikeResponse struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

func pathID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// Create godoc
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param request body PostRequest true "Post payload"
// @Success 201 {object} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	var req PostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	principal := middleware.PrincipalFrom(c)
	post, err := h.postService.Create(c.Request().Context(), principal.UserID, req.Title, req.Content)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, post)
}

// List godoc
// @Summary List posts, newest first
// @Tags posts
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {array} model.Post
// @Router /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))

	posts, err := h.postService.List(c.Request().Context(), page, size)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// Get godoc
// @Summary Get a post by id
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} model.Post
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return httpError(errors.ErrPostNotFound)
	}

	post, err := h.postService.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// Update godoc
// @Summary Update a post (owner only)
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body PostRequest true "Post payload"
// @Success 200 {object} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return httpError(errors.ErrPostNotFound)
	}

	var req PostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.postService.Update(c.Request().Context(), id, req.Title, req.Content)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// Delete godoc
// @Summary Delete a post and all its likes and comments (owner only)
// @Tags posts
// @Param id path int true "Post ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return httpError(errors.ErrPostNotFound)
	}

	if err := h.postService.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AdminDelete godoc
// @Summary Delete any post (admin only)
// @Tags posts
// @Param id path int true "Post ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /posts/admin/{id} [delete]
func (h *PostHandler) AdminDelete(c echo.Context) error {
	return h.Delete(c)
}

// ToggleLike godoc
// @Summary Toggle the caller's like on a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} LikeResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id}/like [post]
func (h *PostHandler) ToggleLike(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return httpError(errors.ErrPostNotFound)
	}

	principal := middleware.PrincipalFrom(c)
	liked, count, err := h.postService.ToggleLike(c.Request().Context(), id, principal.UserID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, LikeResponse{Liked: liked, LikeCount: count})
}

// LikeCount godoc
// @Summary Get the like count of a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} map[string]int64
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id}/likes [get]
func (h *PostHandler) LikeCount(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return httpError(errors.ErrPostNotFound)
	}

	count, err := h.postService.LikeCount(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"like_count": count})
}
