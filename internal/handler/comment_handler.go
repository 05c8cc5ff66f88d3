package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"blogapi/internal/errors"
	"blogapi/internal/middleware"
	"blogapi/internal/service"
)

// CommentHandler handles comment endpoints.
type CommentHandler struct {
	commentService service.CommentService
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CommentRequest represents a comment create/update payload.
type CommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// Add godoc
// @Summary Add a comment to a post
// @Tags comments
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body CommentRequest true "Comment payload"
// @Success 201 {object} model.Comment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id}/comments [post]
func (h *CommentHandler) Add(c echo.Context) error {
	postID, ok := pathID(c)
	if !ok {
		return httpError(errors.ErrPostNotFound)
	}

	var req CommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	principal := middleware.PrincipalFrom(c)
	comment, err := h.commentService.Add(c.Request().Context(), postID, principal.UserID, req.Content)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, comment)
}

// ListByPost godoc
// @Summary List comments for a post, newest first
// @Tags comments
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {array} model.Comment
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id}/comments [get]
func (h *CommentHandler) ListByPost(c echo.Context) error {
	postID, ok := pathID(c)
	if !ok {
		return httpError(errors.ErrPostNotFound)
	}

	comments, err := h.commentService.ListByPost(c.Request().Context(), postID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, comments)
}

// CountByPost godoc
// @Summary Get the comment count of a post
// @Tags comments
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} map[string]int64
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id}/comments/count [get]
func (h *CommentHandler) CountByPost(c echo.Context) error {
	postID, ok := pathID(c)
	if !ok {
		return httpError(errors.ErrPostNotFound)
	}

	count, err := h.commentService.CountByPost(c.Request().Context(), postID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"comment_count": count})
}

// Get godoc
// @Summary Get a comment by id
// @Tags comments
// @Produce json
// @Param id path int true "Comment ID"
// @Success 200 {object} model.Comment
// @Failure 404 {object} errors.ErrorResponse
// @Router /comments/{id} [get]
func (h *CommentHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return httpError(errors.ErrCommentNotFound)
	}

	comment, err := h.commentService.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, comment)
}

// Update godoc
// @Summary Update a comment (owner only)
// @Tags comments
// @Accept json
// @Produce json
// @Param id path int true "Comment ID"
// @Param request body CommentRequest true "Comment payload"
// @Success 200 {object} model.Comment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /comments/{id} [put]
func (h *CommentHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return httpError(errors.ErrCommentNotFound)
	}

	var req CommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.commentService.Update(c.Request().Context(), id, req.Content)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, comment)
}

// Delete godoc
// @Summary Delete a comment (owner only)
// @Tags comments
// @Param id path int true "Comment ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return httpError(errors.ErrCommentNotFound)
	}

	if err := h.commentService.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
