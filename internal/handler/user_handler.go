package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"blogapi/internal/middleware"
)

// UserHandler bundles user-facing identity endpoints.
type UserHandler struct{}

// NewUserHandler creates a handler layer.
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Me godoc
// @Summary Return the authenticated principal
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /me [get]
func (h *UserHandler) Me(c echo.Context) error {
	principal := middleware.PrincipalFrom(c)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":       principal.UserID,
		"username": principal.Username,
		"role":     principal.Role,
	})
}
